package main

import (
	"os"

	"trip-planner/internal/di"
	"trip-planner/internal/infrastructure/env"
)

func main() {
	cfg := di.LoadConfig(env.NewEnvService())
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
