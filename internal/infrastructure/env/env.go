package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"trip-planner/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

type EnvService struct {
	lookup func(string) (string, bool)
}

// NewEnvService layers .env, the process environment and .env.$APP_ENV, in
// increasing priority. Missing files are not an error. The process
// environment itself is never modified.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	base, err := godotenv.Read(".env")
	if err != nil {
		log.Printf("Info: no .env file with secrets found (this is OK for CI/CD)")
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	overrides, err := godotenv.Read(envFile)
	if err != nil {
		log.Printf("Info: could not load %s: %v", envFile, err)
	}

	log.Printf("Environment loaded: APP_ENV=%s", appEnv)

	return &EnvService{lookup: func(key string) (string, bool) {
		if v, ok := overrides[key]; ok {
			return v, true
		}
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := base[key]
		return v, ok
	}}
}

// NewMapEnvService reads from a fixed map instead of the process environment.
func NewMapEnvService(values map[string]string) *EnvService {
	return &EnvService{lookup: func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}}
}

func (e *EnvService) Get(key string) string {
	val, _ := e.lookup(key)
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetFloat(key string, defaultValue float64) float64 {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
