package di

import (
	"time"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
	"trip-planner/internal/infrastructure/llm/openaicompat"
	"trip-planner/internal/infrastructure/search/serper"
	"trip-planner/internal/infrastructure/web"
	"trip-planner/internal/usecase/planner"
	"trip-planner/internal/usecase/stage"
)

type Config struct {
	Addr string

	// Operator credentials are optional; see web.Config.
	Operator entity.Credentials

	LLMModel       string
	LLMBaseURL     string
	LLMTemperature float64
	LLMTimeout     time.Duration

	SearchBaseURL string
	SearchResults int
	SearchTimeout time.Duration

	MaxIterations int
	RunTimeout    time.Duration

	LogLevel      string
	LogFile       string
	AccessLogJSON bool
	// Verbose prints stage progress to stdout.
	Verbose bool
}

// LoadConfig reads the configuration from cfg, falling back to defaults for
// anything unset.
func LoadConfig(cfg output.ConfigPort) Config {
	return Config{
		Addr: cfg.GetWithDefault("PLANNER_ADDR", web.DefaultAddr),
		Operator: entity.Credentials{
			LLMAPIKey:    cfg.Get("OPENAI_API_KEY"),
			SearchAPIKey: cfg.Get("SERPER_API_KEY"),
		},
		LLMModel:       cfg.GetWithDefault("LLM_MODEL", openaicompat.DefaultModel),
		LLMBaseURL:     cfg.Get("LLM_BASE_URL"),
		LLMTemperature: cfg.GetFloat("LLM_TEMPERATURE", stage.DefaultTemperature),
		LLMTimeout:     cfg.GetDuration("LLM_TIMEOUT", stage.DefaultCallTimeout),
		SearchBaseURL:  cfg.GetWithDefault("SERPER_BASE_URL", serper.DefaultBaseURL),
		SearchResults:  cfg.GetInt("SEARCH_RESULTS", serper.DefaultMaxResults),
		SearchTimeout:  cfg.GetDuration("SEARCH_TIMEOUT", planner.DefaultSearchTimeout),
		MaxIterations:  cfg.GetInt("STAGE_MAX_ITERATIONS", stage.DefaultMaxIterations),
		RunTimeout:     cfg.GetDuration("RUN_TIMEOUT", planner.DefaultRunTimeout),
		LogLevel:       cfg.GetWithDefault("LOG_LEVEL", "info"),
		LogFile:        cfg.Get("LOG_FILE"),
		AccessLogJSON:  cfg.GetBool("ACCESS_LOG_JSON", true),
		Verbose:        cfg.GetBool("VERBOSE", true),
	}
}
