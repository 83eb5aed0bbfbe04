package di

import (
	"fmt"

	"trip-planner/internal/application/port/input"
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/application/service"
	"trip-planner/internal/infrastructure/llm/openaicompat"
	"trip-planner/internal/infrastructure/logger"
	"trip-planner/internal/infrastructure/metrics"
	"trip-planner/internal/infrastructure/prompts"
	"trip-planner/internal/infrastructure/search/serper"
	"trip-planner/internal/infrastructure/userinteraction"
	"trip-planner/internal/infrastructure/web"
	"trip-planner/internal/usecase/planner"
	"trip-planner/internal/usecase/stage"
)

type Container struct {
	Logger  output.LoggerPort
	Metrics *metrics.Metrics
	Planner input.TripPlanner
	Server  *web.Server
}

func NewContainer(cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	templates, err := prompts.LoadStages()
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to load stages: %w", err)
	}

	m := metrics.New()
	observers := service.Observers{m}
	if cfg.Verbose {
		observers = append(observers, userinteraction.NewConsoleObserver())
	}

	newLLM := openaicompat.Factory(openaicompat.Config{
		Model:   cfg.LLMModel,
		BaseURL: cfg.LLMBaseURL,
		Logger:  log,
	})
	newSearch := serper.Factory(serper.Config{
		BaseURL:    cfg.SearchBaseURL,
		MaxResults: cfg.SearchResults,
		Logger:     log,
	})

	stageCfg := stage.DefaultConfig()
	stageCfg.Temperature = float32(cfg.LLMTemperature)
	stageCfg.MaxIterations = cfg.MaxIterations
	stageCfg.CallTimeout = cfg.LLMTimeout

	plannerCfg := planner.DefaultConfig()
	plannerCfg.Stage = stageCfg
	plannerCfg.SearchTimeout = cfg.SearchTimeout
	plannerCfg.RunTimeout = cfg.RunTimeout

	uc := m.InstrumentPlanner(planner.New(newLLM, newSearch, templates, log, observers, plannerCfg))

	server, err := web.NewServer(uc, log, m.Handler(), web.Config{
		Addr:          cfg.Addr,
		Operator:      cfg.Operator,
		AccessLogJSON: cfg.AccessLogJSON,
	})
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Container{
		Logger:  log,
		Metrics: m,
		Planner: uc,
		Server:  server,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}
