package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trip-planner/internal/adapter/tool"
	"trip-planner/internal/application/port/input"
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/application/service"
	"trip-planner/internal/domain/entity"
	"trip-planner/internal/infrastructure/prompts"
	"trip-planner/internal/usecase/pipeline"
	"trip-planner/internal/usecase/stage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var _ input.TripPlanner = (*UseCase)(nil)

const (
	DefaultSearchTimeout = 30 * time.Second
	DefaultRunTimeout    = 10 * time.Minute
)

type Config struct {
	Stage         stage.Config
	SearchTimeout time.Duration
	// RunTimeout bounds a whole pipeline run on top of the caller's context.
	RunTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Stage:         stage.DefaultConfig(),
		SearchTimeout: DefaultSearchTimeout,
		RunTimeout:    DefaultRunTimeout,
	}
}

// UseCase plans one trip per call. The model and search handles are built
// per run from the caller's credentials, so nothing secret is shared
// between runs.
type UseCase struct {
	newLLM    output.LLMFactory
	newSearch output.SearchFactory
	templates []entity.StageTemplate
	logger    output.LoggerPort
	observer  output.PipelineObserver
	validate  *validator.Validate
	cfg       Config
	newRunID  func() string
}

func New(
	newLLM output.LLMFactory,
	newSearch output.SearchFactory,
	templates []entity.StageTemplate,
	logger output.LoggerPort,
	observer output.PipelineObserver,
	cfg Config,
) *UseCase {
	if observer == nil {
		observer = service.NopObserver{}
	}
	return &UseCase{
		newLLM:    newLLM,
		newSearch: newSearch,
		templates: templates,
		logger:    logger,
		observer:  observer,
		validate:  validator.New(),
		cfg:       cfg,
		newRunID:  uuid.NewString,
	}
}

func (uc *UseCase) Plan(ctx context.Context, req entity.TripRequest, creds entity.Credentials) (*entity.Itinerary, error) {
	req.Destination = strings.TrimSpace(req.Destination)
	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("Rejected trip request", "error", err)
		return nil, err
	}
	if err := creds.Validate(); err != nil {
		uc.logger.Warn("Rejected trip request", "error", err)
		return nil, err
	}

	runID := uc.newRunID()
	log := uc.logger.WithFields(map[string]any{
		"run_id":      runID,
		"destination": req.Destination,
		"budget":      req.Budget,
	})

	stages, err := prompts.RenderStages(uc.templates, req)
	if err != nil {
		return nil, fmt.Errorf("render stages: %w", err)
	}

	registry := service.NewToolRegistry()
	registry.Register(tool.NewWebSearchTool(uc.newSearch(creds.SearchAPIKey), log, uc.cfg.SearchTimeout))

	executor := stage.New(uc.newLLM(creds.LLMAPIKey), registry, stages, log, uc.observer, uc.cfg.Stage)
	runner := pipeline.NewRunner(executor, log, uc.observer)

	if uc.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.RunTimeout)
		defer cancel()
	}

	log.Info("Planning trip", "stages", len(stages))
	start := time.Now()

	outputs, err := runner.Run(ctx, stages)
	if err != nil {
		log.Error("Trip planning failed", "error", err)
		return nil, err
	}

	itinerary := &entity.Itinerary{
		RunID:       runID,
		Destination: req.Destination,
		Budget:      req.Budget,
		Text:        outputs[len(outputs)-1].Output,
		Stages:      outputs,
		Duration:    time.Since(start),
	}
	log.Info("Trip planned", "duration", itinerary.Duration, "textLen", len(itinerary.Text))
	return itinerary, nil
}

func (uc *UseCase) validateRequest(req entity.TripRequest) error {
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", entity.ErrMissingInput)
	}
	if err := uc.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", entity.ErrMissingInput, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", entity.ErrMissingInput, err)
	}
	return nil
}
