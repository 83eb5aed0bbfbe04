package stage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trip-planner/internal/adapter/tool"
	"trip-planner/internal/application/port/output"
	"trip-planner/internal/application/service"
	"trip-planner/internal/domain/entity"
	"trip-planner/internal/infrastructure/prompts"
)

const (
	DefaultMaxIterations = 20
	DefaultTemperature   = 0.5
	DefaultCallTimeout   = 2 * time.Minute

	maxObservationLen = 20000

	delegatedExpectedOutput = "Your best answer to your coworker asking you this, accounting for the context shared."
)

type Config struct {
	Temperature   float32
	MaxIterations int
	// CallTimeout bounds each individual model call.
	CallTimeout  time.Duration
	SystemPrompt string
	TaskPrompt   string
}

func DefaultConfig() Config {
	return Config{
		Temperature:   DefaultTemperature,
		MaxIterations: DefaultMaxIterations,
		CallTimeout:   DefaultCallTimeout,
		SystemPrompt:  prompts.AgentSystemPrompt,
		TaskPrompt:    prompts.AgentTaskPrompt,
	}
}

// Executor runs a single stage as a tool-calling conversation with the model.
type Executor struct {
	llm      output.LLMPort
	tools    output.ToolRegistry
	team     []entity.Stage
	logger   output.LoggerPort
	observer output.PipelineObserver
	cfg      Config
}

// New builds an executor. tools holds every tool a stage may list; team is
// the full set of stages, used to resolve delegation coworkers.
func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	team []entity.Stage,
	logger output.LoggerPort,
	observer output.PipelineObserver,
	cfg Config,
) *Executor {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = prompts.AgentSystemPrompt
	}
	if cfg.TaskPrompt == "" {
		cfg.TaskPrompt = prompts.AgentTaskPrompt
	}
	if observer == nil {
		observer = service.NopObserver{}
	}
	return &Executor{
		llm:      llm,
		tools:    tools,
		team:     team,
		logger:   logger,
		observer: observer,
		cfg:      cfg,
	}
}

// Execute runs stage with the outputs of earlier stages as context.
func (e *Executor) Execute(ctx context.Context, stage entity.Stage, prior []entity.StageOutput) (*entity.StageOutput, error) {
	registry := e.registryFor(stage)

	systemPrompt, err := prompts.GenerateSystemPrompt(e.cfg.SystemPrompt, stage, toolNames(registry), e.coworkerRoles(stage))
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	taskPrompt, err := prompts.GenerateTaskPrompt(e.cfg.TaskPrompt, stage, prior)
	if err != nil {
		return nil, fmt.Errorf("render task prompt: %w", err)
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: taskPrompt},
	}

	toolDefs := registry.Definitions()
	log := e.logger.WithField("stage", string(stage.Name))

	for iteration := 1; iteration <= e.cfg.MaxIterations; iteration++ {
		log.Debug("Starting iteration", "iteration", iteration)

		resp, err := e.chat(ctx, messages, toolDefs)
		if err != nil {
			return nil, err
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			log.Info("Stage answered", "iterations", iteration, "outputLen", len(resp.Message.Content))
			return &entity.StageOutput{
				Stage:      stage.Name,
				Role:       stage.Role,
				Output:     resp.Message.Content,
				Iterations: iteration,
			}, nil
		}

		for _, tc := range resp.Message.ToolCalls {
			observation, err := e.executeTool(ctx, log, registry, stage.Name, tc)
			if err != nil {
				return nil, err
			}

			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
			})
		}
	}

	return nil, fmt.Errorf("%w (%d)", entity.ErrMaxIterations, e.cfg.MaxIterations)
}

func (e *Executor) chat(ctx context.Context, messages []entity.Message, tools []entity.ToolDefinition) (*output.ChatResponse, error) {
	callCtx := ctx
	if e.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.cfg.CallTimeout)
		defer cancel()
	}

	resp, err := e.llm.Chat(callCtx, output.ChatRequest{
		Messages:    messages,
		Tools:       tools,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, entity.NewExternalError(entity.ServiceLLM, err)
	}
	return resp, nil
}

// executeTool returns the observation for a tool call. Failures of an
// external service abort the stage; anything else is reported to the model.
func (e *Executor) executeTool(
	ctx context.Context,
	log output.LoggerPort,
	registry output.ToolRegistry,
	stage entity.StageName,
	tc entity.ToolCall,
) (string, error) {
	name := entity.ToolName(tc.Name)
	t, ok := registry.Get(name)
	if !ok {
		log.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name), nil
	}

	log.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)
	e.observer.ToolInvoked(ctx, stage, name, tc.Arguments)

	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		var ext *entity.ExternalError
		if errors.As(err, &ext) {
			return "", err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		log.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error(), nil
	}

	if len(result) > maxObservationLen {
		result = result[:maxObservationLen] + "\n... (truncated)"
	}

	log.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	return result, nil
}

func (e *Executor) registryFor(stage entity.Stage) output.ToolRegistry {
	registry := service.NewToolRegistry()
	for _, name := range stage.Tools {
		if t, ok := e.tools.Get(name); ok {
			registry.Register(t)
		} else {
			e.logger.Warn("Stage lists unavailable tool", "stage", string(stage.Name), "tool", name.String())
		}
	}
	if coworkers := e.coworkers(stage); len(coworkers) > 0 {
		registry.Register(tool.NewDelegateWorkTool(coworkers, e.delegate(stage), e.logger))
	}
	return registry
}

func (e *Executor) coworkers(stage entity.Stage) []entity.Stage {
	if !stage.CanDelegate() {
		return nil
	}
	var result []entity.Stage
	for _, s := range e.team {
		if s.Name != stage.Name {
			result = append(result, s)
		}
	}
	return result
}

func (e *Executor) coworkerRoles(stage entity.Stage) []string {
	coworkers := e.coworkers(stage)
	roles := make([]string, 0, len(coworkers))
	for _, c := range coworkers {
		roles = append(roles, c.Role)
	}
	return roles
}

// delegate runs the coworker as a nested stage on the delegated task.
// Delegation is switched off for the nested run so it cannot recurse.
func (e *Executor) delegate(requester entity.Stage) tool.Delegator {
	return func(ctx context.Context, coworker entity.Stage, task, taskContext string) (string, error) {
		nested := coworker
		nested.Delegation = entity.CannotDelegate
		nested.Task = entity.TaskSpec{
			Description:    task,
			ExpectedOutput: delegatedExpectedOutput,
		}

		var prior []entity.StageOutput
		if taskContext != "" {
			prior = []entity.StageOutput{{Stage: requester.Name, Role: requester.Role, Output: taskContext}}
		}

		out, err := e.Execute(ctx, nested, prior)
		if err != nil {
			return "", err
		}
		return out.Output, nil
	}
}

func toolNames(registry output.ToolRegistry) []entity.ToolName {
	all := registry.All()
	names := make([]entity.ToolName, 0, len(all))
	for _, t := range all {
		names = append(names, t.Name())
	}
	return names
}
