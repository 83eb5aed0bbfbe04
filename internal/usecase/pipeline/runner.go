package pipeline

import (
	"context"
	"time"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/application/service"
	"trip-planner/internal/domain/entity"
)

// StageExecutor runs one stage given the outputs of the stages before it.
type StageExecutor interface {
	Execute(ctx context.Context, stage entity.Stage, prior []entity.StageOutput) (*entity.StageOutput, error)
}

// Runner executes stages strictly in order. Each stage sees every earlier
// output; the first failure stops the run.
type Runner struct {
	executor StageExecutor
	logger   output.LoggerPort
	observer output.PipelineObserver
	now      func() time.Time
}

func NewRunner(executor StageExecutor, logger output.LoggerPort, observer output.PipelineObserver) *Runner {
	if observer == nil {
		observer = service.NopObserver{}
	}
	return &Runner{
		executor: executor,
		logger:   logger,
		observer: observer,
		now:      time.Now,
	}
}

// Run returns the outputs of all stages in execution order. The last one is
// the final plan.
func (r *Runner) Run(ctx context.Context, stages []entity.Stage) ([]entity.StageOutput, error) {
	if len(stages) == 0 {
		return nil, entity.ErrNoStages
	}

	outputs := make([]entity.StageOutput, 0, len(stages))
	for i, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, &entity.StageError{Stage: stage.Name, Err: err}
		}

		r.logger.Info("Stage started", "stage", string(stage.Name), "index", i+1, "total", len(stages))
		r.observer.StageStarted(ctx, stage, i+1, len(stages))
		start := r.now()

		prior := make([]entity.StageOutput, len(outputs))
		copy(prior, outputs)

		out, err := r.executor.Execute(ctx, stage, prior)
		elapsed := r.now().Sub(start)
		if err != nil {
			r.logger.Error("Stage failed", "stage", string(stage.Name), "error", err, "elapsed", elapsed)
			r.observer.StageFailed(ctx, stage.Name, err, elapsed)
			return nil, &entity.StageError{Stage: stage.Name, Err: err}
		}

		r.logger.Info("Stage completed", "stage", string(stage.Name), "iterations", out.Iterations, "elapsed", elapsed)
		r.observer.StageCompleted(ctx, stage.Name, out.Output, elapsed)
		outputs = append(outputs, *out)
	}

	return outputs, nil
}
