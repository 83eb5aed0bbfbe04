package service

import (
	"context"
	"time"

	"trip-planner/internal/application/port/output"
	"trip-planner/internal/domain/entity"
)

var _ output.PipelineObserver = Observers(nil)

// Observers fans every notification out to each member in order.
type Observers []output.PipelineObserver

func (o Observers) StageStarted(ctx context.Context, stage entity.Stage, index, total int) {
	for _, obs := range o {
		obs.StageStarted(ctx, stage, index, total)
	}
}

func (o Observers) ToolInvoked(ctx context.Context, stage entity.StageName, tool entity.ToolName, arguments string) {
	for _, obs := range o {
		obs.ToolInvoked(ctx, stage, tool, arguments)
	}
}

func (o Observers) StageCompleted(ctx context.Context, stage entity.StageName, output string, elapsed time.Duration) {
	for _, obs := range o {
		obs.StageCompleted(ctx, stage, output, elapsed)
	}
}

func (o Observers) StageFailed(ctx context.Context, stage entity.StageName, err error, elapsed time.Duration) {
	for _, obs := range o {
		obs.StageFailed(ctx, stage, err, elapsed)
	}
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) StageStarted(context.Context, entity.Stage, int, int)                    {}
func (NopObserver) ToolInvoked(context.Context, entity.StageName, entity.ToolName, string)  {}
func (NopObserver) StageCompleted(context.Context, entity.StageName, string, time.Duration) {}
func (NopObserver) StageFailed(context.Context, entity.StageName, error, time.Duration)     {}
