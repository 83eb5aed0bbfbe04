package output

import (
	"context"
	"time"

	"trip-planner/internal/domain/entity"
)

// PipelineObserver receives progress notifications from the pipeline runner
// and the stage executor. Implementations must not block.
type PipelineObserver interface {
	StageStarted(ctx context.Context, stage entity.Stage, index, total int)
	ToolInvoked(ctx context.Context, stage entity.StageName, tool entity.ToolName, arguments string)
	StageCompleted(ctx context.Context, stage entity.StageName, output string, elapsed time.Duration)
	StageFailed(ctx context.Context, stage entity.StageName, err error, elapsed time.Duration)
}
