package interfaces

import (
	"context"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// RunStore persists pipeline run history.
type RunStore interface {
	BeginRun(ctx context.Context, run *model.RunRecord) error
	FinishRun(ctx context.Context, run *model.RunRecord) error
	RecordStage(ctx context.Context, stage *model.StageRecord) error
	RecentRuns(ctx context.Context, limit int) ([]*model.RunRecord, error)
	Close() error
}
