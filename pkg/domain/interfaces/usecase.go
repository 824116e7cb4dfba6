package interfaces

import (
	"context"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// PipelineUseCase runs the full parcellation pipeline for one case.
type PipelineUseCase interface {
	Run(ctx context.Context, opts *model.PipelineOptions) error
}
