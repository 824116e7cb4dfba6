package usecase

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/interfaces"
	"github.com/naba-lab/parcellate/pkg/domain/model"
)

type pipeline struct {
	toolkit interfaces.Toolkit
	slicer  interfaces.SlicerLauncher
	store   interfaces.RunStore
}

// Option configures the pipeline use case.
type Option func(*pipeline)

// WithRunStore enables run-history recording.
func WithRunStore(store interfaces.RunStore) Option {
	return func(p *pipeline) {
		p.store = store
	}
}

// NewPipeline creates the parcellation pipeline use case.
func NewPipeline(toolkit interfaces.Toolkit, slicer interfaces.SlicerLauncher, opts ...Option) interfaces.PipelineUseCase {
	p := &pipeline{
		toolkit: toolkit,
		slicer:  slicer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// runState carries the per-run values that stages hand to each other.
type runState struct {
	opts   *model.PipelineOptions
	atlas  *model.Atlas
	layout *model.CaseLayout

	// activeInput is the tractography file fed into registration; it
	// moves to the transformed copy when an input transform is given.
	activeInput string

	// finalClusters is where anatomical tract aggregation and
	// measurements read clusters from: the inverse-transformed tree
	// when an input transform was applied, the separated tree
	// otherwise.
	finalClusters string
}

// Run executes the full pipeline for one case. Stages are sequential;
// a stage whose sentinel output already exists is skipped, so an
// interrupted run can be resumed by re-invoking with the same
// arguments.
func (p *pipeline) Run(ctx context.Context, opts *model.PipelineOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	atlas, err := p.resolveAtlas(opts)
	if err != nil {
		return err
	}

	layout := model.NewCaseLayout(opts.OutputRoot, opts.InputFile)
	logger := ctxlog.From(ctx)
	logger.Info("Starting parcellation",
		"subject", layout.SubjectID,
		"input", opts.InputFile,
		"mode", string(opts.Mode),
		"threads", opts.Threads,
		"dry_run", opts.DryRun,
	)

	if !opts.DryRun {
		if err := os.MkdirAll(layout.Root, 0o755); err != nil {
			return goerr.Wrap(err, "failed to create case directory", goerr.V("dir", layout.Root))
		}
	}

	run := model.NewRunRecord(opts, layout)
	if p.store != nil && !opts.DryRun {
		if err := p.store.BeginRun(ctx, run); err != nil {
			return err
		}
	}

	st := &runState{
		opts:        opts,
		atlas:       atlas,
		layout:      layout,
		activeInput: opts.InputFile,
	}
	runErr := p.runStages(ctx, run, st)

	if p.store != nil && !opts.DryRun {
		run.Finish(runErr)
		if err := p.store.FinishRun(ctx, run); err != nil {
			logger.Warn("Failed to record run finish", "error", err, "run_id", run.ID)
		}
	}
	if runErr != nil {
		return runErr
	}

	logger.Info("Parcellation complete", "subject", layout.SubjectID, "output", layout.Root)
	return nil
}

func (p *pipeline) runStages(ctx context.Context, run *model.RunRecord, st *runState) error {
	stages := []struct {
		name string
		fn   func(context.Context, *runState) (bool, error)
	}{
		{"input_transform", p.stageInputTransform},
		{"registration", p.stageRegistration},
		{"initial_clustering", p.stageInitialClustering},
		{"outlier_removal", p.stageOutlierRemoval},
		{"hemisphere_assessment", p.stageHemisphereAssessment},
		{"back_transform", p.stageBackTransform},
		{"hemisphere_separation", p.stageHemisphereSeparation},
		{"inverse_transform", p.stageInverseTransform},
		{"anatomical_tracts", p.stageAnatomicalTracts},
		{"measurements", p.stageMeasurements},
		{"cleanup", p.stageCleanup},
	}

	logger := ctxlog.From(ctx)
	for _, stage := range stages {
		start := time.Now()
		skipped, err := stage.fn(ctx, st)

		if p.store != nil && !st.opts.DryRun {
			rec := &model.StageRecord{
				RunID:    run.ID,
				Stage:    stage.name,
				Duration: time.Since(start),
				Skipped:  skipped,
			}
			if storeErr := p.store.RecordStage(ctx, rec); storeErr != nil {
				logger.Warn("Failed to record stage", "stage", stage.name, "error", storeErr)
			}
		}

		if err != nil {
			return goerr.Wrap(err, "pipeline stage failed",
				goerr.V("stage", stage.name),
				goerr.V("subject", st.layout.SubjectID),
			)
		}
		if skipped {
			logger.Debug("Stage output up to date", "stage", stage.name)
		} else {
			logger.Info("Stage finished", "stage", stage.name, "elapsed", time.Since(start).String())
		}
	}
	return nil
}

// resolveAtlas validates the atlas layout. In dry-run mode a missing
// atlas is tolerated so the plan can be printed before data is staged;
// the default NABA folder names are assumed.
func (p *pipeline) resolveAtlas(opts *model.PipelineOptions) (*model.Atlas, error) {
	atlas, err := model.ResolveAtlas(opts.AtlasRoot, opts.LocationFile)
	if err != nil {
		if opts.DryRun {
			return model.PlaceholderAtlas(opts.AtlasRoot), nil
		}
		return nil, err
	}
	return atlas, nil
}

func (p *pipeline) ensureDir(st *runState, dir string) error {
	if st.opts.DryRun {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("dir", dir))
	}
	return nil
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
