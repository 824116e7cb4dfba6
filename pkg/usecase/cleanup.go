package usecase

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// cleanup removes intermediate files according to the cleanup level.
// Failures here are warnings only: the parcellation results are
// already on disk and a partial cleanup must not fail the run.
func (p *pipeline) cleanup(ctx context.Context, st *runState) {
	logger := ctxlog.From(ctx)
	warn := func(what string, err error) {
		if err != nil && !os.IsNotExist(err) {
			logger.Warn("Cleanup failed", "target", what, "error", err)
		}
	}

	if st.opts.Cleanup >= model.CleanupMinimal {
		warn("initial clusters", os.RemoveAll(st.layout.InitialClustersDir()))
		warn("transformed clusters", os.RemoveAll(st.layout.TransformedClustersRoot()))
	}

	if st.opts.Cleanup >= model.CleanupMaximal {
		p.stripRegistration(ctx, st)

		outlierDir := st.layout.OutlierClustersDir()
		if entries, err := os.ReadDir(outlierDir); err == nil {
			for _, e := range entries {
				warn("outlier clusters", os.RemoveAll(filepath.Join(outlierDir, e.Name())))
			}
		}
	}
}

// stripRegistration deletes the bulky registration intermediates
// (iteration snapshots and registered tractography) while keeping the
// transforms and logs.
func (p *pipeline) stripRegistration(ctx context.Context, st *runState) {
	logger := ctxlog.From(ctx)
	regDir := st.layout.RegistrationDir()

	vtks, err := filepath.Glob(filepath.Join(regDir, "*", "*", "output_tractography", "*.vtk"))
	if err == nil {
		for _, f := range vtks {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				logger.Warn("Cleanup failed", "target", f, "error", err)
			}
		}
	}

	iterations, err := filepath.Glob(filepath.Join(regDir, "*", "*", "iteration*"))
	if err == nil {
		for _, d := range iterations {
			if err := os.RemoveAll(d); err != nil {
				logger.Warn("Cleanup failed", "target", d, "error", err)
			}
		}
	}
}
