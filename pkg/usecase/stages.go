package usecase

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/interfaces"
	"github.com/naba-lab/parcellate/pkg/domain/model"
	"github.com/naba-lab/parcellate/pkg/utils/parallel"
)

// stageInputTransform applies the optional user transform that scales
// the subject data to atlas (adult brain) size. The transformed copy
// becomes the active input for registration.
func (p *pipeline) stageInputTransform(ctx context.Context, st *runState) (bool, error) {
	if st.opts.Transform == "" {
		return true, nil
	}

	destDir := st.layout.TransformedTractsDir()
	if err := p.ensureDir(st, destDir); err != nil {
		return false, err
	}

	srcDir := filepath.Dir(st.opts.InputFile)
	if err := p.toolkit.HardenTransform(ctx, st.opts.Transform, srcDir, destDir, st.opts.SlicerPath, false); err != nil {
		return false, err
	}

	transformed := filepath.Join(destDir, filepath.Base(st.opts.InputFile))
	if !st.opts.DryRun && !fileExists(transformed) {
		return false, goerr.New("transformed input not found", goerr.V("expected", transformed))
	}
	st.activeInput = transformed
	return false, nil
}

// stageRegistration registers the subject tractography to the atlas.
// Rigid mode is one pass; nonrigid mode runs an affine pass and then a
// nonrigid refinement on the affine output.
func (p *pipeline) stageRegistration(ctx context.Context, st *runState) (bool, error) {
	regDir := st.layout.RegistrationDir()
	if err := p.ensureDir(st, regDir); err != nil {
		return false, err
	}

	atlasFile := st.atlas.RegistrationAtlas()
	affineOutput := st.layout.AffineRegOutput()
	skipped := true

	firstMode := interfaces.ModeRigidAffineFast
	if st.opts.Mode == model.RegistrationNonrigid {
		firstMode = interfaces.ModeAffine
	}
	if st.opts.DryRun || !fileExists(affineOutput) {
		if err := p.toolkit.RegisterToAtlas(ctx, firstMode, st.activeInput, atlasFile, regDir); err != nil {
			return false, err
		}
		skipped = false
	}

	if st.opts.Mode == model.RegistrationNonrigid {
		nonrigOutput := st.layout.NonrigRegOutput()
		if st.opts.DryRun || !fileExists(nonrigOutput) {
			if err := p.toolkit.RegisterToAtlas(ctx, interfaces.ModeNonrigid, affineOutput, atlasFile, regDir); err != nil {
				return false, err
			}
			skipped = false
		}
	}

	if !st.opts.DryRun && !fileExists(st.layout.RegOutput(st.opts.Mode)) {
		return false, goerr.New("registration output not found",
			goerr.V("expected", st.layout.RegOutput(st.opts.Mode)))
	}
	return skipped, nil
}

func (p *pipeline) stageInitialClustering(ctx context.Context, st *runState) (bool, error) {
	outDir := st.layout.InitialClustersDir()
	if err := p.ensureDir(st, outDir); err != nil {
		return false, err
	}

	sentinel := filepath.Join(st.layout.InitialClusterCaseDir(st.opts.Mode), model.LastClusterFile)
	if !st.opts.DryRun && fileExists(sentinel) {
		return true, nil
	}

	err := p.toolkit.ClusterFromAtlas(ctx, st.opts.Threads,
		st.layout.RegOutput(st.opts.Mode), st.atlas.FCDir, outDir)
	return false, err
}

func (p *pipeline) stageOutlierRemoval(ctx context.Context, st *runState) (bool, error) {
	outDir := st.layout.OutlierClustersDir()
	if err := p.ensureDir(st, outDir); err != nil {
		return false, err
	}

	sentinel := filepath.Join(st.layout.OutlierRemovedDir(st.opts.Mode), model.LastClusterFile)
	if !st.opts.DryRun && fileExists(sentinel) {
		return true, nil
	}

	err := p.toolkit.RemoveOutliers(ctx, st.opts.Threads,
		st.layout.InitialClusterCaseDir(st.opts.Mode), st.atlas.FCDir, outDir)
	return false, err
}

func (p *pipeline) stageHemisphereAssessment(ctx context.Context, st *runState) (bool, error) {
	outlierDir := st.layout.OutlierRemovedDir(st.opts.Mode)
	sentinel := filepath.Join(outlierDir, model.HemisphereLogFile)
	if !st.opts.DryRun && fileExists(sentinel) {
		return true, nil
	}

	err := p.toolkit.AssessClusterLocation(ctx, st.atlas.LocationFile, outlierDir)
	return false, err
}

// stageBackTransform maps the outlier-removed clusters back into
// subject space by inverting the registration transforms. Nonrigid
// mode inverts the nonrigid and affine transforms in two passes
// through a tmp directory.
func (p *pipeline) stageBackTransform(ctx context.Context, st *runState) (bool, error) {
	destDir := st.layout.TransformedClustersDir()
	if err := p.ensureDir(st, destDir); err != nil {
		return false, err
	}

	outlierDir := st.layout.OutlierRemovedDir(st.opts.Mode)
	sentinel := filepath.Join(destDir, model.LastClusterFile)
	skipped := true

	if st.opts.Mode == model.RegistrationRigid {
		tfm := st.layout.AffineTransform()
		if !st.opts.DryRun && !fileExists(tfm) {
			return false, goerr.New("registration transform not found", goerr.V("expected", tfm))
		}
		if st.opts.DryRun || !fileExists(sentinel) {
			if err := p.toolkit.HardenTransform(ctx, tfm, outlierDir, destDir, st.opts.SlicerPath, true); err != nil {
				return false, err
			}
			skipped = false
		}
	} else {
		tfmNonrig := st.layout.NonrigTransform()
		tfmAffine := st.layout.AffineTransform()
		if !st.opts.DryRun {
			if !fileExists(tfmNonrig) {
				return false, goerr.New("nonrigid transform not found", goerr.V("expected", tfmNonrig))
			}
			if !fileExists(tfmAffine) {
				return false, goerr.New("affine transform not found", goerr.V("expected", tfmAffine))
			}
		}

		tmpDir := filepath.Join(destDir, "tmp")
		if err := p.ensureDir(st, tmpDir); err != nil {
			return false, err
		}
		if st.opts.DryRun || !fileExists(filepath.Join(tmpDir, model.LastClusterFile)) {
			if err := p.toolkit.HardenTransform(ctx, tfmNonrig, outlierDir, tmpDir, st.opts.SlicerPath, true); err != nil {
				return false, err
			}
			skipped = false
		}
		if st.opts.DryRun || !fileExists(sentinel) {
			if err := p.toolkit.HardenTransform(ctx, tfmAffine, tmpDir, destDir, st.opts.SlicerPath, true); err != nil {
				return false, err
			}
			skipped = false
		}
	}

	if !st.opts.DryRun && !fileExists(sentinel) {
		return false, goerr.New("transformed clusters not found", goerr.V("expected", sentinel))
	}
	return skipped, nil
}

func (p *pipeline) stageHemisphereSeparation(ctx context.Context, st *runState) (bool, error) {
	outDir := st.layout.SeparatedClustersDir()
	if err := p.ensureDir(st, outDir); err != nil {
		return false, err
	}

	sentinel := filepath.Join(outDir, "tracts_commissural", model.LastClusterFile)
	if !st.opts.DryRun && fileExists(sentinel) {
		return true, nil
	}

	err := p.toolkit.SeparateClustersByHemisphere(ctx, st.layout.TransformedClustersDir(), outDir)
	return false, err
}

// stageInverseTransform maps each separated cluster group back to the
// original (pre input-transform) subject space. Only runs when an
// input transform was given.
func (p *pipeline) stageInverseTransform(ctx context.Context, st *runState) (bool, error) {
	st.finalClusters = st.layout.SeparatedClustersDir()
	if st.opts.Transform == "" {
		return true, nil
	}

	invDir := st.layout.InvTransformedDir()
	if err := p.ensureDir(st, invDir); err != nil {
		return false, err
	}

	groups, err := p.clusterGroups(st)
	if err != nil {
		return false, err
	}

	skipped := true
	for _, group := range groups {
		srcDir := filepath.Join(st.layout.SeparatedClustersDir(), group)
		outDir := filepath.Join(invDir, group)
		if err := p.ensureDir(st, outDir); err != nil {
			return false, err
		}
		if !st.opts.DryRun && fileExists(filepath.Join(outDir, model.LastClusterFile)) {
			continue
		}
		if err := p.toolkit.HardenTransform(ctx, st.opts.Transform, srcDir, outDir, st.opts.SlicerPath, true); err != nil {
			return false, err
		}
		skipped = false
	}

	st.finalClusters = invDir
	return skipped, nil
}

// clusterGroups lists the separated cluster subdirectories. In dry-run
// mode the three hemisphere groups are assumed.
func (p *pipeline) clusterGroups(st *runState) ([]string, error) {
	if st.opts.DryRun {
		return sortedGroupDirs(), nil
	}

	entries, err := os.ReadDir(st.layout.SeparatedClustersDir())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list separated clusters",
			goerr.V("dir", st.layout.SeparatedClustersDir()))
	}
	var groups []string
	for _, e := range entries {
		if e.IsDir() {
			groups = append(groups, e.Name())
		}
	}
	sort.Strings(groups)
	return groups, nil
}

func sortedGroupDirs() []string {
	dirs := make([]string, 0, len(model.HemisphereGroups))
	for _, dir := range model.HemisphereGroups {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func (p *pipeline) stageAnatomicalTracts(ctx context.Context, st *runState) (bool, error) {
	outDir := st.layout.AnatomicalTractsDir()
	if err := p.ensureDir(st, outDir); err != nil {
		return false, err
	}

	sentinel := filepath.Join(outDir, model.SentinelTractFile)
	if !st.opts.DryRun && fileExists(sentinel) {
		return true, nil
	}

	err := p.toolkit.AppendAnatomicalTracts(ctx, st.finalClusters, st.atlas.FCDir, outDir)
	return false, err
}

// stageMeasurements exports diffusion measurement CSVs for the three
// hemisphere groups and the anatomical tracts, then summarizes them.
// The hemisphere exports are independent and run concurrently.
func (p *pipeline) stageMeasurements(ctx context.Context, st *runState) (bool, error) {
	if !st.opts.ExportMeasurements {
		return true, nil
	}

	launchCmd := p.slicer.MeasurementCommand(ctx, st.opts.MeasurementsModule)

	type export struct {
		inputDir string
		outCSV   string
	}
	var exports []export
	names := make([]string, 0, len(model.HemisphereGroups))
	for name := range model.HemisphereGroups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		exports = append(exports, export{
			inputDir: filepath.Join(st.finalClusters, model.HemisphereGroups[name]),
			outCSV:   st.layout.HemisphereMeasurementCSV(name),
		})
	}

	var tasks []func(ctx context.Context) error
	for _, ex := range exports {
		if !st.opts.DryRun && fileExists(ex.outCSV) {
			continue
		}
		ex := ex
		tasks = append(tasks, func(ctx context.Context) error {
			return p.toolkit.DiffusionMeasurements(ctx, ex.inputDir, ex.outCSV, launchCmd)
		})
	}

	skipped := len(tasks) == 0
	if st.opts.DryRun {
		// Sequential in dry-run so the printed plan is deterministic.
		for _, task := range tasks {
			if err := task(ctx); err != nil {
				return false, err
			}
		}
	} else if err := parallel.Run(ctx, tasks...); err != nil {
		return false, err
	}

	tractsCSV := st.layout.AnatomicalMeasurementCSV()
	if st.opts.DryRun || !fileExists(tractsCSV) {
		if err := p.toolkit.DiffusionMeasurements(ctx, st.layout.AnatomicalTractsDir(), tractsCSV, launchCmd); err != nil {
			return false, err
		}
		skipped = false
	}

	if st.opts.DryRun {
		return skipped, nil
	}
	return skipped, p.writeSummary(ctx, st)
}

func (p *pipeline) stageCleanup(ctx context.Context, st *runState) (bool, error) {
	if st.opts.Cleanup == model.CleanupNone || st.opts.DryRun {
		return true, nil
	}
	p.cleanup(ctx, st)
	return false, nil
}
