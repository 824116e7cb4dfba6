// Package wma invokes the whitematteranalysis (WMA) command-line
// tools. Each method builds the argv of one wm_*.py script and
// delegates execution to a CommandExecutor; the scripts are expected
// on PATH.
package wma

import (
	"context"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/interfaces"
	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// Toolkit implements interfaces.Toolkit over a CommandExecutor.
type Toolkit struct {
	exec interfaces.CommandExecutor
}

// New creates a Toolkit.
func New(exec interfaces.CommandExecutor) *Toolkit {
	return &Toolkit{exec: exec}
}

func (t *Toolkit) RegisterToAtlas(ctx context.Context, mode, input, atlasFile, outDir string) error {
	switch mode {
	case interfaces.ModeRigidAffineFast, interfaces.ModeAffine, interfaces.ModeNonrigid:
	default:
		return goerr.New("unknown registration tool mode", goerr.V("mode", mode))
	}
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_register_to_atlas_new.py",
		"-mode", mode,
		input,
		atlasFile,
		outDir,
	}})
}

func (t *Toolkit) ClusterFromAtlas(ctx context.Context, threads int, regOutput, fcDir, outDir string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_cluster_from_atlas.py",
		"-j", strconv.Itoa(threads),
		regOutput,
		fcDir,
		outDir,
		"-norender",
	}})
}

func (t *Toolkit) RemoveOutliers(ctx context.Context, threads int, clusterDir, fcDir, outDir string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_cluster_remove_outliers.py",
		"-j", strconv.Itoa(threads),
		clusterDir,
		fcDir,
		outDir,
	}})
}

func (t *Toolkit) AssessClusterLocation(ctx context.Context, locationFile, clusterDir string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_assess_cluster_location_by_hemisphere.py",
		"-clusterLocationFile", locationFile,
		clusterDir,
	}})
}

func (t *Toolkit) HardenTransform(ctx context.Context, transform, sourceDir, destDir, slicerPath string, inverse bool) error {
	argv := []string{"wm_harden_transform.py"}
	if inverse {
		argv = append(argv, "-i")
	}
	argv = append(argv, "-t", transform, sourceDir, destDir, slicerPath)
	return t.exec.Run(ctx, model.Command{Argv: argv, Xvfb: true})
}

func (t *Toolkit) SeparateClustersByHemisphere(ctx context.Context, inDir, outDir string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_separate_clusters_by_hemisphere.py",
		inDir,
		outDir,
	}})
}

func (t *Toolkit) AppendAnatomicalTracts(ctx context.Context, clusterDir, fcDir, outDir string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_append_clusters_to_anatomical_tracts_naba.py",
		clusterDir,
		fcDir,
		outDir,
	}})
}

func (t *Toolkit) DiffusionMeasurements(ctx context.Context, inputDir, outCSV, launchCmd string) error {
	return t.exec.Run(ctx, model.Command{Argv: []string{
		"wm_diffusion_measurements.py",
		inputDir,
		outCSV,
		launchCmd,
	}})
}
