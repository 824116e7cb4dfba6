package config

import (
	"github.com/naba-lab/parcellate/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// Pipeline holds the parcellation run configuration
type Pipeline struct {
	Input        string
	Output       string
	Atlas        string
	Transform    string
	Registration string
	Threads      int
	Cleanup      int
	LocationFile string
	DryRun       bool
}

// Flags returns CLI flags for pipeline configuration
func (c *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Input tractography data in VTK format (.vtk or .vtp), RAS coordinates",
			Required:    true,
			Destination: &c.Input,
			Sources:     cli.EnvVars("PARCELLATE_INPUT"),
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output directory root (a case subfolder is created)",
			Destination: &c.Output,
			Sources:     cli.EnvVars("PARCELLATE_OUTPUT"),
		},
		&cli.StringFlag{
			Name:        "atlas",
			Aliases:     []string{"a"},
			Usage:       "Atlas root folder containing the registration and 800FC folders",
			Destination: &c.Atlas,
			Sources:     cli.EnvVars("PARCELLATE_ATLAS"),
		},
		&cli.StringFlag{
			Name:        "transform",
			Aliases:     []string{"t"},
			Usage:       "Optional transform file to match subject data to adult brain size",
			Destination: &c.Transform,
			Sources:     cli.EnvVars("PARCELLATE_TRANSFORM"),
		},
		&cli.StringFlag{
			Name:        "registration",
			Aliases:     []string{"r"},
			Usage:       "Registration mode: rig or nonrig",
			Value:       string(model.RegistrationRigid),
			Destination: &c.Registration,
			Sources:     cli.EnvVars("PARCELLATE_REGISTRATION"),
		},
		&cli.IntFlag{
			Name:        "threads",
			Aliases:     []string{"n"},
			Usage:       "Number of threads for the clustering tools",
			Value:       1,
			Destination: &c.Threads,
			Sources:     cli.EnvVars("PARCELLATE_THREADS"),
		},
		&cli.IntFlag{
			Name:        "cleanup",
			Aliases:     []string{"c"},
			Usage:       "Clean temporary files: 0 keep all, 1 minimal, 2 maximal",
			Value:       0,
			Destination: &c.Cleanup,
			Sources:     cli.EnvVars("PARCELLATE_CLEANUP"),
		},
		&cli.StringFlag{
			Name:        "cluster-location-file",
			Usage:       "Fallback cluster hemisphere location table when the atlas ships none",
			Destination: &c.LocationFile,
			Sources:     cli.EnvVars("PARCELLATE_CLUSTER_LOCATION_FILE"),
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Print the planned external commands without executing anything",
			Destination: &c.DryRun,
			Sources:     cli.EnvVars("PARCELLATE_DRY_RUN"),
		},
	}
}

// Options assembles validated pipeline options from the pipeline and
// Slicer configuration.
func (c *Pipeline) Options(slicer *Slicer) (*model.PipelineOptions, error) {
	mode, err := model.ParseRegistrationMode(c.Registration)
	if err != nil {
		return nil, err
	}
	cleanup, err := model.ParseCleanupLevel(c.Cleanup)
	if err != nil {
		return nil, err
	}

	return &model.PipelineOptions{
		InputFile:          c.Input,
		OutputRoot:         c.Output,
		AtlasRoot:          c.Atlas,
		SlicerPath:         slicer.Path,
		Transform:          c.Transform,
		Mode:               mode,
		Threads:            c.Threads,
		UseXvfb:            slicer.Xvfb,
		ExportMeasurements: slicer.Measurements,
		MeasurementsModule: slicer.Module,
		Cleanup:            cleanup,
		LocationFile:       c.LocationFile,
		DryRun:             c.DryRun,
	}, nil
}
