package config

import "github.com/urfave/cli/v3"

// Slicer holds 3D Slicer configuration
type Slicer struct {
	Path         string
	Xvfb         bool
	Measurements bool
	Module       string
}

// Flags returns CLI flags for Slicer configuration
func (c *Slicer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slicer",
			Aliases:     []string{"s"},
			Usage:       "Path to the 3D Slicer executable",
			Destination: &c.Path,
			Sources:     cli.EnvVars("PARCELLATE_SLICER"),
		},
		&cli.BoolFlag{
			Name:        "xvfb",
			Aliases:     []string{"x"},
			Usage:       "Run display-dependent tools under xvfb-run (headless machines)",
			Destination: &c.Xvfb,
			Sources:     cli.EnvVars("PARCELLATE_XVFB"),
		},
		&cli.BoolFlag{
			Name:        "measurements",
			Aliases:     []string{"d"},
			Usage:       "Export diffusion measurement CSV tables",
			Destination: &c.Measurements,
			Sources:     cli.EnvVars("PARCELLATE_MEASUREMENTS"),
		},
		&cli.StringFlag{
			Name:        "measurements-module",
			Aliases:     []string{"m"},
			Usage:       "Path to the FiberTractMeasurements CLI module in SlicerDMRI",
			Destination: &c.Module,
			Sources:     cli.EnvVars("PARCELLATE_MEASUREMENTS_MODULE"),
		},
	}
}
