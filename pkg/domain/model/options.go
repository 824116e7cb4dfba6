package model

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// RegistrationMode selects how the subject is registered to the atlas.
type RegistrationMode string

const (
	// RegistrationRigid runs a single rigid+affine registration pass.
	RegistrationRigid RegistrationMode = "rig"
	// RegistrationNonrigid runs an affine pass followed by a nonrigid
	// refinement pass.
	RegistrationNonrigid RegistrationMode = "nonrig"
)

// ParseRegistrationMode validates a mode string from the CLI.
func ParseRegistrationMode(s string) (RegistrationMode, error) {
	switch RegistrationMode(s) {
	case RegistrationRigid, RegistrationNonrigid:
		return RegistrationMode(s), nil
	default:
		return "", goerr.New("invalid registration mode, must be rig or nonrig", goerr.V("mode", s))
	}
}

// CleanupLevel controls removal of intermediate files after the
// pipeline completes.
type CleanupLevel int

const (
	// CleanupNone keeps everything.
	CleanupNone CleanupLevel = 0
	// CleanupMinimal removes initial and transformed cluster folders.
	CleanupMinimal CleanupLevel = 1
	// CleanupMaximal additionally strips registration intermediates and
	// outlier-removed cluster contents.
	CleanupMaximal CleanupLevel = 2
)

// ParseCleanupLevel validates a cleanup level from the CLI.
func ParseCleanupLevel(v int) (CleanupLevel, error) {
	switch CleanupLevel(v) {
	case CleanupNone, CleanupMinimal, CleanupMaximal:
		return CleanupLevel(v), nil
	default:
		return 0, goerr.New("invalid cleanup level, must be 0, 1 or 2", goerr.V("level", v))
	}
}

// PipelineOptions are the validated inputs of one parcellation run.
type PipelineOptions struct {
	InputFile          string
	OutputRoot         string
	AtlasRoot          string
	SlicerPath         string
	Transform          string
	Mode               RegistrationMode
	Threads            int
	UseXvfb            bool
	ExportMeasurements bool
	MeasurementsModule string
	Cleanup            CleanupLevel
	LocationFile       string
	DryRun             bool
}

// Validate checks file inputs and normalizes paths and thread count.
// In dry-run mode missing inputs are tolerated so a plan can be
// printed before data exists.
func (o *PipelineOptions) Validate() error {
	if o.Threads < 1 {
		o.Threads = 1
	}

	abs, err := filepath.Abs(o.InputFile)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve input path", goerr.V("input", o.InputFile))
	}
	o.InputFile = abs

	if o.OutputRoot == "" {
		return goerr.New("output root is required")
	}
	if o.OutputRoot, err = filepath.Abs(o.OutputRoot); err != nil {
		return goerr.Wrap(err, "failed to resolve output root")
	}

	if o.ExportMeasurements && o.MeasurementsModule == "" {
		return goerr.New("measurement export requires the FiberTractMeasurements module path")
	}

	if o.Mode == "" {
		o.Mode = RegistrationRigid
	}
	if _, err := ParseRegistrationMode(string(o.Mode)); err != nil {
		return err
	}

	if o.DryRun {
		return nil
	}

	if fi, err := os.Stat(o.InputFile); err != nil || !fi.Mode().IsRegular() {
		return goerr.New("input file not found", goerr.V("input", o.InputFile))
	}
	if _, err := os.Stat(o.SlicerPath); err != nil {
		return goerr.New("3D Slicer not found", goerr.V("slicer", o.SlicerPath))
	}
	if o.Transform != "" {
		if fi, err := os.Stat(o.Transform); err != nil || !fi.Mode().IsRegular() {
			return goerr.New("transform file not found", goerr.V("transform", o.Transform))
		}
		if o.Transform, err = filepath.Abs(o.Transform); err != nil {
			return goerr.Wrap(err, "failed to resolve transform path")
		}
	}
	return nil
}
