package interfaces

import "context"

// SlicerLauncher abstracts the 3D Slicer installation used to launch
// compiled CLI modules.
type SlicerLauncher interface {
	// MeasurementCommand builds the single-string command used to run
	// the FiberTractMeasurements module through Slicer.
	MeasurementCommand(ctx context.Context, module string) string
}
