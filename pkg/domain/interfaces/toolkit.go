package interfaces

import "context"

// Registration modes accepted by the registration tool.
const (
	ModeRigidAffineFast = "rigid_affine_fast"
	ModeAffine          = "affine"
	ModeNonrigid        = "nonrigid"
)

// Toolkit defines the WMA fiber-clustering operations the pipeline
// depends on. Each method maps to one external command-line tool.
type Toolkit interface {
	// RegisterToAtlas registers input tractography to the atlas with
	// the given tool mode (rigid_affine_fast, affine or nonrigid).
	RegisterToAtlas(ctx context.Context, mode, input, atlasFile, outDir string) error

	// ClusterFromAtlas computes the initial per-cluster parcellation.
	ClusterFromAtlas(ctx context.Context, threads int, regOutput, fcDir, outDir string) error

	// RemoveOutliers filters implausible fibers from each cluster.
	RemoveOutliers(ctx context.Context, threads int, clusterDir, fcDir, outDir string) error

	// AssessClusterLocation annotates clusters with their hemisphere
	// location using the atlas location table.
	AssessClusterLocation(ctx context.Context, locationFile, clusterDir string) error

	// HardenTransform applies (or inverts) an ITK transform to every
	// tractography file in sourceDir. Requires Slicer and a display.
	HardenTransform(ctx context.Context, transform, sourceDir, destDir, slicerPath string, inverse bool) error

	// SeparateClustersByHemisphere splits clusters into commissural,
	// left and right hemisphere groups.
	SeparateClustersByHemisphere(ctx context.Context, inDir, outDir string) error

	// AppendAnatomicalTracts aggregates clusters into named anatomical
	// tracts.
	AppendAnatomicalTracts(ctx context.Context, clusterDir, fcDir, outDir string) error

	// DiffusionMeasurements exports a diffusion measurement CSV for a
	// tract directory through the given Slicer launch command.
	DiffusionMeasurements(ctx context.Context, inputDir, outCSV, launchCmd string) error
}
