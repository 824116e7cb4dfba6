package model

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Sentinel files used to decide whether a stage already produced its
// output. The atlas defines 800 clusters, so the last cluster file
// existing implies the stage completed.
const (
	LastClusterFile    = "cluster_00800.vtp"
	SentinelTractFile  = "T_UF_right.vtp"
	HemisphereLogFile  = "cluster_location_by_hemisphere.log"
	AnatomicalCSVName  = "diffusion_measurements_anatomical_tracts.csv"
	MeasurementSummary = "measurement_summary.csv"
)

// HemisphereGroups are the subdirectories produced by hemisphere
// separation, keyed by the short name used in measurement CSV files.
var HemisphereGroups = map[string]string{
	"commissural": "tracts_commissural",
	"left":        "tracts_left_hemisphere",
	"right":       "tracts_right_hemisphere",
}

// CaseLayout derives every per-case path in the output tree from the
// subject ID. The subject ID is the input file name without its
// extension.
type CaseLayout struct {
	SubjectID string
	Root      string
}

// NewCaseLayout builds the layout for one input file under the given
// output root.
func NewCaseLayout(outputRoot, inputFile string) *CaseLayout {
	base := filepath.Base(inputFile)
	id := strings.TrimSuffix(base, filepath.Ext(base))
	return &CaseLayout{
		SubjectID: id,
		Root:      filepath.Join(outputRoot, id),
	}
}

func (c *CaseLayout) TransformedTractsDir() string { return filepath.Join(c.Root, "TransformedTracts") }
func (c *CaseLayout) RegistrationDir() string      { return filepath.Join(c.Root, "TractRegistration") }
func (c *CaseLayout) ClusteringRoot() string       { return filepath.Join(c.Root, "FiberClustering") }
func (c *CaseLayout) AnatomicalTractsDir() string  { return filepath.Join(c.Root, "AnatomicalTracts") }
func (c *CaseLayout) InvTransformedDir() string    { return filepath.Join(c.Root, "InvTransformedTracts") }

func (c *CaseLayout) InitialClustersDir() string {
	return filepath.Join(c.ClusteringRoot(), "InitialClusters")
}

func (c *CaseLayout) OutlierClustersDir() string {
	return filepath.Join(c.ClusteringRoot(), "OutlierRemovedClusters")
}

func (c *CaseLayout) TransformedClustersRoot() string {
	return filepath.Join(c.ClusteringRoot(), "TransformedClusters")
}

func (c *CaseLayout) TransformedClustersDir() string {
	return filepath.Join(c.TransformedClustersRoot(), c.SubjectID)
}

func (c *CaseLayout) SeparatedClustersDir() string {
	return filepath.Join(c.ClusteringRoot(), "SeparatedClusters")
}

// RegSubjectDir is the per-subject folder created by the registration
// tool inside TractRegistration.
func (c *CaseLayout) RegSubjectDir() string {
	return filepath.Join(c.RegistrationDir(), c.SubjectID)
}

// NonrigSubjectDir is the second-pass folder used in nonrigid mode,
// named after the affine output.
func (c *CaseLayout) NonrigSubjectDir() string {
	return filepath.Join(c.RegistrationDir(), c.SubjectID+"_reg")
}

// AffineRegOutput is the registered tractography after the first
// (rigid/affine) registration pass.
func (c *CaseLayout) AffineRegOutput() string {
	return filepath.Join(c.RegSubjectDir(), "output_tractography", c.SubjectID+"_reg.vtk")
}

// NonrigRegOutput is the registered tractography after the nonrigid
// second pass.
func (c *CaseLayout) NonrigRegOutput() string {
	return filepath.Join(c.NonrigSubjectDir(), "output_tractography", c.SubjectID+"_reg_reg.vtk")
}

// RegOutput returns the final registration output for the mode.
func (c *CaseLayout) RegOutput(mode RegistrationMode) string {
	if mode == RegistrationNonrigid {
		return c.NonrigRegOutput()
	}
	return c.AffineRegOutput()
}

// AffineTransform is the ITK transform written by the rigid/affine
// registration pass.
func (c *CaseLayout) AffineTransform() string {
	return filepath.Join(c.RegSubjectDir(), "output_tractography",
		fmt.Sprintf("itk_txform_%s.tfm", c.SubjectID))
}

// NonrigTransform is the ITK transform written by the nonrigid pass.
func (c *CaseLayout) NonrigTransform() string {
	return filepath.Join(c.NonrigSubjectDir(), "output_tractography",
		fmt.Sprintf("itk_txform_%s_reg.tfm", c.SubjectID))
}

// FCCaseID is the case ID used by the clustering stages: the stem of
// the registration output.
func (c *CaseLayout) FCCaseID(mode RegistrationMode) string {
	if mode == RegistrationNonrigid {
		return c.SubjectID + "_reg_reg"
	}
	return c.SubjectID + "_reg"
}

// InitialClusterCaseDir is the per-case folder written by initial
// clustering.
func (c *CaseLayout) InitialClusterCaseDir(mode RegistrationMode) string {
	return filepath.Join(c.InitialClustersDir(), c.FCCaseID(mode))
}

// OutlierRemovedDir is the per-case folder written by outlier removal.
func (c *CaseLayout) OutlierRemovedDir(mode RegistrationMode) string {
	return filepath.Join(c.OutlierClustersDir(), c.FCCaseID(mode)+"_outlier_removed")
}

// HemisphereMeasurementCSV is the diffusion measurement table for one
// hemisphere group (commissural, left, right).
func (c *CaseLayout) HemisphereMeasurementCSV(group string) string {
	return filepath.Join(c.SeparatedClustersDir(),
		fmt.Sprintf("diffusion_measurements_%s.csv", group))
}

// AnatomicalMeasurementCSV is the diffusion measurement table for the
// aggregated anatomical tracts.
func (c *CaseLayout) AnatomicalMeasurementCSV() string {
	return filepath.Join(c.AnatomicalTractsDir(), AnatomicalCSVName)
}

// SummaryCSV is the per-case measurement summary written after export.
func (c *CaseLayout) SummaryCSV() string {
	return filepath.Join(c.Root, MeasurementSummary)
}
