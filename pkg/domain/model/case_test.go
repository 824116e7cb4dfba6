package model_test

import (
	"path/filepath"
	"testing"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

func TestNewCaseLayout_SubjectID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"vtk input", "/data/tracts/sub-1001.vtk", "sub-1001"},
		{"vtp input", "/data/tracts/case_02.vtp", "case_02"},
		{"no extension", "/data/tracts/case03", "case03"},
		{"dotted name keeps earlier dots", "/data/sub.01.vtk", "sub.01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := model.NewCaseLayout("/out", tt.input)
			if layout.SubjectID != tt.want {
				t.Errorf("SubjectID = %q, want %q", layout.SubjectID, tt.want)
			}
			if layout.Root != filepath.Join("/out", tt.want) {
				t.Errorf("Root = %q, want %q", layout.Root, filepath.Join("/out", tt.want))
			}
		})
	}
}

func TestCaseLayout_Directories(t *testing.T) {
	layout := model.NewCaseLayout("/out", "/in/sub01.vtk")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"transformed tracts", layout.TransformedTractsDir(), "/out/sub01/TransformedTracts"},
		{"registration", layout.RegistrationDir(), "/out/sub01/TractRegistration"},
		{"initial clusters", layout.InitialClustersDir(), "/out/sub01/FiberClustering/InitialClusters"},
		{"outlier clusters", layout.OutlierClustersDir(), "/out/sub01/FiberClustering/OutlierRemovedClusters"},
		{"transformed clusters", layout.TransformedClustersDir(), "/out/sub01/FiberClustering/TransformedClusters/sub01"},
		{"separated clusters", layout.SeparatedClustersDir(), "/out/sub01/FiberClustering/SeparatedClusters"},
		{"inverse transformed", layout.InvTransformedDir(), "/out/sub01/InvTransformedTracts"},
		{"anatomical tracts", layout.AnatomicalTractsDir(), "/out/sub01/AnatomicalTracts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != filepath.FromSlash(tt.want) {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestCaseLayout_RegistrationOutputs(t *testing.T) {
	layout := model.NewCaseLayout("/out", "/in/sub01.vtk")

	if got, want := layout.AffineRegOutput(), "/out/sub01/TractRegistration/sub01/output_tractography/sub01_reg.vtk"; got != filepath.FromSlash(want) {
		t.Errorf("AffineRegOutput = %q, want %q", got, want)
	}
	if got, want := layout.NonrigRegOutput(), "/out/sub01/TractRegistration/sub01_reg/output_tractography/sub01_reg_reg.vtk"; got != filepath.FromSlash(want) {
		t.Errorf("NonrigRegOutput = %q, want %q", got, want)
	}
	if got, want := layout.AffineTransform(), "/out/sub01/TractRegistration/sub01/output_tractography/itk_txform_sub01.tfm"; got != filepath.FromSlash(want) {
		t.Errorf("AffineTransform = %q, want %q", got, want)
	}
	if got, want := layout.NonrigTransform(), "/out/sub01/TractRegistration/sub01_reg/output_tractography/itk_txform_sub01_reg.tfm"; got != filepath.FromSlash(want) {
		t.Errorf("NonrigTransform = %q, want %q", got, want)
	}

	if got := layout.RegOutput(model.RegistrationRigid); got != layout.AffineRegOutput() {
		t.Errorf("RegOutput(rig) = %q", got)
	}
	if got := layout.RegOutput(model.RegistrationNonrigid); got != layout.NonrigRegOutput() {
		t.Errorf("RegOutput(nonrig) = %q", got)
	}
}

func TestCaseLayout_FCCaseID(t *testing.T) {
	layout := model.NewCaseLayout("/out", "/in/sub01.vtk")

	if got := layout.FCCaseID(model.RegistrationRigid); got != "sub01_reg" {
		t.Errorf("FCCaseID(rig) = %q", got)
	}
	if got := layout.FCCaseID(model.RegistrationNonrigid); got != "sub01_reg_reg" {
		t.Errorf("FCCaseID(nonrig) = %q", got)
	}

	if got, want := layout.OutlierRemovedDir(model.RegistrationRigid), "/out/sub01/FiberClustering/OutlierRemovedClusters/sub01_reg_outlier_removed"; got != filepath.FromSlash(want) {
		t.Errorf("OutlierRemovedDir = %q, want %q", got, want)
	}
}

func TestCaseLayout_MeasurementPaths(t *testing.T) {
	layout := model.NewCaseLayout("/out", "/in/sub01.vtk")

	if got, want := layout.HemisphereMeasurementCSV("left"), "/out/sub01/FiberClustering/SeparatedClusters/diffusion_measurements_left.csv"; got != filepath.FromSlash(want) {
		t.Errorf("HemisphereMeasurementCSV = %q, want %q", got, want)
	}
	if got, want := layout.AnatomicalMeasurementCSV(), "/out/sub01/AnatomicalTracts/diffusion_measurements_anatomical_tracts.csv"; got != filepath.FromSlash(want) {
		t.Errorf("AnatomicalMeasurementCSV = %q, want %q", got, want)
	}
	if got, want := layout.SummaryCSV(), "/out/sub01/measurement_summary.csv"; got != filepath.FromSlash(want) {
		t.Errorf("SummaryCSV = %q, want %q", got, want)
	}
}
