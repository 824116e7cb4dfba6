package model_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

func TestParseRegistrationMode(t *testing.T) {
	tests := []struct {
		input   string
		want    model.RegistrationMode
		wantErr bool
	}{
		{"rig", model.RegistrationRigid, false},
		{"nonrig", model.RegistrationNonrigid, false},
		{"", "", true},
		{"rigid", "", true},
		{"affine", "", true},
	}

	for _, tt := range tests {
		t.Run("mode "+tt.input, func(t *testing.T) {
			got, err := model.ParseRegistrationMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("mode = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseCleanupLevel(t *testing.T) {
	for _, v := range []int{0, 1, 2} {
		if _, err := model.ParseCleanupLevel(v); err != nil {
			t.Errorf("ParseCleanupLevel(%d) unexpected error: %v", v, err)
		}
	}
	for _, v := range []int{-1, 3, 100} {
		if _, err := model.ParseCleanupLevel(v); err == nil {
			t.Errorf("ParseCleanupLevel(%d) should fail", v)
		}
	}
}

func validOptions(t *testing.T) *model.PipelineOptions {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "sub01.vtk")
	slicer := filepath.Join(dir, "Slicer")
	for _, f := range []string{input, slicer} {
		if err := os.WriteFile(f, []byte("x"), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return &model.PipelineOptions{
		InputFile:  input,
		OutputRoot: filepath.Join(dir, "out"),
		AtlasRoot:  dir,
		SlicerPath: slicer,
		Threads:    4,
	}
}

func TestPipelineOptions_Validate(t *testing.T) {
	t.Run("valid options pass and default mode", func(t *testing.T) {
		opts := validOptions(t)
		if err := opts.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Mode != model.RegistrationRigid {
			t.Errorf("Mode = %q, want rig default", opts.Mode)
		}
	})

	t.Run("thread count clamped to 1", func(t *testing.T) {
		opts := validOptions(t)
		opts.Threads = 0
		if err := opts.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.Threads != 1 {
			t.Errorf("Threads = %d, want 1", opts.Threads)
		}
	})

	t.Run("missing input file", func(t *testing.T) {
		opts := validOptions(t)
		opts.InputFile = filepath.Join(t.TempDir(), "missing.vtk")
		if err := opts.Validate(); err == nil {
			t.Error("expected error for missing input")
		}
	})

	t.Run("missing slicer", func(t *testing.T) {
		opts := validOptions(t)
		opts.SlicerPath = filepath.Join(t.TempDir(), "missing")
		if err := opts.Validate(); err == nil {
			t.Error("expected error for missing Slicer")
		}
	})

	t.Run("missing transform file", func(t *testing.T) {
		opts := validOptions(t)
		opts.Transform = filepath.Join(t.TempDir(), "missing.tfm")
		if err := opts.Validate(); err == nil {
			t.Error("expected error for missing transform")
		}
	})

	t.Run("measurements require module path", func(t *testing.T) {
		opts := validOptions(t)
		opts.ExportMeasurements = true
		if err := opts.Validate(); err == nil {
			t.Error("expected error for measurements without module")
		}
		opts.MeasurementsModule = "/some/module"
		if err := opts.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("missing output root", func(t *testing.T) {
		opts := validOptions(t)
		opts.OutputRoot = ""
		if err := opts.Validate(); err == nil {
			t.Error("expected error for empty output root")
		}
	})

	t.Run("dry run tolerates missing files", func(t *testing.T) {
		opts := &model.PipelineOptions{
			InputFile:  "/nope/sub01.vtk",
			OutputRoot: "/nope/out",
			SlicerPath: "/nope/Slicer",
			DryRun:     true,
		}
		if err := opts.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("dry run still rejects bad mode", func(t *testing.T) {
		opts := &model.PipelineOptions{
			InputFile:  "/nope/sub01.vtk",
			OutputRoot: "/nope/out",
			Mode:       "sideways",
			DryRun:     true,
		}
		if err := opts.Validate(); err == nil {
			t.Error("expected error for invalid mode")
		}
	})
}
