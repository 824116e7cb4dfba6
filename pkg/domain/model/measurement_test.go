package model_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measurements.csv")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseMeasurementFile(t *testing.T) {
	path := writeCSV(t, ""+
		"Name , Num_Fibers , FA1.Mean , FA1.Min\n"+
		"cluster_00001.vtp , 120 , 0.45 , 0.10\n"+
		"cluster_00002.vtp , 80 , 0.55 , 0.20\n"+
		"cluster_00003.vtp , 0 , NAN , NAN\n")

	table, err := model.ParseMeasurementFile(path)
	gt.NoError(t, err)
	gt.Equal(t, table.Metrics, []string{"Num_Fibers", "FA1.Mean", "FA1.Min"})
	gt.Equal(t, len(table.Rows), 3)
	gt.Value(t, table.Rows[0].Name).Equal("cluster_00001.vtp")
	gt.Value(t, table.Rows[0].Values[1]).Equal(0.45)
	gt.True(t, math.IsNaN(table.Rows[2].Values[1]))
}

func TestParseMeasurementFile_RaggedRow(t *testing.T) {
	path := writeCSV(t, ""+
		"Name,Num_Fibers,FA1.Mean\n"+
		"cluster_00001.vtp,120\n")

	table, err := model.ParseMeasurementFile(path)
	gt.NoError(t, err)
	gt.Equal(t, len(table.Rows[0].Values), 2)
	gt.True(t, math.IsNaN(table.Rows[0].Values[1]))
}

func TestParseMeasurementFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := model.ParseMeasurementFile(filepath.Join(t.TempDir(), "nope.csv"))
		gt.Error(t, err)
	})

	t.Run("no metric columns", func(t *testing.T) {
		path := writeCSV(t, "Name\ncluster_00001.vtp\n")
		_, err := model.ParseMeasurementFile(path)
		gt.Error(t, err)
	})
}

func TestMeasurementTable_Summarize(t *testing.T) {
	path := writeCSV(t, ""+
		"Name,FA1.Mean\n"+
		"a.vtp,0.40\n"+
		"b.vtp,0.50\n"+
		"c.vtp,0.60\n"+
		"d.vtp,NAN\n")

	table, err := model.ParseMeasurementFile(path)
	gt.NoError(t, err)

	summaries := table.Summarize()
	gt.Equal(t, len(summaries), 1)

	s := summaries[0]
	gt.Value(t, s.Metric).Equal("FA1.Mean")
	gt.Equal(t, s.Count, 3)
	if math.Abs(s.Mean-0.5) > 1e-9 {
		t.Errorf("Mean = %v, want 0.5", s.Mean)
	}
	gt.Value(t, s.Min).Equal(0.40)
	gt.Value(t, s.Max).Equal(0.60)
	gt.Number(t, s.StdDev).Greater(0.0)
}

func TestMeasurementTable_Summarize_AllNaN(t *testing.T) {
	path := writeCSV(t, "Name,FA1.Mean\na.vtp,NAN\n")

	table, err := model.ParseMeasurementFile(path)
	gt.NoError(t, err)

	summaries := table.Summarize()
	gt.Equal(t, summaries[0].Count, 0)
	gt.Value(t, summaries[0].Mean).Equal(0.0)
}
