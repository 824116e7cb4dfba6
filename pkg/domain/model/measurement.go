package model

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gonum.org/v1/gonum/stat"
)

// MeasurementTable is a parsed FiberTractMeasurements CSV: one row per
// tract or cluster, one column per diffusion metric.
type MeasurementTable struct {
	Source  string
	Metrics []string
	Rows    []MeasurementRow
}

// MeasurementRow holds the metric values of one tract. Values are NaN
// where the tool reported a non-numeric entry.
type MeasurementRow struct {
	Name   string
	Values []float64
}

// MetricSummary is the aggregate of one metric across all rows of a
// table. NaN entries are excluded.
type MetricSummary struct {
	Metric string
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// ParseMeasurementFile reads a measurement CSV produced by the
// FiberTractMeasurements module. The first column is the tract name,
// remaining columns are metrics. Fields may carry padding whitespace.
func ParseMeasurementFile(path string) (*MeasurementTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open measurement file", goerr.V("path", path))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse measurement file", goerr.V("path", path))
	}
	if len(records) < 1 || len(records[0]) < 2 {
		return nil, goerr.New("measurement file has no metric columns", goerr.V("path", path))
	}

	header := records[0]
	metrics := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		metrics = append(metrics, strings.TrimSpace(h))
	}

	table := &MeasurementTable{Source: path, Metrics: metrics}
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		row := MeasurementRow{Name: strings.TrimSpace(rec[0])}
		for _, field := range rec[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				v = math.NaN()
			}
			row.Values = append(row.Values, v)
		}
		// Ragged rows happen when the tool aborts mid-write; pad so
		// column indices stay aligned with the header.
		for len(row.Values) < len(metrics) {
			row.Values = append(row.Values, math.NaN())
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Summarize aggregates every metric column across the table rows.
func (t *MeasurementTable) Summarize() []MetricSummary {
	summaries := make([]MetricSummary, 0, len(t.Metrics))
	for i, metric := range t.Metrics {
		var values []float64
		for _, row := range t.Rows {
			if i < len(row.Values) && !math.IsNaN(row.Values[i]) {
				values = append(values, row.Values[i])
			}
		}
		s := MetricSummary{Metric: metric, Count: len(values)}
		if len(values) > 0 {
			s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
			if len(values) == 1 {
				s.StdDev = 0
			}
			s.Min, s.Max = minMax(values)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
