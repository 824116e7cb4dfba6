package usecase

import (
	"context"
	"encoding/csv"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// writeSummary aggregates the exported diffusion measurement tables
// into a single per-case summary CSV and logs the headline FA values.
func (p *pipeline) writeSummary(ctx context.Context, st *runState) error {
	logger := ctxlog.From(ctx)

	type source struct {
		name string
		path string
	}
	var sources []source
	groups := make([]string, 0, len(model.HemisphereGroups))
	for name := range model.HemisphereGroups {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	for _, name := range groups {
		sources = append(sources, source{name: name, path: st.layout.HemisphereMeasurementCSV(name)})
	}
	sources = append(sources, source{name: "anatomical_tracts", path: st.layout.AnatomicalMeasurementCSV()})

	f, err := os.Create(st.layout.SummaryCSV())
	if err != nil {
		return goerr.Wrap(err, "failed to create summary file", goerr.V("path", st.layout.SummaryCSV()))
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"table", "metric", "count", "mean", "stddev", "min", "max"}); err != nil {
		return goerr.Wrap(err, "failed to write summary header")
	}

	for _, src := range sources {
		table, err := model.ParseMeasurementFile(src.path)
		if err != nil {
			// A group can legitimately be empty (e.g. no commissural
			// fibers survived outlier removal); keep the rest.
			logger.Warn("Skipping measurement table", "table", src.name, "error", err)
			continue
		}

		for _, s := range table.Summarize() {
			rec := []string{
				src.name,
				s.Metric,
				strconv.Itoa(s.Count),
				formatFloat(s.Mean),
				formatFloat(s.StdDev),
				formatFloat(s.Min),
				formatFloat(s.Max),
			}
			if err := w.Write(rec); err != nil {
				return goerr.Wrap(err, "failed to write summary row")
			}
			if isFAMetric(s.Metric) {
				logger.Info("FA summary",
					"table", src.name,
					"metric", s.Metric,
					"tracts", s.Count,
					"mean", s.Mean,
				)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush summary file")
	}

	logger.Info("Wrote measurement summary", "path", st.layout.SummaryCSV())
	return nil
}

// isFAMetric matches the fractional anisotropy mean columns emitted by
// FiberTractMeasurements (FA1.Mean, FA2.Mean or plain FA.Mean).
func isFAMetric(metric string) bool {
	return strings.HasPrefix(metric, "FA") && strings.HasSuffix(metric, ".Mean")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
