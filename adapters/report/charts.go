package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	mstats "github.com/montanaflynn/stats"
)

// ChartsRenderer writes an interactive charts.html: a mean bar chart per
// metric and, where samples exist, a box plot of the per-window values
type ChartsRenderer struct {
	dir string
}

var _ ports.ReportRenderer = (*ChartsRenderer)(nil)

// NewChartsRenderer writes into dir
func NewChartsRenderer(dir string) *ChartsRenderer {
	return &ChartsRenderer{dir: dir}
}

func (c *ChartsRenderer) Name() string { return "charts" }

func (c *ChartsRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	if len(reports) == 0 {
		return nil, nil
	}

	page := components.NewPage()
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, res := range r.Results {
			page.AddCharts(meanBar(r, res))
			if samples, ok := r.SamplesFor(res.Metric); ok {
				box, err := sampleBox(r, res, samples)
				if err != nil {
					return nil, fmt.Errorf("%s/%s: %w", r.Analysis, res.Metric, err)
				}
				page.AddCharts(box)
			}
		}
	}

	path := filepath.Join(c.dir, "charts.html")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return nil, fmt.Errorf("render charts: %w", err)
	}
	return []run.Artifact{{Kind: run.ArtifactCharts, Path: path}}, nil
}

func meanBar(r *stats.Report, res stats.ComparisonResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %s", r.Title, res.Label),
			Subtitle: fmt.Sprintf("difference %s, p = %s", FormatValue(res.Unit, res.Precision, res.Difference), FormatPValue(res.PValue)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	bar.SetXAxis([]string{res.CohortA, res.CohortB}).
		AddSeries("Mean", []opts.BarData{{Value: res.MeanA}, {Value: res.MeanB}})
	return bar
}

// sampleBox summarises each cohort as min, Q1, median, Q3, max
func sampleBox(r *stats.Report, res stats.ComparisonResult, samples stats.MetricSamples) (*charts.BoxPlot, error) {
	a, err := fiveNumber(samples.A)
	if err != nil {
		return nil, err
	}
	b, err := fiveNumber(samples.B)
	if err != nil {
		return nil, err
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s: %s per window", r.Title, res.Label),
			Subtitle: fmt.Sprintf("n = %d / %d", res.NA, res.NB),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	box.SetXAxis([]string{res.CohortA, res.CohortB}).
		AddSeries(res.Label, []opts.BoxPlotData{{Value: a}, {Value: b}})
	return box, nil
}

func fiveNumber(values []float64) ([]float64, error) {
	q, err := mstats.Quartile(values)
	if err != nil {
		return nil, err
	}
	lo, err := mstats.Min(values)
	if err != nil {
		return nil, err
	}
	hi, err := mstats.Max(values)
	if err != nil {
		return nil, err
	}
	return []float64{lo, q.Q1, q.Q2, q.Q3, hi}, nil
}
