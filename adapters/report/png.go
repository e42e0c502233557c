package report

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	colorA = color.RGBA{R: 135, G: 206, B: 235, A: 255} // sky blue
	colorB = color.RGBA{R: 144, G: 238, B: 144, A: 255} // light green
)

// PNGRenderer draws static figures. Reports without a recommendation get a
// box-plot grid of the per-window samples; policy reports share one grid of
// mean bar charts with a column per report.
type PNGRenderer struct {
	dir       string
	cellWidth vg.Length
}

var _ ports.ReportRenderer = (*PNGRenderer)(nil)

// NewPNGRenderer writes into dir
func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{dir: dir, cellWidth: 8 * vg.Inch}
}

func (p *PNGRenderer) Name() string { return "png" }

func (p *PNGRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	var artifacts []run.Artifact
	var policy []*stats.Report

	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.Recommendation != nil {
			policy = append(policy, r)
			continue
		}
		grid, err := boxPlotGrid(r)
		if err != nil {
			return nil, fmt.Errorf("%s box plots: %w", r.Analysis, err)
		}
		path := filepath.Join(p.dir, fileStem(r)+"_visualizations.png")
		if err := p.save(path, grid); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, run.Artifact{Kind: run.ArtifactPNG, Path: path, Analysis: r.Analysis})
	}

	if len(policy) > 0 {
		grid, err := meanBarGrid(policy)
		if err != nil {
			return nil, fmt.Errorf("bar charts: %w", err)
		}
		path := filepath.Join(p.dir, "wait_time_visualizations.png")
		if err := p.save(path, grid); err != nil {
			return nil, err
		}
		for _, r := range policy {
			artifacts = append(artifacts, run.Artifact{Kind: run.ArtifactPNG, Path: path, Analysis: r.Analysis})
		}
	}
	return artifacts, nil
}

// boxPlotGrid lays out one box plot per metric, two per row
func boxPlotGrid(r *stats.Report) ([][]*plot.Plot, error) {
	const cols = 2
	rows := (len(r.Results) + cols - 1) / cols
	grid := make([][]*plot.Plot, rows)
	for i := range grid {
		grid[i] = make([]*plot.Plot, cols)
	}

	for i, res := range r.Results {
		samples, ok := r.SamplesFor(res.Metric)
		if !ok {
			return nil, fmt.Errorf("no samples for %s", res.Metric)
		}

		pl := plot.New()
		pl.Title.Text = res.Label
		pl.Y.Label.Text = res.Label

		boxA, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(samples.A))
		if err != nil {
			return nil, err
		}
		boxA.FillColor = colorA
		boxB, err := plotter.NewBoxPlot(vg.Points(40), 1, plotter.Values(samples.B))
		if err != nil {
			return nil, err
		}
		boxB.FillColor = colorB

		pl.Add(plotter.NewGrid(), boxA, boxB)
		pl.NominalX(r.CohortA, r.CohortB)
		grid[i/cols][i%cols] = pl
	}
	return grid, nil
}

// meanBarGrid puts each metric on a row and each report in a column
func meanBarGrid(reports []*stats.Report) ([][]*plot.Plot, error) {
	first := reports[0]
	grid := make([][]*plot.Plot, len(first.Results))

	for row, res := range first.Results {
		grid[row] = make([]*plot.Plot, len(reports))
		for col, r := range reports {
			other, ok := r.Result(res.Metric)
			if !ok {
				return nil, fmt.Errorf("%s has no %s result", r.Analysis, res.Metric)
			}
			pl, err := meanBarPlot(r, other)
			if err != nil {
				return nil, err
			}
			grid[row][col] = pl
		}
	}
	return grid, nil
}

func meanBarPlot(r *stats.Report, res stats.ComparisonResult) (*plot.Plot, error) {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s - %s", res.Label, titleScope(r))

	bars, err := plotter.NewBarChart(plotter.Values{res.MeanA, res.MeanB}, vg.Points(60))
	if err != nil {
		return nil, err
	}
	bars.Color = colorA

	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs: []plotter.XY{{X: 0, Y: res.MeanA}, {X: 1, Y: res.MeanB}},
		Labels: []string{
			FormatValue(res.Unit, res.Precision, res.MeanA),
			FormatValue(res.Unit, res.Precision, res.MeanB),
		},
	})
	if err != nil {
		return nil, err
	}

	pl.Add(plotter.NewGrid(), bars, labels)
	pl.NominalX(res.CohortA, res.CohortB)
	pl.Y.Min = 0
	return pl, nil
}

func titleScope(r *stats.Report) string {
	if r.Scope != "" {
		return r.Scope
	}
	return string(r.Analysis)
}

// save draws the grid on one canvas and encodes it as PNG
func (p *PNGRenderer) save(path string, grid [][]*plot.Plot) error {
	if len(grid) == 0 {
		return fmt.Errorf("nothing to draw for %s", path)
	}
	cols := len(grid[0])
	width := p.cellWidth * vg.Length(cols) / 2
	height := width * vg.Length(len(grid)) / vg.Length(cols) * 3 / 4

	img := vgimg.New(width, height)
	dc := draw.New(img)

	tiles := draw.Tiles{
		Rows:      len(grid),
		Cols:      cols,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	canvases := plot.Align(grid, tiles, dc)
	for j := range grid {
		for i := range grid[j] {
			if grid[j][i] != nil {
				grid[j][i].Draw(canvases[j][i])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
