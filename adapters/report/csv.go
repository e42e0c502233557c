package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"
)

// SummaryCSVRenderer writes <analysis>_summary.csv per report
type SummaryCSVRenderer struct {
	dir string
}

var _ ports.ReportRenderer = (*SummaryCSVRenderer)(nil)

// NewSummaryCSVRenderer writes into dir
func NewSummaryCSVRenderer(dir string) *SummaryCSVRenderer {
	return &SummaryCSVRenderer{dir: dir}
}

func (s *SummaryCSVRenderer) Name() string { return "summary_csv" }

func (s *SummaryCSVRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	artifacts := make([]run.Artifact, 0, len(reports))
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(s.dir, fileStem(r)+"_summary.csv")
		if err := writeSummaryCSV(path, r); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, run.Artifact{Kind: run.ArtifactSummaryCSV, Path: path, Analysis: r.Analysis})
	}
	return artifacts, nil
}

func writeSummaryCSV(path string, r *stats.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SummaryHeader(r)); err != nil {
		return err
	}
	if err := w.WriteAll(SummaryRows(r)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
