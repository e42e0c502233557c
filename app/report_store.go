package app

import (
	"context"
	"sync"

	"switchback/domain/core"
	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"
)

// ReportStore keeps the reports of the latest run in memory for the API
type ReportStore struct {
	mu       sync.RWMutex
	reports  []*stats.Report
	manifest *run.Manifest
}

var _ ports.ReportReader = (*ReportStore)(nil)

// NewReportStore creates an empty store
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Publish replaces the stored run
func (s *ReportStore) Publish(result *RunResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = result.Reports
	s.manifest = result.Manifest
}

func (s *ReportStore) ListReports(ctx context.Context) ([]ports.ReportSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]ports.ReportSummary, 0, len(s.reports))
	for _, r := range s.reports {
		summaries = append(summaries, ports.Summarize(r))
	}
	return summaries, nil
}

func (s *ReportStore) GetReport(ctx context.Context, analysis core.AnalysisKey) (*stats.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reports {
		if r.Analysis == analysis {
			return r, nil
		}
	}
	return nil, core.NewNotFoundError("report", string(analysis))
}

func (s *ReportStore) Manifest(ctx context.Context) (*run.Manifest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.manifest == nil {
		return nil, core.NewNotFoundError("manifest", "latest")
	}
	return s.manifest, nil
}
