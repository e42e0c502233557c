package ports

import (
	"context"

	"switchback/domain/core"
	"switchback/domain/run"
	"switchback/domain/stats"
)

// ReportReader provides read-only access to computed reports for the API.
// Nothing behind this port can re-run or modify an analysis.
type ReportReader interface {
	ListReports(ctx context.Context) ([]ReportSummary, error)
	GetReport(ctx context.Context, analysis core.AnalysisKey) (*stats.Report, error)
	Manifest(ctx context.Context) (*run.Manifest, error)
}

// ReportSummary is the list view of one report
type ReportSummary struct {
	Analysis    core.AnalysisKey `json:"analysis"`
	Title       string           `json:"title"`
	CohortA     string           `json:"cohort_a"`
	CohortB     string           `json:"cohort_b"`
	Metrics     int              `json:"metrics"`
	Significant int              `json:"significant"`
	Verdict     stats.Verdict    `json:"verdict,omitempty"`
}

// Summarize builds the list view of a report
func Summarize(r *stats.Report) ReportSummary {
	s := ReportSummary{
		Analysis: r.Analysis,
		Title:    r.Title,
		CohortA:  r.CohortA,
		CohortB:  r.CohortB,
		Metrics:  len(r.Results),
	}
	for _, res := range r.Results {
		if res.Significant {
			s.Significant++
		}
	}
	if r.Recommendation != nil {
		s.Verdict = r.Recommendation.Verdict
	}
	return s
}
