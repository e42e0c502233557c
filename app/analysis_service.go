package app

import (
	"context"
	"fmt"
	"time"

	"switchback/domain/core"
	"switchback/domain/dataset"
	"switchback/domain/metric"
	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/internal"
	"switchback/internal/analysis"
	apperrors "switchback/internal/errors"
	"switchback/ports"

	"golang.org/x/sync/errgroup"
)

// CodeVersion is recorded in every run manifest
const CodeVersion = "v0.3.0"

// AnalysisService loads a switchback export, runs the requested analyses and
// hands the finished reports to the renderers
type AnalysisService struct {
	loader     ports.DatasetLoader
	comparator *analysis.Comparator
	renderers  []ports.ReportRenderer
	logger     *internal.Logger
}

// RunRequest defines the inputs for one run
type RunRequest struct {
	DataFile  string
	OutputDir string
	Fares     metric.Fares
	Analyses  []core.AnalysisKey // empty means all
}

// RunResult contains the complete output of a run
type RunResult struct {
	Manifest  *run.Manifest   `json:"manifest"`
	Reports   []*stats.Report `json:"reports"`
	RuntimeMs int64           `json:"runtime_ms"`
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(loader ports.DatasetLoader, renderers []ports.ReportRenderer, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		loader:     loader,
		comparator: analysis.NewComparatorWithLogger(logger),
		renderers:  renderers,
		logger:     logger,
	}
}

// Run loads the dataset, computes every requested report, renders them and
// writes the manifest. No renderer runs unless every analysis succeeded.
func (s *AnalysisService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	startTime := time.Now()

	plans, err := PlansFor(req.Analyses, req.Fares)
	if err != nil {
		return nil, err
	}

	loaded, err := s.loader.Load(ctx, req.DataFile)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	s.logger.Info("loaded %d rows from %s (%s)", loaded.Table.Len(), loaded.Source, loaded.Hash.Short())

	reports, err := s.Analyze(loaded.Table, plans)
	if err != nil {
		return nil, err
	}

	keys := make([]core.AnalysisKey, len(plans))
	for i, p := range plans {
		keys[i] = p.Spec.Analysis
	}
	manifest := run.NewManifest(run.DatasetInfo{
		Source: loaded.Source,
		Format: loaded.Format,
		Rows:   loaded.Table.Len(),
		Hash:   loaded.Hash,
	}, req.Fares, keys, CodeVersion)

	artifacts, err := s.render(ctx, reports)
	if err != nil {
		return nil, err
	}
	manifest.AddArtifacts(artifacts...)
	manifest.Complete()

	if req.OutputDir != "" {
		if _, err := manifest.WriteFile(req.OutputDir); err != nil {
			return nil, err
		}
	}

	runtime := time.Since(startTime)
	s.logger.Info("run %s finished in %v: %d reports, %d artifacts",
		manifest.RunID, runtime.Round(time.Millisecond), len(reports), len(manifest.Artifacts))

	return &RunResult{
		Manifest:  manifest,
		Reports:   reports,
		RuntimeMs: runtime.Milliseconds(),
	}, nil
}

// Analyze runs each plan against the table in order and attaches recommendations
func (s *AnalysisService) Analyze(table *dataset.Table, plans []Plan) ([]*stats.Report, error) {
	reports := make([]*stats.Report, 0, len(plans))
	for _, plan := range plans {
		report, err := s.comparator.RunAll(table, plan.Spec, plan.Metrics)
		if err != nil {
			return nil, err
		}
		if len(plan.Narrative.Prompts) > 0 {
			narrative := plan.Narrative
			report.Narrative = &narrative
		}
		if plan.Question != "" {
			report.Recommendation = Recommend(plan.Question, report, plan.Metrics)
			s.logger.Info("%s: %s (%s)", plan.Spec.Analysis, report.Recommendation.Verdict, report.Recommendation.Explanation())
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// render fans out to every renderer; the first failure cancels the rest.
// Artifacts keep renderer order regardless of completion order.
func (s *AnalysisService) render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	perRenderer := make([][]run.Artifact, len(s.renderers))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range s.renderers {
		i, r := i, r
		g.Go(func() error {
			start := time.Now()
			arts, err := r.Render(gctx, reports)
			if err != nil {
				return apperrors.RenderError(r.Name(), err)
			}
			s.logger.Debug("renderer %s wrote %d artifacts in %v", r.Name(), len(arts), time.Since(start))
			perRenderer[i] = arts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var artifacts []run.Artifact
	for _, arts := range perRenderer {
		artifacts = append(artifacts, arts...)
	}
	return artifacts, nil
}
