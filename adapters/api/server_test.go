package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"switchback/domain/core"
	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/internal"
	"switchback/ports"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReader struct {
	reports  []*stats.Report
	manifest *run.Manifest
	err      error
}

func (s *stubReader) ListReports(ctx context.Context) ([]ports.ReportSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ports.ReportSummary, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, ports.Summarize(r))
	}
	return out, nil
}

func (s *stubReader) GetReport(ctx context.Context, key core.AnalysisKey) (*stats.Report, error) {
	for _, r := range s.reports {
		if r.Analysis == key {
			return r, nil
		}
	}
	return nil, core.NewNotFoundError("report", string(key))
}

func (s *stubReader) Manifest(ctx context.Context) (*run.Manifest, error) {
	if s.manifest == nil {
		return nil, core.NewNotFoundError("manifest", "latest")
	}
	return s.manifest, nil
}

func newTestServer(reader ports.ReportReader) *Server {
	return NewServer(reader, gin.TestMode, internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError))
}

func sampleReader() *stubReader {
	return &stubReader{reports: []*stats.Report{
		{
			Analysis: "commute",
			Title:    "Commuting vs Non-Commuting Hours",
			CohortA:  "Commuting Hours",
			CohortB:  "Non-Commuting Hours",
			Results: []stats.ComparisonResult{
				{Metric: "total_rides", MeanA: 15, MeanB: 6, Difference: 9, PValue: 0.2},
				{Metric: "express_share", PValue: 0.01, Significant: true},
			},
			Samples: []stats.MetricSamples{{Metric: "total_rides", A: []float64{10, 20}, B: []float64{5, 7}}},
		},
	}}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(sampleReader()), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListReports(t *testing.T) {
	rec := get(t, newTestServer(sampleReader()), "/api/reports")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Reports []ports.ReportSummary `json:"reports"`
		Count   int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, core.AnalysisKey("commute"), body.Reports[0].Analysis)
	assert.Equal(t, 2, body.Reports[0].Metrics)
	assert.Equal(t, 1, body.Reports[0].Significant)
}

func TestGetReport(t *testing.T) {
	rec := get(t, newTestServer(sampleReader()), "/api/reports/commute")
	require.Equal(t, http.StatusOK, rec.Code)

	var report stats.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Len(t, report.Results, 2)
	assert.Equal(t, 9.0, report.Results[0].Difference)
	assert.NotContains(t, rec.Body.String(), "samples", "samples stay out of the JSON view")
}

func TestGetReport_NotFound(t *testing.T) {
	rec := get(t, newTestServer(sampleReader()), "/api/reports/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"NOT_FOUND"`)
}

func TestManifest(t *testing.T) {
	reader := sampleReader()
	rec := get(t, newTestServer(reader), "/api/manifest")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	reader.manifest = &run.Manifest{RunID: "run-1", Analyses: []core.AnalysisKey{"commute"}}
	rec = get(t, newTestServer(reader), "/api/manifest")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"run_id":"run-1"`)
}

func TestListReports_InternalError(t *testing.T) {
	reader := &stubReader{err: fmt.Errorf("store unavailable")}
	rec := get(t, newTestServer(reader), "/api/reports")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
