package run

import (
	"path/filepath"
	"testing"
	"time"

	"switchback/domain/core"
	"switchback/domain/metric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFingerprint_Deterministic(t *testing.T) {
	hash := core.DatasetHash("abc123")
	analyses := []core.AnalysisKey{"commute", "wait_time_commuting"}

	fp1 := NewRunFingerprint(hash, metric.DefaultFares(), analyses, "1.0.0")
	fp2 := NewRunFingerprint(hash, metric.DefaultFares(), []core.AnalysisKey{"wait_time_commuting", "commute"}, "1.0.0")

	assert.Equal(t, fp1.Fingerprint, fp2.Fingerprint, "analysis order must not change the fingerprint")
	assert.Len(t, string(fp1.Fingerprint), 64)
}

func TestRunFingerprint_Unique(t *testing.T) {
	analyses := []core.AnalysisKey{"commute"}
	base := NewRunFingerprint("abc123", metric.DefaultFares(), analyses, "1.0.0")

	testCases := []struct {
		name string
		fp   RunFingerprint
	}{
		{"different dataset", NewRunFingerprint("def456", metric.DefaultFares(), analyses, "1.0.0")},
		{"different fares", NewRunFingerprint("abc123", metric.Fares{Pool: 13, Express: 10}, analyses, "1.0.0")},
		{"different analyses", NewRunFingerprint("abc123", metric.DefaultFares(), []core.AnalysisKey{"wait_time_commuting"}, "1.0.0")},
		{"different code", NewRunFingerprint("abc123", metric.DefaultFares(), analyses, "1.0.1")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotEqual(t, base.Fingerprint, tc.fp.Fingerprint)
		})
	}
}

func TestManifest_WriteAndRead(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest(
		DatasetInfo{Source: "data/switchbacks.csv", Format: "csv", Rows: 4, Hash: "abc123"},
		metric.DefaultFares(),
		[]core.AnalysisKey{"commute"},
		"1.0.0",
	)
	require.NoError(t, m.Validate())

	m.AddArtifacts(Artifact{Kind: ArtifactSummaryCSV, Path: filepath.Join(dir, "commute_summary.csv"), Analysis: "commute"})
	m.Complete()

	art, err := m.WriteFile(dir)
	require.NoError(t, err)
	assert.Equal(t, ArtifactManifest, art.Kind)

	got, err := ReadManifest(art.Path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.Fingerprint.Fingerprint, got.Fingerprint.Fingerprint)
	require.Len(t, got.Artifacts, 2)
	assert.Equal(t, ArtifactManifest, got.Artifacts[1].Kind)
	require.NotNil(t, got.CompletedAt)
}

func TestManifest_Validate(t *testing.T) {
	m := NewManifest(DatasetInfo{Hash: "abc"}, metric.DefaultFares(), nil, "1.0.0")
	assert.Error(t, m.Validate())

	m = NewManifest(DatasetInfo{}, metric.DefaultFares(), []core.AnalysisKey{"commute"}, "1.0.0")
	assert.Error(t, m.Validate())

	m = NewManifest(DatasetInfo{Hash: "abc"}, metric.DefaultFares(), []core.AnalysisKey{"commute"}, "1.0.0")
	m.Complete()
	require.NoError(t, m.Validate())

	early := core.Timestamp(m.CreatedAt.Time().Add(-time.Minute))
	m.CompletedAt = &early
	assert.ErrorContains(t, m.Validate(), "completed_at is before created_at")

	m.CompletedAt = nil
	m.CreatedAt = core.Timestamp{}
	assert.ErrorContains(t, m.Validate(), "created_at cannot be empty")

	dir := t.TempDir()
	_, err := m.WriteFile(dir)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "manifest.json"))
}
