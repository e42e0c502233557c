package excel

import (
	"context"
	"testing"

	"switchback/domain/metric"
	"switchback/domain/run"
	"switchback/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReports() []*stats.Report {
	return []*stats.Report{
		{
			Analysis: "commute",
			Title:    "Commuting vs Non-Commuting Hours",
			CohortA:  "Commuting Hours",
			CohortB:  "Non-Commuting Hours",
			Results: []stats.ComparisonResult{
				{Metric: metric.KeyTotalRides, Label: "Total Rides", Unit: metric.UnitCount, CohortA: "Commuting Hours", CohortB: "Non-Commuting Hours",
					MeanA: 15, MeanB: 6, Difference: 9, PValue: 0.18, TStatistic: 1.76, DegreesOfFreedom: 1.08},
			},
		},
		{
			Analysis: "wait_time_commuting",
			Title:    "Wait Time Policy (Commuting Hours)",
			Results: []stats.ComparisonResult{
				{Metric: metric.KeyMatchRate, Label: "Match Rate (%)", Unit: metric.UnitFraction, MeanA: 0.71, MeanB: 0.65, Difference: 0.06, PValue: 0.001, Significant: true},
			},
			Recommendation: &stats.Recommendation{Verdict: stats.VerdictMixed, Summary: "mixed evidence"},
		},
	}
}

func TestWorkbookRenderer_OneSheetPerReport(t *testing.T) {
	dir := t.TempDir()
	arts, err := NewWorkbookRenderer(dir).Render(context.Background(), sampleReports())
	require.NoError(t, err)
	require.Len(t, arts, 1)
	assert.Equal(t, run.ArtifactWorkbook, arts[0].Kind)

	f, err := excelize.OpenFile(arts[0].Path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"commute", "wait_time_commuting"}, f.GetSheetList())

	title, err := f.GetCellValue("commute", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Commuting vs Non-Commuting Hours", title)

	label, err := f.GetCellValue("commute", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Total Rides", label)

	sig, err := f.GetCellValue("wait_time_commuting", "J5")
	require.NoError(t, err)
	assert.Equal(t, "Yes", sig)

	summary, err := f.GetCellValue("wait_time_commuting", "A7")
	require.NoError(t, err)
	assert.Equal(t, "mixed evidence", summary)
}

func TestWorkbookRenderer_NoReports(t *testing.T) {
	arts, err := NewWorkbookRenderer(t.TempDir()).Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, arts)
}
