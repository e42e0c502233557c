package metric

import (
	"math"
	"testing"

	"switchback/domain/core"
	"switchback/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneRow(t *testing.T, header []string, record []string) dataset.Row {
	t.Helper()
	table, err := dataset.NewTable(header, [][]string{record})
	require.NoError(t, err)
	return table.Row(0)
}

var fullHeader = []string{
	"treat", "commute", "trips_pool", "trips_express", "rider_cancellations",
	"total_driver_payout", "total_matches", "total_double_matches",
}

func TestCatalog_Derivations(t *testing.T) {
	row := oneRow(t, fullHeader, []string{"FALSE", "TRUE", "30", "10", "4", "300,5", "24", "8"})
	fares := DefaultFares()

	tests := []struct {
		metric Metric
		want   float64
	}{
		{TotalRides(), 40},
		{ExpressShare(), 0.25},
		{Revenue(fares), 30*12.5 + 10*10},
		{ProfitPerTrip(fares), (30*12.5 + 10*10 - 300.5) / 40},
		{RiderCancellations(), 4},
		{DriverPayoutPerTrip(), 300.5 / 40},
		{MatchRate(), 0.6},
		{DoubleMatchRate(), 0.2},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric.Key), func(t *testing.T) {
			got, err := tt.metric.Derive(row)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRevenue_CustomFares(t *testing.T) {
	row := oneRow(t, fullHeader, []string{"FALSE", "TRUE", "2", "3", "0", "0", "0", "0"})

	got, err := Revenue(Fares{Pool: 1, Express: 100}).Derive(row)
	require.NoError(t, err)
	assert.Equal(t, 302.0, got)
}

func TestPayoutMetrics_MissingPayoutColumn(t *testing.T) {
	header := []string{"treat", "commute", "trips_pool", "trips_express"}
	row := oneRow(t, header, []string{"FALSE", "TRUE", "3", "1"})
	table, err := dataset.NewTable(header, [][]string{{"FALSE", "TRUE", "3", "1"}})
	require.NoError(t, err)

	for _, m := range []Metric{ProfitPerTrip(DefaultFares()), DriverPayoutPerTrip()} {
		_, err := m.Derive(row)
		assert.ErrorIs(t, err, core.ErrColumnMissing, "derive %s", m.Key)
		assert.ErrorIs(t, m.Validate(table), core.ErrSchema, "validate %s", m.Key)
	}
	assert.NoError(t, TotalRides().Validate(table))
}

func TestPerTrip_ZeroRidesIsNonFinite(t *testing.T) {
	row := oneRow(t, fullHeader, []string{"FALSE", "TRUE", "0", "0", "0", "10", "0", "0"})

	share, err := ExpressShare().Derive(row)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(share))

	payout, err := DriverPayoutPerTrip().Derive(row)
	require.NoError(t, err)
	assert.True(t, math.IsInf(payout, 1))
}

func TestDirection_Favours(t *testing.T) {
	assert.True(t, HigherIsBetter.Favours(0.1))
	assert.False(t, HigherIsBetter.Favours(-0.1))
	assert.True(t, LowerIsBetter.Favours(-2))
	assert.False(t, LowerIsBetter.Favours(0))
	assert.False(t, Neutral.Favours(5))
}
