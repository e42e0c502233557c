package cohort

import (
	"fmt"
	"math/rand"
	"testing"

	"switchback/domain/core"
	"switchback/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomTable(t *testing.T, seed int64, n int) *dataset.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	records := make([][]string, n)
	for i := range records {
		records[i] = []string{
			fmt.Sprintf("%t", rng.Intn(2) == 1),
			fmt.Sprintf("%t", rng.Intn(2) == 1),
			fmt.Sprintf("%d", rng.Intn(100)),
		}
	}
	table, err := dataset.NewTable([]string{"treat", "commute", "trips_pool"}, records)
	require.NoError(t, err)
	return table
}

func TestPartition_ExhaustiveAndDisjoint(t *testing.T) {
	predicates := map[string]Predicate{
		"treat":           FlagIs("treat", true),
		"control":         FlagIs("treat", false),
		"commute":         FlagIs("commute", true),
		"treated commute": All(FlagIs("treat", true), FlagIs("commute", true)),
		"not commute":     FlagIs("commute", false),
		"everything":      All(),
	}

	for seed := int64(1); seed <= 20; seed++ {
		table := randomTable(t, seed, 5+int(seed)*7)
		for name, p := range predicates {
			a, b, err := Partition(table, p)
			require.NoError(t, err, name)
			assert.Equal(t, table.Len(), a.Len()+b.Len(), "%s: sizes must sum to table length", name)

			seen := make(map[int]bool, table.Len())
			for _, row := range append(append([]dataset.Row{}, a.Rows...), b.Rows...) {
				assert.False(t, seen[row.Line()], "%s: line %d in both cohorts", name, row.Line())
				seen[row.Line()] = true
			}
		}
	}
}

func TestPartition_StableOrder(t *testing.T) {
	table, err := dataset.NewTable([]string{"commute"}, [][]string{
		{"TRUE"}, {"FALSE"}, {"TRUE"}, {"FALSE"}, {"TRUE"},
	})
	require.NoError(t, err)

	a, b, err := Partition(table, FlagIs("commute", true))
	require.NoError(t, err)

	lines := func(c Cohort) []int {
		out := make([]int, 0, c.Len())
		for _, r := range c.Rows {
			out = append(out, r.Line())
		}
		return out
	}
	assert.Equal(t, []int{1, 3, 5}, lines(a))
	assert.Equal(t, []int{2, 4}, lines(b))
}

func TestPartition_MissingFlagColumn(t *testing.T) {
	table := randomTable(t, 7, 4)

	_, _, err := Partition(table, FlagIs("weekend", true))
	assert.ErrorIs(t, err, core.ErrColumnMissing)
}

func TestPartition_EmptyTable(t *testing.T) {
	table, err := dataset.NewTable([]string{"commute"}, nil)
	require.NoError(t, err)

	a, b, err := Partition(table, FlagIs("commute", true))
	require.NoError(t, err)
	assert.True(t, a.IsEmpty())
	assert.True(t, b.IsEmpty())
}
