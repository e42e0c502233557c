package excel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"switchback/domain/core"
	"switchback/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const switchbackCSV = `city_id;period_start;wait_time;treat;commute;trips_pool;trips_express;rider_cancellations;total_driver_payout;total_matches;total_double_matches
Boston;2/19/18 7:00;2 mins;FALSE;TRUE;1415;3245;256;34458,41;3372;1476
Boston;2/19/18 9:40;5 mins;TRUE;FALSE;1461;2363;203;29764,86;2288;1275
Boston;2/19/18 12:20;2 mins;FALSE;FALSE;1362;2184;118;27437,89;2283;962

`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataReader_SemicolonCSV(t *testing.T) {
	path := writeFile(t, "switchbacks.csv", switchbackCSV)

	loaded, err := NewDataReader(DefaultReaderConfig()).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "csv", loaded.Format)
	assert.Equal(t, path, loaded.Source)
	assert.False(t, loaded.Hash == "")
	require.Equal(t, 3, loaded.Table.Len())

	col, ok := loaded.Table.Column("total_driver_payout")
	require.True(t, ok)
	assert.Equal(t, dataset.KindNumber, col.Kind)

	payout, err := loaded.Table.Row(0).Float("total_driver_payout")
	require.NoError(t, err)
	assert.InDelta(t, 34458.41, payout, 1e-9)

	treat, err := loaded.Table.Row(1).Bool("treat")
	require.NoError(t, err)
	assert.True(t, treat)

	city, err := loaded.Table.Row(2).Text("city_id")
	require.NoError(t, err)
	assert.Equal(t, "Boston", city)
}

func TestDataReader_HashTracksContent(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())
	a, err := reader.Load(context.Background(), writeFile(t, "a.csv", switchbackCSV))
	require.NoError(t, err)
	b, err := reader.Load(context.Background(), writeFile(t, "b.csv", switchbackCSV))
	require.NoError(t, err)
	c, err := reader.Load(context.Background(), writeFile(t, "c.csv", switchbackCSV+"Boston;2/19/18 15:00;5 mins;TRUE;FALSE;1;2;3;4,5;6;7\n"))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestDataReader_XLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "switchbacks"))
	rows := [][]interface{}{
		{"treat", "commute", "trips_pool", "trips_express", "total_driver_payout"},
		{"FALSE", "TRUE", 6, 4, 80.5},
		{"FALSE", "FALSE", 3, 2, 40.25},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("switchbacks", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "switchbacks.xlsx")
	require.NoError(t, f.SaveAs(path))

	loaded, err := NewDataReader(DefaultReaderConfig()).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "xlsx", loaded.Format)
	require.Equal(t, 2, loaded.Table.Len())

	payout, err := loaded.Table.Row(1).Float("total_driver_payout")
	require.NoError(t, err)
	assert.InDelta(t, 40.25, payout, 1e-9)
}

func TestDataReader_CSVSourceLines(t *testing.T) {
	content := "treat;commute;trips_pool;total_driver_payout\n" +
		"FALSE;TRUE;6;80,5\n" +
		"\n" +
		"FALSE;FALSE;3;\n" +
		";;;\n" +
		"TRUE;FALSE;4;50\n"

	loaded, err := NewDataReader(DefaultReaderConfig()).Load(context.Background(), writeFile(t, "gaps.csv", content))
	require.NoError(t, err)
	require.Equal(t, 3, loaded.Table.Len())
	assert.Equal(t, 2, loaded.Table.Row(0).Line())
	assert.Equal(t, 4, loaded.Table.Row(1).Line())
	assert.Equal(t, 6, loaded.Table.Row(2).Line())

	_, err = loaded.Table.Row(1).Float("total_driver_payout")
	assert.ErrorIs(t, err, core.ErrValueMissing)
	assert.ErrorContains(t, err, `column "total_driver_payout" line 4`)
}

func TestDataReader_XLSXSourceLines(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := map[int][]interface{}{
		1: {"treat", "commute", "trips_pool"},
		2: {"FALSE", "TRUE", 6},
		4: {"TRUE", "FALSE", 3},
	}
	for n, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, n)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "gaps.xlsx")
	require.NoError(t, f.SaveAs(path))

	loaded, err := NewDataReader(DefaultReaderConfig()).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Table.Len())
	assert.Equal(t, 2, loaded.Table.Row(0).Line())
	assert.Equal(t, 4, loaded.Table.Row(1).Line())
}

func TestDataReader_Errors(t *testing.T) {
	reader := NewDataReader(DefaultReaderConfig())

	_, err := reader.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "not found")

	_, err = reader.Load(context.Background(), writeFile(t, "header_only.csv", "treat;commute\n"))
	assert.ErrorContains(t, err, "at least a header row")

	_, err = reader.Load(context.Background(), writeFile(t, "data.json", "{}"))
	assert.ErrorContains(t, err, "unsupported file type")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reader.Load(ctx, writeFile(t, "ok.csv", switchbackCSV))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    rune
	}{
		{"semicolon", "a;b;c\n1,5;2;3\n", ';'},
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"tab", "a\tb\tc\n", '\t'},
		{"single column", "a\n1\n", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDelimiter([]byte(tt.content)))
		})
	}
}
