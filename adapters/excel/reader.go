package excel

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"switchback/domain/core"
	"switchback/domain/dataset"
	"switchback/internal"
	"switchback/ports"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV switchback exports
type DataReader struct {
	config ReaderConfig
	logger *internal.Logger
}

var _ ports.DatasetLoader = (*DataReader)(nil)

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{config: config, logger: internal.DefaultLogger}
}

// WithLogger replaces the reader's logger
func (r *DataReader) WithLogger(logger *internal.Logger) *DataReader {
	r.logger = logger
	return r
}

// Load reads the file at path into an observation table
func (r *DataReader) Load(ctx context.Context, path string) (*ports.LoadedDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileType := detectFileType(path)
	r.logger.Info("reading %s file: %s", fileType, path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(fileType), path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	start := time.Now()
	var raw *RawData
	switch fileType {
	case "csv":
		raw, err = r.readCSVData(content)
	case "xlsx":
		raw, err = r.readExcelData(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", fileType)
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s parsed in %.2fms (%d columns, %d rows)",
		path, float64(time.Since(start).Nanoseconds())/1e6, len(raw.Headers), len(raw.Rows))

	table, err := dataset.NewTableWithLines(raw.Headers, raw.Rows, raw.Lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &ports.LoadedDataset{
		Table:  table,
		Source: path,
		Format: fileType,
		Hash:   core.DatasetHash(core.NewHash(content)),
	}, nil
}

func detectFileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// readCSVData parses delimited text. Exports from European locales use ';'
// between fields and ',' as the decimal mark.
func (r *DataReader) readCSVData(content []byte) (*RawData, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = r.config.Delimiter
	if reader.Comma == 0 {
		reader.Comma = DetectDelimiter(content)
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return processRows(rows, lines), nil
}

// readExcelData reads the configured sheet, or the first one
func (r *DataReader) readExcelData(content []byte) (*RawData, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 1
	}
	return processRows(rows, lines), nil
}

// processRows splits off the header and drops blank lines, keeping each
// record's source line
func processRows(rows [][]string, lines []int) *RawData {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	dataLines := make([]int, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		data = append(data, row)
		dataLines = append(dataLines, lines[i+1])
	}
	return &RawData{Headers: headers, Rows: data, Lines: dataLines}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// DetectDelimiter picks the most frequent of ';', tab and ',' on the header line
func DetectDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}

	best, bestCount := ',', 0
	for _, c := range []rune{';', '\t', ','} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
