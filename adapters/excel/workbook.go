package excel

import (
	"context"
	"fmt"
	"path/filepath"

	"switchback/domain/metric"
	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"

	"github.com/xuri/excelize/v2"
)

// WorkbookRenderer writes summary.xlsx with one sheet per report
type WorkbookRenderer struct {
	dir string
}

var _ ports.ReportRenderer = (*WorkbookRenderer)(nil)

// NewWorkbookRenderer writes into dir
func NewWorkbookRenderer(dir string) *WorkbookRenderer {
	return &WorkbookRenderer{dir: dir}
}

func (w *WorkbookRenderer) Name() string { return "workbook" }

var workbookHeader = []interface{}{
	"Metric", "Cohort A", "Mean A", "Cohort B", "Mean B", "Difference",
	"t", "df", "p-value", "Significant at 5%",
}

// Render builds the workbook. Means and differences are stored as numbers with a
// display format, so spreadsheets can recompute from them.
func (w *WorkbookRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	if len(reports) == 0 {
		return nil, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return nil, err
	}

	for i, report := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sheet := sheetName(string(report.Analysis))
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		if err := writeReportSheet(f, sheet, report, styles); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	f.SetActiveSheet(0)

	path := filepath.Join(w.dir, "summary.xlsx")
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("save workbook: %w", err)
	}
	return []run.Artifact{{Kind: run.ArtifactWorkbook, Path: path}}, nil
}

type workbookStyles struct {
	header   int
	byUnit   map[metric.Unit]int
	stat     int
	pValue   int
	emphasis int
}

func newWorkbookStyles(f *excelize.File) (*workbookStyles, error) {
	s := &workbookStyles{byUnit: make(map[metric.Unit]int)}
	var err error

	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return nil, err
	}

	formats := map[metric.Unit]string{
		metric.UnitCount:    "0.00",
		metric.UnitFraction: "0.00%",
		metric.UnitCurrency: "$#,##0.00",
	}
	for unit, numFmt := range formats {
		numFmt := numFmt
		id, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return nil, err
		}
		s.byUnit[unit] = id
	}

	statFmt, pFmt := "0.0000", "0.0000"
	if s.stat, err = f.NewStyle(&excelize.Style{CustomNumFmt: &statFmt}); err != nil {
		return nil, err
	}
	if s.pValue, err = f.NewStyle(&excelize.Style{CustomNumFmt: &pFmt}); err != nil {
		return nil, err
	}
	if s.emphasis, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: "006100"}}); err != nil {
		return nil, err
	}
	return s, nil
}

func writeReportSheet(f *excelize.File, sheet string, report *stats.Report, styles *workbookStyles) error {
	if err := f.SetCellValue(sheet, "A1", report.Title); err != nil {
		return err
	}
	if report.Scope != "" {
		if err := f.SetCellValue(sheet, "A2", report.Scope); err != nil {
			return err
		}
	}

	if err := f.SetSheetRow(sheet, "A4", &workbookHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A4", "J4", styles.header); err != nil {
		return err
	}

	for i, res := range report.Results {
		row := 5 + i
		values := []interface{}{
			res.Label, res.CohortA, res.MeanA, res.CohortB, res.MeanB, res.Difference,
			res.TStatistic, res.DegreesOfFreedom, res.PValue, yesNo(res.Significant),
		}
		start, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return err
		}

		unitStyle := styles.byUnit[res.Unit]
		for _, col := range []string{"C", "E", "F"} {
			cell := fmt.Sprintf("%s%d", col, row)
			if err := f.SetCellStyle(sheet, cell, cell, unitStyle); err != nil {
				return err
			}
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("H%d", row), styles.stat); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("I%d", row), fmt.Sprintf("I%d", row), styles.pValue); err != nil {
			return err
		}
		if res.Significant {
			cell := fmt.Sprintf("J%d", row)
			if err := f.SetCellStyle(sheet, cell, cell, styles.emphasis); err != nil {
				return err
			}
		}
	}

	if rec := report.Recommendation; rec != nil {
		cell := fmt.Sprintf("A%d", 6+len(report.Results))
		if err := f.SetCellValue(sheet, cell, rec.Summary); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "D", 24)
}

// sheetName trims to Excel's 31 character limit
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
