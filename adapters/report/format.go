// Package report renders finished comparison reports as console text, CSV,
// Markdown/HTML and charts.
package report

import (
	"fmt"
	"strings"

	"switchback/domain/metric"
	"switchback/domain/stats"
)

// FormatValue presents a mean or difference in its metric's unit.
// Fractions are shown as percentages with two decimals.
func FormatValue(unit metric.Unit, precision int, v float64) string {
	switch unit {
	case metric.UnitFraction:
		return fmt.Sprintf("%.2f%%", v*100)
	case metric.UnitCurrency:
		return fmt.Sprintf("$%.*f", precision, v)
	}
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatPValue uses four decimals, as every summary does
func FormatPValue(p float64) string {
	return fmt.Sprintf("%.4f", p)
}

// YesNo renders a boolean answer
func YesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// SummaryHeader is the column header of a report's summary table
func SummaryHeader(r *stats.Report) []string {
	return []string{"Metric", r.CohortA, r.CohortB, "Difference", "Significant at 5%", "p-value"}
}

// SummaryRows renders one formatted row per result, in report order
func SummaryRows(r *stats.Report) [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			res.Label,
			FormatValue(res.Unit, res.Precision, res.MeanA),
			FormatValue(res.Unit, res.Precision, res.MeanB),
			FormatValue(res.Unit, res.Precision, res.Difference),
			YesNo(res.Significant),
			FormatPValue(res.PValue),
		})
	}
	return rows
}

// fileStem turns an analysis key into a safe file name prefix
func fileStem(r *stats.Report) string {
	return strings.NewReplacer("/", "_", " ", "_").Replace(string(r.Analysis))
}
