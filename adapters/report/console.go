package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"switchback/domain/metric"
	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ConsoleRenderer prints the question-and-answer narrative and a summary table
type ConsoleRenderer struct {
	w       io.Writer
	colored bool
}

var _ ports.ReportRenderer = (*ConsoleRenderer)(nil)

// NewConsoleRenderer writes to w; colored forces ANSI colours on or off
func NewConsoleRenderer(w io.Writer, colored bool) *ConsoleRenderer {
	return &ConsoleRenderer{w: w, colored: colored}
}

func (c *ConsoleRenderer) Name() string { return "console" }

func (c *ConsoleRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	p := &printer{w: c.w}
	p.yes = c.palette(color.FgGreen, color.Bold)
	p.no = c.palette(color.FgRed, color.Bold)
	p.bold = c.palette(color.Bold)

	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.report(r)
	}
	return nil, p.err
}

func (c *ConsoleRenderer) palette(attrs ...color.Attribute) func(a ...interface{}) string {
	col := color.New(attrs...)
	if c.colored {
		col.EnableColor()
	} else {
		col.DisableColor()
	}
	return col.SprintFunc()
}

// printer keeps the first write error so the narrative reads straight through
type printer struct {
	w             io.Writer
	err           error
	yes, no, bold func(a ...interface{}) string
}

func (p *printer) printf(format string, a ...interface{}) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, a...)
}

func (p *printer) answer(b bool) string {
	if b {
		return p.yes("YES")
	}
	return p.no("NO")
}

func (p *printer) report(r *stats.Report) {
	p.printf("\n===== %s =====\n", p.bold(strings.ToUpper(r.Title)))
	if r.Scope != "" {
		p.printf("Scope: %s\n", r.Scope)
	}
	p.printf("Sample sizes: %s: %d, %s: %d\n", r.CohortA, r.SizeA, r.CohortB, r.SizeB)

	q := 1
	if r.Narrative != nil && r.Narrative.FirstQuestion > 0 {
		q = r.Narrative.FirstQuestion
	}

	for _, res := range r.Results {
		if r.Narrative != nil {
			if prompt, ok := r.Narrative.PromptFor(res.Metric); ok {
				q = p.prompted(q, prompt, res)
				continue
			}
		}
		q = p.generic(q, res)
	}

	if rec := r.Recommendation; rec != nil {
		p.printf("\n%d. %s\n", q, rec.Question)
		verdict := p.no(rec.Summary)
		if rec.Verdict == stats.VerdictSupport {
			verdict = p.yes(rec.Summary)
		}
		p.printf("Answer: %s\n", verdict)
		p.printf("Explanation: %s\n", rec.Explanation())
	}

	p.printf("\n===== SUMMARY TABLE =====\n")
	if p.err != nil {
		return
	}
	tbl := tablewriter.NewWriter(p.w)
	tbl.SetHeader(SummaryHeader(r))
	tbl.SetBorder(true)
	tbl.SetAutoWrapText(false)
	tbl.SetAutoFormatHeaders(false)
	tbl.AppendBulk(SummaryRows(r))
	tbl.Render()
}

// prompted asks the worded questions for one metric and returns the next number
func (p *printer) prompted(q int, prompt stats.Prompt, res stats.ComparisonResult) int {
	meanA, meanB := prompt.MeanA, prompt.MeanB
	if meanA == "" {
		meanA = "Mean " + res.CohortA
	}
	if meanB == "" {
		meanB = "Mean " + res.CohortB
	}
	means := func() {
		p.printf("%s: %s\n", meanA, describeMean(res, res.MeanA))
		p.printf("%s: %s\n", meanB, describeMean(res, res.MeanB))
	}

	difference := describeDifference(res)
	if prompt.Suffix != "" {
		difference += " " + prompt.Suffix
	}

	if prompt.Higher != "" {
		p.printf("\n%d. %s\n", q, prompt.Higher)
		p.printf("Answer: %s\n", p.answer(res.MeanA > res.MeanB))
		means()
		q++
		p.printf("\n%d. %s\n", q, prompt.Difference)
		p.printf("Answer: %s\n", difference)
	} else {
		if prompt.Preamble != "" {
			p.printf("\n%d. %s\n%s\n", q, prompt.Preamble, prompt.Difference)
		} else {
			p.printf("\n%d. %s\n", q, prompt.Difference)
		}
		p.printf("Answer: %s\n", difference)
		means()
	}
	q++

	p.printf("\n%d. Is the difference statistically significant at the 5%% confidence level?\n", q)
	p.printf("Answer: %s (p-value: %.4f, t-statistic: %.4f)\n", p.answer(res.Significant), res.PValue, res.TStatistic)
	return q + 1
}

// generic asks higher / difference / significance for a metric with no wording
func (p *printer) generic(q int, res stats.ComparisonResult) int {
	label := strings.ToLower(strings.TrimSpace(strings.Split(res.Label, "(")[0]))

	p.printf("\n%d. Is the %s higher for %s than for %s?\n", q, label, res.CohortA, res.CohortB)
	p.printf("Answer: %s\n", p.answer(res.MeanA > res.MeanB))
	p.printf("Mean %s: %s\n", res.CohortA, FormatValue(res.Unit, res.Precision, res.MeanA))
	p.printf("Mean %s: %s\n", res.CohortB, FormatValue(res.Unit, res.Precision, res.MeanB))

	p.printf("\n%d. What is the difference in %s between %s and %s?\n", q+1, label, res.CohortA, res.CohortB)
	p.printf("Answer: %s\n", describeDifference(res))

	p.printf("\n%d. Is the difference statistically significant at the 5%% confidence level?\n", q+2)
	p.printf("Answer: %s (p-value: %.4f, t-statistic: %.4f)\n", p.answer(res.Significant), res.PValue, res.TStatistic)
	return q + 3
}

func describeMean(res stats.ComparisonResult, v float64) string {
	if res.Unit == metric.UnitFraction {
		return fmt.Sprintf("%.4f (%.2f%%)", v, v*100)
	}
	return FormatValue(res.Unit, res.Precision, v)
}

func describeDifference(res stats.ComparisonResult) string {
	switch res.Unit {
	case metric.UnitFraction:
		return fmt.Sprintf("%.4f (or %.2f%%)", res.Difference, res.Difference*100)
	case metric.UnitCurrency:
		return FormatValue(res.Unit, res.Precision, res.Difference)
	}
	return fmt.Sprintf("%.*f", res.Precision, res.Difference)
}
