package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"switchback/domain/run"
	"switchback/domain/stats"
	"switchback/ports"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownRenderer writes report.md and its HTML rendering report.html
type MarkdownRenderer struct {
	dir   string
	title string
}

var _ ports.ReportRenderer = (*MarkdownRenderer)(nil)

// NewMarkdownRenderer writes into dir
func NewMarkdownRenderer(dir string) *MarkdownRenderer {
	return &MarkdownRenderer{dir: dir, title: "Switchback Experiment Report"}
}

func (m *MarkdownRenderer) Name() string { return "markdown" }

func (m *MarkdownRenderer) Render(ctx context.Context, reports []*stats.Report) ([]run.Artifact, error) {
	if len(reports) == 0 {
		return nil, nil
	}
	md := BuildMarkdown(m.title, reports)

	mdPath := filepath.Join(m.dir, "report.md")
	if err := os.WriteFile(mdPath, md, 0o644); err != nil {
		return nil, fmt.Errorf("write markdown: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	htmlPath := filepath.Join(m.dir, "report.html")
	if err := os.WriteFile(htmlPath, ToHTML(m.title, md), 0o644); err != nil {
		return nil, fmt.Errorf("write html: %w", err)
	}

	return []run.Artifact{
		{Kind: run.ArtifactMarkdown, Path: mdPath},
		{Kind: run.ArtifactHTML, Path: htmlPath},
	}, nil
}

// BuildMarkdown lays out every report as a section with a results table
func BuildMarkdown(title string, reports []*stats.Report) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Two-sided Welch t-tests; a difference is significant when p < %.2f.\n", stats.SignificanceLevel)

	for _, r := range reports {
		fmt.Fprintf(&b, "\n## %s\n\n", r.Title)
		if r.Scope != "" {
			fmt.Fprintf(&b, "Scope: %s.\n\n", r.Scope)
		}
		fmt.Fprintf(&b, "Sample sizes: **%s** %d, **%s** %d.\n\n", r.CohortA, r.SizeA, r.CohortB, r.SizeB)

		header := SummaryHeader(r)
		b.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
		b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
		for _, row := range SummaryRows(r) {
			b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
		}

		if rec := r.Recommendation; rec != nil {
			fmt.Fprintf(&b, "\n**%s**\n\n%s %s\n", rec.Question, rec.Summary, rec.Explanation())
		}
	}
	return b.Bytes()
}

// ToHTML renders markdown as a complete HTML page
func ToHTML(title string, md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML(md, p, renderer)
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
