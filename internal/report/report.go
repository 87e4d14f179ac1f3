// Package report renders the markdown summary of one analysis run and its
// HTML form for the report server.
package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	domstats "entropynull/domain/stats"
)

// FileName is the report artifact inside the output directory.
const FileName = "report.md"

// BuildMarkdown renders the run summary as markdown.
func BuildMarkdown(summary domstats.RunSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Entropy Collapse Reproduction Report\n\n")
	fmt.Fprintf(&b, "- Run: `%s`\n", summary.RunID)
	fmt.Fprintf(&b, "- Source: `%s`\n", summary.RunDir)
	fmt.Fprintf(&b, "- Sequences: %d", summary.Rows)
	if summary.Smoke {
		fmt.Fprintf(&b, " (smoke subsample)")
	}
	fmt.Fprintf(&b, "\n- Seed: %d, resamples: %d\n", summary.Seed, summary.Resamples)
	fmt.Fprintf(&b, "- Generated: %s\n\n", summary.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	fmt.Fprintf(&b, "## ECI by model\n\n")
	fmt.Fprintf(&b, "| Model | Mean | Std | Median | Collapse fraction | N |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|\n")
	for _, m := range summary.PerModel {
		s := m.Summary
		fmt.Fprintf(&b, "| %s | %.4f | %.4f | %.4f | %.3f | %d |\n",
			m.Model, s.Mean, s.Std, s.Median, s.CollapseFraction, s.N)
	}
	fmt.Fprintf(&b, "\nCollapse threshold: %.3f\n\n", summary.CollapseThreshold)

	fmt.Fprintf(&b, "## Failure prediction\n\n")
	f := summary.Failure
	fmt.Fprintf(&b, "- ROC-AUC: %.3f [%.3f, %.3f]\n", f.ROCAUC.Estimate, f.ROCAUC.Lower, f.ROCAUC.Upper)
	fmt.Fprintf(&b, "- PR-AUC: %.3f [%.3f, %.3f]\n", f.PRAUC.Estimate, f.PRAUC.Lower, f.PRAUC.Upper)
	fmt.Fprintf(&b, "- Failure prevalence: %.3f\n", f.Prevalence)
	fmt.Fprintf(&b, "- Calibration points: %d\n", len(f.Calibration.MeanPredicted))

	return b.String()
}

// ToHTML converts report markdown to HTML.
func ToHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
