package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/buemura/vtcli/pkg/types"
)

// MarkdownFormatter renders scan reports as Markdown tables suitable for
// pasting into docs, issues, or incident notes. Any other value is printed
// as a fenced JSON block.
type MarkdownFormatter struct{}

func (f *MarkdownFormatter) Format(w io.Writer, v any) error {
	reports := types.ParseReports(v)
	if len(reports) == 0 {
		fmt.Fprintln(w, "```json")
		if err := (&JSONFormatter{}).Format(w, v); err != nil {
			return err
		}
		fmt.Fprintln(w, "```")
		return nil
	}
	sortByVerdict(reports)

	counts := map[types.Verdict]int{}
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		counts[report.Verdict()]++

		fmt.Fprintf(w, "## %s — **%s**\n\n", escapeMarkdown(report.Resource), report.Verdict())

		if !report.Found {
			msg := report.Message
			if msg == "" {
				msg = "No report available."
			}
			fmt.Fprintf(w, "_%s_\n", escapeMarkdown(msg))
			continue
		}

		fmt.Fprintf(w, "Detections: %d/%d", report.Positives, report.Total)
		if report.ScanDate != "" {
			fmt.Fprintf(w, ", scanned %s", report.ScanDate)
		}
		fmt.Fprintln(w)
		if report.Permalink != "" {
			fmt.Fprintf(w, "\n<%s>\n", report.Permalink)
		}

		flagged := report.Flagged()
		if len(flagged) == 0 {
			fmt.Fprintln(w, "\n_No engines flagged this resource._")
			continue
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Engine | Result | Version |")
		fmt.Fprintln(w, "|--------|--------|---------|")
		for _, d := range flagged {
			fmt.Fprintf(w, "| %s | %s | %s |\n", escapeMarkdown(d.Engine), escapeMarkdown(d.Result), escapeMarkdown(d.Version))
		}
	}

	fmt.Fprintf(w, "\n%s\n", markdownSummary(len(reports), counts))
	return nil
}

// escapeMarkdown escapes pipe characters that would break Markdown tables.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func markdownSummary(total int, counts map[types.Verdict]int) string {
	return fmt.Sprintf("**Summary:** %d resources (%d malicious, %d suspicious, %d clean, %d unknown)",
		total,
		counts[types.VerdictMalicious],
		counts[types.VerdictSuspicious],
		counts[types.VerdictClean],
		counts[types.VerdictUnknown],
	)
}
