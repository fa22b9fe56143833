package output

import (
	"fmt"
	"io"

	"github.com/buemura/vtcli/pkg/types"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter renders file and URL scan reports as colored terminal
// tables. Any other value is printed as JSON.
type TableFormatter struct{}

func (f *TableFormatter) Format(w io.Writer, v any) error {
	reports := types.ParseReports(v)
	if len(reports) == 0 {
		return (&JSONFormatter{}).Format(w, v)
	}
	sortByVerdict(reports)

	for _, report := range reports {
		fmt.Fprintf(w, "\n[%s]%s %s\n", report.Resource, hashSuffix(report.Resource), colorVerdict(report.Verdict()))

		if !report.Found {
			if report.Message != "" {
				fmt.Fprintf(w, "  %s\n", report.Message)
			} else {
				fmt.Fprintln(w, "  No report available.")
			}
			continue
		}

		fmt.Fprintf(w, "  Detections: %d/%d", report.Positives, report.Total)
		if report.ScanDate != "" {
			fmt.Fprintf(w, " (scanned %s)", report.ScanDate)
		}
		fmt.Fprintln(w)
		if report.Permalink != "" {
			fmt.Fprintf(w, "  %s\n", report.Permalink)
		}

		flagged := report.Flagged()
		if len(flagged) == 0 {
			fmt.Fprintln(w, "  No engines flagged this resource.")
			continue
		}

		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Engine", "Result", "Version", "Update"})
		table.SetAutoWrapText(false)
		table.SetBorder(false)
		table.SetColumnSeparator("│")

		for _, d := range flagged {
			table.Append([]string{d.Engine, color.RedString(d.Result), d.Version, d.Update})
		}

		table.Render()
	}

	return nil
}

func colorVerdict(v types.Verdict) string {
	switch v {
	case types.VerdictMalicious:
		return color.RedString(string(v))
	case types.VerdictSuspicious:
		return color.YellowString(string(v))
	case types.VerdictClean:
		return color.GreenString(string(v))
	case types.VerdictUnknown:
		return color.WhiteString(string(v))
	default:
		return string(v)
	}
}

func hashSuffix(resource string) string {
	kind := types.KindOfHash(resource)
	if kind == types.HashUnknown {
		return ""
	}
	return fmt.Sprintf(" (%s)", kind)
}
