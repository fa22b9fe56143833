package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/buemura/vtcli/pkg/types"
)

// Formatter renders a structured API result to a writer.
type Formatter interface {
	Format(w io.Writer, v any) error
}

// Formats lists the supported format names.
var Formats = []string{"json", "table", "markdown", "html"}

// GetFormatter returns the appropriate formatter for the given format string.
func GetFormatter(format string) (Formatter, error) {
	switch format {
	case "", "json":
		return &JSONFormatter{}, nil
	case "table":
		return &TableFormatter{}, nil
	case "markdown":
		return &MarkdownFormatter{}, nil
	case "html":
		return &HTMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
}

// sortByVerdict orders reports most severe first, keeping API order within
// a verdict.
func sortByVerdict(reports []types.ScanReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return types.VerdictRank(reports[i].Verdict()) < types.VerdictRank(reports[j].Verdict())
	})
}
