package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newURLReportCmd(a *app) *cobra.Command {
	var scan bool

	cmd := &cobra.Command{
		Use:   "url-report <url>...",
		Short: "Get URL scan results",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.URLReport{URLs: args, Scan: scan})
		},
	}

	cmd.Flags().BoolVar(&scan, "scan", false, "submit URLs that have no report for scanning")
	return cmd
}
