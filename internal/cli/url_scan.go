package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newURLScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url-scan <url>...",
		Short: "Submit URLs to be scanned",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.URLScan{URLs: args})
		},
	}
}
