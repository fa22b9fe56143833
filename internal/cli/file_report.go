package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newFileReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "file-report <hash>...",
		Short: "Get file scan results",
		Long:  "Retrieves the most recent scan reports for up to 25 MD5/SHA1/SHA256 hashes.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.FileReport{Hashes: args})
		},
	}
}
