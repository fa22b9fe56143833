package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newFileScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "file-scan <file>",
		Short: "Submit a file to be scanned",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.FileScan{Path: args[0]})
		},
	}
}
