package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newIPReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ip-report <ip>",
		Short: "Get information about an IPv4 address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.IPReport{IP: args[0]})
		},
	}
}
