package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newDomainReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "domain-report <domain>",
		Short: "Get information about a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.DomainReport{Domain: args[0]})
		},
	}
}
