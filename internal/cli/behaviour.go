package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newBehaviourCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "behaviour <hash>",
		Short: "Get a report on the behaviour of a file in a sandbox environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.Behaviour{Hash: args[0]})
		},
	}
}
