package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search for files",
		Long: `Runs a file search using the VirusTotal Intelligence search modifiers
(https://www.virustotal.com/intelligence/help/file-search).

Only the first page of matching hashes is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.Search{Query: args[0]})
		},
	}
}
