package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newRescanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rescan <hash>...",
		Short: "Rescan previously submitted files without resubmitting them",
		Long: `Rescan files already known to VirusTotal, identified by MD5, SHA1 or
SHA256 hash, saving the bandwidth of uploading them again. At most 25
hashes may be given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd, dispatch.Rescan{Hashes: args})
		},
	}
}
