package cli

import (
	"os"

	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newPCAPCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "pcap <hash>",
		Short: "Get a dump of the network traffic generated by a file",
		Long: `Downloads the network capture recorded while the sample ran in a
sandbox and writes it to <output-dir>/<hash>.pcap. If no capture is
available the API response is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}
			return a.run(cmd, dispatch.PCAP{Hash: args[0], OutputDir: dir})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to write the pcap file to (default: current directory)")
	return cmd
}

// resolveOutputDir defaults an empty --output-dir to the working directory.
func resolveOutputDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}
