package cli

import (
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/spf13/cobra"
)

func newDownloadCmd(a *app) *cobra.Command {
	var outputDir string

	cmd := &cobra.Command{
		Use:   "download <hash>",
		Short: "Download a file",
		Long: `Downloads a sample to <output-dir>/<hash> and prints its scan report.
If the sample cannot be downloaded the API response is printed instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveOutputDir(outputDir)
			if err != nil {
				return err
			}
			return a.run(cmd, dispatch.Download{Hash: args[0], OutputDir: dir})
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory to write the downloaded file to (default: current directory)")
	return cmd
}
