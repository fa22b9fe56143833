package cli

import (
	"fmt"
	"strings"

	"github.com/buemura/vtcli/internal/config"
	"github.com/buemura/vtcli/internal/dispatch"
	"github.com/buemura/vtcli/internal/logging"
	"github.com/buemura/vtcli/internal/output"
	"github.com/buemura/vtcli/internal/vtapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// app carries the global flags and the logger for one command tree.
type app struct {
	configPath string
	format     string
	verbose    bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:   "vtcli",
		Short: "Command-line client for the VirusTotal private API",
		Long: `vtcli is a command-line client for the VirusTotal private API.
It submits files and URLs for scanning, fetches scan reports, sandbox
behaviour and network captures, downloads samples, and looks up the
reputation of IP addresses and domains.

The API key is read from an INI file (default ~/.vtapi):

  [vt]
  apikey = <your key>`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setupLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync(a.logger)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.DefaultPath, "path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&a.format, "format", "f", "json", "output format for reports: "+strings.Join(output.Formats, ", "))
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logs on stderr)")

	rootCmd.AddCommand(
		newFileScanCmd(a),
		newRescanCmd(a),
		newFileReportCmd(a),
		newBehaviourCmd(a),
		newPCAPCmd(a),
		newSearchCmd(a),
		newDownloadCmd(a),
		newURLScanCmd(a),
		newURLReportCmd(a),
		newIPReportCmd(a),
		newDomainReportCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (a *app) setupLogger(cmd *cobra.Command, args []string) error {
	cfg := logging.FromEnv()
	if a.verbose {
		cfg.Level = "debug"
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger
	return nil
}

// run loads the configuration, builds the API client and dispatches command.
// The formatter is resolved first so a bad --format never costs an API call.
func (a *app) run(cmd *cobra.Command, command dispatch.Command) error {
	formatter, err := output.GetFormatter(a.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.logger.Debug("config loaded", logging.Path(cfg.Path))

	client := vtapi.New(cfg.APIKey,
		vtapi.WithBaseURL(cfg.BaseURL),
		vtapi.WithTimeout(cfg.Timeout),
		vtapi.WithLogger(a.logger.Named("vtapi")),
	)

	d := dispatch.New(client, dispatch.Options{
		Formatter: formatter,
		Stdout:    cmd.OutOrStdout(),
		Logger:    a.logger.Named("dispatch"),
	})
	return d.Run(cmd.Context(), command)
}
