package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kapu/isso-client-go/internal/app"
	"github.com/kapu/isso-client-go/internal/config"
	"github.com/kapu/isso-client-go/internal/constants"
	"github.com/kapu/isso-client-go/internal/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	flagPage     string
	flagPageFile string
	flagEndpoint string
	flagLogLevel   string
	flagMetricsOut string
	flagJSON       bool

	container *app.Container
)

var rootCmd = &cobra.Command{
	Use:           "commentctl",
	Short:         "Talk to an isso comment service the way an embedded widget does",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)

		logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), constants.CLIConfig.BuildTimeout)
		defer cancel()

		container, err = app.Build(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to assemble comment client", zap.Error(err))
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if container == nil {
			return nil
		}
		defer func() { _ = container.Logger.Sync() }()
		return writeMetrics(container)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPage, "page", "", "URL of the page hosting the comments (ISSO_PAGE_URL)")
	pf.StringVar(&flagPageFile, "page-file", "", "read the hosting page from a local HTML file (ISSO_PAGE_FILE)")
	pf.StringVar(&flagEndpoint, "endpoint", "", "comment service URL, skips script detection (ISSO_ENDPOINT)")
	pf.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	pf.StringVar(&flagMetricsOut, "metrics-out", "", "write request metrics in Prometheus text format to this file (ISSO_METRICS_FILE)")
	pf.BoolVar(&flagJSON, "json", false, "print raw JSON results")

	rootCmd.AddCommand(endpointCmd, fetchCmd, viewCmd, countCmd, ipCmd, threadCmd)
	rootCmd.AddCommand(createCmd, editCmd, deleteCmd, likeCmd, dislikeCmd)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("page") {
		cfg.Page.URL = flagPage
	}
	if flags.Changed("page-file") {
		cfg.Page.File = flagPageFile
	}
	if flags.Changed("endpoint") {
		cfg.Service.Endpoint = flagEndpoint
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = flagLogLevel
	}
	if flags.Changed("metrics-out") {
		cfg.Metrics.File = flagMetricsOut
		cfg.Metrics.Enabled = cfg.Metrics.Enabled || flagMetricsOut != ""
	}
}

// writeMetrics dumps the request metrics of this run for a textfile collector.
func writeMetrics(c *app.Container) error {
	path := c.Config.Metrics.File
	if path == "" || c.Registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.Registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	c.Logger.Debug("Metrics written", zap.String("path", path))
	return nil
}

// commandContext bounds a single operation.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), constants.CLIConfig.CommandTimeout)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
