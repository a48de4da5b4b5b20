package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/temperature-heatmap-service/internal/adapter/source"
	"github.com/couchcryptid/temperature-heatmap-service/internal/config"
	"github.com/couchcryptid/temperature-heatmap-service/internal/domain"
	"github.com/couchcryptid/temperature-heatmap-service/internal/observability"
	"github.com/couchcryptid/temperature-heatmap-service/internal/pipeline"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	source     string
	timeout    time.Duration
	minYear    int
	layoutFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "heatmapctl",
		Short:        "Render temperature heatmaps from a daily CSV",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", sharedcfg.EnvOrDefault("DATA_SOURCE", "temperature_daily.csv"), "CSV file path or http(s) URL")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for fetching an HTTP source")
	flags.IntVar(&opts.minYear, "min-year", 2008, "first year shown on level 2")
	flags.StringVar(&opts.layoutFile, "layout", sharedcfg.EnvOrDefault("LAYOUT_FILE", ""), "YAML layout file")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	cmd.AddCommand(
		newRenderCmd(opts),
		newAggregatesCmd(opts),
		newCellCmd(opts),
	)
	return cmd
}

// logger writes text logs to stderr so stdout stays clean for output.
func (o *rootOptions) logger(errOut io.Writer) *slog.Logger {
	return slog.New(observability.NewHandler(errOut, o.logLevel, "text"))
}

func (o *rootOptions) layout() (config.Layout, error) {
	return config.LoadLayout(o.layoutFile)
}

// snapshot loads and aggregates the source once.
func (o *rootOptions) snapshot(ctx context.Context, logger *slog.Logger) (*pipeline.Snapshot, error) {
	metrics := observability.NewUnregisteredMetrics()
	builder := pipeline.NewBuilder(source.New(o.source, o.timeout, logger), o.minYear, logger, metrics)
	return builder.Build(ctx)
}

func parseLevelFlag(n int) (domain.Level, error) {
	return domain.ParseLevel(fmt.Sprint(n))
}

// output returns the writer for an -o flag; "-" or "" means stdout.
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, f.Close, nil
}
