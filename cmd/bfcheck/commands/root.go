package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/codes"

	"github.com/Sumatoshi-tech/bfcheck/pkg/config"
	"github.com/Sumatoshi-tech/bfcheck/pkg/observability"
	"github.com/Sumatoshi-tech/bfcheck/pkg/version"
)

const (
	rootCmdUse   = "bfcheck"
	rootCmdShort = "Validate b-files and compare benchmark results"
	rootCmdLong  = `bfcheck validates b-files (indexed integer sequences, one "index value"
pair per line) and compares benchmark result sets for regressions.

Commands:
  validate   Check a b-file, optionally against a reference b-file
  benchcmp   Compare two Google Benchmark JSON documents
  version    Show version information`

	flagConfig      = "config"
	flagVerbose     = "verbose"
	flagQuiet       = "quiet"
	flagMetricsFile = "metrics-file"

	configUsage = "config file (default $BFCHECK_CONFIG, then .bfcheck.yaml in the working or home directory)"

	spanPrefix = "bfcheck."
)

// app carries the per-invocation state shared by the subcommands.
type app struct {
	logger    *slog.Logger
	cfg       *config.Config
	metrics   *observability.CheckMetrics
	providers observability.Providers

	configPath  string
	metricsFile string
	verbose     bool
	quiet       bool
}

// NewRootCommand builds the bfcheck command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           rootCmdUse,
		Short:         rootCmdShort,
		Long:          rootCmdLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, flagConfig, "", configUsage)
	flags.BoolVarP(&a.verbose, flagVerbose, "v", false, "verbose output")
	flags.BoolVarP(&a.quiet, flagQuiet, "q", false, "suppress output")
	flags.StringVar(&a.metricsFile, flagMetricsFile, "", "write Prometheus metrics to this file when the command ends")

	rootCmd.AddCommand(newValidateCommand(a))
	rootCmd.AddCommand(newBenchcmpCommand(a))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// execute wraps body with configuration loading, a tracing span, the
// duration metric and telemetry shutdown.
func (a *app) execute(cmd *cobra.Command, name string, body func(ctx context.Context) error) error {
	startErr := a.start(cmd)
	if startErr != nil {
		return startErr
	}

	ctx := observability.WithCommand(cmd.Context(), name)
	ctx, span := a.providers.Tracer.Start(ctx, spanPrefix+name)
	began := time.Now()

	runErr := body(ctx)

	a.metrics.RecordDuration(ctx, name, time.Since(began))

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}

	span.End()

	finishErr := a.finish(ctx)
	if finishErr == nil {
		return runErr
	}

	if runErr != nil {
		a.logger.ErrorContext(ctx, "flush telemetry", "error", finishErr)

		return runErr
	}

	return finishErr
}

func (a *app) start(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed(flagMetricsFile) {
		a.metricsFile = cfg.Observability.MetricsFile
	}

	obsCfg, err := a.observabilityConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewCheckMetrics(providers.Meter)
	if err != nil {
		return errors.Join(fmt.Errorf("create metrics: %w", err), providers.Shutdown(cmd.Context()))
	}

	a.cfg = cfg
	a.providers = providers
	a.metrics = metrics
	a.logger = providers.Logger

	a.logger.Debug("config loaded", "source", cfg.Source, "metrics_file", a.metricsFile)

	return nil
}

func (a *app) observabilityConfig(cfg *config.Config, logWriter io.Writer) (observability.Config, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return observability.Config{}, err
	}

	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Observability.Environment
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = logWriter

	return obsCfg, nil
}

func (a *app) finish(ctx context.Context) error {
	var writeErr error

	if a.metricsFile != "" {
		writeErr = observability.WriteTextfile(a.metricsFile, a.providers.Registry)
	}

	return errors.Join(writeErr, a.providers.Shutdown(ctx))
}
