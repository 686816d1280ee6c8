package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/bfcheck/pkg/benchcmp"
	"github.com/Sumatoshi-tech/bfcheck/pkg/config"
)

const (
	benchcmpCmdName  = "benchcmp"
	benchcmpCmdUse   = "benchcmp <baseline.json> <current.json>"
	benchcmpCmdShort = "Compare two benchmark result sets and flag regressions"
	benchcmpCmdLong  = `Compare the cpu_time of every benchmark in the current result set with
the first baseline benchmark of the same name. A change above the threshold
is a regression, below its negation an improvement. Benchmarks missing from
the baseline are reported as new.

The command exits 1 and prints NEED HUMAN when any regression is found.

Examples:
  bfcheck benchcmp baseline.json current.json
  bfcheck benchcmp --threshold 10 --format table baseline.json current.json`

	benchcmpArgCount = 2

	flagThreshold = "threshold"

	attrBaseline    = "benchmark.baseline"
	attrCurrent     = "benchmark.current"
	attrRegressions = "benchmark.regressions"
)

var benchcmpFormats = []string{config.FormatText, config.FormatTable, config.FormatJSON, config.FormatYAML}

type benchcmpOptions struct {
	format    string
	threshold float64
}

// benchcmpDocument is the JSON and YAML shape of a comparison.
type benchcmpDocument struct {
	benchcmp.Report `yaml:",inline"`

	NeedHuman bool `json:"need_human" yaml:"need_human"`
}

func newBenchcmpCommand(a *app) *cobra.Command {
	opts := &benchcmpOptions{}

	cmd := &cobra.Command{
		Use:   benchcmpCmdUse,
		Short: benchcmpCmdShort,
		Long:  benchcmpCmdLong,
		Args:  cobra.ExactArgs(benchcmpArgCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, benchcmpCmdName, func(ctx context.Context) error {
				return a.runBenchcmp(ctx, cmd, opts, args[0], args[1])
			})
		},
	}

	cmd.Flags().Float64Var(&opts.threshold, flagThreshold, config.DefaultThreshold, "regression threshold in percent")
	cmd.Flags().StringVar(&opts.format, flagFormat, "", "output format: text, table, json or yaml")

	return cmd
}

func (a *app) runBenchcmp(
	ctx context.Context, cmd *cobra.Command, opts *benchcmpOptions, baselinePath, currentPath string,
) error {
	threshold := a.cfg.Benchmark.Threshold
	if cmd.Flags().Changed(flagThreshold) {
		threshold = opts.threshold
	}

	if threshold <= 0 {
		return fmt.Errorf("--%s: %w: %v", flagThreshold, config.ErrInvalidThreshold, threshold)
	}

	format, err := resolveFormat(opts.format, a.cfg.Output.Format, benchcmpFormats)
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String(attrBaseline, baselinePath), attribute.String(attrCurrent, currentPath))

	baseline, err := benchcmp.LoadFile(baselinePath)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}

	current, err := benchcmp.LoadFile(currentPath)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	report, err := benchcmp.Compare(baseline, current, threshold)
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	for _, cmp := range report.Comparisons {
		a.metrics.RecordBenchmark(ctx, cmp.Name, string(cmp.Status), cmp.ChangePct, cmp.Status != benchcmp.StatusNew)
	}

	span.SetAttributes(attribute.Int(attrRegressions, report.Regressions))
	a.logger.InfoContext(ctx, "benchmarks compared",
		"threshold", threshold,
		"regressions", report.Regressions,
		"improvements", report.Improvements,
		"neutral", report.Neutral,
		"new", report.New)

	renderErr := renderBenchcmp(cmd, format, report)
	if renderErr != nil {
		return renderErr
	}

	if report.NeedHuman() {
		return &ExitError{
			Code:   ExitRegression,
			Reason: fmt.Sprintf("%d benchmark regression(s) above %.2f%%", report.Regressions, threshold),
		}
	}

	return nil
}

func renderBenchcmp(cmd *cobra.Command, format string, report benchcmp.Report) error {
	out := cmd.OutOrStdout()

	switch format {
	case config.FormatTable:
		return benchcmp.WriteTable(out, report)
	case config.FormatJSON, config.FormatYAML:
		return encode(out, format, benchcmpDocument{Report: report, NeedHuman: report.NeedHuman()})
	default:
		return benchcmp.WriteText(out, report)
	}
}
