package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/bfcheck/pkg/bfile"
	"github.com/Sumatoshi-tech/bfcheck/pkg/config"
	"github.com/Sumatoshi-tech/bfcheck/pkg/units"
)

const (
	validateCmdName  = "validate"
	validateCmdUse   = "validate <bfile> [reference-bfile]"
	validateCmdShort = "Validate a b-file and optionally compare it with a reference"
	validateCmdLong  = `Validate a b-file and, when a second file is given, check that both
files hold the same sequence over their common prefix.

Exit codes:
  0  valid (and compatible with the reference)
  1  usage, configuration or I/O error
  2  a file is not a valid b-file
  3  the files hold different sequences

Examples:
  bfcheck validate b000045.txt
  bfcheck validate --require-header b000045.txt
  bfcheck validate b000045.txt reference/b000045.txt`

	validateMinArgs = 1
	validateMaxArgs = 2

	flagRequireHeader = "require-header"
	flagMaxFileSize   = "max-file-size"
	flagColor         = "color"
	flagNoColor       = "no-color"
	flagFormat        = "format"

	outcomeValid        = "valid"
	outcomeCompatible   = "compatible"
	outcomeIncompatible = "incompatible"
	outcomeUnchecked    = "unchecked"

	attrPath      = "bfile.path"
	attrReference = "bfile.reference"
	attrValues    = "bfile.values"
)

var validateFormats = []string{config.FormatText, config.FormatJSON, config.FormatYAML}

// failureOutcomes maps validation failure kinds to metric outcome labels.
var failureOutcomes = []struct {
	kind    error
	outcome string
}{
	{bfile.ErrNotFound, "not_found"},
	{bfile.ErrFileTooLarge, "too_large"},
	{bfile.ErrMissingTrailingBlankLine, "missing_trailing_blank_line"},
	{bfile.ErrMissingHeader, "missing_header"},
	{bfile.ErrInvalidFormat, "invalid_format"},
	{bfile.ErrNonConsecutiveIndex, "non_consecutive_index"},
	{bfile.ErrEmptySequence, "empty_sequence"},
}

type validateOptions struct {
	maxFileSize   string
	format        string
	requireHeader bool
	forceColor    bool
	noColor       bool
}

// validateReport is the rendered result of one validate invocation.
type validateReport struct {
	Range     *bfile.Range     `json:"range,omitempty"     yaml:"range,omitempty"`
	Reference *referenceReport `json:"reference,omitempty" yaml:"reference,omitempty"`
	Path      string           `json:"path"                yaml:"path"`
	Verdict   bfile.Verdict    `json:"verdict"             yaml:"verdict"`
	Values    int              `json:"values"              yaml:"values"`
}

type referenceReport struct {
	Mismatch   *bfile.Mismatch `json:"mismatch,omitempty" yaml:"mismatch,omitempty"`
	Path       string          `json:"path"               yaml:"path"`
	Verdict    bfile.Verdict   `json:"verdict"            yaml:"verdict"`
	Compared   int             `json:"compared"           yaml:"compared"`
	Compatible bool            `json:"compatible"         yaml:"compatible"`
}

func (r validateReport) exitError() error {
	switch {
	case !r.Verdict.Valid:
		return &ExitError{Code: ExitInvalid, Reason: r.Verdict.Reason}
	case r.Reference == nil:
		return nil
	case !r.Reference.Verdict.Valid:
		return &ExitError{Code: ExitInvalid, Reason: "reference: " + r.Reference.Verdict.Reason}
	case !r.Reference.Compatible:
		return &ExitError{Code: ExitMismatch, Reason: r.Reference.Mismatch.String()}
	default:
		return nil
	}
}

func newValidateCommand(a *app) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   validateCmdUse,
		Short: validateCmdShort,
		Long:  validateCmdLong,
		Args:  cobra.RangeArgs(validateMinArgs, validateMaxArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(cmd, validateCmdName, func(ctx context.Context) error {
				return a.runValidate(ctx, cmd, opts, args)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.requireHeader, flagRequireHeader, false, "require the first line to be a # comment")
	cmd.Flags().StringVar(&opts.maxFileSize, flagMaxFileSize, "", "reject files larger than this (e.g. 64MiB, 0 for unlimited)")
	cmd.Flags().BoolVar(&opts.forceColor, flagColor, false, "force colored output")
	cmd.Flags().BoolVar(&opts.noColor, flagNoColor, false, "disable colored output")
	cmd.Flags().StringVar(&opts.format, flagFormat, "", "output format: text, json or yaml")

	return cmd
}

func (a *app) runValidate(ctx context.Context, cmd *cobra.Command, opts *validateOptions, args []string) error {
	bfOpts, err := opts.bfileOptions(cmd, a.cfg)
	if err != nil {
		return err
	}

	format, err := resolveFormat(opts.format, a.cfg.Output.Format, validateFormats)
	if err != nil {
		return err
	}

	span := trace.SpanFromContext(ctx)
	span.SetAttributes(attribute.String(attrPath, args[0]))

	report := validateReport{Path: args[0]}

	candidate, readErr := a.readBFile(ctx, args[0], bfOpts)
	report.Verdict = bfile.NewVerdict(readErr)

	if readErr == nil {
		report.Range = &candidate.Range
		report.Values = candidate.Len()
		span.SetAttributes(attribute.Int(attrValues, candidate.Len()))

		if len(args) == validateMaxArgs {
			span.SetAttributes(attribute.String(attrReference, args[1]))
			report.Reference = a.checkReference(ctx, candidate, args[1], bfOpts)
		}
	}

	var writeErr error

	if format == config.FormatText {
		p := newPrinter(cmd.OutOrStdout(), newColorMode(opts.forceColor, opts.noColor))
		writeValidateText(p, report, a.quiet)
		writeErr = p.Err()
	} else {
		writeErr = encode(cmd.OutOrStdout(), format, report)
	}

	if writeErr != nil {
		return writeErr
	}

	return report.exitError()
}

func (o *validateOptions) bfileOptions(cmd *cobra.Command, cfg *config.Config) (bfile.Options, error) {
	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return bfile.Options{}, err
	}

	if cmd.Flags().Changed(flagMaxFileSize) {
		maxSize, err = units.ParseSize(o.maxFileSize)
		if err != nil {
			return bfile.Options{}, fmt.Errorf("--%s: %w", flagMaxFileSize, err)
		}
	}

	requireHeader := cfg.BFile.RequireHeader
	if cmd.Flags().Changed(flagRequireHeader) {
		requireHeader = o.requireHeader
	}

	return bfile.Options{RequireHeader: requireHeader, MaxFileSize: maxSize}, nil
}

func (a *app) readBFile(ctx context.Context, path string, opts bfile.Options) (*bfile.Sequence, error) {
	seq, err := bfile.ReadFile(path, opts)
	if err != nil {
		a.metrics.RecordFile(ctx, failureOutcome(err))
		a.logger.DebugContext(ctx, "b-file rejected", "path", path, "error", err)

		return nil, err
	}

	a.metrics.RecordFile(ctx, outcomeValid)
	a.logger.DebugContext(ctx, "b-file accepted",
		"path", path, "values", seq.Len(), "lines", seq.Lines, "range", seq.Range.String())

	return seq, nil
}

func (a *app) checkReference(
	ctx context.Context, candidate *bfile.Sequence, path string, opts bfile.Options,
) *referenceReport {
	ref := &referenceReport{Path: path}

	reference, readErr := a.readBFile(ctx, path, opts)
	ref.Verdict = bfile.NewVerdict(readErr)

	if readErr != nil {
		a.metrics.RecordComparison(ctx, outcomeUnchecked)

		return ref
	}

	cmp := bfile.CompareSequences(candidate, reference)
	ref.Compared = cmp.Compared
	ref.Compatible = cmp.Compatible()
	ref.Mismatch = cmp.Mismatch

	if ref.Compatible {
		a.metrics.RecordComparison(ctx, outcomeCompatible)
	} else {
		a.metrics.RecordComparison(ctx, outcomeIncompatible)
		a.logger.InfoContext(ctx, "sequences differ", "candidate", candidate.Path, "reference", path,
			"position", cmp.Mismatch.Position)
	}

	return ref
}

func failureOutcome(err error) string {
	for _, fo := range failureOutcomes {
		if errors.Is(err, fo.kind) {
			return fo.outcome
		}
	}

	return "error"
}

func writeValidateText(p *printer, report validateReport, quiet bool) {
	if !report.Verdict.Valid {
		p.fail("ERROR: %s\n", report.Verdict.Reason)

		return
	}

	if !quiet {
		p.ok("OK: %s\n", report.Verdict.Reason)
		p.plain("range: %s\n", report.Range)
	}

	ref := report.Reference
	if ref == nil {
		return
	}

	if !ref.Verdict.Valid {
		p.fail("ERROR: reference %s: %s\n", ref.Path, ref.Verdict.Reason)

		return
	}

	if ref.Mismatch == nil {
		if !quiet {
			p.ok("Checked: against reference\n")
		}

		return
	}

	candidate, reference := p.highlight(ref.Mismatch.Candidate, ref.Mismatch.Reference)

	p.plain("index %d\n", ref.Mismatch.Position)
	p.plain("  candidate: %s\n", candidate)
	p.plain("  reference: %s\n", reference)
	p.fail("Error: different sequence in bfiles\n")
}
