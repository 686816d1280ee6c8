package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/bfcheck/pkg/config"
)

const (
	jsonIndent = "  "
	yamlIndent = 2
)

// ErrUnsupportedFormat is returned for an output format the command cannot render.
var ErrUnsupportedFormat = errors.New("unsupported output format")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// resolveFormat picks the --format flag value, then the configured format.
// A configured format the command cannot render falls back to text.
func resolveFormat(flagValue, configured string, supported []string) (string, error) {
	if flagValue != "" {
		if !slices.Contains(supported, flagValue) {
			return "", fmt.Errorf("%w %q (want one of %s)", ErrUnsupportedFormat, flagValue, strings.Join(supported, ", "))
		}

		return flagValue, nil
	}

	if configured != "" && slices.Contains(supported, configured) {
		return configured, nil
	}

	return config.FormatText, nil
}

// encode writes value as indented JSON or YAML.
func encode(w io.Writer, format string, value any) error {
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(value, "", jsonIndent)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		_, err = fmt.Fprintf(w, "%s\n", data)

		return err
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

type colorMode int

const (
	colorAuto colorMode = iota
	colorAlways
	colorNever
)

func newColorMode(force, disable bool) colorMode {
	switch {
	case disable:
		return colorNever
	case force:
		return colorAlways
	default:
		return colorAuto
	}
}

// printer writes verdict lines, colouring them per instance so the
// fatih/color package global is left alone. After the first failed write
// every later write is skipped and Err reports the failure.
type printer struct {
	out  io.Writer
	mode colorMode
	err  error
}

func newPrinter(out io.Writer, mode colorMode) *printer {
	return &printer{out: out, mode: mode}
}

func (p *printer) enabled() bool {
	switch p.mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	default:
		return !color.NoColor
	}
}

func (p *printer) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)

	switch p.mode {
	case colorAlways:
		c.EnableColor()
	case colorNever:
		c.DisableColor()
	case colorAuto:
	}

	return c
}

func (p *printer) ok(format string, args ...any) {
	p.write(p.paint(color.FgGreen), format, args...)
}

func (p *printer) fail(format string, args ...any) {
	p.write(p.paint(color.FgRed), format, args...)
}

func (p *printer) plain(format string, args ...any) {
	p.write(nil, format, args...)
}

func (p *printer) write(c *color.Color, format string, args ...any) {
	if p.err != nil {
		return
	}

	if c == nil {
		_, p.err = fmt.Fprintf(p.out, format, args...)

		return
	}

	_, p.err = c.Fprintf(p.out, format, args...)
}

// Err returns the first write error, if any.
func (p *printer) Err() error {
	if p.err != nil {
		return fmt.Errorf("write output: %w", p.err)
	}

	return nil
}

// highlight marks the characters in which two tokens differ: extra candidate
// characters in red, reference characters the candidate lacks in green.
func (p *printer) highlight(candidate, reference string) (string, string) {
	if !p.enabled() {
		return candidate, reference
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(reference, candidate, false)

	extra := p.paint(color.FgRed, color.Bold)
	missing := p.paint(color.FgGreen, color.Bold)

	var cand, ref strings.Builder

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffEqual:
			cand.WriteString(diff.Text)
			ref.WriteString(diff.Text)
		case diffmatchpatch.DiffInsert:
			cand.WriteString(extra.Sprint(diff.Text))
		case diffmatchpatch.DiffDelete:
			ref.WriteString(missing.Sprint(diff.Text))
		}
	}

	return cand.String(), ref.String()
}
