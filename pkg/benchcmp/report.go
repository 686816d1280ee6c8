package benchcmp

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// NeedHumanLine is printed when at least one benchmark regressed.
const NeedHumanLine = "NEED HUMAN"

const (
	reportTitle     = "Performance Comparison Report"
	reportUnderline = "============================="
	newGlyph        = "⚠️ "
)

// Glyph returns the status marker used in reports.
func (s Status) Glyph() string {
	switch s {
	case StatusRegression:
		return "🔴"
	case StatusImprovement:
		return "🟢"
	case StatusNeutral:
		return "⚪"
	case StatusNew:
		return newGlyph
	default:
		return ""
	}
}

// Label returns the upper-case status name.
func (s Status) Label() string {
	switch s {
	case StatusRegression:
		return "REGRESSION"
	case StatusImprovement:
		return "IMPROVEMENT"
	case StatusNeutral:
		return "NEUTRAL"
	case StatusNew:
		return "NEW"
	default:
		return string(s)
	}
}

// WriteText writes the report in the plain layout: one block per benchmark
// followed by NeedHumanLine when a regression was found.
func WriteText(w io.Writer, report Report) error {
	var err error

	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	printf("%s\n%s\n\n", reportTitle, reportUnderline)

	for _, cmp := range report.Comparisons {
		if cmp.Status == StatusNew {
			printf("%s New benchmark: %s\n", newGlyph, cmp.Name)

			continue
		}

		printf("%s %s: %s\n", cmp.Status.Glyph(), cmp.Status.Label(), cmp.Name)
		printf("  Baseline: %.2f %s\n", cmp.Baseline, cmp.Unit)
		printf("  Current:  %.2f %s\n", cmp.Current, cmp.Unit)
		printf("  Change:   %+.2f%%\n\n", cmp.ChangePct)
	}

	if report.NeedHuman() {
		printf("%s\n", NeedHumanLine)
	}

	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// WriteTable writes the report as a single go-pretty table with a summary footer.
func WriteTable(w io.Writer, report Report) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetTitle(reportTitle)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	tbl.AppendHeader(table.Row{"Status", "Benchmark", "Baseline", "Current", "Change"})

	for _, cmp := range report.Comparisons {
		if cmp.Status == StatusNew {
			tbl.AppendRow(table.Row{cmp.Status.Label(), cmp.Name, "-", formatTime(cmp.Current, cmp.Unit), "-"})

			continue
		}

		tbl.AppendRow(table.Row{
			cmp.Status.Label(),
			cmp.Name,
			formatTime(cmp.Baseline, cmp.Unit),
			formatTime(cmp.Current, cmp.Unit),
			fmt.Sprintf("%+.2f%%", cmp.ChangePct),
		})
	}

	tbl.AppendFooter(table.Row{
		"",
		fmt.Sprintf("threshold %.2f%%", report.Threshold),
		fmt.Sprintf("%d regressed", report.Regressions),
		fmt.Sprintf("%d improved", report.Improvements),
		fmt.Sprintf("%d new", report.New),
	})

	tbl.Render()

	if report.NeedHuman() {
		_, err := fmt.Fprintln(w, NeedHumanLine)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}

	return nil
}

func formatTime(value float64, unit string) string {
	return fmt.Sprintf("%.2f %s", value, unit)
}
