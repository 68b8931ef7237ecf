// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"sort"
	"strings"

	"ecg-scrub/internal/batch"
	"ecg-scrub/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"yellow": color.New(color.FgYellow),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable batch summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(summary *batch.Summary, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	var builder strings.Builder

	if options.Verbose {
		for _, outcome := range summary.Outcomes {
			f.appendOutcome(&builder, outcome)
		}
		if len(summary.Outcomes) > 0 {
			builder.WriteString("\n")
		}
	}

	builder.WriteString(f.colors["white"].Sprint("Summary"))
	builder.WriteString("\n")
	fmt.Fprintf(&builder, "  Input:     %s\n", summary.InputDir)
	fmt.Fprintf(&builder, "  Output:    %s\n", summary.OutputDir)
	fmt.Fprintf(&builder, "  Total:     %d\n", summary.Total)
	fmt.Fprintf(&builder, "  Processed: %s\n", f.colors["green"].Sprintf("%d", summary.Processed))
	fmt.Fprintf(&builder, "  Failed:    %s\n", f.colors["red"].Sprintf("%d", summary.Failed))

	if len(summary.Formats) > 0 {
		builder.WriteString("  Formats:\n")
		names := make([]string, 0, len(summary.Formats))
		for name := range summary.Formats {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&builder, "    %s: %d\n", f.colors["cyan"].Sprint(name), summary.Formats[name])
		}
	}

	return builder.String(), nil
}

// appendOutcome writes a single per-file line.
func (f *Formatter) appendOutcome(builder *strings.Builder, outcome batch.Outcome) {
	status := f.colors["green"].Sprint("OK    ")
	if outcome.Status == batch.StatusFailed {
		status = f.colors["red"].Sprint("FAILED")
	}

	fmt.Fprintf(builder, "%s  %s", status, outcome.File)
	if outcome.Format != "" {
		fmt.Fprintf(builder, "  [%s]", f.colors["cyan"].Sprint(outcome.Format))
	}
	if outcome.Info != "" {
		fmt.Fprintf(builder, "  %s", f.colors["yellow"].Sprint(outcome.Info))
	}
	if outcome.Reason != "" {
		fmt.Fprintf(builder, "  (%s)", outcome.Reason)
	}
	builder.WriteString("\n")
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
