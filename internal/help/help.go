// SPDX-License-Identifier: Apache-2.0

// Package help renders the colored help screens for both tools.
package help

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
)

// System manages help content for the application
type System struct {
	noColor bool
	colors  map[string]*color.Color
}

// NewSystem creates a new help system
func NewSystem(noColor bool) *System {
	// Disable colors if requested
	if noColor {
		color.NoColor = true
	}

	return &System{
		noColor: noColor,
		colors: map[string]*color.Color{
			"title":    color.New(color.FgWhite, color.Bold),
			"header":   color.New(color.FgBlue, color.Bold),
			"item":     color.New(color.FgCyan),
			"example":  color.New(color.FgMagenta),
			"warning":  color.New(color.FgYellow),
			"positive": color.New(color.FgGreen),
		},
	}
}

// ShowScrubHelp displays the help screen for the redaction tool.
func (h *System) ShowScrubHelp() {
	h.colors["title"].Println("ecg-scrub - ECG Report Redaction Tool")
	fmt.Println("======================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  ecg-scrub --file <report.pdf> [options]")
	fmt.Println("  ecg-scrub --folder <reports-dir> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --file\t<path>\tSingle PDF to redact (mutually exclusive with --folder)")
	fmt.Fprintln(w, "  --folder\t<path>\tFolder of PDFs to redact (mutually exclusive with --file)")
	fmt.Fprintln(w, "  --output\t<path>\tOutput directory (default: \"Censored PDFs\" next to the input folder)")
	fmt.Fprintln(w, "  --no-info\t\tDo not overlay the recovered gender/age text on the output")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json (default: text)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay per-file outcomes in the summary")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of per-operation timing")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help")
	w.Flush()
	fmt.Println()

	h.colors["header"].Println("BEHAVIOR:")
	fmt.Println("  Fixed page regions are blacked out permanently; the patient gender and")
	fmt.Println("  age found inside those regions are re-inserted as a small rotated label.")
	fmt.Println("  Multi-page inputs are trimmed to the first page. The input file is never")
	fmt.Println("  modified. Scanned PDFs (no extractable text) are skipped and, in folder")
	fmt.Println("  mode, copied into the Failed subfolder.")
	fmt.Println()

	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  ecg-scrub --file report.pdf")
	h.colors["example"].Println("  ecg-scrub --folder ./reports --output ./censored --no-info")
	h.colors["example"].Println("  ecg-scrub --folder ./reports --format json --verbose")
}

// ShowSortHelp displays the help screen for the format sorter.
func (h *System) ShowSortHelp() {
	h.colors["title"].Println("ecg-sort - ECG Report Format Sorter")
	fmt.Println("===================================")
	fmt.Println()
	h.colors["header"].Println("USAGE:")
	fmt.Println("  ecg-sort <input-folder> [options]")
	fmt.Println()

	h.colors["header"].Println("OPTIONS:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  --output\t<path>\tOutput directory (default: current directory)")
	fmt.Fprintln(w, "  --config\t<path>\tPath to configuration file (YAML)")
	fmt.Fprintln(w, "  --format\t<format>\tOutput format: text, json (default: text)")
	fmt.Fprintln(w, "  --verbose\t\tDisplay per-file outcomes and count diagnostics")
	fmt.Fprintln(w, "  --debug\t\tEnable debug logging of per-operation timing")
	fmt.Fprintln(w, "  --quiet\t\tSuppress progress output")
	fmt.Fprintln(w, "  --no-color\t\tDisable colored output")
	fmt.Fprintln(w, "  --version\t\tShow version information")
	fmt.Fprintln(w, "  --help\t\tShow this help")
	w.Flush()
	fmt.Println()

	h.colors["header"].Println("BEHAVIOR:")
	fmt.Println("  Each PDF's first-page lead labels (I, II, III, V1-V6, aVR, aVL, aVF) are")
	fmt.Println("  counted against the known report templates. A file is copied into")
	fmt.Println("  Correct/<format>/ only when exactly one template's counts match; files")
	fmt.Println("  matching no template, matching more than one, or failing to read go to")
	fmt.Println("  Incorrect/.")
	fmt.Println()

	h.colors["header"].Println("EXAMPLES:")
	h.colors["example"].Println("  ecg-sort ./reports")
	h.colors["example"].Println("  ecg-sort ./reports --output ./sorted --verbose")
}
