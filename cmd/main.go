// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"ecg-scrub/internal/batch"
	"ecg-scrub/internal/config"
	"ecg-scrub/internal/help"
	"ecg-scrub/internal/observability"
	"ecg-scrub/internal/redact"
	"ecg-scrub/internal/version"

	"ecg-scrub/internal/formatters"
	_ "ecg-scrub/internal/formatters/json"
	_ "ecg-scrub/internal/formatters/text"

	"golang.org/x/term"
)

// configFlags holds command line flag values
type configFlags struct {
	outputFormat string
	verbose      bool
	debug        bool
	noColor      bool
	quiet        bool
	noInfo       bool
	outputDir    string
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format    string
	verbose   bool
	debug     bool
	noColor   bool
	quiet     bool
	noInfo    bool
	outputDir string
}

// resolveConfiguration resolves final configuration values from config file and command line flags
func resolveConfiguration(cfg *config.Config, flags *configFlags) *finalConfiguration {
	final := &finalConfiguration{}

	// Format
	final.format = "text" // default fallback
	if cfg != nil && cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if isFlagSet("format") && flags.outputFormat != "" {
		final.format = flags.outputFormat
	}

	// Verbose
	if cfg != nil {
		final.verbose = cfg.Defaults.Verbose
	}
	if isFlagSet("verbose") {
		final.verbose = flags.verbose
	}

	// Debug
	if cfg != nil {
		final.debug = cfg.Defaults.Debug
	}
	if isFlagSet("debug") {
		final.debug = flags.debug
	}

	// No color
	if cfg != nil {
		final.noColor = cfg.Defaults.NoColor
	}
	if isFlagSet("no-color") {
		final.noColor = flags.noColor
	}

	// Include info: config default is true; --no-info inverts it
	includeInfo := true
	if cfg != nil {
		includeInfo = cfg.Defaults.IncludeInfo
	}
	if isFlagSet("no-info") {
		includeInfo = !flags.noInfo
	}
	final.noInfo = !includeInfo

	// Output directory
	if cfg != nil {
		final.outputDir = cfg.Defaults.OutputDir
	}
	if isFlagSet("output") {
		final.outputDir = flags.outputDir
	}

	final.quiet = flags.quiet

	return final
}

func main() {
	var (
		filePath   = flag.String("file", "", "Single PDF to redact")
		folderPath = flag.String("folder", "", "Folder of PDFs to redact")
		configFile = flag.String("config", "", "Path to configuration file (YAML)")
		showHelp   = flag.Bool("help", false, "Show help")
		doVersion  = flag.Bool("version", false, "Show version information")
	)

	flags := &configFlags{}
	flag.StringVar(&flags.outputFormat, "format", "", "Output format: text, json")
	flag.StringVar(&flags.outputDir, "output", "", "Output directory")
	flag.BoolVar(&flags.noInfo, "no-info", false, "Do not overlay recovered gender/age text")
	flag.BoolVar(&flags.verbose, "verbose", false, "Display per-file outcomes in the summary")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&flags.quiet, "quiet", false, "Suppress progress output")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.Parse()

	if *doVersion {
		fmt.Println(version.Info("ecg-scrub"))
		return
	}

	cfg := config.LoadConfigOrDefault(*configFile)
	final := resolveConfiguration(cfg, flags)

	helpSystem := help.NewSystem(final.noColor)
	if *showHelp {
		helpSystem.ShowScrubHelp()
		return
	}

	if (*filePath == "") == (*folderPath == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --file or --folder is required")
		fmt.Fprintln(os.Stderr)
		helpSystem.ShowScrubHelp()
		os.Exit(1)
	}

	level := observability.ObservabilityOff
	if final.debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)

	redactor := redact.NewRedactor(observer)
	opts := redact.Options{
		Regions:     cfg.Regions(),
		OutputDir:   final.outputDir,
		IncludeInfo: !final.noInfo,
		AnchorX:     cfg.Redaction.Overlay.X,
		AnchorY:     cfg.Redaction.Overlay.Y,
		FontSize:    cfg.Redaction.Overlay.FontSize,
	}

	if *filePath != "" {
		runSingleFile(redactor, *filePath, opts)
		return
	}

	runFolder(redactor, *folderPath, opts, final, observer)
}

// runSingleFile redacts one file and reports the result on stdout.
func runSingleFile(redactor *redact.Redactor, path string, opts redact.Options) {
	result, err := redactor.RedactFile(path, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Redacted %s -> %s\n", path, result.OutputPath)
	if labels := result.Labels(); len(labels) > 0 {
		fmt.Printf("Recovered: %s\n", strings.Join(labels, " "))
	}
}

// runFolder redacts a whole folder and prints the batch summary in the
// selected format.
func runFolder(redactor *redact.Redactor, folder string, opts redact.Options, final *finalConfiguration, observer *observability.StandardObserver) {
	driver := batch.NewRedactDriver(redactor, opts, observer)

	// Progress output only when attached to a terminal and not quieted.
	if !final.quiet && isTerminal(os.Stdout) {
		driver.Progress = func(file string) {
			fmt.Printf("Processing %s...\n", file)
		}
	}

	summary, err := driver.Run(folder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output, err := formatters.Export(final.format, summary, formatters.FormatterOptions{
		Verbose: final.verbose,
		NoColor: final.noColor,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isTerminal checks if the given file is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
