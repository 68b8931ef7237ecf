// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"

	"ecg-scrub/internal/batch"
	"ecg-scrub/internal/classify"
	"ecg-scrub/internal/config"
	"ecg-scrub/internal/help"
	"ecg-scrub/internal/observability"
	"ecg-scrub/internal/version"

	"ecg-scrub/internal/formatters"
	_ "ecg-scrub/internal/formatters/json"
	_ "ecg-scrub/internal/formatters/text"

	"golang.org/x/term"
)

func main() {
	var (
		outputDir    = flag.String("output", "", "Output directory (default: current directory)")
		configFile   = flag.String("config", "", "Path to configuration file (YAML)")
		outputFormat = flag.String("format", "", "Output format: text, json")
		verbose      = flag.Bool("verbose", false, "Display per-file outcomes and count diagnostics")
		debug        = flag.Bool("debug", false, "Enable debug logging")
		quiet        = flag.Bool("quiet", false, "Suppress progress output")
		noColor      = flag.Bool("no-color", false, "Disable colored output")
		showHelp     = flag.Bool("help", false, "Show help")
		doVersion    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *doVersion {
		fmt.Println(version.Info("ecg-sort"))
		return
	}

	cfg := config.LoadConfigOrDefault(*configFile)

	// Config defaults apply where the flag was not given.
	if !isFlagSet("format") || *outputFormat == "" {
		*outputFormat = cfg.Defaults.Format
	}
	if !isFlagSet("verbose") {
		*verbose = cfg.Defaults.Verbose
	}
	if !isFlagSet("debug") {
		*debug = cfg.Defaults.Debug
	}
	if !isFlagSet("no-color") {
		*noColor = cfg.Defaults.NoColor
	}
	if !isFlagSet("output") && cfg.Defaults.OutputDir != "" {
		*outputDir = cfg.Defaults.OutputDir
	}

	helpSystem := help.NewSystem(*noColor)
	if *showHelp {
		helpSystem.ShowSortHelp()
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one input folder is required")
		fmt.Fprintln(os.Stderr)
		helpSystem.ShowSortHelp()
		os.Exit(1)
	}
	inputFolder := flag.Arg(0)

	level := observability.ObservabilityOff
	if *debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewStandardObserver(level, os.Stderr)

	classifier := classify.NewClassifier(classify.TemplatesFromConfig(cfg.Formats))
	driver := batch.NewSortDriver(classifier, *outputDir, observer)

	if !*quiet && term.IsTerminal(int(os.Stdout.Fd())) {
		driver.Progress = func(file string) {
			fmt.Printf("Processing %s...\n", file)
		}
	}

	summary, err := driver.Run(inputFolder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output, err := formatters.Export(*outputFormat, summary, formatters.FormatterOptions{
		Verbose: *verbose,
		NoColor: *noColor,
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
