// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"path/filepath"

	"ecg-scrub/internal/classify"
	"ecg-scrub/internal/observability"
)

// Sort output folder names.
const (
	CorrectDirName   = "Correct"
	IncorrectDirName = "Incorrect"
)

// SortDriver copies every PDF in a folder into a per-format subfolder of
// Correct/, or into Incorrect/ when no single template matches.
type SortDriver struct {
	classifier *classify.Classifier
	outputDir  string
	observer   *observability.StandardObserver

	// Progress, when set, is called with each file before processing.
	Progress func(file string)
}

// NewSortDriver creates a folder driver around a classifier. An empty
// outputDir means the current directory.
func NewSortDriver(classifier *classify.Classifier, outputDir string, observer *observability.StandardObserver) *SortDriver {
	if outputDir == "" {
		outputDir = "."
	}
	return &SortDriver{classifier: classifier, outputDir: outputDir, observer: observer}
}

// Run classifies every PDF directly under folder and copies it to its
// bucket. Any per-file error classifies the file as incorrect; the batch
// always runs to completion.
func (d *SortDriver) Run(folder string) (*Summary, error) {
	correctDir := filepath.Join(d.outputDir, CorrectDirName)
	incorrectDir := filepath.Join(d.outputDir, IncorrectDirName)

	if err := EnsureDir(incorrectDir); err != nil {
		return nil, err
	}
	for _, format := range d.classifier.Formats() {
		if err := EnsureDir(filepath.Join(correctDir, format)); err != nil {
			return nil, err
		}
	}

	files, err := ListPDFs(folder)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		InputDir:  folder,
		OutputDir: d.outputDir,
		Formats:   make(map[string]int),
	}

	for _, file := range files {
		if d.Progress != nil {
			d.Progress(file)
		}

		finish := d.startTiming("sort_driver", "process_file", file)
		outcome := d.sortFile(file, correctDir, incorrectDir, finish)
		if outcome.Status == StatusProcessed && outcome.Format != "" {
			summary.Formats[outcome.Format]++
		}
		summary.add(outcome)
	}

	return summary, nil
}

func (d *SortDriver) sortFile(file, correctDir, incorrectDir string, finish func(bool, map[string]interface{})) Outcome {
	format, _, err := d.classifier.ClassifyFile(file)

	if err != nil || format == "" {
		reason := "no single format matched"
		if err != nil {
			reason = err.Error()
		}
		finish(false, map[string]interface{}{"reason": reason})

		outcome := Outcome{File: file, Status: StatusFailed, Reason: reason}
		dest := filepath.Join(incorrectDir, filepath.Base(file))
		if copyErr := CopyFile(file, dest); copyErr != nil {
			outcome.Reason += "; copy to incorrect folder also failed: " + copyErr.Error()
		} else {
			outcome.OutputPath = dest
		}
		return outcome
	}

	finish(true, map[string]interface{}{"format": format})

	outcome := Outcome{File: file, Status: StatusProcessed, Format: format}
	dest := filepath.Join(correctDir, format, filepath.Base(file))
	if copyErr := CopyFile(file, dest); copyErr != nil {
		outcome.Status = StatusFailed
		outcome.Reason = "copy failed: " + copyErr.Error()
		return outcome
	}
	outcome.OutputPath = dest
	return outcome
}

func (d *SortDriver) startTiming(component, operation, path string) func(bool, map[string]interface{}) {
	if d.observer == nil {
		return func(bool, map[string]interface{}) {}
	}
	return d.observer.StartTiming(component, operation, path)
}
