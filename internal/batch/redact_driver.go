// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"path/filepath"
	"strings"

	"ecg-scrub/internal/observability"
	"ecg-scrub/internal/redact"
)

// FailedDirName is the subfolder of the redaction output directory that
// receives inputs the redactor could not process.
const FailedDirName = "Failed"

// DefaultRedactDirName is the default redaction output directory, created
// next to the input folder.
const DefaultRedactDirName = "Censored PDFs"

// RedactDriver redacts every PDF in a folder.
type RedactDriver struct {
	redactor *redact.Redactor
	opts     redact.Options
	observer *observability.StandardObserver

	// Progress, when set, is called with each file before processing.
	Progress func(file string)
}

// NewRedactDriver creates a folder driver around a redactor. opts.OutputDir
// may be empty; Run resolves the default.
func NewRedactDriver(redactor *redact.Redactor, opts redact.Options, observer *observability.StandardObserver) *RedactDriver {
	return &RedactDriver{redactor: redactor, opts: opts, observer: observer}
}

// Run redacts every PDF directly under folder. Failures are copied into the
// Failed subfolder and recorded; they never abort the batch.
func (d *RedactDriver) Run(folder string) (*Summary, error) {
	outputDir := d.opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(filepath.Dir(filepath.Clean(folder)), DefaultRedactDirName)
	}
	failedDir := filepath.Join(outputDir, FailedDirName)

	if err := EnsureDir(outputDir); err != nil {
		return nil, err
	}
	if err := EnsureDir(failedDir); err != nil {
		return nil, err
	}

	files, err := ListPDFs(folder)
	if err != nil {
		return nil, err
	}

	summary := &Summary{InputDir: folder, OutputDir: outputDir}
	opts := d.opts
	opts.OutputDir = outputDir

	for _, file := range files {
		if d.Progress != nil {
			d.Progress(file)
		}

		finish := d.startTiming("redact_driver", "process_file", file)

		result, err := d.redactor.RedactFile(file, opts)
		if err != nil {
			finish(false, map[string]interface{}{"error": err.Error()})
			summary.add(d.failOutcome(file, failedDir, err))
			continue
		}

		finish(true, nil)
		summary.add(Outcome{
			File:       file,
			Status:     StatusProcessed,
			OutputPath: result.OutputPath,
			Info:       strings.Join(result.Labels(), " "),
		})
	}

	return summary, nil
}

// failOutcome copies a failing input into the Failed folder and builds its
// outcome record. A copy error is appended to the reason, not escalated.
func (d *RedactDriver) failOutcome(file, failedDir string, cause error) Outcome {
	outcome := Outcome{
		File:   file,
		Status: StatusFailed,
		Reason: cause.Error(),
	}

	dest := filepath.Join(failedDir, filepath.Base(file))
	if err := CopyFile(file, dest); err != nil {
		outcome.Reason += "; copy to failed folder also failed: " + err.Error()
	} else {
		outcome.OutputPath = dest
	}
	return outcome
}

func (d *RedactDriver) startTiming(component, operation, path string) func(bool, map[string]interface{}) {
	if d.observer == nil {
		return func(bool, map[string]interface{}) {}
	}
	return d.observer.StartTiming(component, operation, path)
}
