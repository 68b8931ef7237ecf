// SPDX-License-Identifier: Apache-2.0

// Package redact blacks out fixed regions of an ECG report's first page
// while preserving the patient gender/age text found inside those regions.
package redact

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ecg-scrub/internal/observability"
	"ecg-scrub/internal/pdftext"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Sentinel errors for the failure modes callers branch on. All are wrapped
// with file context by Redactor.RedactFile.
var (
	// ErrNoPages signals a document with zero pages.
	ErrNoPages = errors.New("pdf has no pages")

	// ErrScannedPDF signals an image-only page with no extractable text.
	ErrScannedPDF = errors.New("no extractable text (scanned pdf)")

	// ErrNoPatientInfo signals that no redaction region yielded gender or
	// age text.
	ErrNoPatientInfo = errors.New("no gender or age found in any region")
)

// Options configures a redaction run.
type Options struct {
	// Regions are the rectangles to black out, in reader space, before
	// mirroring.
	Regions []pdftext.Rect

	// OutputDir receives the censored file. Empty means alongside the
	// input.
	OutputDir string

	// IncludeInfo controls whether the recovered gender/age text is
	// overlaid on the output.
	IncludeInfo bool

	// Overlay anchor and font size, in reader space.
	AnchorX  float64
	AnchorY  float64
	FontSize float64
}

// Result describes a successful redaction.
type Result struct {
	// OutputPath is the censored file that was written.
	OutputPath string

	// Info holds the recovered patient info per region index. Regions that
	// yielded nothing are absent.
	Info map[int]PatientInfo
}

// Labels returns the recovered info strings in region order.
func (r *Result) Labels() []string {
	return labelsInOrder(r.Info)
}

func labelsInOrder(info map[int]PatientInfo) []string {
	indexes := make([]int, 0, len(info))
	for i := range info {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	labels := make([]string, 0, len(indexes))
	for _, i := range indexes {
		labels = append(labels, info[i].Label())
	}
	return labels
}

// Redactor applies fixed-region redactions to report PDFs.
type Redactor struct {
	observer *observability.StandardObserver
}

// NewRedactor creates a redactor. The observer may be nil.
func NewRedactor(observer *observability.StandardObserver) *Redactor {
	return &Redactor{observer: observer}
}

// RedactFile redacts one PDF. The input file is never mutated; the output is
// written as <base>_censored.pdf under opts.OutputDir. It returns an error
// wrapping ErrNoPages, ErrScannedPDF, or ErrNoPatientInfo for the known
// failure modes.
func (r *Redactor) RedactFile(path string, opts Options) (*Result, error) {
	finish := r.startTiming("redactor", "redact_file", path)

	result, err := r.redactFile(path, opts)
	finish(err == nil, map[string]interface{}{
		"regions": len(opts.Regions),
	})
	return result, err
}

func (r *Redactor) redactFile(path string, opts Options) (*Result, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return nil, fmt.Errorf("invalid PDF file %s: %w", path, err)
	}

	doc, err := pdftext.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer doc.Close()

	pageCount := doc.PageCount()
	if pageCount == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPages)
	}

	page, err := doc.FirstPage()
	if err != nil {
		return nil, fmt.Errorf("error reading first page of %s: %w", path, err)
	}
	if !page.HasText() {
		return nil, fmt.Errorf("%s: %w", path, ErrScannedPDF)
	}

	// Recover gender/age from each region before it is painted over. The
	// region tables were captured against a rotated layout, so the vertical
	// extent mirrors against the page width.
	info := make(map[int]PatientInfo)
	mirrored := make([]pdftext.Rect, len(opts.Regions))
	for i, region := range opts.Regions {
		mirrored[i] = region.MirrorVertical(page.Width)
		pi := ExtractPatientInfo(page.RegionText(mirrored[i]))
		if !pi.Empty() {
			info[i] = pi
		}
	}
	if len(info) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoPatientInfo)
	}

	outputPath, err := r.writeOutput(path, page, pageCount, mirrored, info, opts)
	if err != nil {
		return nil, err
	}

	return &Result{OutputPath: outputPath, Info: info}, nil
}

// writeOutput produces the censored file: first page only, black fills over
// every region, and optionally the recovered text stamped in white.
func (r *Redactor) writeOutput(path string, page *pdftext.Page, pageCount int, regions []pdftext.Rect, info map[int]PatientInfo, opts Options) (string, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outputDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outputPath := filepath.Join(outputDir, base+"_censored.pdf")

	workDir, err := os.MkdirTemp("", "ecg-scrub-*")
	if err != nil {
		return "", fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	// Keep only the first page. Single-page inputs skip the trim and get a
	// plain byte copy.
	workFile := filepath.Join(workDir, "page1.pdf")
	if pageCount > 1 {
		if err := api.TrimFile(path, workFile, []string{"1"}, nil); err != nil {
			return "", fmt.Errorf("failed to trim %s to first page: %w", path, err)
		}
	} else {
		if err := copyFile(path, workFile); err != nil {
			return "", err
		}
	}

	// The overlay must share the work file's MediaBox so an absolute-scale
	// stamp aligns exactly.
	width, height := page.Width, page.Height
	if dims, err := api.PageDimsFile(workFile); err == nil && len(dims) > 0 {
		width, height = dims[0].Width, dims[0].Height
	}

	// Redaction is removal, not covering: strip the text inside the regions
	// from the content stream before painting the black fills, or the
	// original glyphs would remain extractable underneath.
	clipped := make([]pdftext.Rect, len(regions))
	for i, region := range regions {
		clipped[i] = region.ToPDF(height)
	}
	if err := scrubFileRegions(workFile, clipped); err != nil {
		return "", fmt.Errorf("failed to remove region text from %s: %w", path, err)
	}

	overlay := &Overlay{
		Width:    width,
		Height:   height,
		AnchorX:  opts.AnchorX,
		AnchorY:  opts.AnchorY,
		FontSize: opts.FontSize,
	}
	overlay.Boxes = clipped
	// All recovered info goes into a single line; separate labels would
	// overprint at the shared anchor.
	if opts.IncludeInfo {
		if label := strings.Join(labelsInOrder(info), " "); label != "" {
			overlay.Labels = []string{label}
		}
	}

	overlayFile := filepath.Join(workDir, "overlay.pdf")
	if err := os.WriteFile(overlayFile, overlay.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write overlay: %w", err)
	}

	// Stamp at absolute scale, anchored bottom-left, so overlay coordinates
	// map 1:1 onto the page.
	wm, err := api.PDFWatermark(overlayFile, "scale:1 abs, pos:bl, rot:0", true, false, types.POINTS)
	if err != nil {
		return "", fmt.Errorf("failed to build redaction stamp: %w", err)
	}
	if err := api.AddWatermarksFile(workFile, outputPath, []string{"1"}, wm, nil); err != nil {
		return "", fmt.Errorf("failed to stamp %s: %w", path, err)
	}

	return outputPath, nil
}

func (r *Redactor) startTiming(component, operation, path string) func(bool, map[string]interface{}) {
	if r.observer == nil {
		return func(bool, map[string]interface{}) {}
	}
	return r.observer.StartTiming(component, operation, path)
}

// copyFile copies a file with secure permissions, syncing before close.
func copyFile(sourcePath, destPath string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err := destFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync destination file: %w", err)
	}

	return nil
}
