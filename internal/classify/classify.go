// SPDX-License-Identifier: Apache-2.0

// Package classify determines which known ECG report layout a PDF's first
// page matches by counting lead-label occurrences against fixed templates.
package classify

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ecg-scrub/internal/pdftext"

	"github.com/dlclark/regexp2"
)

// Template maps a lead label to the number of times it is expected to appear
// on the first page of a report in that layout.
type Template map[string]int

// CountMismatch records an expected-vs-actual occurrence count for a label.
type CountMismatch struct {
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
}

// ValidationResult is the per-template outcome of checking one page of text.
// It is transient: computed per file, never persisted.
type ValidationResult struct {
	Valid            bool                     `json:"valid"`
	ActualCounts     map[string]int           `json:"actual_counts"`
	MissingTitles    []string                 `json:"missing_titles,omitempty"`
	UnexpectedCounts map[string]CountMismatch `json:"unexpected_counts,omitempty"`
	FoundTitles      []string                 `json:"found_titles,omitempty"`
}

// CountLabel counts occurrences of a lead label in uppercased page text.
// Three pattern variants are tried in priority order; the first one that
// yields a non-zero count wins. The later variants need lookaround, which
// the standard regexp package rejects at compile time, so they run on
// regexp2.
func CountLabel(text, label string) int {
	quoted := regexp.QuoteMeta(strings.ToUpper(label))

	// Variant 1: exact word boundary.
	re, err := regexp.Compile(`\b` + quoted + `\b`)
	if err == nil {
		if n := len(re.FindAllString(text, -1)); n > 0 {
			return n
		}
	}

	// Variant 2: label followed by whitespace, line end, or colon.
	if n := countRegexp2(quoted+`(?=\s|$|:)`, text); n > 0 {
		return n
	}

	// Variant 3: label both preceded by whitespace/line start and followed
	// by whitespace/line end/colon.
	return countRegexp2(`(?<=\s|^)`+quoted+`(?=\s|$|:)`, text)
}

// countRegexp2 counts non-overlapping matches of a lookaround pattern.
func countRegexp2(pattern, text string) int {
	re, err := regexp2.Compile(pattern, regexp2.Multiline)
	if err != nil {
		return 0
	}

	count := 0
	m, err := re.FindStringMatch(text)
	for m != nil && err == nil {
		count++
		m, err = re.FindNextMatch(m)
	}
	return count
}

// Validate checks page text against a template. The text is uppercased
// before counting so label case on the report does not matter. A template is
// valid only if every label's actual count equals its expected count.
func Validate(text string, tmpl Template) *ValidationResult {
	upper := strings.ToUpper(text)

	result := &ValidationResult{
		Valid:            true,
		ActualCounts:     make(map[string]int, len(tmpl)),
		UnexpectedCounts: make(map[string]CountMismatch),
	}

	for label, expected := range tmpl {
		actual := CountLabel(upper, label)
		result.ActualCounts[label] = actual

		switch {
		case actual == 0:
			result.MissingTitles = append(result.MissingTitles, label)
			result.Valid = false
		case actual != expected:
			result.UnexpectedCounts[label] = CountMismatch{Expected: expected, Actual: actual}
			result.Valid = false
		default:
			result.FoundTitles = append(result.FoundTitles, label)
		}
	}

	sort.Strings(result.MissingTitles)
	sort.Strings(result.FoundTitles)

	return result
}

// Classifier matches files against a set of named format templates.
type Classifier struct {
	formats map[string]Template
}

// NewClassifier creates a classifier for the given named templates.
func NewClassifier(formats map[string]Template) *Classifier {
	return &Classifier{formats: formats}
}

// Formats returns the template names in sorted order.
func (c *Classifier) Formats() []string {
	names := make([]string, 0, len(c.formats))
	for name := range c.formats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClassifyText matches page text against every template. It returns the name
// of the single matching format, or "" when no template matches. If more
// than one template matches, the result is ambiguous and reported as no
// match.
func (c *Classifier) ClassifyText(text string) (string, map[string]*ValidationResult) {
	results := make(map[string]*ValidationResult, len(c.formats))

	var matches []string
	for _, name := range c.Formats() {
		result := Validate(text, c.formats[name])
		results[name] = result
		if result.Valid {
			matches = append(matches, name)
		}
	}

	if len(matches) != 1 {
		return "", results
	}
	return matches[0], results
}

// ClassifyFile extracts the first-page text of a PDF and classifies it. The
// input file is never modified. Files with no extractable text yield an
// error rather than a (meaningless) no-match result.
func (c *Classifier) ClassifyFile(path string) (string, map[string]*ValidationResult, error) {
	doc, err := pdftext.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return "", nil, fmt.Errorf("%s has no pages", path)
	}

	page, err := doc.FirstPage()
	if err != nil {
		return "", nil, fmt.Errorf("error reading first page of %s: %w", path, err)
	}

	text := page.Text()
	if strings.TrimSpace(text) == "" {
		return "", nil, fmt.Errorf("%s has no extractable text", path)
	}

	format, results := c.ClassifyText(text)
	return format, results, nil
}

// TemplatesFromConfig converts the config representation (plain nested maps)
// into classifier templates.
func TemplatesFromConfig(formats map[string]map[string]int) map[string]Template {
	templates := make(map[string]Template, len(formats))
	for name, counts := range formats {
		tmpl := make(Template, len(counts))
		for label, n := range counts {
			tmpl[label] = n
		}
		templates[name] = tmpl
	}
	return templates
}
