// SPDX-License-Identifier: Apache-2.0

package classify

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leadLabel positions one lead label on a generated report page, in PDF
// space (bottom-left origin).
type leadLabel struct {
	x, y float64
	s    string
}

// writeLeadPDF generates a minimal single-page PDF with each label placed at
// its own position. The font carries a Widths array so positioned extraction
// sees real glyph advances and keeps separate labels apart.
func writeLeadPDF(t *testing.T, path string, labels []leadLabel) {
	t.Helper()

	var content bytes.Buffer
	for _, l := range labels {
		fmt.Fprintf(&content, "BT\n/F1 10.0 Tf\n1 0 0 1 %.2f %.2f Tm\n(%s) Tj\nET\n",
			l.x, l.y, l.s)
	}
	if content.Len() == 0 {
		content.WriteString("q\nQ\n")
	}

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612.00 792.00] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")
	widths := strings.TrimSpace(strings.Repeat("556 ", 224))
	writeObj("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 255 /Widths [" + widths + "] >>\nendobj\n")
	writeObj(fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		content.Len(), content.String()))

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
}

// format1Labels lays out format1's lead counts row by row: every lead once,
// V1 a second time for the rhythm strip.
func format1Labels() []leadLabel {
	rows := [][]string{
		{"I", "II", "III"},
		{"aVR", "aVL", "aVF"},
		{"V1", "V2", "V3"},
		{"V4", "V5", "V6"},
		{"V1"},
	}

	var labels []leadLabel
	y := 700.0
	for _, row := range rows {
		x := 50.0
		for _, s := range row {
			labels = append(labels, leadLabel{x: x, y: y, s: s})
			x += 100
		}
		y -= 50
	}
	return labels
}

func TestClassifyFile_Format1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	writeLeadPDF(t, path, format1Labels())

	c := NewClassifier(map[string]Template{"format1": format1, "format2": format2})
	format, results, err := c.ClassifyFile(path)
	require.NoError(t, err)
	assert.Equal(t, "format1", format)
	require.Contains(t, results, "format1")
	require.Contains(t, results, "format2")
	assert.True(t, results["format1"].Valid)
	assert.False(t, results["format2"].Valid)
	assert.Equal(t, 2, results["format1"].ActualCounts["V1"])
}

func TestClassifyFile_NoExtractableText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.pdf")
	writeLeadPDF(t, path, nil)

	c := NewClassifier(map[string]Template{"format1": format1})
	_, _, err := c.ClassifyFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no extractable text")
}
