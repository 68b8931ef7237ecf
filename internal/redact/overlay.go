// SPDX-License-Identifier: Apache-2.0

package redact

import (
	"bytes"
	"fmt"

	"ecg-scrub/internal/pdftext"
)

// Overlay describes the single-page stamp painted over the redacted report:
// opaque black fills for every region plus the recovered patient text.
type Overlay struct {
	// Page dimensions in points; must match the target page's MediaBox.
	Width  float64
	Height float64

	// Boxes are PDF-space rectangles to fill with black.
	Boxes []pdftext.Rect

	// Labels are drawn in white at the anchor, rotated 90 degrees
	// counterclockwise. Empty labels are skipped.
	Labels []string

	// Anchor is the text insertion point in reader space.
	AnchorX  float64
	AnchorY  float64
	FontSize float64
}

// Bytes renders the overlay as a minimal single-page PDF suitable for
// stamping with pdfcpu. Helvetica with WinAnsi encoding covers the Spanish
// label text.
func (o *Overlay) Bytes() []byte {
	content := o.contentStream()

	var buf bytes.Buffer
	var offsets []int

	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.4\n")
	writeObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	writeObj("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	writeObj(fmt.Sprintf(
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		o.Width, o.Height))
	writeObj("4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>\nendobj\n")
	writeObj(fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(content), content))

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

// contentStream emits the fill and text operators for the overlay page.
func (o *Overlay) contentStream() string {
	var buf bytes.Buffer

	buf.WriteString("q\n0 0 0 rg\n")
	for _, box := range o.Boxes {
		fmt.Fprintf(&buf, "%.2f %.2f %.2f %.2f re\nf\n",
			box.X0, box.Y0, box.Width(), box.Height())
	}
	buf.WriteString("Q\n")

	fontSize := o.FontSize
	if fontSize <= 0 {
		fontSize = 10
	}

	// The anchor is given in reader space (top-left origin).
	x := o.AnchorX
	y := o.Height - o.AnchorY

	for _, label := range o.Labels {
		if label == "" {
			continue
		}
		buf.WriteString("BT\n")
		fmt.Fprintf(&buf, "/F1 %.1f Tf\n1 1 1 rg\n", fontSize)
		// Text matrix [0 1 -1 0 x y]: rotate 90 degrees counterclockwise.
		fmt.Fprintf(&buf, "0 1 -1 0 %.2f %.2f Tm\n", x, y)
		fmt.Fprintf(&buf, "(%s) Tj\nET\n", escapePDFString(label))
	}

	return buf.String()
}

// escapePDFString escapes the literal-string delimiters and encodes the text
// as WinAnsi (Latin-1). Runes outside that range degrade to '?'.
func escapePDFString(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '\\', '(', ')':
			buf.WriteByte('\\')
			buf.WriteByte(byte(r))
		default:
			if r < 256 {
				buf.WriteByte(byte(r))
			} else {
				buf.WriteByte('?')
			}
		}
	}
	return buf.String()
}
