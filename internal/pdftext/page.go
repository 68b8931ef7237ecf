// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"bytes"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Page holds the positioned text content of a single PDF page. Width and
// Height come from the MediaBox.
type Page struct {
	page   pdf.Page
	items  []pdf.Text
	Width  float64
	Height float64
}

// Text returns the page text assembled by row, top to bottom, with spacing
// reconstructed from glyph positions. Lines are separated by newlines.
func (p *Page) Text() string {
	rows, err := p.page.GetTextByRow()
	if err != nil {
		// Fallback to simple text extraction if row-based fails
		text, err := p.page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return text
	}

	sortedRows := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sortedRows = append(sortedRows, row)
		}
	}

	// PDF y increases from the bottom, so larger average Y means higher on
	// the page.
	sort.Slice(sortedRows, func(i, j int) bool {
		return averageY(sortedRows[i].Content) > averageY(sortedRows[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sortedRows {
		rowText := reconstructRowText(row.Content)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// HasText reports whether the page carries any extractable text. Scanned
// reports produce image-only pages and fail this check.
func (p *Page) HasText() bool {
	return strings.TrimSpace(p.Text()) != ""
}

// RegionText extracts the text whose glyph boxes intersect the given
// reader-space rectangle. The result is assembled top to bottom, left to
// right, with the same spacing reconstruction as Text.
func (p *Page) RegionText(region Rect) string {
	clip := region.ToPDF(p.Height)

	var selected []pdf.Text
	for _, item := range p.items {
		if clip.Intersects(itemBox(item)) {
			selected = append(selected, item)
		}
	}
	if len(selected) == 0 {
		return ""
	}

	return assembleRows(selected)
}

// itemBox approximates the bounding box of a text item in PDF space. The
// item's Y is its baseline, so the box extends one font size above it.
func itemBox(item pdf.Text) Rect {
	height := item.FontSize
	if height <= 0 {
		height = 12
	}
	return Rect{
		X0: item.X,
		Y0: item.Y,
		X1: item.X + item.W,
		Y1: item.Y + height,
	}
}

// assembleRows groups text items into rows by baseline, orders them for
// reading, and reconstructs spacing.
func assembleRows(items []pdf.Text) string {
	sorted := make([]pdf.Text, len(items))
	copy(sorted, items)

	const yTolerance = 3.0

	sort.Slice(sorted, func(i, j int) bool {
		if diff := sorted[i].Y - sorted[j].Y; diff > yTolerance || diff < -yTolerance {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var rows [][]pdf.Text
	var current []pdf.Text
	currentY := sorted[0].Y

	for _, item := range sorted {
		if diff := item.Y - currentY; diff > yTolerance || diff < -yTolerance {
			if len(current) > 0 {
				rows = append(rows, current)
			}
			current = []pdf.Text{item}
			currentY = item.Y
		} else {
			current = append(current, item)
		}
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	var buf bytes.Buffer
	for _, row := range rows {
		rowText := reconstructRowText(row)
		if strings.TrimSpace(rowText) != "" {
			buf.WriteString(rowText)
			buf.WriteString("\n")
		}
	}

	return buf.String()
}

// averageY calculates the average Y coordinate for text elements in a row
func averageY(textElements []pdf.Text) float64 {
	if len(textElements) == 0 {
		return 0
	}

	var totalY float64
	for _, element := range textElements {
		totalY += element.Y
	}

	return totalY / float64(len(textElements))
}

// reconstructRowText reconstructs text from a row with proper spacing based
// on glyph coordinates.
func reconstructRowText(textElements []pdf.Text) string {
	if len(textElements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(textElements))
	copy(sorted, textElements)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer

	for i, element := range sorted {
		buf.WriteString(element.S)

		if i < len(sorted)-1 {
			next := sorted[i+1]
			gap := next.X - (element.X + element.W)

			fontSize := element.FontSize
			if fontSize <= 0 {
				fontSize = 12
			}

			// If the gap exceeds 20% of the font size, the glyphs belong to
			// separate words.
			if gap > fontSize*0.2 {
				buf.WriteString(" ")
			}
		}
	}

	return buf.String()
}
