// SPDX-License-Identifier: Apache-2.0

// Package pdftext provides positioned text access to PDF pages using
// ledongthuc/pdf. It exposes just enough of the page model for region
// redaction and layout classification: page dimensions, row-assembled text,
// and text extraction clipped to a rectangle.
package pdftext

import (
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// Document is an open PDF file.
type Document struct {
	file   io.Closer
	reader *pdf.Reader
}

// Open opens a PDF file for text extraction. Callers add file context to
// errors; the document itself does not carry its path.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	return &Document{file: f, reader: r}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// Close releases the underlying file handle.
func (d *Document) Close() error {
	if d.file != nil {
		return d.file.Close()
	}
	return nil
}

// FirstPage loads the first page of the document.
func (d *Document) FirstPage() (*Page, error) {
	if d.reader.NumPage() == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	p := d.reader.Page(1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("null page")
	}

	width, height := pageDims(p)

	page := &Page{
		page:   p,
		Width:  width,
		Height: height,
	}
	page.items = p.Content().Text

	return page, nil
}

// pageDims reads the page dimensions from the MediaBox, falling back to US
// Letter when the entry is missing or malformed.
func pageDims(p pdf.Page) (float64, float64) {
	width, height := 612.0, 792.0

	mediaBox := p.V.Key("MediaBox")
	if mediaBox.Kind() == pdf.Array && mediaBox.Len() == 4 {
		// MediaBox is [x0, y0, x1, y1]
		x0 := mediaBox.Index(0).Float64()
		y0 := mediaBox.Index(1).Float64()
		x1 := mediaBox.Index(2).Float64()
		y1 := mediaBox.Index(3).Float64()
		width = x1 - x0
		height = y1 - y0
	}

	return width, height
}
