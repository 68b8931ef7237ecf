// SPDX-License-Identifier: Apache-2.0

package pdftext

// Rect is a rectangle in reader space: origin at the top-left corner of the
// page, y increasing downward. This is the coordinate system the fixed
// redaction region tables were captured in.
type Rect struct {
	X0 float64
	Y0 float64
	X1 float64
	Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// MirrorVertical reflects the rectangle's vertical extent against the page
// width. The region tables were recorded against a rotated layout whose
// vertical axis runs opposite to the reader's, so y values mirror against
// the page width rather than its height.
func (r Rect) MirrorVertical(pageWidth float64) Rect {
	return Rect{
		X0: r.X0,
		Y0: pageWidth - r.Y1,
		X1: r.X1,
		Y1: pageWidth - r.Y0,
	}
}

// ToPDF converts the rectangle to PDF space: origin at the bottom-left
// corner, y increasing upward. Y0 <= Y1 holds in the result.
func (r Rect) ToPDF(pageHeight float64) Rect {
	return Rect{
		X0: r.X0,
		Y0: pageHeight - r.Y1,
		X1: r.X1,
		Y1: pageHeight - r.Y0,
	}
}

// Intersects reports whether the two rectangles overlap. Both must be in the
// same coordinate space with X0 <= X1 and Y0 <= Y1.
func (r Rect) Intersects(other Rect) bool {
	return r.X0 < other.X1 && other.X0 < r.X1 &&
		r.Y0 < other.Y1 && other.Y0 < r.Y1
}

// Contains reports whether the point lies inside the rectangle, boundary
// included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X0 && x <= r.X1 && y >= r.Y0 && y <= r.Y1
}
