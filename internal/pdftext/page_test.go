// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestReconstructRowText_SpacingFromGaps(t *testing.T) {
	// "Masculino" and "(45" sit on one baseline with a gap wider than 20%
	// of the font size between them.
	items := []pdf.Text{
		{S: "(45", X: 60, Y: 100, W: 15, FontSize: 10},
		{S: "Masculino", X: 10, Y: 100, W: 45, FontSize: 10},
	}

	got := reconstructRowText(items)
	if got != "Masculino (45" {
		t.Errorf("expected %q, got %q", "Masculino (45", got)
	}
}

func TestReconstructRowText_NoSpaceForAdjacentGlyphs(t *testing.T) {
	items := []pdf.Text{
		{S: "V", X: 10, Y: 50, W: 6, FontSize: 10},
		{S: "1", X: 16.5, Y: 50, W: 5, FontSize: 10},
	}

	got := reconstructRowText(items)
	if got != "V1" {
		t.Errorf("expected %q, got %q", "V1", got)
	}
}

func TestAssembleRows_TopToBottom(t *testing.T) {
	// PDF y grows upward: the item with the larger Y renders first.
	items := []pdf.Text{
		{S: "lower", X: 10, Y: 20, W: 25, FontSize: 10},
		{S: "upper", X: 10, Y: 200, W: 25, FontSize: 10},
	}

	got := assembleRows(items)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 || lines[0] != "upper" || lines[1] != "lower" {
		t.Errorf("expected [upper lower], got %v", lines)
	}
}

func TestItemBox_BaselineExtent(t *testing.T) {
	box := itemBox(pdf.Text{X: 10, Y: 100, W: 40, FontSize: 12})
	if box.Y0 != 100 || box.Y1 != 112 {
		t.Errorf("expected y extent [100,112], got [%.1f,%.1f]", box.Y0, box.Y1)
	}

	// Zero font size falls back to a nominal glyph height.
	box = itemBox(pdf.Text{X: 0, Y: 0, W: 10})
	if box.Y1 != 12 {
		t.Errorf("expected fallback height 12, got %.1f", box.Y1)
	}
}
