// SPDX-License-Identifier: Apache-2.0

package pdftext

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestMirrorVertical(t *testing.T) {
	r := Rect{X0: 39.2821, Y0: 7.81606, X1: 95.3558, Y1: 107.861}
	m := r.MirrorVertical(595.0)

	if !almostEqual(m.X0, r.X0) || !almostEqual(m.X1, r.X1) {
		t.Errorf("mirroring must not change x extent, got %+v", m)
	}
	if !almostEqual(m.Y0, 595.0-107.861) {
		t.Errorf("expected Y0=%.4f, got %.4f", 595.0-107.861, m.Y0)
	}
	if !almostEqual(m.Y1, 595.0-7.81606) {
		t.Errorf("expected Y1=%.4f, got %.4f", 595.0-7.81606, m.Y1)
	}
	if m.Y0 > m.Y1 {
		t.Error("mirrored rect must keep Y0 <= Y1")
	}
}

func TestMirrorVertical_Involution(t *testing.T) {
	r := Rect{X0: 10, Y0: 20, X1: 30, Y1: 40}
	back := r.MirrorVertical(600).MirrorVertical(600)
	if back != r {
		t.Errorf("mirroring twice should restore the rect, got %+v", back)
	}
}

func TestToPDF(t *testing.T) {
	r := Rect{X0: 10, Y0: 100, X1: 50, Y1: 200}
	p := r.ToPDF(800)

	if !almostEqual(p.Y0, 600) || !almostEqual(p.Y1, 700) {
		t.Errorf("expected y extent [600,700], got [%.1f,%.1f]", p.Y0, p.Y1)
	}
	if !almostEqual(p.Width(), r.Width()) || !almostEqual(p.Height(), r.Height()) {
		t.Error("conversion must preserve extents")
	}
}

func TestIntersects(t *testing.T) {
	base := Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", Rect{5, 5, 15, 15}, true},
		{"contained", Rect{2, 2, 8, 8}, true},
		{"disjoint", Rect{20, 20, 30, 30}, false},
		{"edge touching", Rect{10, 0, 20, 10}, false},
		{"vertical miss", Rect{0, 11, 10, 20}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}
