package nameplate

import (
	"math"
	"testing"
)

func TestHeuristicMeasurer(t *testing.T) {
	m := HeuristicMeasurer{CharWidth: 0.7}

	if w := m.Measure("Hadi Jaffri", 9); math.Abs(w-69.3) > 1e-9 {
		t.Errorf("Measure: expected 69.3, got %v", w)
	}
	// runes, not bytes
	if w := m.Measure("Ñúñez", 10); math.Abs(w-35) > 1e-9 {
		t.Errorf("Measure: expected 35, got %v", w)
	}
}

func TestGlyphMeasurer(t *testing.T) {
	m, err := NewGlyphMeasurer(0.7)
	if err != nil {
		t.Fatalf("NewGlyphMeasurer failed: %v", err)
	}

	narrow := m.Measure("iiii", 9)
	wide := m.Measure("WWWW", 9)
	if narrow <= 0 || wide <= narrow {
		t.Errorf("expected 0 < iiii (%v) < WWWW (%v)", narrow, wide)
	}

	small := m.Measure("Hadi Jaffri", 5)
	large := m.Measure("Hadi Jaffri", 10)
	if ratio := large / small; math.Abs(ratio-2) > 0.1 {
		t.Errorf("width should scale with font size, ratio %v", ratio)
	}
}
