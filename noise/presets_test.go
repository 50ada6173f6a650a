package noise

import "testing"

func TestGenerateRiverReturnsThresholdedTiles(t *testing.T) {
	m := NewMap(64, 64, 3)
	tiles := m.GenerateRiver()
	for _, p := range tiles {
		v := m.Field().At(p.X, p.Y)
		if v < 0.55 || v > 0.7 {
			t.Fatalf("river tile (%d,%d) has out-of-band value %v", p.X, p.Y, v)
		}
	}
}

func TestGenerateTreeAreaUnknownScaleReturnsNil(t *testing.T) {
	m := NewMap(32, 32, 1)
	if got := m.GenerateTreeArea(99); got != nil {
		t.Fatalf("expected nil for unknown tree scale, got %d points", len(got))
	}
}

func TestGenerateNaturalRiverKnownScalesProduceField(t *testing.T) {
	for scale := 1; scale <= 6; scale++ {
		m := NewMap(48, 48, int64(scale))
		_ = m.GenerateNaturalRiver(scale)
		if m.Field() == nil {
			t.Fatalf("scale %d: expected a populated field", scale)
		}
	}
}

func TestTilesAccumulateAcrossGenerateCalls(t *testing.T) {
	m := NewMap(48, 48, 9)
	riverTiles := m.GenerateRiver()
	bushTiles := m.GenerateBushes()
	if len(m.Tiles) != len(riverTiles)+len(bushTiles) {
		t.Fatalf("accumulated tiles = %d, want %d", len(m.Tiles), len(riverTiles)+len(bushTiles))
	}
}
