package noise

import "testing"

func TestPerlinFieldNormalizedToUnitRange(t *testing.T) {
	f := NewField(32, 32)
	f.Perlin(1.0, 42)

	min, max := f.Values[0][0], f.Values[0][0]
	for _, row := range f.Values {
		for _, v := range row {
			if v < 0 || v > 1 {
				t.Fatalf("value %v outside [0,1]", v)
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if max-min < 0.1 {
		t.Fatalf("field looks degenerate: min=%v max=%v", min, max)
	}
}

func TestPerlinFieldDeterministicForSameSeed(t *testing.T) {
	a := NewField(16, 16)
	a.Perlin(2.0, 7)
	b := NewField(16, 16)
	b.Perlin(2.0, 7)

	for y := range a.Values {
		for x := range a.Values[y] {
			if a.Values[y][x] != b.Values[y][x] {
				t.Fatalf("field diverged at (%d,%d): %v != %v", x, y, a.Values[y][x], b.Values[y][x])
			}
		}
	}
}

func TestThresholdSelectsWithinRange(t *testing.T) {
	f := NewField(4, 4)
	f.Values = [][]float64{
		{0.0, 0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6, 0.7},
		{0.8, 0.9, 1.0, 0.0},
		{0.0, 0.0, 0.0, 0.0},
	}
	pts := f.Threshold(0.4, 0.6)
	if len(pts) != 3 {
		t.Fatalf("expected 3 points in [0.4,0.6], got %d", len(pts))
	}
}

func TestRadialAttenuateStaysNormalized(t *testing.T) {
	f := NewField(32, 32)
	f.Perlin(3.0, 5)
	f.RadialAttenuate(8, 0.2)

	for _, row := range f.Values {
		for _, v := range row {
			if v < 0 || v > 1 {
				t.Fatalf("attenuated value %v outside [0,1]", v)
			}
		}
	}
}

func TestAtOutOfBoundsReturnsZero(t *testing.T) {
	f := NewField(4, 4)
	f.Perlin(1.0, 1)
	if f.At(-1, 0) != 0 || f.At(0, -1) != 0 || f.At(10, 0) != 0 || f.At(0, 10) != 0 {
		t.Fatal("out-of-bounds At should return 0")
	}
}
