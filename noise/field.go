// Package noise generates Perlin-based 2D noise fields used by the
// ground/river/bush/tree generation stages, reproducing the presets from
// original_source/tiled_master/methods/noise.py (spec.md §4.2).
package noise

import (
	"math"

	"github.com/aquilax/go-perlin"

	"mapgen/geom"
)

// perlinAlpha/perlinBeta are the persistence/frequency-lacunarity knobs
// go-perlin needs alongside octave count; the original Python library
// (perlin_noise) bakes equivalent defaults in, so fixed canonical values
// (2, 2) are used here rather than exposing them as tunables nothing in
// the spec ever varies.
const (
	perlinAlpha = 2.0
	perlinBeta  = 2.0
)

// Field is a dense W×H grid of noise samples in [0, 1] (before any
// post-processing step that intentionally leaves it unnormalized).
type Field struct {
	Width, Height int
	Values        [][]float64 // [y][x]
}

// NewField allocates a zeroed field of the given dimensions.
func NewField(width, height int) *Field {
	values := make([][]float64, height)
	for y := range values {
		values[y] = make([]float64, width)
	}
	return &Field{Width: width, Height: height, Values: values}
}

func (f *Field) normalize() {
	min, max := math.Inf(1), math.Inf(-1)
	for _, row := range f.Values {
		for _, v := range row {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	span := max - min
	if span == 0 {
		return
	}
	for y := range f.Values {
		for x := range f.Values[y] {
			f.Values[y][x] = (f.Values[y][x] - min) / span
		}
	}
}

// Perlin fills the field with a single-octave Perlin sample at the given
// scale, x/y divided by 1000/scale, then min-max normalized to [0, 1]
// (noise.py: _generate_perlin_noise).
func (f *Field) Perlin(scale float64, seed int64) {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, int32(1), seed)
	divisor := 1000.0 / scale
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.Values[y][x] = p.Noise2D(float64(x)/divisor, float64(y)/divisor)
		}
	}
	f.normalize()
}

// DoublePerlin blends two independently-normalized octave layers
// (noise.py: _generate_double_perlin_noise): a coarse layer (octaves=2,
// seed=seed) shaping overall structure, and a fine layer (octaves=4,
// seed=seed+1) adding detail, combined with majorWeight/minorWeight. The
// combined result is left unnormalized, matching the original.
func (f *Field) DoublePerlin(majorScale, minorScale, majorWeight, minorWeight float64, seed int64) {
	coarse := perlin.NewPerlin(perlinAlpha, perlinBeta, int32(2), seed)
	fine := perlin.NewPerlin(perlinAlpha, perlinBeta, int32(4), seed+1)

	scaleCoarse := float64(f.Width) * 10 / majorScale
	scaleFine := float64(f.Height) * 10 / minorScale

	coarseField := NewField(f.Width, f.Height)
	fineField := NewField(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			coarseField.Values[y][x] = coarse.Noise2D(float64(x)/scaleCoarse, float64(y)/scaleCoarse)
			fineField.Values[y][x] = fine.Noise2D(float64(x)/scaleFine, float64(y)/scaleFine)
		}
	}
	coarseField.normalize()
	fineField.normalize()

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			f.Values[y][x] = majorWeight*coarseField.Values[y][x] + minorWeight*fineField.Values[y][x]
		}
	}
}

// RadialAttenuate blends the field toward base near the grid center using
// a Gaussian falloff of radius sigma, then re-normalizes to [0, 1]
// (noise.py: generate_center_editable_area).
func (f *Field) RadialAttenuate(sigma, base float64) {
	centerX, centerY := float64(f.Width)/2, float64(f.Height)/2
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			dx, dy := float64(x)-centerX, float64(y)-centerY
			d := math.Sqrt(dx*dx + dy*dy)
			w := math.Exp(-(d / sigma) * (d / sigma))
			f.Values[y][x] = w*base + (1-w)*f.Values[y][x]
		}
	}
	f.normalize()
}

// Threshold returns every coordinate whose sampled value falls in
// [lo, hi] inclusive.
func (f *Field) Threshold(lo, hi float64) []geom.Point {
	var pts []geom.Point
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := f.Values[y][x]
			if v >= lo && v <= hi {
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// At returns the sampled value at (x, y). Out-of-bounds reads return 0.
func (f *Field) At(x, y int) float64 {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return 0
	}
	return f.Values[y][x]
}
