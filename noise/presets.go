package noise

import "mapgen/geom"

// Map is a width×height noise surface bound to a seed, exposing the
// named feature-placement presets ported from noise.py's NoiseMap.
type Map struct {
	Width, Height int
	seed          int64
	field         *Field
	Tiles         []geom.Point // cumulative tiles from GenerateRiver/Bushes/Flowers/NaturalRiver (the *Area presets do not append)
}

// NewMap creates a Map over width×height, seeded by seed.
func NewMap(width, height int, seed int64) *Map {
	return &Map{Width: width, Height: height, seed: seed, field: NewField(width, height)}
}

// Field exposes the last-generated noise surface, for At() sampling of
// raw field values rather than a thresholded point set.
func (m *Map) Field() *Field { return m.field }

func (m *Map) genPerlin(scale float64) {
	m.field = NewField(m.Width, m.Height)
	m.field.Perlin(scale, m.seed)
}

func (m *Map) genDoublePerlin(majorScale, minorScale, majorWeight, minorWeight float64) {
	m.field = NewField(m.Width, m.Height)
	m.field.DoublePerlin(majorScale, minorScale, majorWeight, minorWeight, m.seed)
}

func (m *Map) appendTiles(pts []geom.Point) []geom.Point {
	m.Tiles = append(m.Tiles, pts...)
	return pts
}

// GenerateRiver places river tiles at scale 10 in the noise band
// [0.55, 0.7] (noise.py: NoiseMap.generate_river).
func (m *Map) GenerateRiver() []geom.Point {
	m.genPerlin(10)
	return m.appendTiles(m.field.Threshold(0.55, 0.7))
}

// GenerateBushes places bush tiles at scale 300, threshold >= 0.78
// (noise.py: NoiseMap.generate_bushes).
func (m *Map) GenerateBushes() []geom.Point {
	m.genPerlin(300)
	return m.appendTiles(m.field.Threshold(0.78, 1))
}

// GenerateFlowers places flower tiles at scale 500, threshold >= 0.85
// (noise.py: NoiseMap.generate_flowers).
func (m *Map) GenerateFlowers() []geom.Point {
	m.genPerlin(500)
	return m.appendTiles(m.field.Threshold(0.85, 1))
}

// GenerateFlowersArea returns the broader candidate area flowers may be
// scattered within, scale 30, threshold >= 0.5, without recording the
// points as permanently occupied (noise.py: NoiseMap.generate_flowers_area).
func (m *Map) GenerateFlowersArea() []geom.Point {
	m.genPerlin(30)
	return m.field.Threshold(0.5, 1)
}

// treeAreaPreset is one row of the scale-indexed constant table
// generate_tree_area switches on.
type treeAreaPreset struct {
	majorScale, minorScale float64
	sigma                  float64 // 0 means "no RadialAttenuate call"
	threshold              float64
}

var treeAreaPresets = map[int]treeAreaPreset{
	1: {majorScale: 50, minorScale: 20, sigma: 10, threshold: 0.8},
	2: {majorScale: 20, minorScale: 20, sigma: 60, threshold: 0.2},
	3: {majorScale: 20, minorScale: 20, sigma: 0, threshold: 0.5},
	4: {majorScale: 20, minorScale: 20, sigma: 20, threshold: 0.2},
}

// GenerateTreeArea returns the tree-eligible tile set for the named
// scale preset (1-4); unknown scales return nil (noise.py:
// NoiseMap.generate_tree_area).
func (m *Map) GenerateTreeArea(scale int) []geom.Point {
	preset, ok := treeAreaPresets[scale]
	if !ok {
		return nil
	}
	m.genDoublePerlin(preset.majorScale, preset.minorScale, 0.7, 0.3)
	if preset.sigma > 0 {
		m.field.RadialAttenuate(preset.sigma, 0)
	}
	return m.field.Threshold(preset.threshold, 1)
}

// naturalRiverPreset is one row of generate_natural_river's scale table.
type naturalRiverPreset struct {
	majorScale, minorScale       float64
	majorWeight, minorWeight     float64
	minThreshold, maxThreshold   float64
}

var naturalRiverPresets = map[int]naturalRiverPreset{
	1: {majorScale: 15, minorScale: 15, majorWeight: 0.85, minorWeight: 0.15, minThreshold: 0.8, maxThreshold: 1.0},
	2: {majorScale: 2, minorScale: 10, majorWeight: 0.85, minorWeight: 0.15, minThreshold: 0.5, maxThreshold: 0.6},
	3: {majorScale: 2, minorScale: 10, majorWeight: 0.85, minorWeight: 0.15, minThreshold: 0.4, maxThreshold: 0.65},
	4: {majorScale: 0.25, minorScale: 1, majorWeight: 0.85, minorWeight: 0.15, minThreshold: 0.5, maxThreshold: 0.56},
	5: {majorScale: 10, minorScale: 15, majorWeight: 0.85, minorWeight: 0.15, minThreshold: 0.35, maxThreshold: 1.0},
	6: {majorScale: 2, minorScale: 5, majorWeight: 0.8, minorWeight: 0.2, minThreshold: 0.45, maxThreshold: 2.0},
}

// GenerateNaturalRiver returns the river tile set for the named scale
// preset (1-6); unknown scales return nil (noise.py:
// NoiseMap.generate_natural_river).
func (m *Map) GenerateNaturalRiver(scale int) []geom.Point {
	preset, ok := naturalRiverPresets[scale]
	if !ok {
		return nil
	}
	m.genDoublePerlin(preset.majorScale, preset.minorScale, preset.majorWeight, preset.minorWeight)
	tiles := m.field.Threshold(preset.minThreshold, preset.maxThreshold)
	return m.appendTiles(tiles)
}
