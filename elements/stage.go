// Package elements implements the nine map generation stages — ground,
// river, bush, woods, town, village, interior room, collision, and
// cover — each owning its resource descriptors, a concurrent preload
// step, and a sequential build step that mutates the layered state
// (original_source/tiled_master/elements/*.py,
// implement/town_impl/element_*.py, implement/room_impl/element_room.py;
// spec.md §4.10).
package elements

import (
	"context"

	"mapgen/geom"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Stage is the common interface the builder orchestrates: a concurrent
// preload phase followed by a sequential build phase
// (tiled_master/framework/element.py: MapElement).
type Stage interface {
	Name() string
	Preload(ctx context.Context, reg *registry.Registry) error
	Build(s *state.State) error
}

// splitTextures partitions a Data.Textures list by descriptor Type into
// plain-tile and auto-tile descriptors (schema.TextureDescriptor.Type).
func splitTextures(textures []schema.TextureDescriptor) (tiles, autoTiles []schema.TextureDescriptor) {
	for _, t := range textures {
		if t.Type == "auto_tile" {
			autoTiles = append(autoTiles, t)
		} else {
			tiles = append(tiles, t)
		}
	}
	return tiles, autoTiles
}

func scaleOrDefault(scale int) int {
	if scale <= 0 {
		return 1
	}
	return scale
}

// fullMapArea returns every coordinate of a width x height grid.
func fullMapArea(width, height int) []geom.Point {
	area := make([]geom.Point, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			area = append(area, geom.Point{X: x, Y: y})
		}
	}
	return area
}
