package elements

import (
	"context"

	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Ground fills the entire map with a weighted-random ground tile group
// (elements/rect_element.py-adjacent presets; implement/town_impl/
// element_natural.py: Ground).
type Ground struct {
	Data schema.ElementData

	tiles *schema.TileGroup
}

// NewGround constructs the ground stage from its config data.
func NewGround(data schema.ElementData) *Ground { return &Ground{Data: data} }

func (g *Ground) Name() string { return "ground" }

func (g *Ground) Preload(ctx context.Context, reg *registry.Registry) error {
	tiles, autoTiles := splitTextures(g.Data.Textures)
	group, err := reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(g.Data.Scale))
	if err != nil {
		return err
	}
	g.tiles = group
	return nil
}

func (g *Ground) Build(s *state.State) error {
	if g.tiles == nil {
		return nil
	}
	s.DropTilesFromTileGroup(g.tiles, fullMapArea(s.Width, s.Height), state.LayerGround)
	return nil
}
