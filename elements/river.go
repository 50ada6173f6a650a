package elements

import (
	"context"

	"mapgen/noise"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// River paints a natural-river noise shape into the water layer
// (implement/town_impl/element_natural.py: River).
type River struct {
	Data schema.ElementData

	tiles *schema.TileGroup
}

func NewRiver(data schema.ElementData) *River { return &River{Data: data} }

func (r *River) Name() string { return "river" }

func (r *River) Preload(ctx context.Context, reg *registry.Registry) error {
	tiles, autoTiles := splitTextures(r.Data.Textures)
	group, err := reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(r.Data.Scale))
	if err != nil {
		return err
	}
	r.tiles = group
	return nil
}

func (r *River) Build(s *state.State) error {
	if r.tiles == nil {
		return nil
	}
	m := noise.NewMap(s.Width, s.Height, int64(s.RNG().Seed()))
	riverTiles := m.GenerateNaturalRiver(r.tiles.Scale)
	s.DropTilesFromTileGroup(r.tiles, riverTiles, state.LayerWater)
	return nil
}
