package elements

import (
	"context"

	"mapgen/geom"
	"mapgen/noise"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Bush scatters bush/flower tiles onto the plants layer wherever the
// bush noise preset fires, skipping cells already claimed by water or
// road (implement/town_impl/element_natural.py: Bush).
type Bush struct {
	Data schema.ElementData

	tiles *schema.TileGroup
}

func NewBush(data schema.ElementData) *Bush { return &Bush{Data: data} }

func (b *Bush) Name() string { return "bush" }

func (b *Bush) Preload(ctx context.Context, reg *registry.Registry) error {
	tiles, autoTiles := splitTextures(b.Data.Textures)
	group, err := reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(b.Data.Scale))
	if err != nil {
		return err
	}
	b.tiles = group
	return nil
}

func (b *Bush) Build(s *state.State) error {
	if b.tiles == nil {
		return nil
	}
	m := noise.NewMap(s.Width, s.Height, int64(s.RNG().Seed()))
	bushTiles := m.GenerateBushes()

	var dropArea []geom.Point
	for _, p := range bushTiles {
		if s.Exists(p.X, p.Y, state.LayerWater) || s.Exists(p.X, p.Y, state.LayerRoad) {
			continue
		}
		dropArea = append(dropArea, p)
	}
	s.DropTilesFromTileGroup(b.tiles, dropArea, state.LayerPlants)
	return nil
}
