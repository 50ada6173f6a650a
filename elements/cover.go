package elements

import (
	"context"

	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Cover scans every cell top-down across the layer stack and stamps a
// sentinel tile onto the cover layer wherever the topmost occupied tile
// is markable as cover (tiled_master/elements/cover_element.py:
// CoverElement).
type Cover struct {
	Data schema.ElementData

	tile *schema.TextureTile
}

func NewCover(data schema.ElementData) *Cover { return &Cover{Data: data} }

func (c *Cover) Name() string { return "cover" }

func (c *Cover) Preload(ctx context.Context, reg *registry.Registry) error {
	desc := schema.TextureDescriptor{Name: "cover_tile", Cover: true, Rate: 1}
	if len(c.Data.Textures) > 0 {
		desc.Image = c.Data.Textures[0].Image
	}
	tex, err := reg.LoadTileTexture(desc)
	if err != nil {
		return err
	}
	c.tile = tex
	return nil
}

func (c *Cover) Build(s *state.State) error {
	if c.tile == nil {
		return nil
	}
	s.ClearLayer(state.LayerCover)
	s.CoverIdx = [2]int{c.tile.TilesetID, c.tile.LocalID}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			for layer := s.LayerNums - 1; layer >= 0; layer-- {
				if !s.GetTile(x, y, layer).IsEmpty() {
					if s.CheckCover(x, y, layer) {
						s.DropTile(x, y, state.LayerCover, *c.tile)
					}
					break
				}
			}
		}
	}
	return nil
}
