package elements

import (
	"context"

	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Collision scans every cell top-down across the layer stack and stamps
// a sentinel tile onto the obstacle layer wherever the topmost occupied
// tile (or an empty bottom layer) is collidable (tiled_master/elements/
// collision_element.py: CollisionElement).
type Collision struct {
	Data schema.ElementData

	tile *schema.TextureTile
}

func NewCollision(data schema.ElementData) *Collision { return &Collision{Data: data} }

func (c *Collision) Name() string { return "collision" }

func (c *Collision) Preload(ctx context.Context, reg *registry.Registry) error {
	tex, err := reg.LoadTileTexture(collisionSentinelDescriptor(c.Data))
	if err != nil {
		return err
	}
	c.tile = tex
	return nil
}

// collisionSentinelDescriptor builds the one-tile collision descriptor;
// Data.Textures[0], if present, supplies the image, otherwise the
// registry's placeholder is used (tiled_master/framework/config.py:
// place_holder_tile_path).
func collisionSentinelDescriptor(data schema.ElementData) schema.TextureDescriptor {
	desc := schema.TextureDescriptor{Name: "collision_tile", Collision: true, Rate: 1}
	if len(data.Textures) > 0 {
		desc.Image = data.Textures[0].Image
	}
	return desc
}

func (c *Collision) Build(s *state.State) error {
	if c.tile == nil {
		return nil
	}
	s.ClearLayer(state.LayerObstacle)
	s.CollisionIdx = [2]int{c.tile.TilesetID, c.tile.LocalID}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			for layer := s.LayerNums - 1; layer >= 0; layer-- {
				if !s.GetTile(x, y, layer).IsEmpty() {
					if s.CheckCollision(x, y, layer) {
						s.DropTile(x, y, state.LayerObstacle, *c.tile)
					}
					break
				}
				if layer == 0 {
					s.DropTile(x, y, state.LayerObstacle, *c.tile)
				}
			}
		}
	}
	return nil
}
