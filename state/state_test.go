package state

import (
	"testing"

	"mapgen/geom"
	"mapgen/schema"
)

func TestDropTileAndGetTileRoundTrip(t *testing.T) {
	s := New("m1", 10, 10, 4)
	tex := schema.TextureTile{TilesetID: 2, LocalID: 5, Collision: true}
	if !s.DropTile(3, 4, LayerGround, tex) {
		t.Fatal("expected DropTile to succeed in bounds")
	}
	got := s.GetTile(3, 4, LayerGround)
	if got.TilesetID != 2 || got.LocalID != 5 || !got.Collision {
		t.Fatalf("unexpected tile: %+v", got)
	}
	if s.DropTile(-1, 0, LayerGround, tex) {
		t.Fatal("expected out-of-bounds DropTile to fail")
	}
}

func TestClearTileAndClearLayer(t *testing.T) {
	s := New("m1", 5, 5, 2)
	s.DropTile(1, 1, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	s.DropTile(2, 2, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	s.ClearTile(1, 1, 0)
	if s.Exists(1, 1, 0) {
		t.Fatal("expected tile to be cleared")
	}
	if !s.Exists(2, 2, 0) {
		t.Fatal("expected unrelated tile to remain")
	}
	s.ClearLayer(0)
	if s.Exists(2, 2, 0) {
		t.Fatal("expected layer to be fully cleared")
	}
}

func TestLayerCoordsAndNeighbors(t *testing.T) {
	s := New("m1", 5, 5, 1)
	s.DropTile(2, 2, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	s.DropTile(2, 3, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	coords := s.LayerCoords(0)
	if len(coords) != 2 {
		t.Fatalf("expected 2 occupied coords, got %d", len(coords))
	}
	neighbors := s.Neighbors(2, 2, 0, 1)
	if len(neighbors) != 1 || neighbors[0] != (geom.Point{X: 2, Y: 3}) {
		t.Fatalf("unexpected neighbors: %v", neighbors)
	}
}

func TestCheckExistsCollisionCover(t *testing.T) {
	s := New("m1", 5, 5, 1)
	s.DropTile(0, 0, 0, schema.TextureTile{TilesetID: 1, LocalID: 2, Collision: true, Cover: true})
	if !s.Exists(0, 0, 0) || !s.CheckCollision(0, 0, 0) || !s.CheckCover(0, 0, 0) {
		t.Fatal("expected tile to exist with collision and cover set")
	}
	if s.Exists(1, 1, 0) {
		t.Fatal("untouched cell should not exist")
	}
}

func TestDropTilesFromTileGroupPlacesPlainTiles(t *testing.T) {
	s := New("m1", 10, 10, 1)
	group := &schema.TileGroup{Textures: []schema.Texture{
		{Tile: &schema.TextureTile{Name: "grass_a", TilesetID: 1, LocalID: 1, Rate: 1}},
		{Tile: &schema.TextureTile{Name: "grass_b", TilesetID: 1, LocalID: 2, Rate: 1}},
	}}
	area := []geom.Point{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}
	s.DropTilesFromTileGroup(group, area, 0)
	for _, p := range area {
		tile := s.GetTile(p.X, p.Y, 0)
		if tile.LocalID != 1 && tile.LocalID != 2 {
			t.Fatalf("expected one of the plain tiles at %v, got %+v", p, tile)
		}
	}
}

func TestDropTilesFromTileGroupAutoTileInteriorStaysBase(t *testing.T) {
	s := New("m1", 6, 6, 1)
	group := &schema.TileGroup{Textures: []schema.Texture{
		{AutoTile: &schema.TextureAutoTile{Name: "water", Method: schema.MethodBlob47, TilesetID: 3}},
	}}
	var area []geom.Point
	for y := 1; y < 5; y++ {
		for x := 1; x < 5; x++ {
			area = append(area, geom.Point{X: x, Y: y})
		}
	}
	s.DropTilesFromTileGroup(group, area, 0)
	center := s.GetTile(2, 2, 0)
	if center.TilesetID != 3 {
		t.Fatalf("expected interior cell to carry the auto-tile tileset id, got %+v", center)
	}
}

func TestDropObjectRollsBackOnOutOfBounds(t *testing.T) {
	s := New("m1", 5, 5, 1)
	// the first blueprint cell is in bounds and the second is not, so
	// DropTile (which rejects only out-of-bounds cells, not occupied
	// ones) fails on the second write after the first has succeeded.
	obj := &schema.TextureObject{
		Name:   "shed",
		Width:  2,
		Height: 1,
		Blueprints: []schema.Blueprint{
			{Texture: schema.TextureTile{TilesetID: 1, LocalID: 1}, RelativeX: 0, RelativeY: 0},
			{Texture: schema.TextureTile{TilesetID: 1, LocalID: 1}, RelativeX: 10, RelativeY: 10}, // out of bounds
		},
	}
	if s.DropObject(1, 1, 0, obj, true) {
		t.Fatal("expected DropObject to fail when a blueprint cell is out of bounds")
	}
	if s.Exists(1, 1, 0) {
		t.Fatal("expected no mutation on failed DropObject")
	}
	if len(s.Objects()) != 0 {
		t.Fatal("expected no object recorded on failed DropObject")
	}
}

func TestDropObjectCommitsAndRecordsObject(t *testing.T) {
	s := New("m1", 5, 5, 1)
	obj := &schema.TextureObject{
		Name:   "rock",
		Width:  1,
		Height: 1,
		Blueprints: []schema.Blueprint{
			{Texture: schema.TextureTile{TilesetID: 1, LocalID: 3}, RelativeX: 0, RelativeY: 0},
		},
	}
	if !s.DropObject(2, 2, 0, obj, true) {
		t.Fatal("expected DropObject to succeed")
	}
	if !s.Exists(2, 2, 0) {
		t.Fatal("expected the blueprint tile to be committed")
	}
	objs := s.Objects()
	if len(objs) != 1 || objs[0].ID != 1 || objs[0].Name != "rock" {
		t.Fatalf("unexpected object record: %+v", objs)
	}
}

func TestFloodFillToEdgeTrueWhenConnectedToBoundary(t *testing.T) {
	s := New("m1", 5, 5, 1)
	if !s.FloodFillToEdge(2, 2, 0) {
		t.Fatal("expected an all-empty grid to flood to the edge")
	}
}

func TestFloodFillToEdgeFalseWhenEnclosed(t *testing.T) {
	s := New("m1", 5, 5, 1)
	for x := 0; x < 5; x++ {
		s.DropTile(x, 0, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
		s.DropTile(x, 4, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	}
	for y := 0; y < 5; y++ {
		s.DropTile(0, y, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
		s.DropTile(4, y, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	}
	if s.FloodFillToEdge(2, 2, 0) {
		t.Fatal("expected a fully walled-in cell not to reach the edge")
	}
}

func TestFloodFillToEdgeTrueWhenStartOccupied(t *testing.T) {
	s := New("m1", 5, 5, 1)
	s.DropTile(2, 2, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	if !s.FloodFillToEdge(2, 2, 0) {
		t.Fatal("expected an occupied start cell to short-circuit to true")
	}
}

func TestMergeLayerFromCopiesRegion(t *testing.T) {
	src := New("m1", 10, 10, 1)
	dst := New("m2", 10, 10, 1)
	src.DropTile(1, 1, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	src.DropTile(8, 8, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})

	ok := dst.MergeLayerFrom(src, 0, 0, true, &geom.Rect{X: 0, Y: 0, W: 5, H: 5})
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	if !dst.Exists(1, 1, 0) {
		t.Fatal("expected in-region tile to be merged")
	}
	if dst.Exists(8, 8, 0) {
		t.Fatal("expected out-of-region tile to be skipped")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := New("m1", 5, 5, 1)
	s.DropTile(0, 0, 0, schema.TextureTile{TilesetID: 1, LocalID: 1})
	clone := s.Clone()
	clone.DropTile(1, 1, 0, schema.TextureTile{TilesetID: 1, LocalID: 2})
	if s.Exists(1, 1, 0) {
		t.Fatal("mutating the clone should not affect the original")
	}
	if !clone.Exists(0, 0, 0) {
		t.Fatal("clone should carry over pre-existing tiles")
	}
}

func TestCloneWithAttemptsReseedsDeterministically(t *testing.T) {
	s := New("m1", 5, 5, 1)
	a := s.Clone(3)
	b := s.Clone(3)
	if a.RNG().Intn(1000) != b.RNG().Intn(1000) {
		t.Fatal("cloning with the same attempt discriminator should reseed identically")
	}
}
