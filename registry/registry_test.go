package registry

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mapgen/schema"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return name
}

func TestLoadTileTextureAssignsAndReusesLocalIDs(t *testing.T) {
	dir := t.TempDir()
	grass := writeTestPNG(t, dir, "grass.png", 16, 16)
	dirt := writeTestPNG(t, dir, "dirt.png", 16, 16)

	r := New("m1", LocalProvider{Root: dir})

	tex1, err := r.LoadTileTexture(schema.TextureDescriptor{Name: "grass", Image: grass, Rate: 3})
	if err != nil {
		t.Fatalf("LoadTileTexture: %v", err)
	}
	if tex1.TilesetID != 1 || tex1.LocalID != 2 {
		t.Fatalf("expected first real tile to get (1,2), got (%d,%d)", tex1.TilesetID, tex1.LocalID)
	}

	tex2, err := r.LoadTileTexture(schema.TextureDescriptor{Name: "dirt", Image: dirt, Rate: 1})
	if err != nil {
		t.Fatalf("LoadTileTexture: %v", err)
	}
	if tex2.LocalID != 3 {
		t.Fatalf("expected second distinct image to get local id 3, got %d", tex2.LocalID)
	}

	// Re-registering the same image path must reuse, not re-allocate.
	tex1Again, err := r.LoadTileTexture(schema.TextureDescriptor{Name: "grass-again", Image: grass})
	if err != nil {
		t.Fatalf("LoadTileTexture: %v", err)
	}
	if tex1Again.LocalID != tex1.LocalID {
		t.Fatalf("expected reused local id %d, got %d", tex1.LocalID, tex1Again.LocalID)
	}
}

func TestLoadAutoTileAllocatesDistinctTilesetIDs(t *testing.T) {
	dir := t.TempDir()
	water := writeTestPNG(t, dir, "water.png", 16*11, 16*5)
	grass := writeTestPNG(t, dir, "grassauto.png", 16*4, 16*4)

	r := New("m1", LocalProvider{Root: dir})

	at1, err := r.LoadAutoTile(schema.TextureDescriptor{Name: "water", Image: water, Method: "blob47"})
	if err != nil {
		t.Fatalf("LoadAutoTile: %v", err)
	}
	if at1.TilesetID != 2 {
		t.Fatalf("expected first autotile tileset id 2, got %d", at1.TilesetID)
	}

	at2, err := r.LoadAutoTile(schema.TextureDescriptor{Name: "grass", Image: grass, Method: "inner16"})
	if err != nil {
		t.Fatalf("LoadAutoTile: %v", err)
	}
	if at2.TilesetID != 3 {
		t.Fatalf("expected second autotile tileset id 3, got %d", at2.TilesetID)
	}
}

func TestLoadAutoTileRejectsUnknownMethod(t *testing.T) {
	dir := t.TempDir()
	img := writeTestPNG(t, dir, "x.png", 16, 16)
	r := New("m1", LocalProvider{Root: dir})
	if _, err := r.LoadAutoTile(schema.TextureDescriptor{Name: "x", Image: img, Method: "bogus"}); err == nil {
		t.Fatal("expected an error for an unknown autotile method")
	}
}

func TestLoadTileGroupPreservesDescriptorOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeTestPNG(t, dir, "a.png", 16, 16)
	b := writeTestPNG(t, dir, "b.png", 16, 16)
	c := writeTestPNG(t, dir, "c.png", 16*11, 16*5)

	r := New("m1", LocalProvider{Root: dir})
	group, err := r.LoadTileGroup(context.Background(),
		[]schema.TextureDescriptor{{Name: "a", Image: a}, {Name: "b", Image: b}},
		[]schema.TextureDescriptor{{Name: "c", Image: c, Method: "blob47"}},
		5)
	if err != nil {
		t.Fatalf("LoadTileGroup: %v", err)
	}
	if len(group.Textures) != 3 {
		t.Fatalf("expected 3 textures, got %d", len(group.Textures))
	}
	if group.Textures[0].Tile == nil || group.Textures[0].Tile.Name != "a" {
		t.Fatalf("expected textures[0] to be tile 'a', got %+v", group.Textures[0])
	}
	if group.Textures[1].Tile == nil || group.Textures[1].Tile.Name != "b" {
		t.Fatalf("expected textures[1] to be tile 'b', got %+v", group.Textures[1])
	}
	if group.Textures[2].AutoTile == nil || group.Textures[2].AutoTile.Name != "c" {
		t.Fatalf("expected textures[2] to be autotile 'c', got %+v", group.Textures[2])
	}
	if group.Scale != 5 {
		t.Fatalf("expected scale 5, got %d", group.Scale)
	}
}

func TestLoadObjectSlicesIntoBlueprintGrid(t *testing.T) {
	dir := t.TempDir()
	// A square 32x32 source resized to a 2-wide grid keeps width=2, and
	// gridHeight = targetHeightPx/TileHeight + 1 = 32/16 + 1 = 3,
	// matching the one-row slack the original computes.
	src := writeTestPNG(t, dir, "shed.png", 32, 32)

	r := New("m1", LocalProvider{Root: dir})
	obj, err := r.LoadObject(schema.TextureDescriptor{Name: "shed", Image: src, Width: 2})
	if err != nil {
		t.Fatalf("LoadObject: %v", err)
	}
	if obj.Width != 2 || obj.Height != 3 {
		t.Fatalf("expected a 2x3 blueprint grid, got %dx%d", obj.Width, obj.Height)
	}
	if len(obj.Blueprints) != obj.Width*obj.Height {
		t.Fatalf("expected %d blueprints, got %d", obj.Width*obj.Height, len(obj.Blueprints))
	}
}

func TestLoadObjectFallsBackToPlaceholderOnMissingImage(t *testing.T) {
	r := New("m1", LocalProvider{Root: t.TempDir()})
	obj, err := r.LoadObject(schema.TextureDescriptor{Name: "ghost", Width: 2, Height: 3})
	if err != nil {
		t.Fatalf("LoadObject should not fail on a missing image: %v", err)
	}
	if obj.Width != 2 || obj.Height != 3 {
		t.Fatalf("expected placeholder sized to the requested grid, got %dx%d", obj.Width, obj.Height)
	}
	if len(obj.Blueprints) != 6 {
		t.Fatalf("expected 6 placeholder blueprints, got %d", len(obj.Blueprints))
	}
}

func TestProcessTilesetsAssignsSequentialFirstGIDs(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	grass := writeTestPNG(t, dir, "grass.png", 16, 16)
	water := writeTestPNG(t, dir, "water.png", 16*11, 16*5)

	r := New("m1", LocalProvider{Root: dir})
	if _, err := r.LoadTileTexture(schema.TextureDescriptor{Name: "grass", Image: grass}); err != nil {
		t.Fatalf("LoadTileTexture: %v", err)
	}
	if _, err := r.LoadAutoTile(schema.TextureDescriptor{Name: "water", Image: water, Method: "blob47"}); err != nil {
		t.Fatalf("LoadAutoTile: %v", err)
	}

	tilesets, err := r.ProcessTilesets(outDir)
	if err != nil {
		t.Fatalf("ProcessTilesets: %v", err)
	}
	if len(tilesets) != 2 {
		t.Fatalf("expected 2 tilesets, got %d", len(tilesets))
	}
	if tilesets[0].FirstGID != 1 {
		t.Fatalf("expected dynamic tileset firstgid 1, got %d", tilesets[0].FirstGID)
	}
	wantSecondFirstGID := 1 + tilesets[0].TileCount
	if tilesets[1].FirstGID != wantSecondFirstGID {
		t.Fatalf("expected autotile firstgid %d, got %d", wantSecondFirstGID, tilesets[1].FirstGID)
	}
	if _, err := os.Stat(tilesets[0].Image); err != nil {
		t.Fatalf("expected packed dynamic tileset image to exist on disk: %v", err)
	}
}
