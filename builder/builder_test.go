package builder

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"mapgen/registry"
	"mapgen/schema"
	"mapgen/serialize"
)

func writeFixturePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("creating fixture %q: %v", name, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encoding fixture %q: %v", name, err)
	}
}

// townOnlyConfig is a single-preloading-stage config (town + the
// resource-free collision/cover/cleanup stages): with only one stage
// registering new images, cross-stage preload id allocation never
// races, isolating this test to the ordering bugs under test (BSP
// corner order, A* corridor order) rather than the tile-id tolerance
// spec.md §9 allows.
func townOnlyConfig(mapID string) schema.Config {
	return schema.Config{
		MapID:     mapID,
		Width:     48,
		Height:    32,
		LayerNums: 10,
		Elements: []schema.ElementConfig{
			{Name: "town", Enable: true, Data: schema.ElementData{
				NumNodes: 5,
				Buildings: []schema.BuildingSpec{
					{Name: "house_a", Image: "house_a.png", Width: 2, Height: 2, Rate: 2},
					{Name: "house_b", Image: "house_b.png", Width: 2, Height: 2, Rate: 1},
				},
				Textures: []schema.TextureDescriptor{
					{Name: "road_a", Image: "road_a.png", Rate: 2, Type: "tile"},
					{Name: "road_b", Image: "road_b.png", Rate: 1, Type: "tile"},
				},
			}},
			{Name: "collision", Enable: true},
			{Name: "cover", Enable: true},
			{Name: "town_logic", Enable: true},
		},
	}
}

func runOnce(t *testing.T, assetsDir, outDir string, cfg schema.Config) *serialize.Document {
	t.Helper()
	reg := registry.New(cfg.MapID, registry.LocalProvider{Root: assetsDir})

	b, err := New(cfg, reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tilesets, err := reg.ProcessTilesets(outDir)
	if err != nil {
		t.Fatalf("ProcessTilesets: %v", err)
	}
	doc, err := serialize.Build(s, tilesets)
	if err != nil {
		t.Fatalf("serialize.Build: %v", err)
	}
	return doc
}

// TestRunTwiceIsDeterministic is Scenario D (spec.md: two runs of the
// same configuration and map id must produce identical tile layer data
// and identical object ids/positions). It exercises the BSP-partition
// corner order and A*-corridor tile order that previously leaked
// goroutine/map iteration order into the road network and house
// placement.
func TestRunTwiceIsDeterministic(t *testing.T) {
	assetsDir := t.TempDir()
	writeFixturePNG(t, assetsDir, "house_a.png", 32, 32)
	writeFixturePNG(t, assetsDir, "house_b.png", 32, 32)
	writeFixturePNG(t, assetsDir, "road_a.png", 16, 16)
	writeFixturePNG(t, assetsDir, "road_b.png", 16, 16)

	cfg := townOnlyConfig("det-town")

	doc1 := runOnce(t, assetsDir, t.TempDir(), cfg)
	doc2 := runOnce(t, assetsDir, t.TempDir(), cfg)

	if len(doc1.Layers) != len(doc2.Layers) {
		t.Fatalf("layer count differs: %d vs %d", len(doc1.Layers), len(doc2.Layers))
	}
	for i := range doc1.Layers {
		l1, l2 := doc1.Layers[i], doc2.Layers[i]
		if l1.Name != l2.Name || l1.Type != l2.Type {
			t.Fatalf("layer[%d] shape differs: %+v vs %+v", i, l1, l2)
		}
		if l1.Type != "tilelayer" {
			continue
		}
		if len(l1.Data) != len(l2.Data) {
			t.Fatalf("layer %q data length differs: %d vs %d", l1.Name, len(l1.Data), len(l2.Data))
		}
		for j := range l1.Data {
			if l1.Data[j] != l2.Data[j] {
				t.Fatalf("layer %q cell %d differs across runs: %d vs %d", l1.Name, j, l1.Data[j], l2.Data[j])
			}
		}
	}

	objs1, objs2 := doc1.Layers[0].Objects, doc2.Layers[0].Objects
	if len(objs1) != len(objs2) {
		t.Fatalf("object count differs: %d vs %d", len(objs1), len(objs2))
	}
	if len(objs1) == 0 {
		t.Fatal("expected at least one house object to be placed")
	}
	for i := range objs1 {
		o1, o2 := objs1[i], objs2[i]
		if o1.ID != o2.ID || o1.Name != o2.Name || o1.X != o2.X || o1.Y != o2.Y ||
			o1.Width != o2.Width || o1.Height != o2.Height {
			t.Fatalf("object[%d] differs across runs: %+v vs %+v", i, o1, o2)
		}
	}
}

// TestRunTwiceProducesByteIdenticalJSON checks the same invariant at
// the level callers actually observe: the encoded document bytes.
func TestRunTwiceProducesByteIdenticalJSON(t *testing.T) {
	assetsDir := t.TempDir()
	writeFixturePNG(t, assetsDir, "house_a.png", 32, 32)
	writeFixturePNG(t, assetsDir, "house_b.png", 32, 32)
	writeFixturePNG(t, assetsDir, "road_a.png", 16, 16)
	writeFixturePNG(t, assetsDir, "road_b.png", 16, 16)

	cfg := townOnlyConfig("det-town-2")

	outDir1, outDir2 := t.TempDir(), t.TempDir()
	doc1 := runOnce(t, assetsDir, outDir1, cfg)
	doc2 := runOnce(t, assetsDir, outDir2, cfg)

	// Tileset image paths are derived from each run's own output
	// directory, which legitimately differs between two independent
	// runs; blank them out before comparing everything else byte for
	// byte.
	for i := range doc1.Tilesets {
		doc1.Tilesets[i].Image = ""
	}
	for i := range doc2.Tilesets {
		doc2.Tilesets[i].Image = ""
	}

	b1, err := json.Marshal(doc1)
	if err != nil {
		t.Fatalf("marshal doc1: %v", err)
	}
	b2, err := json.Marshal(doc2)
	if err != nil {
		t.Fatalf("marshal doc2: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("expected byte-identical documents across two runs of the same config/map id:\n%s\n---\n%s", b1, b2)
	}
}
