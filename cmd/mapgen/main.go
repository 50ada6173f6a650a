// Command mapgen is a thin demo entrypoint: it wires a hard-coded
// schema.Config, runs the builder pipeline, and writes the resulting
// tilemap document to disk (main.go's bootstrap shape, minus the
// Ebitengine window/game loop, which has no equivalent here — see
// DESIGN.md's dropped-dependency note).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mapgen/builder"
	"mapgen/internal/logx"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/serialize"
)

func main() {
	mapID := flag.String("map-id", "demo-town", "unique id for the generated map")
	assetsRoot := flag.String("assets", "assets", "directory image references resolve against")
	outputDir := flag.String("out", "output", "directory to write the tilemap JSON and packed tilesets into")
	width := flag.Int("width", 96, "map width in tiles")
	height := flag.Int("height", 64, "map height in tiles")
	flag.Parse()

	if err := logx.Init("mapgen.log"); err != nil {
		panic(err)
	}
	defer func() {
		if err := logx.Close(); err != nil {
			os.Stderr.WriteString("error closing logger: " + err.Error() + "\n")
		}
	}()

	logx.Info(fmt.Sprintf("generating map %q (%dx%d)", *mapID, *width, *height))

	cfg := defaultConfig(*mapID, *width, *height)
	reg := registry.New(*mapID, registry.LocalProvider{Root: *assetsRoot})

	b, err := builder.New(cfg, reg)
	if err != nil {
		logx.Error(err.Error())
		os.Exit(1)
	}

	s, err := b.Run(context.Background())
	if err != nil {
		logx.Error(err.Error())
		os.Exit(1)
	}

	tilesets, err := reg.ProcessTilesets(*outputDir)
	if err != nil {
		logx.Error(err.Error())
		os.Exit(1)
	}

	doc, err := serialize.Build(s, tilesets)
	if err != nil {
		logx.Error(err.Error())
		os.Exit(1)
	}

	path, err := serialize.WriteFile(doc, *outputDir, *mapID)
	if err != nil {
		logx.Error(err.Error())
		os.Exit(1)
	}

	logx.Info(fmt.Sprintf("map %q written to %s", *mapID, path))
}

// defaultConfig wires every stage except village in registration order, with
// intentionally sparse resource descriptors: a real deployment supplies
// these from its own asset manifest, not from this binary.
func defaultConfig(mapID string, width, height int) schema.Config {
	grassTile := schema.TextureDescriptor{Name: "grass", Image: "tiles/grass.png", Rate: 1, Type: "tile"}
	waterAuto := schema.TextureDescriptor{Name: "water", Image: "tiles/water_blob47.png", Rate: 1, Type: "auto_tile", Method: "blob47"}
	bushTile := schema.TextureDescriptor{Name: "bush", Image: "tiles/bush.png", Rate: 1, Type: "tile", Cover: true}
	treeObj := schema.BuildingSpec{Name: "tree", Image: "objects/tree.png", Width: 2, Height: 2, Rate: 1, Collision: true, Cover: true}
	houseObj := schema.BuildingSpec{Name: "house", Image: "objects/house.png", Width: 3, Height: 3, Rate: 1, Collision: true}
	roadTile := schema.TextureDescriptor{Name: "road", Image: "tiles/road.png", Rate: 1, Type: "tile"}
	bridgeTile := schema.TextureDescriptor{Name: "bridge", Image: "tiles/bridge.png", Rate: 1, Type: "tile"}
	floorTile := schema.TextureDescriptor{Name: "floor", Image: "tiles/floor.png", Rate: 1, Type: "tile"}
	wallTile := schema.TextureDescriptor{Name: "wall", Image: "tiles/wall.png", Rate: 1, Type: "tile", Collision: true}

	return schema.Config{
		MapID:     mapID,
		Width:     width,
		Height:    height,
		LayerNums: 10,
		Elements: []schema.ElementConfig{
			{Name: "ground", Enable: true, Data: schema.ElementData{Textures: []schema.TextureDescriptor{grassTile}}},
			{Name: "river", Enable: true, Data: schema.ElementData{Scale: 2, Textures: []schema.TextureDescriptor{waterAuto}}},
			{Name: "woods", Enable: true, Data: schema.ElementData{Scale: 2, Textures: []schema.TextureDescriptor{treeObj.Descriptor()}}},
			{Name: "bush", Enable: true, Data: schema.ElementData{Scale: 1, Textures: []schema.TextureDescriptor{bushTile}}},
			{Name: "town", Enable: true, Data: schema.ElementData{
				NumNodes:       8,
				Buildings:      []schema.BuildingSpec{houseObj},
				Textures:       []schema.TextureDescriptor{roadTile},
				BridgeTextures: []schema.TextureDescriptor{bridgeTile},
			}},
			{Name: "interior", Enable: false, Data: schema.ElementData{
				GridWidth: 12, GridHeight: 6,
				FloorTextures:   []schema.TextureDescriptor{floorTile},
				WallLv1Textures: []schema.TextureDescriptor{wallTile},
			}},
			{Name: "collision", Enable: true},
			{Name: "cover", Enable: true},
			{Name: "town_logic", Enable: true},
		},
	}
}
