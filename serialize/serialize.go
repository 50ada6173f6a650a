// Package serialize emits the finished layered state as a Tiled-style
// JSON map document: an object layer carrying every placed item,
// followed by one tile layer per grid layer (empty layers dropped
// except the always-present collision/cover layers), plus tileset
// metadata with collision/cover tile property overrides
// (original_source/tiled_master/framework/builder.py: MapExporter;
// internal/tiled/loader.go's TMJ* structs, mirrored in the emission
// direction; spec.md §4.12, §6).
package serialize

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mapgen/schema"
	"mapgen/state"
)

// Document is the root Tiled JSON map object.
type Document struct {
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	TileWidth         int        `json:"tilewidth"`
	TileHeight        int        `json:"tileheight"`
	Version           string     `json:"version"`
	Type              string     `json:"type"`
	TiledVersion      string     `json:"tiledversion"`
	Orientation       string     `json:"orientation"`
	RenderOrder       string     `json:"renderorder"`
	NextLayerID       int        `json:"nextlayerid"`
	NextObjectID      int        `json:"nextobjectid"`
	CompressionLevel  int        `json:"compressionlevel"`
	Layers            []Layer    `json:"layers"`
	Tilesets          []Tileset  `json:"tilesets"`
}

// Layer is either a tilelayer (Data populated) or an objectgroup
// (Objects populated).
type Layer struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Visible bool     `json:"visible"`
	Opacity float64  `json:"opacity"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Data    []int    `json:"data,omitempty"`
	Objects []Object `json:"objects,omitempty"`
}

// Object is one placed item in the object layer.
type Object struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	X              int        `json:"x"`
	Y              int        `json:"y"`
	OriginalWidth  int        `json:"original_width"`
	OriginalHeight int        `json:"original_height"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	Rotation       int        `json:"rotation"`
	Visible        bool       `json:"visible"`
	Properties     []Property `json:"properties"`
}

// Property is a Tiled custom-property record.
type Property struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// Tileset mirrors schema.Tileset plus the tile property overrides
// collision/cover tiles carry.
type Tileset struct {
	TilesetID   int         `json:"tileset_id"`
	Name        string      `json:"name"`
	Columns     int         `json:"columns"`
	FirstGID    int         `json:"firstgid"`
	Image       string      `json:"image"`
	ImageWidth  int         `json:"imagewidth"`
	ImageHeight int         `json:"imageheight"`
	TileCount   int         `json:"tilecount"`
	TileWidth   int         `json:"tilewidth"`
	TileHeight  int         `json:"tileheight"`
	Tiles       []TileEntry `json:"tiles,omitempty"`
}

// TileEntry is one per-tile property override within a tileset.
type TileEntry struct {
	ID         int        `json:"id"`
	Properties []Property `json:"properties"`
}

// Build assembles the exportable Document for s, given the resolved
// tileset list tilesets (registry.Registry.ProcessTilesets's result),
// keyed by TilesetID (builder.py: MapExporter._generate_map_data).
func Build(s *state.State, tilesets []schema.Tileset) (*Document, error) {
	byID := make(map[int]schema.Tileset, len(tilesets))
	for _, ts := range tilesets {
		byID[ts.TilesetID] = ts
	}

	doc := &Document{
		Width:            s.Width,
		Height:           s.Height,
		TileWidth:        state.TileWidth,
		TileHeight:       state.TileHeight,
		Version:          "1.10",
		Type:             "map",
		TiledVersion:     "1.10.0",
		Orientation:      "orthogonal",
		RenderOrder:      "right-down",
		NextLayerID:      s.LayerNums + 1,
		NextObjectID:     1,
		CompressionLevel: -1,
	}

	doc.Layers = append(doc.Layers, objectLayer(s))

	for layer := 0; layer < s.LayerNums; layer++ {
		data, nonEmpty, err := layerData(s, layer, byID)
		if err != nil {
			return nil, err
		}
		if !nonEmpty && layer != state.LayerCover && layer != state.LayerObstacle {
			continue
		}
		doc.Layers = append(doc.Layers, Layer{
			ID:      layer,
			Name:    layerName(layer),
			Type:    "tilelayer",
			Visible: true,
			Opacity: 1,
			Width:   s.Width,
			Height:  s.Height,
			Data:    data,
		})
	}

	doc.Tilesets = tilesetEntries(tilesets, s.CollisionIdx, s.CoverIdx)
	return doc, nil
}

func layerName(layer int) string {
	switch layer {
	case state.LayerCover:
		return "CoverLayer"
	case state.LayerObstacle:
		return "Obstacles"
	default:
		return fmt.Sprintf("Layer_%d", layer+1)
	}
}

func layerData(s *state.State, layer int, tilesets map[int]schema.Tileset) (data []int, nonEmpty bool, err error) {
	data = make([]int, 0, s.Width*s.Height)
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			tile := s.GetTile(x, y, layer)
			if tile.TilesetID <= 0 {
				data = append(data, 0)
				continue
			}
			ts, ok := tilesets[tile.TilesetID]
			if !ok {
				return nil, false, fmt.Errorf("serialize: layer %d cell (%d,%d) references unknown tileset %d", layer, x, y, tile.TilesetID)
			}
			gid := ts.GID(tile.LocalID)
			data = append(data, gid)
			if gid != 0 {
				nonEmpty = true
			}
		}
	}
	return data, nonEmpty, nil
}

func objectLayer(s *state.State) Layer {
	objs := s.Objects()
	out := make([]Object, len(objs))
	for i, o := range objs {
		out[i] = Object{
			ID:             o.ID,
			Name:           o.Name,
			Type:           o.Type,
			X:              o.X,
			Y:              o.Y,
			OriginalWidth:  o.OriginalWidth,
			OriginalHeight: o.OriginalHeight,
			Width:          o.Width,
			Height:         o.Height,
			Rotation:       o.Rotation,
			Visible:        o.Visible,
			Properties: []Property{
				{Name: "texture", Type: "string", Value: o.Image},
				{Name: "image_path", Type: "string", Value: o.ImagePath},
				{Name: "functions", Type: "string", Value: mustJSON(o.Functions)},
			},
		}
	}
	return Layer{
		ID:      state.LayerItem,
		Name:    "Items",
		Type:    "objectgroup",
		Visible: true,
		Opacity: 1,
		Objects: out,
	}
}

func mustJSON(v any) string {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// tilesetEntries converts tilesets into their export form, annotating
// the collision and cover sentinel tiles with their property overrides
// (builder.py: MapExporter._generate_map_data's tileset_dict["tiles"]
// branches).
func tilesetEntries(tilesets []schema.Tileset, collisionIdx, coverIdx [2]int) []Tileset {
	out := make([]Tileset, len(tilesets))
	for i, ts := range tilesets {
		entry := Tileset{
			TilesetID:   ts.TilesetID,
			Name:        ts.Name,
			Columns:     ts.Columns,
			FirstGID:    ts.FirstGID,
			Image:       ts.Image,
			ImageWidth:  ts.ImageWidth,
			ImageHeight: ts.ImageHeight,
			TileCount:   ts.TileCount,
			TileWidth:   ts.TileWidth,
			TileHeight:  ts.TileHeight,
		}
		if ts.TilesetID == collisionIdx[0] && collisionIdx[1] != 0 {
			entry.Tiles = append(entry.Tiles, TileEntry{
				ID:         ts.FirstGID + collisionIdx[1] - 1,
				Properties: []Property{{Name: "collision", Type: "bool", Value: true}},
			})
		}
		if ts.TilesetID == coverIdx[0] && coverIdx[1] != 0 {
			entry.Tiles = append(entry.Tiles, TileEntry{
				ID:         ts.FirstGID + coverIdx[1] - 1,
				Properties: []Property{{Name: "cover", Type: "bool", Value: true}},
			})
		}
		out[i] = entry
	}
	return out
}

// WriteFile marshals doc as indented JSON to <outputDir>/<mapID>.json
// (builder.py: MapExporter.export_json).
func WriteFile(doc *Document, outputDir, mapID string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("serialize: creating output dir: %w", err)
	}
	path := filepath.Join(outputDir, fmt.Sprintf("%s.json", mapID))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("serialize: creating %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("serialize: encoding %q: %w", path, err)
	}
	return path, nil
}
