package registry

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"mapgen/schema"
)

// dynamicTilesetColumns is fixed regardless of tile count
// (preloader.py: _assemble_dynamic_tileset's columns = 16).
const dynamicTilesetColumns = 16

// AssembleDynamicTileset packs every registered plain-tile image into
// one combined RGBA sheet, tiles placed in row-major order by local id,
// and writes it to outputDir
// (preloader.py: Preloader._assemble_dynamic_tileset).
func (r *Registry) AssembleDynamicTileset(outputDir string) (*schema.Tileset, error) {
	r.mu.Lock()
	tileCount := len(r.dynamicLocalIDs)
	localIDs := make(map[string]int, tileCount)
	for ref, id := range r.dynamicLocalIDs {
		localIDs[ref] = id
	}
	images := make(map[string]image.Image, len(r.images))
	for ref, img := range r.images {
		images[ref] = img
	}
	r.mu.Unlock()

	if tileCount == 0 {
		return nil, fmt.Errorf("registry: no tiles registered to assemble")
	}

	rows := (tileCount + dynamicTilesetColumns - 1) / dynamicTilesetColumns
	totalWidth := dynamicTilesetColumns * TileWidth
	totalHeight := rows * TileHeight

	sheet := image.NewNRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	for ref, localID := range localIDs {
		img, ok := images[ref]
		if !ok {
			continue
		}
		x := ((localID - 1) % dynamicTilesetColumns) * TileWidth
		y := ((localID - 1) / dynamicTilesetColumns) * TileHeight
		dstRect := image.Rect(x, y, x+TileWidth, y+TileHeight)
		draw.Draw(sheet, dstRect, img, img.Bounds().Min, draw.Src)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("registry: creating tileset dir: %w", err)
	}
	imagePath := filepath.Join(outputDir, fmt.Sprintf("dynamic_tileset_%s.png", uuid.NewString()))
	if err := savePNG(sheet, imagePath); err != nil {
		return nil, err
	}

	return &schema.Tileset{
		TilesetID:   r.dynamicTilesetID,
		Name:        "default_tileset",
		Columns:     dynamicTilesetColumns,
		FirstGID:    1,
		Image:       imagePath,
		ImageWidth:  totalWidth,
		ImageHeight: totalHeight,
		TileCount:   tileCount,
		TileWidth:   TileWidth,
		TileHeight:  TileHeight,
	}, nil
}

// ProcessTilesets assembles the dynamic tileset and every auto-tile
// tileset into the final ordered list, computing each firstgid from the
// running count of tiles allocated so far (preloader.py:
// Preloader.process_tilesets).
func (r *Registry) ProcessTilesets(outputDir string) ([]schema.Tileset, error) {
	dynamic, err := r.AssembleDynamicTileset(outputDir)
	if err != nil {
		return nil, err
	}

	tilesets := []schema.Tileset{*dynamic}
	gidCount := dynamic.TileCount

	r.mu.Lock()
	autotiles := make([]autotileRecord, len(r.autotiles))
	copy(autotiles, r.autotiles)
	r.mu.Unlock()

	for _, at := range autotiles {
		imagePath := filepath.Join(outputDir, fmt.Sprintf("autotile_%d_%s.png", at.TilesetID, uuid.NewString()))
		if err := savePNG(at.Image, imagePath); err != nil {
			return nil, err
		}
		ts := schema.Tileset{
			TilesetID:   at.TilesetID,
			Name:        fmt.Sprintf("autotile_%d", at.TilesetID),
			Columns:     at.Columns,
			FirstGID:    1 + gidCount,
			Image:       imagePath,
			ImageWidth:  at.ImageWidth,
			ImageHeight: at.ImageHeight,
			TileCount:   at.TileCount,
			TileWidth:   TileWidth,
			TileHeight:  TileHeight,
		}
		gidCount += ts.TileCount
		tilesets = append(tilesets, ts)
	}

	return tilesets, nil
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("registry: creating %q: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("registry: encoding %q: %w", path, err)
	}
	return nil
}
