package registry

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"mapgen/schema"
)

// objectImageResult is the expensive, concurrency-safe half of object
// loading: everything needed to slice an object into blueprints, minus
// the local/tileset id assignment that must happen in deterministic
// descriptor order afterward.
type objectImageResult struct {
	img                           image.Image
	originalWidth, originalHeight int
	gridWidth, gridHeight         int
	rate                          int
}

// resolveObjectImage resizes desc's source image to an exact multiple
// of the tile size (preserving aspect ratio against the requested grid
// width). A descriptor with no image, or whose image fails to resolve,
// falls back to a solid placeholder of the requested grid size rather
// than failing the whole load (preloader.py's except-branch). It
// assigns no ids, so callers may run it concurrently across many
// descriptors (preloader.py: Preloader.load_object).
func (r *Registry) resolveObjectImage(desc schema.TextureDescriptor) objectImageResult {
	gridWidth := desc.Width
	if gridWidth <= 0 {
		gridWidth = 1
	}
	rate := desc.Rate
	if rate <= 0 {
		rate = 1
	}

	img, originalWidth, originalHeight, gridHeight, ok := r.loadAndResizeObjectImage(desc, gridWidth)
	if !ok {
		gridHeight = desc.Height
		if gridHeight <= 0 {
			gridHeight = 1
		}
		img = imaging.New(gridWidth*TileWidth, gridHeight*TileHeight, image.Transparent)
		originalWidth, originalHeight = gridWidth*TileWidth, gridHeight*TileHeight
	}

	return objectImageResult{
		img:            img,
		originalWidth:  originalWidth,
		originalHeight: originalHeight,
		gridWidth:      gridWidth,
		gridHeight:     gridHeight,
		rate:           rate,
	}
}

// finalizeObject slices res.img into per-cell sub-images and assigns
// each one a local id, walking cells in row-major order so a rerun
// against the same input always reproduces the same ids.
func (r *Registry) finalizeObject(desc schema.TextureDescriptor, res objectImageResult) *schema.TextureObject {
	blueprints := make([]schema.Blueprint, 0, res.gridWidth*res.gridHeight)
	for y := 0; y < res.gridHeight; y++ {
		for x := 0; x < res.gridWidth; x++ {
			cellRect := image.Rect(x*TileWidth, y*TileHeight, (x+1)*TileWidth, (y+1)*TileHeight)
			cell := imaging.Crop(res.img, cellRect)
			ref := fmt.Sprintf("%s#%d_%d", desc.Image, x, y)
			tsID, localID := r.nextLocalID(ref, cell)

			blueprints = append(blueprints, schema.Blueprint{
				Texture: schema.TextureTile{
					Name:      fmt.Sprintf("%s_%d_%d", desc.Name, x, y),
					ImagePath: ref,
					Collision: desc.Collision,
					Cover:     desc.Cover,
					Rate:      res.rate,
					TilesetID: tsID,
					LocalID:   localID,
				},
				RelativeX: x,
				RelativeY: y,
			})
		}
	}

	return &schema.TextureObject{
		Name:           desc.Name,
		Shape:          "rectangle",
		Width:          res.gridWidth,
		Height:         res.gridHeight,
		OriginalWidth:  res.originalWidth,
		OriginalHeight: res.originalHeight,
		Functions:      desc.Functions,
		ImagePath:      desc.Image,
		Collision:      desc.Collision,
		Cover:          desc.Cover,
		Visible:        true,
		Rate:           res.rate,
		Blueprints:     blueprints,
	}
}

// LoadObject resolves and finalizes a single multi-tile object
// descriptor (preloader.py: Preloader.load_object).
func (r *Registry) LoadObject(desc schema.TextureDescriptor) (*schema.TextureObject, error) {
	return r.finalizeObject(desc, r.resolveObjectImage(desc)), nil
}

// loadAndResizeObjectImage resolves desc.Image and resizes it so its
// width is exactly gridWidth*TileWidth pixels, scaling height to match
// aspect ratio and rounding the resulting grid height up by one row of
// slack (preloader.py computes grid_height = target_height_px //
// tile_height + 1).
func (r *Registry) loadAndResizeObjectImage(desc schema.TextureDescriptor, gridWidth int) (resized image.Image, originalWidth, originalHeight, gridHeight int, ok bool) {
	if desc.Image == "" {
		return nil, 0, 0, 0, false
	}
	img, err := r.resolve(desc.Image)
	if err != nil {
		return nil, 0, 0, 0, false
	}

	bounds := img.Bounds()
	originalWidth, originalHeight = bounds.Dx(), bounds.Dy()
	if originalWidth == 0 {
		return nil, 0, 0, 0, false
	}

	targetWidthPx := gridWidth * TileWidth
	scale := float64(targetWidthPx) / float64(originalWidth)
	targetHeightPx := int(float64(originalHeight) * scale)
	gridHeight = targetHeightPx/TileHeight + 1

	resized = imaging.Resize(img, targetWidthPx, gridHeight*TileHeight, imaging.Lanczos)
	return resized, originalWidth, originalHeight, gridHeight, true
}
