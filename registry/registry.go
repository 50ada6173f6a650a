package registry

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"mapgen/schema"
)

// placeholderRef is the cache key shared by every texture that falls
// back to a synthesized placeholder image (preloader.py:
// place_holder_tile_path).
const placeholderRef = "__placeholder__"

// TileWidth/TileHeight mirror state.TileWidth/TileHeight; duplicated
// here rather than imported to keep registry independent of state.
const (
	TileWidth  = 16
	TileHeight = 16
)

// Registry resolves TextureDescriptors into concrete textures and packs
// the dynamic tileset image, one instance per map build
// (preloader.py: Preloader).
type Registry struct {
	MapID    string
	Provider Provider

	mu               sync.Mutex
	dynamicTilesetID int
	dynamicLocalIDs  map[string]int
	dynamicCounter   int
	autotileCounter  int
	autotiles        []autotileRecord
	images           map[string]image.Image // cache of resolved local-tileset images, keyed by the same ref as dynamicLocalIDs
}

type autotileRecord struct {
	TilesetID   int
	Image       image.Image
	Columns     int
	TileCount   int
	ImageWidth  int
	ImageHeight int
}

// New creates a Registry for mapID. Regular tiles always share
// dynamic tileset id 1; the placeholder occupies local id 1 within it
// (preloader.py: Preloader.__init__).
func New(mapID string, provider Provider) *Registry {
	return &Registry{
		MapID:            mapID,
		Provider:         provider,
		dynamicTilesetID: 1,
		dynamicLocalIDs:  map[string]int{placeholderRef: 1},
		dynamicCounter:   2,
		images:           map[string]image.Image{placeholderRef: placeholderImage()},
	}
}

func placeholderImage() image.Image {
	return imaging.New(TileWidth, TileHeight, image.Transparent)
}

// nextLocalID assigns (or reuses) a local id for ref within the
// dynamic tileset, caching img under the same key
// (preloader.py: Preloader._get_next_local_id).
func (r *Registry) nextLocalID(ref string, img image.Image) (tilesetID, localID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.dynamicLocalIDs[ref]; ok {
		return r.dynamicTilesetID, id
	}
	id := r.dynamicCounter
	r.dynamicCounter++
	r.dynamicLocalIDs[ref] = id
	r.images[ref] = img
	return r.dynamicTilesetID, id
}

func (r *Registry) resolve(ref string) (image.Image, error) {
	if ref == "" {
		return placeholderImage(), nil
	}
	img, err := r.Provider.Open(ref)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// resolveTileImage fetches the image backing a tile descriptor without
// assigning it a local id, so callers can run this concurrently and
// defer id allocation to a deterministic sequential pass.
func (r *Registry) resolveTileImage(desc schema.TextureDescriptor) (ref string, img image.Image, err error) {
	ref = desc.Image
	if ref == "" {
		ref = placeholderRef
	}
	img, err = r.resolve(desc.Image)
	return ref, img, err
}

func (r *Registry) finalizeTileTexture(desc schema.TextureDescriptor, ref string, img image.Image) *schema.TextureTile {
	tsID, localID := r.nextLocalID(ref, img)
	return &schema.TextureTile{
		Name:      desc.Name,
		ImagePath: desc.Image,
		Collision: desc.Collision,
		Cover:     desc.Cover,
		Rate:      desc.Rate,
		TilesetID: tsID,
		LocalID:   localID,
	}
}

// LoadTileTexture resolves a single plain-tile descriptor. A descriptor
// with no image resolves to the shared placeholder tile, the same
// convention framework sentinel tiles (collision, cover) rely on
// (preloader.py: Preloader.load_tile_texture;
// tiled_master/framework/config.py: place_holder_tile_path).
func (r *Registry) LoadTileTexture(desc schema.TextureDescriptor) (*schema.TextureTile, error) {
	ref, img, err := r.resolveTileImage(desc)
	if err != nil {
		return nil, err
	}
	return r.finalizeTileTexture(desc, ref, img), nil
}

func (r *Registry) finalizeAutoTile(desc schema.TextureDescriptor, img image.Image) (*schema.TextureAutoTile, error) {
	method := schema.AutoTileMethod(desc.Method)
	columns, _, tileCount, imageWidth, imageHeight := schema.AutoTileLayout(method)
	if columns == 0 {
		return nil, fmt.Errorf("registry: invalid autotile method %q", desc.Method)
	}

	r.mu.Lock()
	r.autotileCounter++
	tilesetID := r.dynamicTilesetID + r.autotileCounter
	r.autotiles = append(r.autotiles, autotileRecord{
		TilesetID:   tilesetID,
		Image:       img,
		Columns:     columns,
		TileCount:   tileCount,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	})
	r.mu.Unlock()

	return &schema.TextureAutoTile{
		Name:      desc.Name,
		Method:    method,
		ImagePath: desc.Image,
		Collision: desc.Collision,
		Cover:     desc.Cover,
		Rate:      desc.Rate,
		TilesetID: tilesetID,
	}, nil
}

// LoadAutoTile resolves an auto-tile descriptor, allocating it its own
// tileset id starting at dynamicTilesetID+1
// (preloader.py: Preloader.load_autotile).
func (r *Registry) LoadAutoTile(desc schema.TextureDescriptor) (*schema.TextureAutoTile, error) {
	if desc.Image == "" {
		return nil, fmt.Errorf("registry: autotile descriptor %q has no image", desc.Name)
	}
	img, err := r.resolve(desc.Image)
	if err != nil {
		return nil, err
	}
	return r.finalizeAutoTile(desc, img)
}

// LoadTileGroup concurrently resolves every tile and autotile image,
// then assigns local/tileset ids in a single deterministic sequential
// pass over descriptor order. Splitting resolve from id assignment this
// way means concurrent image decoding never lets goroutine completion
// order leak into the ids a rerun of the same input would produce
// (preloader.py: Preloader.load_tile_group, asyncio.gather).
func (r *Registry) LoadTileGroup(ctx context.Context, tiles, autoTiles []schema.TextureDescriptor, scale int) (*schema.TileGroup, error) {
	tileRefs := make([]string, len(tiles))
	tileImgs := make([]image.Image, len(tiles))
	autoImgs := make([]image.Image, len(autoTiles))

	g, _ := errgroup.WithContext(ctx)
	for i, desc := range tiles {
		i, desc := i, desc
		g.Go(func() error {
			ref, img, err := r.resolveTileImage(desc)
			if err != nil {
				return err
			}
			tileRefs[i], tileImgs[i] = ref, img
			return nil
		})
	}
	for i, desc := range autoTiles {
		i, desc := i, desc
		g.Go(func() error {
			if desc.Image == "" {
				return fmt.Errorf("registry: autotile descriptor %q has no image", desc.Name)
			}
			img, err := r.resolve(desc.Image)
			if err != nil {
				return err
			}
			autoImgs[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	textures := make([]schema.Texture, len(tiles)+len(autoTiles))
	for i, desc := range tiles {
		textures[i] = schema.Texture{Tile: r.finalizeTileTexture(desc, tileRefs[i], tileImgs[i])}
	}
	offset := len(tiles)
	for i, desc := range autoTiles {
		tex, err := r.finalizeAutoTile(desc, autoImgs[i])
		if err != nil {
			return nil, err
		}
		textures[offset+i] = schema.Texture{AutoTile: tex}
	}
	return &schema.TileGroup{Textures: textures, Scale: scale}, nil
}

// LoadObjectGroup concurrently resolves and resizes every object's
// source image, then assigns blueprint ids in a single deterministic
// sequential pass over (descriptor index, cell index) order
// (preloader.py: Preloader.load_object_group).
func (r *Registry) LoadObjectGroup(ctx context.Context, descs []schema.TextureDescriptor, scale int) (*schema.ObjectGroup, error) {
	results := make([]objectImageResult, len(descs))
	g, _ := errgroup.WithContext(ctx)

	for i, desc := range descs {
		i, desc := i, desc
		g.Go(func() error {
			results[i] = r.resolveObjectImage(desc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	objects := make([]*schema.TextureObject, len(descs))
	for i, desc := range descs {
		objects[i] = r.finalizeObject(desc, results[i])
	}
	return &schema.ObjectGroup{Objects: objects, Scale: scale}, nil
}
