package schema

// TextureTile is a single resolved tile texture (schema.py: TextureTile).
type TextureTile struct {
	Name       string
	ImagePath  string
	Collision  bool
	Cover      bool
	Rate       int
	TilesetID  int
	LocalID    int
}

// AutoTileMethod names the neighborhood-resolution scheme an auto-tile
// texture uses (spec.md §3, §4.7).
type AutoTileMethod string

const (
	MethodTile48 AutoTileMethod = "tile48"
	MethodInner16 AutoTileMethod = "inner16"
	MethodBlob47  AutoTileMethod = "blob47"
)

// TextureAutoTile occupies an entire tileset whose layout is fixed by
// Method (schema.py: TextureAutoTile).
type TextureAutoTile struct {
	Name      string
	Method    AutoTileMethod
	ImagePath string
	Collision bool
	Cover     bool
	Rate      int
	TilesetID int
}

// Blueprint is a (tile, relative offset) pair describing how one piece
// of a multi-tile object imprints onto the grid (schema.py: Blueprint).
type Blueprint struct {
	Texture    TextureTile
	RelativeX  int
	RelativeY  int
}

// TextureObject is a placeable multi-tile object built from Blueprints
// (schema.py: TextureObject).
type TextureObject struct {
	Name           string
	Shape          string
	Width          int // grid cells
	Height         int // grid cells
	OriginalWidth  int // source pixels, pre-resize
	OriginalHeight int
	Functions      []string
	ImagePath      string
	ImageURL       string
	Collision      bool
	Cover          bool
	Visible        bool
	Rotation       int
	Rate           int
	Blueprints     []Blueprint
}

// BlueprintArea returns the absolute grid coordinates every blueprint of
// o would occupy if placed with its top-left at (x, y)
// (schema.py: TextureObject.get_blueprints_area).
func (o *TextureObject) BlueprintArea(x, y int) [][2]int {
	area := make([][2]int, len(o.Blueprints))
	for i, bp := range o.Blueprints {
		area[i] = [2]int{x + bp.RelativeX, y + bp.RelativeY}
	}
	return area
}

// Texture is a sum type over the two kinds a TileGroup may contain
// (schema.py: TileGroup.textures: List[Union[TextureAutoTile, TextureTile]]).
type Texture struct {
	Tile     *TextureTile
	AutoTile *TextureAutoTile
}

// Rate returns the weighted-choice rate of whichever variant is set.
func (t Texture) Rate() int {
	switch {
	case t.Tile != nil:
		return t.Tile.Rate
	case t.AutoTile != nil:
		return t.AutoTile.Rate
	default:
		return 0
	}
}

// TileGroup is an unordered bag of tile/auto-tile textures plus an
// intensity scale (schema.py: TileGroup).
type TileGroup struct {
	Textures []Texture
	Scale    int
}

// PlainTiles returns only the non-auto-tile members of the group.
func (g *TileGroup) PlainTiles() []*TextureTile {
	var out []*TextureTile
	for _, t := range g.Textures {
		if t.Tile != nil {
			out = append(out, t.Tile)
		}
	}
	return out
}

// AutoTiles returns only the auto-tile members of the group.
func (g *TileGroup) AutoTiles() []*TextureAutoTile {
	var out []*TextureAutoTile
	for _, t := range g.Textures {
		if t.AutoTile != nil {
			out = append(out, t.AutoTile)
		}
	}
	return out
}

// ObjectGroup is an unordered bag of placeable objects plus an
// intensity scale (schema.py: ObjectGroup).
type ObjectGroup struct {
	Objects []*TextureObject
	Scale   int
}

// Tileset is the finalized metadata record describing one packed image
// in the output document (schema.py: Tileset).
type Tileset struct {
	TilesetID   int
	Name        string
	Columns     int
	FirstGID    int
	Image       string
	ImageWidth  int
	ImageHeight int
	Spacing     int
	Margin      int
	TileCount   int
	TileWidth   int
	TileHeight  int
}

// GID returns the global tile id for a local tile id within ts
// (spec.md §3, §4.12: firstgid + local_id - 1).
func (ts Tileset) GID(localID int) int {
	if localID == 0 {
		return 0
	}
	return ts.FirstGID + localID - 1
}

// autoTileLayout gives the fixed (columns, tilecount, imagewidth,
// imageheight) for each scheme in 16px tile units (spec.md §3, §4.9).
type autoTileLayout struct {
	Columns, Rows, TileCount int
}

var autoTileLayouts = map[AutoTileMethod]autoTileLayout{
	MethodTile48:  {Columns: 8, Rows: 6, TileCount: 48},
	MethodInner16: {Columns: 4, Rows: 4, TileCount: 16},
	MethodBlob47:  {Columns: 11, Rows: 5, TileCount: 57},
}

// AutoTileLayout returns the fixed tileset layout for method.
func AutoTileLayout(method AutoTileMethod) (columns, rows, tileCount, imageWidth, imageHeight int) {
	l := autoTileLayouts[method]
	return l.Columns, l.Rows, l.TileCount, l.Columns * 16, l.Rows * 16
}
