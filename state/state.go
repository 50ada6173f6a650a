// Package state implements the layered map state every generation
// stage reads and mutates: a 4-D dense tile grid plus an ordered object
// layer, with deep-clone/snapshot semantics for the retry-with-rollback
// discipline stages use when a tentative placement might fail
// (original_source/tiled_master/framework/map_cache.py, spec.md §3,
// §4.8).
package state

import (
	"fmt"

	"mapgen/autotile"
	"mapgen/geom"
	"mapgen/prng"
	"mapgen/schema"
)

// Tile channel indices within the last grid dimension (spec.md §3).
const (
	ChanTilesetID = 0
	ChanLocalID   = 1
	ChanCollision = 2
	ChanCover     = 3
)

// Fixed layer indices shared across stages (spec.md §3).
const (
	LayerItem      = 0
	LayerObstacle  = 1
	LayerCover     = 2
	LayerGround    = 3
	LayerWater     = 4 // also "walls" for interior layouts
	LayerPlants    = 5
	LayerRoad      = 6
	LayerTree      = 7
	LayerStructure = 8 // scratch, dropped at export
	LayerHouse     = 9 // scratch, dropped at export
)

// Tile is the 4-channel record stored at one (layer, y, x) cell.
type Tile struct {
	TilesetID int
	LocalID   int
	Collision bool
	Cover     bool
}

// IsEmpty reports whether the tile is the zero value.
func (t Tile) IsEmpty() bool { return t.TilesetID == 0 && t.LocalID == 0 }

// Object is a placed item in the object layer (map_cache.py: Object).
type Object struct {
	ID             int
	Name           string
	Type           string
	X, Y           int // pixel position
	Width, Height  int // pixel size
	OriginalWidth  int
	OriginalHeight int
	Functions      []string
	Rotation       int
	Visible        bool
	Image          string
	ImagePath      string
}

// TileWidth/TileHeight are the fixed pixel dimensions of one grid cell
// (spec.md §1: "fixed 16x16 pixel tiles").
const (
	TileWidth  = 16
	TileHeight = 16
)

// State is the full layered map state for one map generation run.
type State struct {
	MapID        string
	Width        int
	Height       int
	LayerNums    int
	grid         [][][][4]int // [layer][y][x][channel]
	objects      []Object
	nextObjectID int
	rng          *prng.Source
	CollisionIdx [2]int // (tileset_id, local_id) of the registered collision sentinel
	CoverIdx     [2]int // (tileset_id, local_id) of the registered cover sentinel
}

// New allocates a zeroed layered state, its PRNG seeded from
// stable_hash(mapID) (map_cache.py: MapCache.__init__).
func New(mapID string, width, height, layerNums int) *State {
	s := &State{
		MapID:        mapID,
		Width:        width,
		Height:       height,
		LayerNums:    layerNums,
		nextObjectID: 1,
		rng:          prng.NewFromString(mapID),
	}
	s.grid = make([][][][4]int, layerNums)
	for l := range s.grid {
		s.grid[l] = make([][][4]int, height)
		for y := range s.grid[l] {
			s.grid[l][y] = make([][4]int, width)
		}
	}
	return s
}

// RNG returns the state's PRNG source, for stages that need raw draws
// in addition to the grid/object mutators.
func (s *State) RNG() *prng.Source { return s.rng }

func (s *State) inBounds(x, y, layer int) bool {
	return layer >= 0 && layer < s.LayerNums && y >= 0 && y < s.Height && x >= 0 && x < s.Width
}

// SetTile writes the raw four channels, silently no-opping out of
// bounds (map_cache.py: MapCache.set_tile).
func (s *State) SetTile(x, y, layer int, tile Tile) {
	if !s.inBounds(x, y, layer) {
		return
	}
	cell := &s.grid[layer][y][x]
	cell[ChanTilesetID] = tile.TilesetID
	cell[ChanLocalID] = tile.LocalID
	if tile.Collision {
		cell[ChanCollision] = 1
	} else {
		cell[ChanCollision] = 0
	}
	if tile.Cover {
		cell[ChanCover] = 1
	} else {
		cell[ChanCover] = 0
	}
}

// GetTile reads the tile at (x, y, layer); out-of-bounds reads return
// the zero Tile (map_cache.py: MapCache.get_tile).
func (s *State) GetTile(x, y, layer int) Tile {
	if !s.inBounds(x, y, layer) {
		return Tile{}
	}
	cell := s.grid[layer][y][x]
	return Tile{
		TilesetID: cell[ChanTilesetID],
		LocalID:   cell[ChanLocalID],
		Collision: cell[ChanCollision] != 0,
		Cover:     cell[ChanCover] != 0,
	}
}

// ClearTile zeros the cell at (x, y, layer).
func (s *State) ClearTile(x, y, layer int) {
	if !s.inBounds(x, y, layer) {
		return
	}
	s.grid[layer][y][x] = [4]int{}
}

// ClearLayer zeros every cell of layer.
func (s *State) ClearLayer(layer int) {
	if layer < 0 || layer >= s.LayerNums {
		return
	}
	for y := range s.grid[layer] {
		for x := range s.grid[layer][y] {
			s.grid[layer][y][x] = [4]int{}
		}
	}
}

// LayerCoords returns the coordinates of every non-empty cell in layer.
func (s *State) LayerCoords(layer int) []geom.Point {
	if layer < 0 || layer >= s.LayerNums {
		return nil
	}
	var pts []geom.Point
	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			if s.grid[layer][y][x][ChanLocalID] > 0 {
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return pts
}

// Neighbors returns occupied cells within radius of (x, y) on layer.
func (s *State) Neighbors(x, y, layer, radius int) []geom.Point {
	var out []geom.Point
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < s.Width && ny >= 0 && ny < s.Height && s.Exists(nx, ny, layer) {
				out = append(out, geom.Point{X: nx, Y: ny})
			}
		}
	}
	return out
}

// Exists implements geom.Occupancy, reporting whether a non-empty tile
// sits at (x, y, layer) (map_cache.py: MapCache.check_exists).
func (s *State) Exists(x, y, layer int) bool {
	t := s.GetTile(x, y, layer)
	return t.LocalID != 0
}

// CheckCollision reports the tile's collision flag.
func (s *State) CheckCollision(x, y, layer int) bool { return s.GetTile(x, y, layer).Collision }

// CheckCover reports the tile's cover flag.
func (s *State) CheckCover(x, y, layer int) bool { return s.GetTile(x, y, layer).Cover }

// DropTile writes tex's fields at (x, y, layer); returns false
// out-of-bounds without mutating anything (map_cache.py:
// MapCache.drop_tile).
func (s *State) DropTile(x, y, layer int, tex schema.TextureTile) bool {
	if !s.inBounds(x, y, layer) {
		return false
	}
	s.SetTile(x, y, layer, Tile{
		TilesetID: tex.TilesetID,
		LocalID:   tex.LocalID,
		Collision: tex.Collision,
		Cover:     tex.Cover,
	})
	return true
}

// DropTilesFromTileGroup scatters plain tiles (weighted by rate) across
// area, then — if the group carries an auto-tile texture — resolves
// every cell's final neighborhood mask in a second pass
// (map_cache.py: MapCache.drop_tiles_from_tilegroup).
func (s *State) DropTilesFromTileGroup(group *schema.TileGroup, area []geom.Point, layer int) {
	plain := group.PlainTiles()
	autoTiles := group.AutoTiles()

	var weightedTiles []*schema.TextureTile
	for _, t := range plain {
		for i := 0; i < t.Rate; i++ {
			weightedTiles = append(weightedTiles, t)
		}
	}

	if len(weightedTiles) > 0 {
		for _, p := range area {
			tex := weightedTiles[s.rng.Intn(len(weightedTiles))]
			s.DropTile(p.X, p.Y, layer, *tex)
		}
	}

	if len(autoTiles) == 0 {
		return
	}
	autoTex := autoTiles[0]
	method := autotile.Method(autoTex.Method)

	// autotile ids are 0-based tile indices within the scheme's tileset;
	// local ids are 1-based (0 means empty), hence the +1 below.
	if len(weightedTiles) == 0 {
		baseLocalID := autotile.BaseTileLocalID(method) + 1
		for _, p := range area {
			s.DropTile(p.X, p.Y, layer, schema.TextureTile{
				Name:      fmt.Sprintf("%s_%d", autoTex.Name, baseLocalID),
				Collision: autoTex.Collision,
				Cover:     autoTex.Cover,
				TilesetID: autoTex.TilesetID,
				LocalID:   baseLocalID,
			})
		}
	}

	// Edge-variant resolution runs only after every cell of this pass
	// has already been written, so each cell's neighborhood reflects
	// the final state (spec.md §4.7).
	for _, p := range area {
		mask := s.neighborhoodMask(p.X, p.Y, layer)
		index, ok := autotile.Resolve(method, mask)
		if !ok {
			continue
		}
		localID := index + 1
		s.DropTile(p.X, p.Y, layer, schema.TextureTile{
			Name:      fmt.Sprintf("%s_%d", autoTex.Name, localID),
			Collision: autoTex.Collision,
			Cover:     autoTex.Cover,
			TilesetID: autoTex.TilesetID,
			LocalID:   localID,
		})
	}
}

// neighborhoodOffsets is the fixed N,NE,E,SE,S,SW,W,NW bit order
// (spec.md §4.7, matching autotile.BitN.. constants).
var neighborhoodOffsets = [8]geom.Point{
	{X: 0, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 0}, {X: 1, Y: 1},
	{X: 0, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: 0}, {X: -1, Y: -1},
}

func (s *State) neighborhoodMask(x, y, layer int) int {
	mask := 0
	for bit, off := range neighborhoodOffsets {
		nx, ny := x+off.X, y+off.Y
		if nx < 0 || nx >= s.Width || ny < 0 || ny >= s.Height {
			mask |= 1 << uint(bit)
			continue
		}
		if s.Exists(nx, ny, layer) {
			mask |= 1 << uint(bit)
		}
	}
	return mask
}

// DropObject attempts to write every blueprint tile of tex at
// (x+rel_x, y+rel_y) against a clone; on any failure the clone is
// discarded and this state is unchanged. On success the clone is
// committed and, if addToItems, an Object record is appended
// (map_cache.py: MapCache.drop_object).
func (s *State) DropObject(x, y, layer int, tex *schema.TextureObject, addToItems bool) bool {
	clone := s.Clone()
	for _, bp := range tex.Blueprints {
		if !clone.DropTile(x+bp.RelativeX, y+bp.RelativeY, layer, bp.Texture) {
			return false
		}
	}
	s.assign(clone)

	if addToItems {
		s.AddObject(Object{
			Name:           tex.Name,
			Type:           tex.Shape,
			X:              x * TileWidth,
			Y:              y * TileHeight,
			OriginalWidth:  tex.OriginalWidth,
			OriginalHeight: tex.OriginalHeight,
			Width:          tex.Width * TileWidth,
			Height:         tex.Height * TileHeight,
			Functions:      tex.Functions,
			Rotation:       tex.Rotation,
			Visible:        tex.Visible,
			Image:          tex.ImageURL,
			ImagePath:      tex.ImagePath,
		})
	}
	return true
}

// AddObject appends obj to the object layer, assigning it the next
// monotonically increasing id.
func (s *State) AddObject(obj Object) Object {
	obj.ID = s.nextObjectID
	s.nextObjectID++
	s.objects = append(s.objects, obj)
	return obj
}

// Objects returns the object layer in insertion order.
func (s *State) Objects() []Object { return s.objects }

// FloodFillToEdge runs an 8-connected BFS over empty cells on layer
// starting at (x, y), returning true if the fill reaches any grid
// boundary cell, or immediately if the start cell is already occupied
// (map_cache.py: MapCache.flood_fill_to_edge).
func (s *State) FloodFillToEdge(x, y, layer int) bool {
	if s.GetTile(x, y, layer).TilesetID != 0 {
		return true
	}

	type pt struct{ x, y int }
	queue := []pt{{x, y}}
	visited := map[pt]struct{}{{x, y}: {}}

	eightDirs := [8]pt{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {-1, -1}, {-1, 1}, {1, -1}, {1, 1}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.x == 0 || cur.x == s.Width-1 || cur.y == 0 || cur.y == s.Height-1 {
			return true
		}

		for _, d := range eightDirs {
			n := pt{cur.x + d.x, cur.y + d.y}
			if n.x < 0 || n.x >= s.Width || n.y < 0 || n.y >= s.Height {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			if s.GetTile(n.x, n.y, layer).TilesetID == 0 {
				visited[n] = struct{}{}
				queue = append(queue, n)
			}
		}
	}
	return false
}

// MergeLayerFrom copies cells from src's sourceLayer into this state's
// targetLayer, optionally restricted to region and optionally skipping
// zero-tile source cells (map_cache.py: MapCache.merge_layer_from).
func (s *State) MergeLayerFrom(src *State, sourceLayer, targetLayer int, onlyNonZero bool, region *geom.Rect) bool {
	if sourceLayer < 0 || sourceLayer >= src.LayerNums {
		return false
	}
	if targetLayer < 0 || targetLayer >= s.LayerNums {
		return false
	}

	startX, startY := 0, 0
	endX, endY := min(src.Width, s.Width), min(src.Height, s.Height)
	if region != nil {
		startX, startY = region.X, region.Y
		endX = min(region.X+region.W, min(src.Width, s.Width))
		endY = min(region.Y+region.H, min(src.Height, s.Height))
	}

	for y := startY; y < endY; y++ {
		for x := startX; x < endX; x++ {
			tile := src.GetTile(x, y, sourceLayer)
			if onlyNonZero && tile.IsEmpty() && !tile.Collision && !tile.Cover {
				continue
			}
			s.SetTile(x, y, targetLayer, tile)
		}
	}
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Adopt commits a clone's mutations back into s, the public entry point
// stages use after a successful tentative build on a Clone
// (map_cache.py: MapCache.assign).
func (s *State) Adopt(other *State) { s.assign(other) }

// assign copies every field of other into s in place, used to commit a
// clone after a successful tentative mutation (map_cache.py:
// MapCache.assign).
func (s *State) assign(other *State) {
	s.Width = other.Width
	s.Height = other.Height
	s.LayerNums = other.LayerNums
	s.grid = other.grid
	s.objects = other.objects
	s.nextObjectID = other.nextObjectID
	s.rng = other.rng
	s.CollisionIdx = other.CollisionIdx
	s.CoverIdx = other.CoverIdx
}

// Clone deep-copies the grid, object layer, and PRNG state. If attempts
// is provided, the clone's PRNG is re-seeded from
// stable_hash("<seed>:attempt:<attempts>") rather than copying this state's
// stream verbatim (map_cache.py: MapCache.create_copy).
func (s *State) Clone(attempts ...int) *State {
	clone := &State{
		MapID:        s.MapID,
		Width:        s.Width,
		Height:       s.Height,
		LayerNums:    s.LayerNums,
		nextObjectID: s.nextObjectID,
		CollisionIdx: s.CollisionIdx,
		CoverIdx:     s.CoverIdx,
	}

	clone.grid = make([][][][4]int, len(s.grid))
	for l := range s.grid {
		clone.grid[l] = make([][][4]int, len(s.grid[l]))
		for y := range s.grid[l] {
			clone.grid[l][y] = make([][4]int, len(s.grid[l][y]))
			copy(clone.grid[l][y], s.grid[l][y])
		}
	}

	clone.objects = make([]Object, len(s.objects))
	copy(clone.objects, s.objects)

	if len(attempts) > 0 {
		clone.rng = s.rng.Derive(fmt.Sprintf("attempt:%d", attempts[0]))
	} else {
		clone.rng = s.rng.Clone()
	}

	return clone
}
