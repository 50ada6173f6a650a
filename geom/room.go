package geom

import "mapgen/prng"

// Room is a set of grid cells treated as one subdivision unit
// (dwelling.py: Room).
type Room struct {
	Cells map[Point]struct{}
}

// NewRoom builds a Room from a cell slice.
func NewRoom(cells []Point) *Room {
	set := make(map[Point]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return &Room{Cells: set}
}

// Area returns the number of cells.
func (r *Room) Area() int { return len(r.Cells) }

// BBox returns the room's bounding rectangle as (minX, minY, maxX, maxY).
// The second return value is false for an empty room.
func (r *Room) BBox() (minX, minY, maxX, maxY int, ok bool) {
	if len(r.Cells) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = int(^uint(0)>>1), int(^uint(0)>>1)
	maxX, maxY = -minX, -minY
	for c := range r.Cells {
		if c.X < minX {
			minX = c.X
		}
		if c.X > maxX {
			maxX = c.X
		}
		if c.Y < minY {
			minY = c.Y
		}
		if c.Y > maxY {
			maxY = c.Y
		}
	}
	return minX, minY, maxX, maxY, true
}

// ShapeRatio returns the ratio of the bounding box's shorter side to its
// longer side (dwelling.py: Room.shape_ratio).
func (r *Room) ShapeRatio() float64 {
	minX, minY, maxX, maxY, ok := r.BBox()
	if !ok {
		return 0
	}
	width := float64(maxX - minX + 1)
	height := float64(maxY - minY + 1)
	if width > height {
		return height / width
	}
	return width / height
}

// IsOneCellWide reports whether the room is a solid 1×N or N×1 strip
// with N > 1 (dwelling.py: Room.is_one_cell_wide).
func (r *Room) IsOneCellWide() bool {
	minX, minY, maxX, maxY, ok := r.BBox()
	if !ok {
		return false
	}
	width := maxX - minX + 1
	height := maxY - minY + 1
	if r.Area() != width*height {
		return false
	}
	return (width == 1 && height > 1) || (height == 1 && width > 1)
}

func roomFromBBox(minX, minY, maxX, maxY int) *Room {
	cells := make(map[Point]struct{}, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cells[Point{X: x, Y: y}] = struct{}{}
		}
	}
	return &Room{Cells: cells}
}

// PolygonBoundingBox returns the bounding box of every True cell in
// grid (dwelling.py: Dwellings._get_polygon_bounding_box).
func PolygonBoundingBox(g *PolygonGrid) (minX, minY, maxX, maxY int, ok bool) {
	minX, minY = g.Width, g.Height
	maxX, maxY = -1, -1
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Cells[y][x] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX == -1 {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// clipToPolygon returns a room filling room's full bounding box when at
// least one in-grid cell of that box is occupied, and nil if none is;
// the box is not shrunk to the occupied cells (dwelling.py:
// Dwellings._clip_room_to_polygon).
func clipToPolygon(room *Room, g *PolygonGrid) *Room {
	minX, minY, maxX, maxY, ok := room.BBox()
	if !ok {
		return nil
	}
	valid := false
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if y < 0 || y >= g.Height || x < 0 || x >= g.Width {
				continue
			}
			if g.Cells[y][x] {
				valid = true
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if !valid {
		return nil
	}
	return roomFromBBox(minX, minY, maxX, maxY)
}

func subdivideRoom(room *Room, horizontal bool, rng *prng.Source) (*Room, *Room) {
	minX, minY, maxX, maxY, ok := room.BBox()
	if !ok {
		return nil, nil
	}

	if horizontal {
		if maxY == minY {
			return room, nil
		}
		split := rng.IntRange(minY, maxY-1)
		var cellsA, cellsB []Point
		for c := range room.Cells {
			if c.Y <= split {
				cellsA = append(cellsA, c)
			} else {
				cellsB = append(cellsB, c)
			}
		}
		return NewRoom(cellsA), NewRoom(cellsB)
	}

	if maxX == minX {
		return room, nil
	}
	split := rng.IntRange(minX, maxX-1)
	var cellsA, cellsB []Point
	for c := range room.Cells {
		if c.X <= split {
			cellsA = append(cellsA, c)
		} else {
			cellsB = append(cellsB, c)
		}
	}
	return NewRoom(cellsA), NewRoom(cellsB)
}

func countOverlap(room *Room, g *PolygonGrid) int {
	minX, minY, maxX, maxY, ok := room.BBox()
	if !ok {
		return 0
	}
	count := 0
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			if y >= 0 && y < g.Height && x >= 0 && x < g.Width && g.Cells[y][x] {
				count++
			}
		}
	}
	return count
}

func isRoomValid(room *Room, g *PolygonGrid, maxArea int, minOverlapRatio, shapeRatioThreshold float64) bool {
	if room.Area() > maxArea {
		return false
	}
	if room.ShapeRatio() < shapeRatioThreshold {
		return false
	}
	return float64(countOverlap(room, g)) >= float64(room.Area())*minOverlapRatio
}

func subdivideRoomsIterative(rooms []*Room, g *PolygonGrid, maxArea int, minOverlapRatio, shapeRatioThreshold float64, rng *prng.Source) []*Room {
	var next []*Room
	for _, room := range rooms {
		clipped := clipToPolygon(room, g)
		if clipped == nil {
			continue
		}
		if isRoomValid(clipped, g, maxArea, minOverlapRatio, shapeRatioThreshold) {
			next = append(next, clipped)
			continue
		}

		minX, minY, maxX, maxY, ok := clipped.BBox()
		if !ok {
			continue
		}
		horizontal := (maxX - minX) <= (maxY - minY)
		roomA, roomB := subdivideRoom(clipped, horizontal, rng)
		if roomA != nil && roomA.Area() > 0 {
			if c := clipToPolygon(roomA, g); c != nil {
				next = append(next, c)
			}
		}
		if roomB != nil && roomB.Area() > 0 {
			if c := clipToPolygon(roomB, g); c != nil {
				next = append(next, c)
			}
		}
	}
	return next
}

func roomsAreAdjacent(a, b *Room) bool {
	for c := range a.Cells {
		for _, d := range fourDirs {
			if _, ok := b.Cells[Point{X: c.X + d.X, Y: c.Y + d.Y}]; ok {
				return true
			}
		}
	}
	return false
}

// RoomSubdivider turns a single polygon-shaped room into a set of
// smaller, roughly-rectangular sub-rooms connected by a door tree
// (dwelling.py: Dwellings).
type RoomSubdivider struct {
	Grid  *PolygonGrid
	Rooms []*Room
	rng   *prng.Source
}

// NewRoomSubdivider seeds a subdivider with the single room covering
// grid's occupied bounding box.
func NewRoomSubdivider(grid *PolygonGrid, rng *prng.Source) (*RoomSubdivider, bool) {
	minX, minY, maxX, maxY, ok := PolygonBoundingBox(grid)
	if !ok {
		return nil, false
	}
	initial := roomFromBBox(minX, minY, maxX, maxY)
	return &RoomSubdivider{Grid: grid, Rooms: []*Room{initial}, rng: rng}, true
}

// Subdivide iteratively splits rooms failing the area/overlap/shape
// constraints until the set stabilizes or maxIterations is reached
// (dwelling.py: Dwellings.subdivide).
func (s *RoomSubdivider) Subdivide(maxArea int, minOverlapRatio, shapeRatioThreshold float64, maxIterations int) []*Room {
	current := s.Rooms
	for i := 0; i < maxIterations; i++ {
		next := subdivideRoomsIterative(current, s.Grid, maxArea, minOverlapRatio, shapeRatioThreshold, s.rng)
		if len(next) == len(current) {
			break
		}
		current = next
	}
	s.Rooms = current
	return s.Rooms
}

// MergeAdjacentOneCellWideRooms merges connected components of
// one-cell-wide rooms into single rooms (dwelling.py:
// Dwellings.merge_adjacent_one_cell_wide_rooms).
func (s *RoomSubdivider) MergeAdjacentOneCellWideRooms() {
	var candidates, others []*Room
	for _, r := range s.Rooms {
		if r.IsOneCellWide() {
			candidates = append(candidates, r)
		} else {
			others = append(others, r)
		}
	}

	n := len(candidates)
	visited := make([]bool, n)
	var components [][]int
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		var comp []int
		stack := []int{i}
		visited[i] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, cur)
			for j := 0; j < n; j++ {
				if !visited[j] && roomsAreAdjacent(candidates[cur], candidates[j]) {
					visited[j] = true
					stack = append(stack, j)
				}
			}
		}
		components = append(components, comp)
	}

	var merged []*Room
	for _, comp := range components {
		cells := make(map[Point]struct{})
		for _, idx := range comp {
			for c := range candidates[idx].Cells {
				cells[c] = struct{}{}
			}
		}
		merged = append(merged, &Room{Cells: cells})
	}

	s.Rooms = append(others, merged...)
}

// RoomConnection is a resolved pair of adjacent rooms in the door tree.
type RoomConnection struct {
	A, B *Room
}

// GenerateRoomMST builds an adjacency-weight-1 MST over s.Rooms plus
// extraCount additional random adjacency edges (dwelling.py:
// Dwellings.generate_room_mst).
func (s *RoomSubdivider) GenerateRoomMST(extraCount int) []RoomConnection {
	rooms := s.Rooms
	n := len(rooms)

	type edge struct{ i, j int }
	var edges []edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if roomsAreAdjacent(rooms[i], rooms[j]) {
				edges = append(edges, edge{i, j})
			}
		}
	}

	uf := newUnionFind(n)
	var mst []edge
	for _, e := range edges {
		if uf.union(e.i, e.j) {
			mst = append(mst, e)
		}
	}

	if extraCount > 0 {
		mstSet := make(map[[2]int]struct{}, len(mst))
		for _, e := range mst {
			a, b := edgeKey(e.i, e.j)
			mstSet[[2]int{a, b}] = struct{}{}
		}
		var candidates []edge
		for _, e := range edges {
			a, b := edgeKey(e.i, e.j)
			if _, ok := mstSet[[2]int{a, b}]; !ok {
				candidates = append(candidates, e)
			}
		}
		s.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
		if extraCount < len(candidates) {
			candidates = candidates[:extraCount]
		}
		mst = append(mst, candidates...)
	}

	conns := make([]RoomConnection, 0, len(mst))
	for _, e := range mst {
		conns = append(conns, RoomConnection{A: rooms[e.i], B: rooms[e.j]})
	}
	return conns
}

// DivideRoom runs the full subdivide → merge → connect pipeline
// (dwelling.py: Dwellings.divide_room).
func (s *RoomSubdivider) DivideRoom(maxArea int, minOverlapRatio, shapeRatioThreshold float64, maxIterations, extraCount int) ([]*Room, []RoomConnection) {
	s.Subdivide(maxArea, minOverlapRatio, shapeRatioThreshold, maxIterations)
	s.MergeAdjacentOneCellWideRooms()
	return s.Rooms, s.GenerateRoomMST(extraCount)
}
