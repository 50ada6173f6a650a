package geom

import "sort"

// DoorSide names the wall of a room's cell a door opens onto
// (element_room.py: 'top'/'bottom'/'left'/'right').
type DoorSide string

const (
	DoorTop    DoorSide = "top"
	DoorBottom DoorSide = "bottom"
	DoorLeft   DoorSide = "left"
	DoorRight  DoorSide = "right"
)

// Door places a doorway at cell, on side's wall of that cell
// (element_room.py: door tuple ((c, r), side)).
type Door struct {
	Cell Point
	Side DoorSide
}

// RoomTreeNode is one room in the door tree built over a room graph
// (element_room.py: RoomTreeNode).
type RoomTreeNode struct {
	Room         *Room
	Children     []*RoomTreeNode
	Parent       *RoomTreeNode
	DoorToParent *Door
	ExternalDoor *Door
}

// Traverse walks the subtree rooted at n via the same stack-based DFS
// order as RoomTree.traverse.
func (n *RoomTreeNode) Traverse() []*RoomTreeNode {
	var out []*RoomTreeNode
	stack := []*RoomTreeNode{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		stack = append(stack, cur.Children...)
	}
	return out
}

// sortedCells returns r's cells in a deterministic (Y, X) order.
func sortedCells(r *Room) []Point {
	cells := make([]Point, 0, len(r.Cells))
	for c := range r.Cells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Y != cells[j].Y {
			return cells[i].Y < cells[j].Y
		}
		return cells[i].X < cells[j].X
	})
	return cells
}

// doorBetween finds the door connecting child to parent, always scanning
// child's cells (in deterministic order) for a boundary against parent.
// The door cell and side are always expressed relative to child's wall,
// regardless of which room the scan happens to match first
// (element_room.py: _find_door_between, fixed to drop its second,
// flipped-side scan of room1's cells).
func doorBetween(parent, child *Room) *Door {
	for _, cell := range sortedCells(child) {
		c, r := cell.X, cell.Y
		if _, ok := parent.Cells[Point{X: c, Y: r - 1}]; ok {
			return &Door{Cell: cell, Side: DoorTop}
		}
		if _, ok := parent.Cells[Point{X: c, Y: r + 1}]; ok {
			return &Door{Cell: cell, Side: DoorBottom}
		}
		if _, ok := parent.Cells[Point{X: c - 1, Y: r}]; ok {
			return &Door{Cell: cell, Side: DoorLeft}
		}
		if _, ok := parent.Cells[Point{X: c + 1, Y: r}]; ok {
			return &Door{Cell: cell, Side: DoorRight}
		}
	}
	return nil
}

// southernExternalDoor picks a bottom-side door on room's southern
// border: the smallest-column cell among those sharing the maximum row
// (element_room.py: _find_southern_external_door, made deterministic).
func southernExternalDoor(room *Room) *Door {
	cells := sortedCells(room)
	if len(cells) == 0 {
		return nil
	}
	maxY := cells[len(cells)-1].Y
	for _, c := range cells {
		if c.Y == maxY {
			return &Door{Cell: c, Side: DoorBottom}
		}
	}
	return nil
}

// BuildRoomTree roots the tree at rooms[0] and links every other room in
// via a door discovered against its parent, without assigning an
// external door (element_room.py: _build_room_tree).
func BuildRoomTree(rooms []*Room, connections []RoomConnection) *RoomTreeNode {
	if len(rooms) == 0 {
		return nil
	}

	adj := make(map[*Room][]*Room, len(rooms))
	for _, r := range rooms {
		adj[r] = nil
	}
	for _, conn := range connections {
		adj[conn.A] = append(adj[conn.A], conn.B)
		adj[conn.B] = append(adj[conn.B], conn.A)
	}

	root := rooms[0]
	roomToNode := map[*Room]*RoomTreeNode{root: {Room: root}}
	visited := map[*Room]bool{root: true}

	stack := []*Room{root}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		currentNode := roomToNode[current]

		for _, nbr := range adj[current] {
			if visited[nbr] {
				continue
			}
			visited[nbr] = true
			childNode := &RoomTreeNode{
				Room:         nbr,
				Parent:       currentNode,
				DoorToParent: doorBetween(current, nbr),
			}
			currentNode.Children = append(currentNode.Children, childNode)
			roomToNode[nbr] = childNode
			stack = append(stack, nbr)
		}
	}
	return roomToNode[root]
}

// AssignSouthernExternalDoor finds the node owning the globally
// southernmost cell and gives it an external (outward-facing) door
// (element_room.py: _assign_southern_external_door).
func AssignSouthernExternalDoor(root *RoomTreeNode) {
	var southern *RoomTreeNode
	southernRow := -1 << 31
	for _, node := range root.Traverse() {
		maxR := -1 << 31
		for c := range node.Room.Cells {
			if c.Y > maxR {
				maxR = c.Y
			}
		}
		if maxR > southernRow {
			southernRow = maxR
			southern = node
		}
	}
	if southern != nil {
		southern.ExternalDoor = southernExternalDoor(southern.Room)
	}
}

// cellOrigin returns the pixel (grid-cell) top-left of room cell (c, r)
// within the rasterized grid (element_room.py: to_tiled's x0/y0).
func cellOrigin(c, r, cellWidth, cellHeight, lineWidth int) (x0, y0 int) {
	return lineWidth + c*(cellWidth+lineWidth), lineWidth + r*(cellHeight+lineWidth)
}

const (
	rvExterior = 0
	rvFloor    = 1
	rvWall     = 2
	rvDoor     = 4
)

type rasterGrid struct {
	w, h int
	v    [][]int
}

func newRasterGrid(w, h int) *rasterGrid {
	v := make([][]int, h)
	for y := range v {
		v[y] = make([]int, w)
	}
	return &rasterGrid{w: w, h: h, v: v}
}

func (g *rasterGrid) clamp(y0, y1, x0, x1 int) (int, int, int, int) {
	if y0 < 0 {
		y0 = 0
	}
	if x0 < 0 {
		x0 = 0
	}
	if y1 > g.h {
		y1 = g.h
	}
	if x1 > g.w {
		x1 = g.w
	}
	return y0, y1, x0, x1
}

func (g *rasterGrid) fill(y0, y1, x0, x1, val int) {
	y0, y1, x0, x1 = g.clamp(y0, y1, x0, x1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g.v[y][x] = val
		}
	}
}

func (g *rasterGrid) any(y0, y1, x0, x1, val int) bool {
	y0, y1, x0, x1 = g.clamp(y0, y1, x0, x1)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.v[y][x] == val {
				return true
			}
		}
	}
	return false
}

// RasterizeRooms renders rooms and the doors recorded in root into
// floor and wall tile coordinates over a totalWidth x totalHeight grid,
// reproducing Room.to_tiled: per-cell floor fill, four-directional wall
// fill against neighbor occupancy, four-corner reconciliation, and
// door-rectangle carving back into the floor set (element_room.py:
// Room.to_tiled).
func RasterizeRooms(rooms []*Room, root *RoomTreeNode, totalWidth, totalHeight, cellWidth, cellHeight, lineWidth int) (floor, wall []Point) {
	grid := newRasterGrid(totalWidth, totalHeight)

	for _, room := range rooms {
		for c := range room.Cells {
			x0, y0 := cellOrigin(c.X, c.Y, cellWidth, cellHeight, lineWidth)
			grid.fill(y0, y0+cellHeight, x0, x0+cellWidth, rvFloor)
		}
	}

	for _, room := range rooms {
		for c := range room.Cells {
			x0, y0 := cellOrigin(c.X, c.Y, cellWidth, cellHeight, lineWidth)

			if _, ok := room.Cells[Point{X: c.X, Y: c.Y - 1}]; ok {
				grid.fill(y0-lineWidth, y0, x0, x0+cellWidth, rvFloor)
			} else {
				grid.fill(y0-lineWidth, y0, x0, x0+cellWidth, rvWall)
			}
			if _, ok := room.Cells[Point{X: c.X, Y: c.Y + 1}]; ok {
				grid.fill(y0+cellHeight, y0+cellHeight+lineWidth, x0, x0+cellWidth, rvFloor)
			} else {
				grid.fill(y0+cellHeight, y0+cellHeight+lineWidth, x0, x0+cellWidth, rvWall)
			}
			if _, ok := room.Cells[Point{X: c.X - 1, Y: c.Y}]; ok {
				grid.fill(y0, y0+cellHeight, x0-lineWidth, x0, rvFloor)
			} else {
				grid.fill(y0, y0+cellHeight, x0-lineWidth, x0, rvWall)
			}
			if _, ok := room.Cells[Point{X: c.X + 1, Y: c.Y}]; ok {
				grid.fill(y0, y0+cellHeight, x0+cellWidth, x0+cellWidth+lineWidth, rvFloor)
			} else {
				grid.fill(y0, y0+cellHeight, x0+cellWidth, x0+cellWidth+lineWidth, rvWall)
			}
		}
	}

	for _, room := range rooms {
		for c := range room.Cells {
			x0, y0 := cellOrigin(c.X, c.Y, cellWidth, cellHeight, lineWidth)
			reconcileCorner(grid, y0-lineWidth, y0, x0, x0+cellWidth, y0, y0+cellHeight, x0-lineWidth, x0, y0-lineWidth, y0, x0-lineWidth, x0)
			reconcileCorner(grid, y0-lineWidth, y0, x0, x0+cellWidth, y0, y0+cellHeight, x0+cellWidth, x0+cellWidth+lineWidth, y0-lineWidth, y0, x0+cellWidth, x0+cellWidth+lineWidth)
			reconcileCorner(grid, y0+cellHeight, y0+cellHeight+lineWidth, x0, x0+cellWidth, y0, y0+cellHeight, x0-lineWidth, x0, y0+cellHeight, y0+cellHeight+lineWidth, x0-lineWidth, x0)
			reconcileCorner(grid, y0+cellHeight, y0+cellHeight+lineWidth, x0, x0+cellWidth, y0, y0+cellHeight, x0+cellWidth, x0+cellWidth+lineWidth, y0+cellHeight, y0+cellHeight+lineWidth, x0+cellWidth, x0+cellWidth+lineWidth)
		}
	}

	if root != nil {
		for _, node := range root.Traverse() {
			for _, door := range []*Door{node.DoorToParent, node.ExternalDoor} {
				if door != nil {
					carveDoor(grid, door, cellWidth, cellHeight, lineWidth)
				}
			}
		}
	}

	for y := 0; y < totalHeight; y++ {
		for x := 0; x < totalWidth; x++ {
			switch grid.v[y][x] {
			case rvFloor, rvDoor:
				floor = append(floor, Point{X: x, Y: y})
			case rvWall:
				wall = append(wall, Point{X: x, Y: y})
			}
		}
	}
	sortPoints(floor)
	sortPoints(wall)
	return floor, wall
}

// reconcileCorner fills the corner region with wall if either adjoining
// edge region contains a wall cell, floor otherwise (element_room.py:
// to_tiled's four corner blocks).
func reconcileCorner(g *rasterGrid, edgeAY0, edgeAY1, edgeAX0, edgeAX1, edgeBY0, edgeBY1, edgeBX0, edgeBX1, cornerY0, cornerY1, cornerX0, cornerX1 int) {
	val := rvFloor
	if g.any(edgeAY0, edgeAY1, edgeAX0, edgeAX1, rvWall) || g.any(edgeBY0, edgeBY1, edgeBX0, edgeBX1, rvWall) {
		val = rvWall
	}
	g.fill(cornerY0, cornerY1, cornerX0, cornerX1, val)
}

// carveDoor cuts door's rectangle into grid as rvDoor, using the fixed
// per-side width/height convention (element_room.py: to_tiled's door
// rectangle block).
func carveDoor(g *rasterGrid, door *Door, cellWidth, cellHeight, lineWidth int) {
	x0, y0 := cellOrigin(door.Cell.X, door.Cell.Y, cellWidth, cellHeight, lineWidth)

	var dx, dy, dw, dh int
	switch door.Side {
	case DoorTop:
		dw = 2
		dx = x0 + (cellWidth-dw)/2
		dy = y0 - lineWidth
		dh = lineWidth
	case DoorBottom:
		dw = 2
		dx = x0 + (cellWidth-dw)/2
		dy = y0 + cellHeight
		dh = lineWidth
	case DoorLeft:
		dh = 4
		dy = y0 + (cellHeight-dh)/2
		dx = x0 - lineWidth
		dw = lineWidth
	case DoorRight:
		dh = 4
		dy = y0 + (cellHeight-dh)/2
		dx = x0 + cellWidth
		dw = lineWidth
	default:
		return
	}
	g.fill(dy, dy+dh, dx, dx+dw, rvDoor)
}

func sortPoints(pts []Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}
