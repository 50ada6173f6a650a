package geom

import (
	"container/heap"
)

// Occupancy answers whether a tile at (x, y) is occupied on the given
// layer, letting the pathfinder stay agnostic of the layered map state's
// concrete representation (methods/pathfind.py: Pathfinder.map_cache).
type Occupancy interface {
	Exists(x, y int, layer int) bool
}

// Pathfinder runs a width-aware A* search for corridor carving. Width is
// expressed in tiles; even widths search on a half-grid offset so the
// resulting corridor is centered between two tile columns/rows rather
// than straddling one (methods/pathfind.py: Pathfinder).
type Pathfinder struct {
	Occupancy Occupancy
	MapWidth  int
	MapHeight int
	Width     int
}

// NewPathfinder builds a Pathfinder over occ with the given map bounds
// and corridor width.
func NewPathfinder(occ Occupancy, mapWidth, mapHeight, width int) *Pathfinder {
	return &Pathfinder{Occupancy: occ, MapWidth: mapWidth, MapHeight: mapHeight, Width: width}
}

// halfPos represents a coordinate scaled by 2, so half-grid offsets used
// for even corridor widths (±0.5 tile) stay exact integers internally.
type halfPos struct {
	X2, Y2 int
}

func toHalf(x, y int) halfPos       { return halfPos{X2: x * 2, Y2: y * 2} }
func (p halfPos) tileX() int        { return p.X2 / 2 }
func (p halfPos) tileY() int        { return p.Y2 / 2 }
func (p halfPos) isHalfOffset() bool { return p.X2%2 != 0 || p.Y2%2 != 0 }

func heuristic(a, b halfPos) int {
	dx := a.X2 - b.X2
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y2 - b.Y2
	if dy < 0 {
		dy = -dy
	}
	return (dx + dy) / 2
}

func (p *Pathfinder) neighbors(pos halfPos) []halfPos {
	if p.Width%2 == 0 {
		return []halfPos{
			{X2: pos.X2 - 1, Y2: pos.Y2},
			{X2: pos.X2 + 1, Y2: pos.Y2},
			{X2: pos.X2, Y2: pos.Y2 - 1},
			{X2: pos.X2, Y2: pos.Y2 + 1},
		}
	}
	return []halfPos{
		{X2: pos.X2 - 2, Y2: pos.Y2},
		{X2: pos.X2 + 2, Y2: pos.Y2},
		{X2: pos.X2, Y2: pos.Y2 - 2},
		{X2: pos.X2, Y2: pos.Y2 + 2},
	}
}

// boundedWidth/boundedHeight mirror the original's int(map_dim*1.2)
// slack so corridors can briefly run just past the nominal map edge
// before later clamping.
func (p *Pathfinder) boundedWidth() int  { return int(float64(p.MapWidth) * 1.2) }
func (p *Pathfinder) boundedHeight() int { return int(float64(p.MapHeight) * 1.2) }

func (p *Pathfinder) isValid(pos halfPos, layers []int) bool {
	x, y := pos.X2, pos.Y2
	bw, bh := p.boundedWidth(), p.boundedHeight()
	inBounds := func(tx, ty int) bool { return tx >= 0 && tx < bw && ty >= 0 && ty < bh }

	if p.Width%2 == 0 {
		// x2/y2 are odd-offset halves; the four tiles sharing this half-grid point.
		fx, fy := float64(x)/2, float64(y)/2
		tiles := [4][2]int{
			{int(fx - 0.5), int(fy - 0.5)},
			{int(fx - 0.5), int(fy + 0.5)},
			{int(fx + 0.5), int(fy - 0.5)},
			{int(fx + 0.5), int(fy + 0.5)},
		}
		for _, t := range tiles {
			if !inBounds(t[0], t[1]) {
				return false
			}
			for _, l := range layers {
				if p.Occupancy.Exists(t[0], t[1], l) {
					return false
				}
			}
		}
		return true
	}

	tx, ty := pos.tileX(), pos.tileY()
	if !inBounds(tx, ty) {
		return false
	}
	for _, l := range layers {
		if p.Occupancy.Exists(tx, ty, l) {
			return false
		}
	}
	return true
}

type pqItem struct {
	priority int
	pos      halfPos
	index    int
}

type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].priority < pq[j].priority
}
func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index, pq[j].index = i, j
}
func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// FindCorridorPath runs A* from start to goal, avoiding tiles occupied
// on any of layers, and returns the set of tile coordinates the
// corridor footprint covers once expanded to Width
// (methods/pathfind.py: Pathfinder.find_corridor_path/_expand_path).
// Returns an empty (nil) set if no path exists.
func (p *Pathfinder) FindCorridorPath(start, goal Point, layers []int) map[Point]struct{} {
	startH, goalH := toHalf(start.X, start.Y), toHalf(goal.X, goal.Y)

	openSet := &priorityQueue{}
	heap.Init(openSet)
	heap.Push(openSet, &pqItem{priority: 0, pos: startH})

	cameFrom := make(map[halfPos]halfPos)
	gScore := map[halfPos]int{startH: 0}
	closed := make(map[halfPos]struct{})

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*pqItem).pos
		if _, done := closed[current]; done {
			continue
		}
		closed[current] = struct{}{}

		if current == goalH {
			path := []halfPos{current}
			for {
				prev, ok := cameFrom[current]
				if !ok {
					break
				}
				path = append(path, prev)
				current = prev
			}
			reverse(path)
			return p.expandPath(path, layers)
		}

		for _, neighbor := range p.neighbors(current) {
			if _, done := closed[neighbor]; done {
				continue
			}
			if !p.isValid(neighbor, layers) {
				continue
			}
			tentative := gScore[current] + 1
			if best, ok := gScore[neighbor]; !ok || tentative < best {
				cameFrom[neighbor] = current
				gScore[neighbor] = tentative
				heap.Push(openSet, &pqItem{priority: tentative + heuristic(neighbor, goalH), pos: neighbor})
			}
		}
	}

	return nil
}

func reverse(path []halfPos) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

func (p *Pathfinder) expandPath(path []halfPos, layers []int) map[Point]struct{} {
	expanded := make(map[Point]struct{})

	for _, pos := range path {
		var tiles [][2]int
		if p.Width%2 == 0 {
			fx, fy := float64(pos.X2)/2, float64(pos.Y2)/2
			tiles = [][2]int{
				{int(fx - 0.5), int(fy - 0.5)},
				{int(fx - 0.5), int(fy + 0.5)},
				{int(fx + 0.5), int(fy - 0.5)},
				{int(fx + 0.5), int(fy + 0.5)},
			}
		} else {
			halfWidth := p.Width / 2
			cx, cy := pos.tileX(), pos.tileY()
			for sx := cx - halfWidth; sx <= cx+halfWidth; sx++ {
				for sy := cy - halfWidth; sy <= cy+halfWidth; sy++ {
					tiles = append(tiles, [2]int{sx, sy})
				}
			}
		}

		for _, t := range tiles {
			blocked := false
			for _, l := range layers {
				if p.Occupancy.Exists(t[0], t[1], l) {
					blocked = true
					break
				}
			}
			if !blocked {
				expanded[Point{X: t[0], Y: t[1]}] = struct{}{}
			}
		}
	}

	return expanded
}
