package geom

import (
	"math"
	"sort"

	"mapgen/prng"
)

// PolygonGrid is a boolean occupancy grid carved out of a random convex-ish
// polygon, then smoothed and cleaned up with cellular automata and flood
// fill, the same recipe interior room layouts use before subdivision
// (original_source/tiled_master/methods/dwelling.py: Grid).
type PolygonGrid struct {
	Width, Height int
	Cells         [][]bool // [y][x]
	rng           *prng.Source
}

// NewRandomPolygonGrid generates a random num-gon inscribed in region,
// rasterizes it, and returns the resulting grid sized to region's
// dimensions (dwelling.py: Grid.create_from_random_polygon).
func NewRandomPolygonGrid(region Rect, numVertices int, rng *prng.Source) *PolygonGrid {
	x0, y0 := region.X, region.Y
	x1, y1 := region.X+region.W, region.Y+region.H
	cx, cy := float64(x0+x1)/2.0, float64(y0+y1)/2.0

	type vertex struct {
		x, y  int
		angle float64
	}
	verts := make([]vertex, numVertices)
	for i := range verts {
		x := rng.IntRange(x0, x1)
		y := rng.IntRange(y0, y1)
		verts[i] = vertex{x: x, y: y, angle: math.Atan2(float64(y)-cy, float64(x)-cx)}
	}
	sort.Slice(verts, func(i, j int) bool { return verts[i].angle < verts[j].angle })

	polygon := make([]Point, numVertices)
	for i, v := range verts {
		polygon[i] = Point{X: v.x, Y: v.y}
	}

	g := &PolygonGrid{Width: region.W, Height: region.H, rng: rng}
	g.fillPolygon(polygon)
	return g
}

// NewRoomPolygon repeats random polygon generation, smoothing, largest-
// component extraction, and hole filling until the resulting valid cell
// count lands in [8, 32], then centers the result (dwelling.py:
// Grid.create_room_polygon). The [8,32] bounds are fixed by the original
// and intentionally not exposed as parameters.
func NewRoomPolygon(width, height, numVertices int, rng *prng.Source) *PolygonGrid {
	for {
		g := NewRandomPolygonGrid(Rect{X: 0, Y: 0, W: width, H: height}, numVertices, rng)
		g.Smooth(2)
		g.RemoveSmallRegions()
		g.FillHoles()
		count := g.CountValid()
		if count >= 8 && count <= 32 {
			g.CenterEffectiveArea()
			return g
		}
	}
}

func newCells(width, height int) [][]bool {
	cells := make([][]bool, height)
	for y := range cells {
		cells[y] = make([]bool, width)
	}
	return cells
}

// isPointInPolygon uses the standard ray-casting test.
func isPointInPolygon(x, y float64, polygon []Point) bool {
	inside := false
	n := len(polygon)
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := float64(polygon[i].X), float64(polygon[i].Y)
		xj, yj := float64(polygon[j].X), float64(polygon[j].Y)
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi+1e-9)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

func (g *PolygonGrid) fillPolygon(polygon []Point) {
	g.Cells = newCells(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if isPointInPolygon(float64(x)+0.5, float64(y)+0.5, polygon) {
				g.Cells[y][x] = true
			}
		}
	}
}

// CountValid returns the number of occupied cells.
func (g *PolygonGrid) CountValid() int {
	n := 0
	for _, row := range g.Cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// Smooth applies majority-of-8-neighbors cellular automata for the given
// number of iterations (dwelling.py: Grid._smooth).
func (g *PolygonGrid) Smooth(iterations int) {
	for i := 0; i < iterations; i++ {
		next := newCells(g.Width, g.Height)
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				count := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						ny, nx := y+dy, x+dx
						if ny >= 0 && ny < g.Height && nx >= 0 && nx < g.Width && g.Cells[ny][nx] {
							count++
						}
					}
				}
				next[y][x] = count >= 5
			}
		}
		g.Cells = next
	}
}

// RemoveSmallRegions keeps only the largest 4-connected True component
// (dwelling.py: Grid._remove_small_regions).
func (g *PolygonGrid) RemoveSmallRegions() {
	visited := newCells(g.Width, g.Height)
	var largest []Point

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Cells[y][x] || visited[y][x] {
				continue
			}
			comp := floodCollect(g.Cells, visited, Point{X: x, Y: y})
			if len(comp) > len(largest) {
				largest = comp
			}
		}
	}

	next := newCells(g.Width, g.Height)
	for _, p := range largest {
		next[p.Y][p.X] = true
	}
	g.Cells = next
}

var fourDirs = [4]Point{{X: -1}, {X: 1}, {Y: -1}, {Y: 1}}

func floodCollect(grid, visited [][]bool, start Point) []Point {
	queue := []Point{start}
	visited[start.Y][start.X] = true
	comp := []Point{start}
	height, width := len(grid), len(grid[0])
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range fourDirs {
			ny, nx := cur.Y+d.Y, cur.X+d.X
			if ny >= 0 && ny < height && nx >= 0 && nx < width && grid[ny][nx] && !visited[ny][nx] {
				visited[ny][nx] = true
				queue = append(queue, Point{X: nx, Y: ny})
				comp = append(comp, Point{X: nx, Y: ny})
			}
		}
	}
	return comp
}

// FillHoles flood-fills from the grid boundary over False cells, then
// marks every False cell the boundary flood never reached as True,
// eliminating interior holes (dwelling.py: Grid._fill_holes).
func (g *PolygonGrid) FillHoles() {
	visited := newCells(g.Width, g.Height)

	floodFrom := func(start Point) {
		if g.Cells[start.Y][start.X] || visited[start.Y][start.X] {
			return
		}
		queue := []Point{start}
		visited[start.Y][start.X] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, d := range fourDirs {
				ny, nx := cur.Y+d.Y, cur.X+d.X
				if ny >= 0 && ny < g.Height && nx >= 0 && nx < g.Width && !g.Cells[ny][nx] && !visited[ny][nx] {
					visited[ny][nx] = true
					queue = append(queue, Point{X: nx, Y: ny})
				}
			}
		}
	}

	for y := 0; y < g.Height; y++ {
		floodFrom(Point{X: 0, Y: y})
		floodFrom(Point{X: g.Width - 1, Y: y})
	}
	for x := 0; x < g.Width; x++ {
		floodFrom(Point{X: x, Y: 0})
		floodFrom(Point{X: x, Y: g.Height - 1})
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Cells[y][x] && !visited[y][x] {
				g.Cells[y][x] = true
			}
		}
	}
}

// CenterEffectiveArea translates the occupied region so its bounding box
// is centered in the grid (dwelling.py: Grid._center_effective_area).
func (g *PolygonGrid) CenterEffectiveArea() {
	minY, maxY, minX, maxX := g.Height, -1, g.Width, -1
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.Cells[y][x] {
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	if maxY == -1 || maxX == -1 {
		return
	}

	currentCenterY := float64(minY+maxY+1) / 2.0
	currentCenterX := float64(minX+maxX+1) / 2.0
	desiredCenterY := float64(g.Height) / 2.0
	desiredCenterX := float64(g.Width) / 2.0
	offsetY := int(math.Round(desiredCenterY - currentCenterY))
	offsetX := int(math.Round(desiredCenterX - currentCenterX))

	next := newCells(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if !g.Cells[y][x] {
				continue
			}
			ny, nx := y+offsetY, x+offsetX
			if ny >= 0 && ny < g.Height && nx >= 0 && nx < g.Width {
				next[ny][nx] = true
			}
		}
	}
	g.Cells = next
}
