// Package geom implements the generation engine's geometric primitives:
// BSP rectangle partitioning, K-Minimum-Spanning-Tree connectivity,
// width-aware A* corridor pathfinding, and polygon-room rasterization
// with cellular-automata smoothing and flood fill (spec.md §4.3–4.6).
package geom

// Point is an integer grid coordinate, origin top-left, +x right, +y down.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned rectangle in grid coordinates.
type Rect struct {
	X, Y, W, H int
}

// Corners returns the four corners of r in (top-left, top-right,
// bottom-left, bottom-right) order.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{r.X, r.Y},
		{r.X + r.W, r.Y},
		{r.X, r.Y + r.H},
		{r.X + r.W, r.Y + r.H},
	}
}
