package geom

import "testing"

// gridOccupancy is a simple in-memory Occupancy for tests: blocked[y][x]
// true means occupied on every layer.
type gridOccupancy struct {
	blocked [][]bool
}

func (g *gridOccupancy) Exists(x, y int, layer int) bool {
	if y < 0 || y >= len(g.blocked) || x < 0 || x >= len(g.blocked[0]) {
		return true
	}
	return g.blocked[y][x]
}

func newOpenOccupancy(w, h int) *gridOccupancy {
	rows := make([][]bool, h)
	for y := range rows {
		rows[y] = make([]bool, w)
	}
	return &gridOccupancy{blocked: rows}
}

func TestAStarOddWidthFindsDirectPath(t *testing.T) {
	occ := newOpenOccupancy(20, 20)
	pf := NewPathfinder(occ, 20, 20, 1)
	tiles := pf.FindCorridorPath(Point{X: 2, Y: 2}, Point{X: 10, Y: 2}, []int{0})
	if tiles == nil {
		t.Fatal("expected a path on an open grid")
	}
	if _, ok := tiles[Point{X: 2, Y: 2}]; !ok {
		t.Fatalf("expanded path does not cover the start tile")
	}
	if _, ok := tiles[Point{X: 10, Y: 2}]; !ok {
		t.Fatalf("expanded path does not cover the goal tile")
	}
}

func TestAStarEvenWidthExpandsFootprint(t *testing.T) {
	occ := newOpenOccupancy(20, 20)
	pf := NewPathfinder(occ, 20, 20, 2)
	tiles := pf.FindCorridorPath(Point{X: 2, Y: 2}, Point{X: 8, Y: 2}, []int{0})
	if tiles == nil {
		t.Fatal("expected a path on an open grid")
	}
	if len(tiles) < 2 {
		t.Fatalf("even-width corridor should cover more than a single tile column, got %d tiles", len(tiles))
	}
}

func TestAStarReturnsNilWhenUnreachable(t *testing.T) {
	occ := newOpenOccupancy(10, 10)
	for y := 0; y < 10; y++ {
		occ.blocked[y][5] = true
	}
	pf := NewPathfinder(occ, 10, 10, 1)
	tiles := pf.FindCorridorPath(Point{X: 1, Y: 1}, Point{X: 8, Y: 1}, []int{0})
	if tiles != nil {
		t.Fatalf("expected no path through a solid wall, got %d tiles", len(tiles))
	}
}

func TestAStarAvoidsOccupiedLayer(t *testing.T) {
	occ := newOpenOccupancy(10, 10)
	occ.blocked[1][1] = true
	pf := NewPathfinder(occ, 10, 10, 1)
	tiles := pf.FindCorridorPath(Point{X: 0, Y: 0}, Point{X: 2, Y: 2}, []int{0})
	if tiles == nil {
		t.Fatal("expected a detour path to exist")
	}
	if _, ok := tiles[Point{X: 1, Y: 1}]; ok {
		t.Fatalf("path should never include the blocked tile")
	}
}
