package geom

import (
	"testing"

	"mapgen/prng"
)

func TestKMSTConnectsAllPoints(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {5, 5}}
	k := NewKMST(points, 0, prng.New(3))
	conns := k.GenerateConnections()

	if len(conns) != len(points)-1 {
		t.Fatalf("expected %d MST edges with no extras, got %d", len(points)-1, len(conns))
	}

	uf := newUnionFind(len(points))
	index := make(map[Point]int, len(points))
	for i, p := range points {
		index[p] = i
	}
	for _, c := range conns {
		uf.union(index[c.A], index[c.B])
	}
	root := uf.find(0)
	for i := 1; i < len(points); i++ {
		if uf.find(i) != root {
			t.Fatalf("point %d not connected to MST", i)
		}
	}
}

func TestKMSTExtraEdgesAppended(t *testing.T) {
	points := []Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}}
	k := NewKMST(points, 2, prng.New(5))
	conns := k.GenerateConnections()

	if len(conns) != len(points)-1+2 {
		t.Fatalf("expected %d edges (MST + 2 extra), got %d", len(points)-1+2, len(conns))
	}
}

func TestKMSTExtraCountClampedToAvailableEdges(t *testing.T) {
	points := []Point{{0, 0}, {1, 0}}
	k := NewKMST(points, 10, prng.New(1))
	conns := k.GenerateConnections()
	if len(conns) != 1 {
		t.Fatalf("two points can only ever have one edge, got %d", len(conns))
	}
}
