package geom

import (
	"math"
	"sort"

	"mapgen/prng"
)

// Edge is a weighted connection between two point indices.
type Edge struct {
	Dist float64
	A, B int
}

// unionFind is a standard union-by-rank, path-halving disjoint-set
// structure (methods/kmst.py: KMST._kruskal_mst's closures).
type unionFind struct {
	parent, rank []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) bool {
	rootA, rootB := uf.find(a), uf.find(b)
	if rootA == rootB {
		return false
	}
	switch {
	case uf.rank[rootA] > uf.rank[rootB]:
		uf.parent[rootB] = rootA
	case uf.rank[rootA] < uf.rank[rootB]:
		uf.parent[rootA] = rootB
	default:
		uf.parent[rootB] = rootA
		uf.rank[rootA]++
	}
	return true
}

// KMST computes a minimum spanning tree over a complete graph of points
// plus extraCount additional random non-tree edges (methods/kmst.py:
// KMST), used to connect BSP regions or room centers with a few extra
// loops so the corridor graph isn't a bare tree.
type KMST struct {
	Points     []Point
	ExtraCount int
	rng        *prng.Source
}

// NewKMST builds a KMST solver over points.
func NewKMST(points []Point, extraCount int, rng *prng.Source) *KMST {
	return &KMST{Points: points, ExtraCount: extraCount, rng: rng}
}

func (k *KMST) buildEdges() []Edge {
	n := len(k.Points)
	edges := make([]Edge, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := float64(k.Points[i].X - k.Points[j].X)
			dy := float64(k.Points[i].Y - k.Points[j].Y)
			edges = append(edges, Edge{Dist: math.Sqrt(dx*dx + dy*dy), A: i, B: j})
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Dist < edges[j].Dist })
	return edges
}

func (k *KMST) kruskal(edges []Edge) []Edge {
	n := len(k.Points)
	uf := newUnionFind(n)
	var mst []Edge
	for _, e := range edges {
		if uf.union(e.A, e.B) {
			mst = append(mst, e)
		}
		if len(mst) == n-1 {
			break
		}
	}
	return mst
}

func edgeKey(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func (k *KMST) extraEdges(mst, all []Edge) []Edge {
	inMST := make(map[[2]int]struct{}, len(mst))
	for _, e := range mst {
		a, b := edgeKey(e.A, e.B)
		inMST[[2]int{a, b}] = struct{}{}
	}

	var candidates []Edge
	for _, e := range all {
		a, b := edgeKey(e.A, e.B)
		if _, ok := inMST[[2]int{a, b}]; !ok {
			candidates = append(candidates, e)
		}
	}

	k.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if k.ExtraCount < len(candidates) {
		candidates = candidates[:k.ExtraCount]
	}
	return candidates
}

// Connection is a resolved pair of endpoint coordinates.
type Connection struct {
	A, B Point
}

// GenerateConnections returns the MST edges plus ExtraCount randomly
// chosen non-tree edges, resolved to point-pairs (methods/kmst.py:
// KMST.generate_connections).
func (k *KMST) GenerateConnections() []Connection {
	all := k.buildEdges()
	mst := k.kruskal(all)
	extra := k.extraEdges(mst, all)

	edges := make([]Edge, 0, len(mst)+len(extra))
	edges = append(edges, mst...)
	edges = append(edges, extra...)

	conns := make([]Connection, 0, len(edges))
	for _, e := range edges {
		conns = append(conns, Connection{A: k.Points[e.A], B: k.Points[e.B]})
	}
	return conns
}
