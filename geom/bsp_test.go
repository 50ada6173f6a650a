package geom

import (
	"testing"

	"mapgen/prng"
)

func TestBSPPartitionCoversRegion(t *testing.T) {
	region := Rect{X: 0, Y: 0, W: 80, H: 40}
	b := NewBSPPartitioner(5, prng.New(1))
	leaves, _ := b.Partition(region)

	area := 0
	for _, leaf := range leaves {
		if leaf.X < region.X || leaf.Y < region.Y || leaf.X+leaf.W > region.X+region.W || leaf.Y+leaf.H > region.Y+region.H {
			t.Fatalf("leaf %+v escapes region %+v", leaf, region)
		}
		area += leaf.W * leaf.H
	}
	if area != region.W*region.H {
		t.Fatalf("leaf area sum = %d, want %d", area, region.W*region.H)
	}
}

func TestBSPInnerCornersExcludeOuter(t *testing.T) {
	region := Rect{X: 0, Y: 0, W: 60, H: 60}
	b := NewBSPPartitioner(8, prng.New(7))
	_, inner := b.Partition(region)

	outer := region.Corners()
	for _, p := range inner {
		for _, o := range outer {
			if p == o {
				t.Fatalf("inner corner list contains outer corner %+v", p)
			}
		}
	}
}

func TestBSPDeterministicForSameSeed(t *testing.T) {
	region := Rect{X: 0, Y: 0, W: 100, H: 60}
	a := NewBSPPartitioner(6, prng.New(99))
	b := NewBSPPartitioner(6, prng.New(99))

	leavesA, _ := a.Partition(region)
	leavesB, _ := b.Partition(region)

	if len(leavesA) != len(leavesB) {
		t.Fatalf("leaf counts differ: %d vs %d", len(leavesA), len(leavesB))
	}
	for i := range leavesA {
		if leavesA[i] != leavesB[i] {
			t.Fatalf("leaf %d differs: %+v vs %+v", i, leavesA[i], leavesB[i])
		}
	}
}
