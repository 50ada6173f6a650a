package geom

import (
	"sort"

	"mapgen/prng"
)

// BSPPartitioner recursively splits a rectangle until a side is shorter
// than 2*MinSize, so every leaf side produced by a split is at least
// MinSize; each split cuts across the longer dimension, with a random
// axis when width equals height (original_source/tiled_master/
// methods/bsp.py: BSP._bsp_partition).
type BSPPartitioner struct {
	MinSize int

	rng     *prng.Source
	regions []Rect
	corners map[Point]struct{}
}

// NewBSPPartitioner creates a partitioner with the given minimum side
// length for split-produced leaves, driven by rng.
func NewBSPPartitioner(minSize int, rng *prng.Source) *BSPPartitioner {
	return &BSPPartitioner{
		MinSize: minSize,
		rng:     rng,
		corners: make(map[Point]struct{}),
	}
}

// Partition splits region into leaf rectangles and returns them along
// with every internal split-corner point that does not coincide with
// one of region's own four corners (the candidate points later stages
// anchor roads, rooms, or landmarks to).
func (b *BSPPartitioner) Partition(region Rect) ([]Rect, []Point) {
	b.regions = nil
	b.corners = make(map[Point]struct{})
	b.partition(region)

	outer := region.Corners()
	isOuter := func(p Point) bool {
		for _, c := range outer {
			if p == c {
				return true
			}
		}
		return false
	}

	var inner []Point
	for p := range b.corners {
		if !isOuter(p) {
			inner = append(inner, p)
		}
	}
	sort.Slice(inner, func(i, j int) bool {
		if inner[i].Y != inner[j].Y {
			return inner[i].Y < inner[j].Y
		}
		return inner[i].X < inner[j].X
	})
	return b.regions, inner
}

func (b *BSPPartitioner) addCorners(r Rect) {
	for _, c := range r.Corners() {
		b.corners[c] = struct{}{}
	}
}

func (b *BSPPartitioner) partition(region Rect) {
	x, y, width, height := region.X, region.Y, region.W, region.H

	if width < 2*b.MinSize || height < 2*b.MinSize {
		b.addCorners(region)
		b.regions = append(b.regions, region)
		return
	}

	splitHorizontally := b.rng.Bool()
	switch {
	case width > height:
		splitHorizontally = false
	case height > width:
		splitHorizontally = true
	}

	if splitHorizontally {
		split := b.rng.IntRange(b.MinSize, height-b.MinSize)
		b.partition(Rect{X: x, Y: y, W: width, H: split})
		b.partition(Rect{X: x, Y: y + split, W: width, H: height - split})
	} else {
		split := b.rng.IntRange(b.MinSize, width-b.MinSize)
		b.partition(Rect{X: x, Y: y, W: split, H: height})
		b.partition(Rect{X: x + split, Y: y, W: width - split, H: height})
	}
}
