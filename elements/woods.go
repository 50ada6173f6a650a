package elements

import (
	"context"
	"sort"

	"mapgen/geom"
	"mapgen/noise"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Woods scatters tree objects across a noise-selected area, one
// accept/reject attempt at a time against a clone of the current state,
// committing only on a clean placement (implement/town_impl/
// element_natural.py: Woods).
type Woods struct {
	Data schema.ElementData

	objects *schema.ObjectGroup
	Trees   []Placement
}

// Placement records a committed object's footprint.
type Placement struct {
	X, Y, Width, Height int
}

func NewWoods(data schema.ElementData) *Woods { return &Woods{Data: data} }

func (w *Woods) Name() string { return "woods" }

func (w *Woods) Preload(ctx context.Context, reg *registry.Registry) error {
	objects, err := reg.LoadObjectGroup(ctx, w.objectDescriptors(), scaleOrDefault(w.Data.Scale))
	if err != nil {
		return err
	}
	w.objects = objects
	return nil
}

func (w *Woods) objectDescriptors() []schema.TextureDescriptor {
	var out []schema.TextureDescriptor
	for _, t := range w.Data.Textures {
		if t.Type == "object" {
			out = append(out, t)
		}
	}
	return out
}

func (w *Woods) Build(s *state.State) error {
	if w.objects == nil || len(w.objects.Objects) == 0 {
		return nil
	}

	maxAttempts := s.Width * s.Height / 20 * w.objects.Scale
	if maxAttempts < 40 {
		maxAttempts = 40
	}

	m := noise.NewMap(s.Width, s.Height, int64(s.RNG().Seed()))
	remaining := dedupSortedPoints(m.GenerateTreeArea(w.objects.Scale))
	remaining = excludeLayer(remaining, s, state.LayerWater)
	remaining = excludeLayer(remaining, s, state.LayerRoad)
	remaining = excludeLayer(remaining, s, state.LayerHouse)

	w.Trees = nil
	weights := make([]int, len(w.objects.Objects))
	for i, o := range w.objects.Objects {
		weights[i] = o.Rate
	}

	attempt := 0
	for attempt < maxAttempts && len(remaining) > 0 {
		clone := s.Clone(attempt)

		center := remaining[clone.RNG().Intn(len(remaining))]
		obj := w.objects.Objects[clone.RNG().WeightedChoice(weights)]

		x := center.X - obj.Width/2
		y := center.Y - obj.Height/2

		if canPlaceTree(clone, s.Width, s.Height, x, y, obj.Width, obj.Height) {
			if clone.DropObject(x, y, state.LayerTree, obj, false) {
				w.Trees = append(w.Trees, Placement{X: x, Y: y, Width: obj.Width, Height: obj.Height})
				s.Adopt(clone)
				remaining = excludeBox(remaining, center.X-obj.Width, center.Y-obj.Width, center.X+obj.Width, center.Y+obj.Height)
			}
		}
		attempt++
	}
	return nil
}

func canPlaceTree(s *state.State, mapWidth, mapHeight, x, y, width, height int) bool {
	for tx := x; tx < x+width; tx++ {
		for ty := y; ty < y+height; ty++ {
			if tx < 0 || ty < 0 || tx >= mapWidth || ty >= mapHeight {
				return false
			}
			if s.Exists(tx, ty, state.LayerWater) || s.Exists(tx, ty, state.LayerRoad) ||
				s.Exists(tx, ty, state.LayerHouse) || s.Exists(tx, ty, state.LayerTree) {
				return false
			}
		}
	}
	return true
}

// dedupSortedPoints returns pts deduplicated and sorted into a stable
// order, so random-index selection over it is reproducible (unlike
// ranging over a Go map).
func dedupSortedPoints(pts []geom.Point) []geom.Point {
	seen := make(map[geom.Point]struct{}, len(pts))
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func excludeLayer(pts []geom.Point, s *state.State, layer int) []geom.Point {
	out := pts[:0:0]
	for _, p := range pts {
		if !s.Exists(p.X, p.Y, layer) {
			out = append(out, p)
		}
	}
	return out
}

func excludeBox(pts []geom.Point, minX, minY, maxX, maxY int) []geom.Point {
	out := pts[:0:0]
	for _, p := range pts {
		if p.X >= minX && p.X < maxX && p.Y >= minY && p.Y < maxY {
			continue
		}
		out = append(out, p)
	}
	return out
}
