package elements

import (
	"context"

	"mapgen/geom"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Town lays a BSP+KMST road network over a jittered city-block region
// and places buildings along the road edge (implement/town_impl/
// element_town.py: Town).
type Town struct {
	Data     schema.ElementData
	NumNodes int

	specBuildings, defaultBuildings *schema.ObjectGroup
	road, bridge                    *schema.TileGroup

	Nodes     []HousePlacement
	RoadTiles []geom.Point
}

func NewTown(data schema.ElementData) *Town {
	return &Town{Data: data, NumNodes: data.NumNodes}
}

func (t *Town) Name() string { return "town" }

func (t *Town) Preload(ctx context.Context, reg *registry.Registry) error {
	specDescs := make([]schema.TextureDescriptor, len(t.Data.SpecBuildings))
	for i, b := range t.Data.SpecBuildings {
		specDescs[i] = b.Descriptor()
	}
	spec, err := reg.LoadObjectGroup(ctx, specDescs, scaleOrDefault(t.Data.Scale))
	if err != nil {
		return err
	}
	t.specBuildings = spec

	defaultDescs := make([]schema.TextureDescriptor, len(t.Data.Buildings))
	for i, b := range t.Data.Buildings {
		defaultDescs[i] = b.Descriptor()
	}
	def, err := reg.LoadObjectGroup(ctx, defaultDescs, scaleOrDefault(t.Data.Scale))
	if err != nil {
		return err
	}
	t.defaultBuildings = def

	tiles, autoTiles := splitTextures(t.Data.Textures)
	road, err := reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(t.Data.Scale))
	if err != nil {
		return err
	}
	t.road = road

	bTiles, bAuto := splitTextures(t.Data.BridgeTextures)
	bridge, err := reg.LoadTileGroup(ctx, bTiles, bAuto, scaleOrDefault(t.Data.Scale))
	if err != nil {
		return err
	}
	t.bridge = bridge
	return nil
}

const townExtraEdges = 2

func (t *Town) Build(s *state.State) error {
	if t.road == nil || len(t.road.Textures) == 0 {
		return nil
	}

	widthShift := s.Width/10 + s.RNG().IntRange(-5, 5)
	heightShift := s.Height/10 + s.RNG().IntRange(-3, 3)
	width := s.Width*9/10 + s.RNG().IntRange(-5, 5) - widthShift
	height := s.Height*9/10 + s.RNG().IntRange(-3, 3) - heightShift
	region := geom.Rect{X: widthShift, Y: heightShift, W: width, H: height}

	const maxAttempts = 50
	var edges []geom.Connection
	var attemptState *state.State

	for attempt := 0; attempt < maxAttempts; attempt++ {
		clone := s.Clone(attempt)
		roadScale := t.road.Scale
		if roadScale <= 0 {
			roadScale = 2
		}
		bspSize := 12 - roadScale*2
		if bspSize < 1 {
			bspSize = 1
		}

		_, corners := geom.NewBSPPartitioner(bspSize, clone.RNG()).Partition(region)
		corners = removeCornersOnWater(clone, corners)
		if len(corners) < 2 {
			continue
		}

		conns := geom.NewKMST(corners, townExtraEdges, clone.RNG()).GenerateConnections()
		if len(conns) == 0 {
			continue
		}
		edges = conns
		attemptState = clone
		break
	}
	if edges == nil {
		return nil
	}
	s.Adopt(attemptState)

	t.RoadTiles = generateRoads(s, edges, s.Width, s.Height, t.road, t.bridge)
	t.generateHousesAlongEdge(s)
	return nil
}

// removeCornersOnWater clips every corner to the nearest in-bounds edge
// cell and drops it if that cell is water (element_town.py:
// _remove_corner_on_water).
func removeCornersOnWater(s *state.State, corners []geom.Point) []geom.Point {
	var out []geom.Point
	for _, c := range corners {
		x, y := clipToEdge(c.X, s.Width), clipToEdge(c.Y, s.Height)
		if !s.Exists(x, y, state.LayerWater) {
			out = append(out, c)
		}
	}
	return out
}

func clipToEdge(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

// generateHousesAlongEdge walks the road-adjacent tile list, trying to
// place a building at each candidate until NumNodes succeed or the
// candidate list is exhausted (element_town.py: _generate_houses_along_edge).
func (t *Town) generateHousesAlongEdge(s *state.State) {
	specCopy := append([]*schema.TextureObject(nil), t.specBuildings.Objects...)

	var candidates []geom.Point
	for _, p := range t.RoadTiles {
		if p.X >= 0 && p.X < s.Width && p.Y > 0 && p.Y <= s.Height {
			candidates = append(candidates, p)
		}
	}

	t.Nodes = nil
	attempt := 0
	for len(t.Nodes) < t.NumNodes && len(candidates) > 0 {
		attempt++
		edge := candidates[0]
		candidates = candidates[1:]

		candidate := s.Clone(attempt)
		obj := pickBuilding(candidate.RNG(), &specCopy, t.defaultBuildings)
		if obj == nil {
			continue
		}
		if placement, ok := generateHouseAlongEdge(candidate, obj, edge.X, edge.Y); ok {
			t.Nodes = append(t.Nodes, placement)
			s.Adopt(candidate)
		}
	}
}

// generateHouseAlongEdge tries the four anchor offsets from
// element_town.py's _generate_house_along_edge, in order, committing the
// first that clears its checkpoint and footprint into candidate.
func generateHouseAlongEdge(candidate *state.State, obj *schema.TextureObject, edgeX, edgeY int) (HousePlacement, bool) {
	const disOffset = 1
	type offset struct {
		shiftX, shiftY   int
		offsetX, offsetY int
	}
	offsets := []offset{
		{1, 0, disOffset, -obj.Height / 2},
		{0, 1, -obj.Width / 2, disOffset},
		{0, -1, -obj.Width / 2, -obj.Height + 1 - disOffset},
		{-1, 0, -obj.Width + 1 - disOffset, -obj.Height / 2},
	}

	for _, off := range offsets {
		x, y := edgeX+off.offsetX, edgeY+off.offsetY
		checkX, checkY := edgeX+off.shiftX, edgeY+off.shiftY

		if candidate.Exists(checkX, checkY, state.LayerHouse) || candidate.Exists(checkX, checkY, state.LayerRoad) {
			continue
		}
		if !canPlaceHouse(candidate, x, y, obj.Width, obj.Height, state.LayerWater, state.LayerRoad, state.LayerHouse) {
			continue
		}
		if candidate.DropObject(x, y, state.LayerHouse, obj, true) {
			return HousePlacement{
				X: x, Y: y, Width: obj.Width, Height: obj.Height,
				ConnectionHookX: x + obj.Width/2, ConnectionHookY: y + obj.Height + 1,
			}, true
		}
	}
	return HousePlacement{}, false
}
