package elements

import (
	"context"

	"mapgen/geom"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Village scatters buildings inside an inset rectangle and connects
// them with a KMST+road network, retrying both steps together until a
// connected layout is found (implement/town_impl/element_village.py:
// Village).
type Village struct {
	Data     schema.ElementData
	NumNodes int

	specBuildings, defaultBuildings *schema.ObjectGroup
	road, bridge                    *schema.TileGroup

	Nodes     []HousePlacement
	RoadTiles []geom.Point
}

func NewVillage(data schema.ElementData) *Village {
	return &Village{Data: data, NumNodes: data.NumNodes}
}

func (v *Village) Name() string { return "village" }

func (v *Village) Preload(ctx context.Context, reg *registry.Registry) error {
	specDescs := make([]schema.TextureDescriptor, len(v.Data.SpecBuildings))
	for i, b := range v.Data.SpecBuildings {
		specDescs[i] = b.Descriptor()
	}
	spec, err := reg.LoadObjectGroup(ctx, specDescs, scaleOrDefault(v.Data.Scale))
	if err != nil {
		return err
	}
	v.specBuildings = spec

	defaultDescs := make([]schema.TextureDescriptor, len(v.Data.Buildings))
	for i, b := range v.Data.Buildings {
		defaultDescs[i] = b.Descriptor()
	}
	def, err := reg.LoadObjectGroup(ctx, defaultDescs, scaleOrDefault(v.Data.Scale))
	if err != nil {
		return err
	}
	v.defaultBuildings = def

	tiles, autoTiles := splitTextures(v.Data.Textures)
	road, err := reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(v.Data.Scale))
	if err != nil {
		return err
	}
	v.road = road

	bTiles, bAuto := splitTextures(v.Data.BridgeTextures)
	bridge, err := reg.LoadTileGroup(ctx, bTiles, bAuto, scaleOrDefault(v.Data.Scale))
	if err != nil {
		return err
	}
	v.bridge = bridge
	return nil
}

const villageExtraEdges = 4

// placeholderStructure marks a building's footprint shadow on the
// scratch structure layer so road pathfinding routes around it
// (tiled_master/framework/config.py: place_holder_texture).
var placeholderStructure = schema.TextureTile{TilesetID: 1, LocalID: 1}

func (v *Village) Build(s *state.State) error {
	width := intOrDefault(v.Data.GridWidth, s.Width)
	height := intOrDefault(v.Data.GridHeight, s.Height)

	const maxAttempts = 50
	var committed *state.State
	var edges []geom.Connection

	for attempt := 0; attempt < maxAttempts; attempt++ {
		clone := s.Clone(attempt)
		nodes := v.generateHouses(clone, width, height)
		if len(nodes) == 0 {
			continue
		}

		hooks := make([]geom.Point, len(nodes))
		for i, n := range nodes {
			hooks[i] = geom.Point{X: n.ConnectionHookX, Y: n.ConnectionHookY}
		}
		conns := geom.NewKMST(hooks, villageExtraEdges, clone.RNG()).GenerateConnections()

		// KMST.GenerateConnections always returns (possibly empty) rather
		// than failing, so a successful house round always settles the
		// retry loop here (element_village.py: build's `self.edges is
		// not None` check, which is likewise never false in practice).
		v.Nodes = nodes
		committed = clone
		edges = conns
		break
	}
	if committed == nil {
		return nil
	}
	s.Adopt(committed)

	if v.road != nil && edges != nil {
		v.RoadTiles = generateRoads(s, edges, s.Width, s.Height, v.road, v.bridge)
	}
	return nil
}

// generateHouses scatters up to NumNodes buildings inside the inset
// rectangle, biasing spec buildings first (element_village.py:
// _generate_houses).
func (v *Village) generateHouses(s *state.State, width, height int) []HousePlacement {
	maxAttempts := width * height / 40
	if maxAttempts < 20 {
		maxAttempts = 20
	}

	specCopy := append([]*schema.TextureObject(nil), v.specBuildings.Objects...)
	widthShift := width / 10
	heightShift := height / 20

	var nodes []HousePlacement
	attempts := 0
	for len(nodes) < v.NumNodes && attempts < maxAttempts {
		attempts++
		candidate := s.Clone(attempts)
		obj := pickBuilding(candidate.RNG(), &specCopy, v.defaultBuildings)
		if obj == nil {
			continue
		}

		xRange := width - widthShift*2 - obj.Width
		yRange := height - heightShift*2 - obj.Height
		if xRange < 0 || yRange < 0 {
			continue
		}
		x := widthShift + candidate.RNG().IntRange(0, xRange)
		y := heightShift + candidate.RNG().IntRange(0, yRange)

		if !canPlaceHouse(candidate, x, y, obj.Width, obj.Height, state.LayerWater, state.LayerTree, state.LayerHouse) {
			continue
		}
		if !candidate.DropObject(x, y, state.LayerHouse, obj, true) {
			continue
		}
		for tx := x; tx < x+obj.Width; tx++ {
			for ty := y + 2; ty < y+obj.Height; ty++ {
				candidate.DropTile(tx, ty, state.LayerStructure, placeholderStructure)
			}
		}

		nodes = append(nodes, HousePlacement{
			X: x, Y: y, Width: obj.Width, Height: obj.Height,
			ConnectionHookX: x + obj.Width/2, ConnectionHookY: y + obj.Height + 1,
		})
		s.Adopt(candidate)
	}
	return nodes
}
