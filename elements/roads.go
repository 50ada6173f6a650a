package elements

import (
	"sort"

	"mapgen/geom"
	"mapgen/prng"
	"mapgen/schema"
	"mapgen/state"
)

// generateRoads carves a corridor for every KMST edge against s,
// then splits the carved area into road and bridge tiles by whether the
// water layer already occupies a cell, compositing both through
// separate temp clones so a failed drop on one never taints the other
// (element_town.py / element_village.py: _generate_roads).
func generateRoads(s *state.State, edges []geom.Connection, mapWidth, mapHeight int, road, bridge *schema.TileGroup) []geom.Point {
	pf := geom.NewPathfinder(s, mapWidth, mapHeight, 2)

	var corridor []geom.Point
	seen := make(map[geom.Point]struct{})
	for _, edge := range edges {
		for p := range pf.FindCorridorPath(edge.A, edge.B, []int{state.LayerStructure}) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			corridor = append(corridor, p)
		}
	}
	sort.Slice(corridor, func(i, j int) bool {
		if corridor[i].Y != corridor[j].Y {
			return corridor[i].Y < corridor[j].Y
		}
		return corridor[i].X < corridor[j].X
	})

	haveRoad := road != nil && len(road.Textures) > 0
	haveBridge := bridge != nil && len(bridge.Textures) > 0

	if haveRoad && haveBridge {
		var bridgeArea, roadArea []geom.Point
		for _, p := range corridor {
			if s.Exists(p.X, p.Y, state.LayerWater) {
				bridgeArea = append(bridgeArea, p)
			} else {
				roadArea = append(roadArea, p)
			}
		}

		final := s.Clone()
		roadTemp := s.Clone()
		roadTemp.DropTilesFromTileGroup(road, roadArea, state.LayerRoad)
		final.MergeLayerFrom(roadTemp, state.LayerRoad, state.LayerRoad, true, nil)

		bridgeTemp := s.Clone()
		bridgeTemp.DropTilesFromTileGroup(bridge, bridgeArea, state.LayerRoad)
		final.MergeLayerFrom(bridgeTemp, state.LayerRoad, state.LayerRoad, true, nil)

		s.Adopt(final)
	} else if haveRoad {
		s.DropTilesFromTileGroup(road, corridor, state.LayerRoad)
	}

	return corridor
}

// canPlaceHouse reports whether a width x height footprint at (x, y)
// avoids the map bounds and every forbidden layer (element_town.py /
// element_village.py: _can_place_house).
func canPlaceHouse(s *state.State, x, y, width, height int, forbidden ...int) bool {
	if x < 0 || y < 0 || x+width > s.Width || y+height > s.Height {
		return false
	}
	for tx := x; tx < x+width; tx++ {
		for ty := y; ty < y+height; ty++ {
			for _, layer := range forbidden {
				if s.Exists(tx, ty, layer) {
					return false
				}
			}
		}
	}
	return true
}

// HousePlacement records a committed building's footprint and the
// connection hook later used as a KMST endpoint.
type HousePlacement struct {
	X, Y, Width, Height               int
	ConnectionHookX, ConnectionHookY int
}

// pickBuilding returns the next spec building (consumed front-to-back)
// or, once spec buildings run out, a weighted pick from defaults
// (element_town.py: _generate_house_with_spec).
func pickBuilding(rng *prng.Source, spec *[]*schema.TextureObject, defaults *schema.ObjectGroup) *schema.TextureObject {
	if len(*spec) > 0 {
		obj := (*spec)[0]
		*spec = (*spec)[1:]
		return obj
	}
	if defaults == nil || len(defaults.Objects) == 0 {
		return nil
	}
	weights := make([]int, len(defaults.Objects))
	for i, o := range defaults.Objects {
		weights[i] = o.Rate
	}
	return defaults.Objects[rng.WeightedChoice(weights)]
}
