package elements

import (
	"context"

	"mapgen/geom"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Interior subdivides a polygon-shaped footprint into a door-connected
// tree of rectangular rooms and rasterizes floor, wall, and roof/void
// tiles for it (implement/room_impl/element_room.py: Room).
type Interior struct {
	Data schema.ElementData

	floor, wallLv1, wallLv2, roof *schema.TileGroup
}

func NewInterior(data schema.ElementData) *Interior { return &Interior{Data: data} }

func (it *Interior) Name() string { return "interior" }

func (it *Interior) Preload(ctx context.Context, reg *registry.Registry) error {
	group, err := loadGroup(ctx, reg, it.Data.FloorTextures, it.Data.Scale)
	if err != nil {
		return err
	}
	it.floor = group

	if group, err = loadGroup(ctx, reg, it.Data.WallLv1Textures, it.Data.Scale); err != nil {
		return err
	}
	it.wallLv1 = group

	if group, err = loadGroup(ctx, reg, it.Data.WallLv2Textures, it.Data.Scale); err != nil {
		return err
	}
	it.wallLv2 = group

	if group, err = loadGroup(ctx, reg, it.Data.RoofTextures, it.Data.Scale); err != nil {
		return err
	}
	it.roof = group
	return nil
}

func loadGroup(ctx context.Context, reg *registry.Registry, textures []schema.TextureDescriptor, scale int) (*schema.TileGroup, error) {
	tiles, autoTiles := splitTextures(textures)
	return reg.LoadTileGroup(ctx, tiles, autoTiles, scaleOrDefault(scale))
}

const (
	defaultGridWidth  = 12
	defaultGridHeight = 6
	defaultCellWidth  = 4
	defaultCellHeight = 5
	defaultLineWidth  = 1
)

func (it *Interior) dims() (gridWidth, gridHeight, cellWidth, cellHeight, lineWidth int) {
	gridWidth = intOrDefault(it.Data.GridWidth, defaultGridWidth)
	gridHeight = intOrDefault(it.Data.GridHeight, defaultGridHeight)
	cellWidth = intOrDefault(it.Data.CellWidth, defaultCellWidth)
	cellHeight = intOrDefault(it.Data.CellHeight, defaultCellHeight)
	lineWidth = intOrDefault(it.Data.LineWidth, defaultLineWidth)
	return
}

func intOrDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (it *Interior) Build(s *state.State) error {
	gridWidth, gridHeight, cellWidth, cellHeight, lineWidth := it.dims()
	totalWidth := gridWidth*(cellWidth+lineWidth) + lineWidth
	totalHeight := gridHeight*(cellHeight+lineWidth) + lineWidth

	polygon := geom.NewRoomPolygon(gridWidth, gridHeight, 6, s.RNG())
	subdivider, ok := geom.NewRoomSubdivider(polygon, s.RNG())
	if !ok {
		return nil
	}
	rooms, connections := subdivider.DivideRoom(8, 0.6, 0.3, 100, 0)
	if len(rooms) == 0 {
		return nil
	}

	root := geom.BuildRoomTree(rooms, connections)
	geom.AssignSouthernExternalDoor(root)
	floorPts, wallPts := geom.RasterizeRooms(rooms, root, totalWidth, totalHeight, cellWidth, cellHeight, lineWidth)

	if it.floor != nil {
		s.DropTilesFromTileGroup(it.floor, floorPts, state.LayerGround)
	}

	for _, p := range wallPts {
		if it.wallLv1 != nil && s.Exists(p.X, p.Y+1, state.LayerGround) {
			s.DropTilesFromTileGroup(it.wallLv1, []geom.Point{{X: p.X, Y: p.Y + 1}}, state.LayerWater)
		}
		if it.wallLv2 != nil && s.Exists(p.X, p.Y+2, state.LayerGround) {
			s.DropTilesFromTileGroup(it.wallLv2, []geom.Point{{X: p.X, Y: p.Y + 2}}, state.LayerWater)
		}
	}

	if it.roof != nil {
		var voidCoords []geom.Point
		for y := 0; y < totalHeight; y++ {
			for x := 0; x < totalWidth; x++ {
				if !s.Exists(x, y, state.LayerGround) && !s.Exists(x, y, state.LayerWater) {
					voidCoords = append(voidCoords, geom.Point{X: x, Y: y})
				}
			}
		}
		s.DropTilesFromTileGroup(it.roof, voidCoords, state.LayerPlants)
	}
	return nil
}
