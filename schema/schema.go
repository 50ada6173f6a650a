// Package schema defines the configuration and resource-descriptor
// records the rest of the engine consumes: the caller-supplied
// configuration, element and texture descriptors resolved during
// preload, and the higher-level MapGenSetting convenience record
// (original_source/tiled_master/framework/schema.py, spec.md §3, §6).
package schema

import "fmt"

// Config is the top-level caller-supplied configuration.
type Config struct {
	MapID     string
	Width     int
	Height    int
	LayerNums int // default 10
	Elements  []ElementConfig
}

// Validate checks the invariants InvalidConfiguration must catch before
// preload begins (spec.md §7).
func (c *Config) Validate() error {
	if c.MapID == "" {
		return fmt.Errorf("config: map_id is required")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("config: width/height must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.LayerNums <= 0 {
		c.LayerNums = 10
	}
	for i, e := range c.Elements {
		if _, ok := knownElementNames[e.Name]; !ok {
			return fmt.Errorf("config: element[%d] has unknown name %q", i, e.Name)
		}
	}
	return nil
}

var knownElementNames = map[string]struct{}{
	"town": {}, "village": {}, "river": {}, "woods": {}, "ground": {},
	"bush": {}, "collision": {}, "cover": {}, "interior": {}, "town_logic": {},
}

// ElementConfig is one entry in Config.Elements, in registration order.
type ElementConfig struct {
	Name   string
	Enable bool
	Data   ElementData
}

// ElementData holds the stage-specific knobs a given element name reads
// out of. Fields unused by a given stage are simply left zero.
type ElementData struct {
	Scale      int
	NumNodes   int
	Buildings  []BuildingSpec
	Textures   []TextureDescriptor
	GridWidth  int
	GridHeight int
	CellWidth  int
	CellHeight int
	LineWidth  int

	// SpecBuildings are tried, in order, before falling back to a
	// weighted pick from Buildings (town_impl/element_town.py:
	// spec_buildings, consumed front-to-back with pop(0)).
	SpecBuildings []BuildingSpec

	// BridgeTextures resolve the water-crossing segments of a road
	// network; Textures supplies the ordinary road surface
	// (element_town.py: self.bridge, self.road).
	BridgeTextures []TextureDescriptor

	// Interior resource groups: a room's floor, its two wall
	// decoration levels, and its roof/void fill
	// (element_room.py: self.floor, self.wall_lv1, self.wall_lv2, self.roof).
	FloorTextures   []TextureDescriptor
	WallLv1Textures []TextureDescriptor
	WallLv2Textures []TextureDescriptor
	RoofTextures    []TextureDescriptor
}

// BuildingSpec names a building a town/village stage tries to place,
// resolved into a placeable object through the registry like any other
// TextureDescriptor (town_impl/element_town.py: Building).
type BuildingSpec struct {
	Name      string
	Image     string
	Width     int
	Height    int
	Rate      int
	Collision bool
	Cover     bool
	Functions []string
}

// Descriptor converts b into the TextureDescriptor shape LoadObject
// expects.
func (b BuildingSpec) Descriptor() TextureDescriptor {
	return TextureDescriptor{
		Name:      b.Name,
		Image:     b.Image,
		Width:     b.Width,
		Height:    b.Height,
		Rate:      b.Rate,
		Type:      "object",
		Collision: b.Collision,
		Cover:     b.Cover,
		Functions: b.Functions,
	}
}

// TextureDescriptor is the declarative description of a texture
// resource an element references by name/image; it is resolved into a
// concrete TextureTile/TextureAutoTile/TextureObject during preload
// (schema.py: TileDescriptor/AutoTileDescriptor/ObjectDescriptor).
type TextureDescriptor struct {
	Name      string
	Image     string
	Collision bool
	Cover     bool
	Rate      int
	Type      string // "tile" | "auto_tile" | "object"
	Method    string // tile48 | inner16 | blob47, for auto_tile
	Width     int    // object grid width, in cells
	Height    int    // object grid height, in cells
	Functions []string
}

// Layout selects between the Village and Town stage families.
type Layout string

const (
	LayoutVillage Layout = "Village"
	LayoutTown    Layout = "Town"
)

// Scene names the seasonal palette; Summer is the only value the
// original ever ships.
type Scene string

const SceneSummer Scene = "Summer"

// TreeLevel is the qualitative tree-density knob MapGenSetting exposes.
type TreeLevel string

const (
	TreeSparse         TreeLevel = "Sparse"
	TreeSlightlyDense  TreeLevel = "Slightly Dense"
	TreeDense          TreeLevel = "Dense"
	TreeLush           TreeLevel = "Lush"
)

// treeScales maps TreeLevel to the integer scale noise presets key off
// of (schema.py / globalvaris.py: TreeLevel).
var treeScales = map[TreeLevel]int{
	TreeSparse:        1,
	TreeDense:         2,
	TreeSlightlyDense: 3,
	TreeLush:          4,
}

// Scale returns the integer scale for t, or 0 if unknown.
func (t TreeLevel) Scale() int { return treeScales[t] }

// WaterLevel is the qualitative water-feature knob MapGenSetting exposes.
type WaterLevel string

const (
	WaterPond   WaterLevel = "Pond"
	WaterStream WaterLevel = "Stream"
	WaterRiver  WaterLevel = "River"
	WaterCreek  WaterLevel = "Creek"
	WaterOcean  WaterLevel = "Ocean"
	WaterCoast  WaterLevel = "Coast"
)

// waterScales maps WaterLevel to the integer scale river presets key
// off of (schema.py / globalvaris.py: WaterLevel).
var waterScales = map[WaterLevel]int{
	WaterPond:   1,
	WaterStream: 2,
	WaterRiver:  3,
	WaterCreek:  4,
	WaterOcean:  5,
	WaterCoast:  6,
}

// Scale returns the integer scale for w, or 0 if unknown.
func (w WaterLevel) Scale() int { return waterScales[w] }

// MapGenSetting is the higher-level convenience record (spec.md §6:
// "MapGenSetting is an equivalent higher-level record"). Nothing in this
// module converts it into a Config; it carries the enums and, through
// TreeLevel/WaterLevel, their scale lookups.
type MapGenSetting struct {
	Layout   Layout
	Scene    Scene
	Building int
	Tree     TreeLevel
	Water    WaterLevel
}
