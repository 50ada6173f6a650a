package elements

import (
	"context"

	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Cleanup clears the scratch layers town/village use for road-routing
// bookkeeping (structure, house-footprint shadows) once every other
// stage has run, so they carry no stray tiles into the exported
// document (implement/town_impl/element_logic.py: TownLogic; spec.md
// §4.12: "structure and house layers are considered scratch ... an
// implementation may drop them unconditionally").
type Cleanup struct {
	Data schema.ElementData
}

func NewCleanup(data schema.ElementData) *Cleanup { return &Cleanup{Data: data} }

func (c *Cleanup) Name() string { return "town_logic" }

func (c *Cleanup) Preload(ctx context.Context, reg *registry.Registry) error { return nil }

func (c *Cleanup) Build(s *state.State) error {
	s.ClearLayer(state.LayerStructure)
	s.ClearLayer(state.LayerHouse)
	return nil
}
