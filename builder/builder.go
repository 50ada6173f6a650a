// Package builder orchestrates a full map generation run: it
// constructs the stage list named by a schema.Config in registration
// order, runs every stage's preload concurrently, then runs every
// stage's build sequentially against one shared layered state
// (game/systems/manager.go: GameSystemManager, whose ordered-then-
// catch-unordered Update pass this package generalizes from a
// per-frame loop to a one-shot preload/build pipeline; spec.md §4.11,
// §5).
package builder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"mapgen/elements"
	"mapgen/internal/logx"
	"mapgen/registry"
	"mapgen/schema"
	"mapgen/state"
)

// Builder holds the ordered, enabled stage list for one map generation
// run.
type Builder struct {
	Config schema.Config
	Reg    *registry.Registry

	stages []elements.Stage
}

// New validates cfg and constructs every enabled element in
// cfg.Elements, preserving registration order (map_builder.py:
// MapBuilder.__init__ iterating config["elements"]).
func New(cfg schema.Config, reg *registry.Registry) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Builder{Config: cfg, Reg: reg}
	for _, ec := range cfg.Elements {
		if !ec.Enable {
			continue
		}
		stage, err := newStage(ec)
		if err != nil {
			return nil, err
		}
		b.stages = append(b.stages, stage)
	}
	return b, nil
}

func newStage(ec schema.ElementConfig) (elements.Stage, error) {
	switch ec.Name {
	case "ground":
		return elements.NewGround(ec.Data), nil
	case "river":
		return elements.NewRiver(ec.Data), nil
	case "bush":
		return elements.NewBush(ec.Data), nil
	case "woods":
		return elements.NewWoods(ec.Data), nil
	case "town":
		return elements.NewTown(ec.Data), nil
	case "village":
		return elements.NewVillage(ec.Data), nil
	case "interior":
		return elements.NewInterior(ec.Data), nil
	case "collision":
		return elements.NewCollision(ec.Data), nil
	case "cover":
		return elements.NewCover(ec.Data), nil
	case "town_logic":
		return elements.NewCleanup(ec.Data), nil
	default:
		return nil, fmt.Errorf("builder: unknown element %q", ec.Name)
	}
}

// Stages returns the enabled stage list, in registration order.
func (b *Builder) Stages() []elements.Stage { return b.stages }

// Preload runs every stage's Preload concurrently, fanning out across
// stages the same way each stage's own registry.LoadTileGroup/
// LoadObjectGroup fans out across its own descriptors
// (preloader.py: asyncio.gather over every element's _setup_resources).
//
// Ids a stage's preload allocates through the shared Registry are
// assigned first-come-first-served under a mutex (registry/
// registry.go: nextLocalID), so a tile/object's (tileset_id, local_id)
// can differ between two runs when concurrent stages' image decodes
// finish in a different order. This is the tile-id tolerance spec.md
// §9 explicitly allows ("tile ids... may differ across runs"): the
// resulting *visual* output (which image a cell draws) is unaffected,
// since every stage still resolves the same ref to the same image.
func (b *Builder) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, stage := range b.stages {
		stage := stage
		g.Go(func() error {
			if err := stage.Preload(ctx, b.Reg); err != nil {
				return fmt.Errorf("preload %s: %w", stage.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Build runs every stage's Build in strict registration order against
// one shared state, stopping at the first error
// (game/systems/manager.go: GameSystemManager.UpdateAll's ordered
// pass — this pipeline has no "systems not in the order list" case
// since every constructed stage is already in order).
func (b *Builder) Build(s *state.State) error {
	for _, stage := range b.stages {
		logx.Debug(fmt.Sprintf("building stage %q", stage.Name()))
		if err := stage.Build(s); err != nil {
			return fmt.Errorf("build %s: %w", stage.Name(), err)
		}
	}
	return nil
}

// Run allocates a fresh state for cfg, preloads every stage
// concurrently, then builds them sequentially, returning the finished
// state (map_builder.py: MapBuilder.build).
func (b *Builder) Run(ctx context.Context) (*state.State, error) {
	if err := b.Preload(ctx); err != nil {
		return nil, err
	}
	s := state.New(b.Config.MapID, b.Config.Width, b.Config.Height, b.Config.LayerNums)
	if err := b.Build(s); err != nil {
		return nil, err
	}
	return s, nil
}
