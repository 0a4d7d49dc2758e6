package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

// Events receives lifecycle notifications from the arena.
type Events interface {
	RecordBirth(kind components.Kind)
	RecordDeath(kind components.Kind, cause components.Cause)
}

type nopEvents struct{}

func (nopEvents) RecordBirth(components.Kind)                   {}
func (nopEvents) RecordDeath(components.Kind, components.Cause) {}

// Arena owns every entity of a run. Component data lives in the ECS world;
// the grid stores handles only, and each entity stores only its position.
//
// Entities created during a turn go to a pending list and join the roster
// at Commit. Killed entities leave the grid immediately and leave the world
// at Commit.
type Arena struct {
	world  *ecs.World
	grid   *Grid
	rng    Source
	params Params
	events Events

	grazerMapper *ecs.Map3[components.Position, components.Organism, components.Grazer]
	floraMapper  *ecs.Map3[components.Position, components.Organism, components.Flora]
	blazeMapper  *ecs.Map2[components.Position, components.Organism]

	posMap    *ecs.Map[components.Position]
	orgMap    *ecs.Map[components.Organism]
	grazerMap *ecs.Map[components.Grazer]
	floraMap  *ecs.Map[components.Flora]
	orgFilter ecs.Filter1[components.Organism]

	roster  []ecs.Entity // insertion order
	pending []ecs.Entity // born this turn
	dead    []ecs.Entity // killed this turn

	nextID uint32
	turn   int
}

// NewArena creates an empty arena over grid. The grid must be empty.
func NewArena(grid *Grid, rng Source, params Params) *Arena {
	world := ecs.NewWorld()
	return &Arena{
		world:        world,
		grid:         grid,
		rng:          rng,
		params:       params,
		events:       nopEvents{},
		grazerMapper: ecs.NewMap3[components.Position, components.Organism, components.Grazer](world),
		floraMapper:  ecs.NewMap3[components.Position, components.Organism, components.Flora](world),
		blazeMapper:  ecs.NewMap2[components.Position, components.Organism](world),
		posMap:       ecs.NewMap[components.Position](world),
		orgMap:       ecs.NewMap[components.Organism](world),
		grazerMap:    ecs.NewMap[components.Grazer](world),
		floraMap:     ecs.NewMap[components.Flora](world),
		orgFilter:    *ecs.NewFilter1[components.Organism](world),
	}
}

// SetEvents installs the lifecycle sink. nil restores the no-op sink.
func (a *Arena) SetEvents(ev Events) {
	if ev == nil {
		ev = nopEvents{}
	}
	a.events = ev
}

// Grid returns the arena's grid.
func (a *Arena) Grid() *Grid { return a.grid }

// Params returns the behavior parameters.
func (a *Arena) Params() Params { return a.params }

// BeginTurn stamps subsequent births with turn.
func (a *Arena) BeginTurn(turn int) { a.turn = turn }

// Spawn creates an entity of kind at p and places it on the grid. The entity
// joins the roster at the next Commit.
//
// An animal or fire is refused when p already has an occupant. A plant that
// does not fit is recorded as a rejected death and never created. A woody
// plant entering a full cell kills the ground cover it displaces.
func (a *Arena) Spawn(kind components.Kind, p components.Position) (ecs.Entity, bool) {
	if !a.grid.InBounds(p) {
		return ecs.Entity{}, false
	}
	switch {
	case kind.IsOccupant():
		if !a.grid.Occupant(p).Empty() {
			return ecs.Entity{}, false
		}
	case kind.IsPlant():
		if a.grid.Full(p) && (kind != components.KindWoody || a.grid.CountKind(p, components.KindGroundCover) == 0) {
			a.events.RecordDeath(kind, components.CauseRejected)
			return ecs.Entity{}, false
		}
	default:
		return ecs.Entity{}, false
	}

	org := components.Organism{ID: a.nextID, Kind: kind, Alive: true, BornTurn: a.turn}
	a.nextID++
	at := p

	var e ecs.Entity
	switch kind {
	case components.KindGrazer:
		e = a.grazerMapper.NewEntity(&at, &org, &components.Grazer{Health: a.params.MaxHealth})
	case components.KindGroundCover, components.KindWoody:
		e = a.floraMapper.NewEntity(&at, &org, &components.Flora{})
	case components.KindBlaze:
		e = a.blazeMapper.NewEntity(&at, &org)
	}

	slot := Slot{Entity: e, Kind: kind}
	if kind.IsPlant() {
		if _, displaced := a.grid.PlacePlant(slot, p); !displaced.Empty() {
			a.Kill(displaced.Entity, components.CauseDisplaced)
		}
	} else {
		a.grid.Place(slot, p)
	}

	a.pending = append(a.pending, e)
	a.events.RecordBirth(kind)
	return e, true
}

// Kill marks e dead and removes it from its cell. Killing a dead entity is a
// no-op.
func (a *Arena) Kill(e ecs.Entity, cause components.Cause) {
	org := a.orgMap.Get(e)
	if !org.Alive {
		return
	}
	org.Alive = false
	org.Cause = cause

	at := *a.posMap.Get(e)
	if org.Kind.IsPlant() {
		a.grid.RemovePlant(at, e)
	} else if a.grid.Occupant(at).Entity == e {
		a.grid.Clear(at)
	}

	a.dead = append(a.dead, e)
	a.events.RecordDeath(org.Kind, cause)
}

// Move relocates an animal or fire to p, which must have no occupant.
func (a *Arena) Move(e ecs.Entity, p components.Position) {
	pos := a.posMap.Get(e)
	kind := a.orgMap.Get(e).Kind
	if a.grid.Occupant(*pos).Entity == e {
		a.grid.Clear(*pos)
	}
	*pos = p
	a.grid.Place(Slot{Entity: e, Kind: kind}, p)
}

// Act runs the behavior rule for e and reports whether it acted. Dead
// entities are skipped.
func (a *Arena) Act(e ecs.Entity) bool {
	org := a.orgMap.Get(e)
	if !org.Alive {
		return false
	}
	if rule := rules[org.Kind]; rule != nil {
		rule(a, e)
	}
	return true
}

// Commit removes this turn's dead from the world and appends surviving
// newborns to the roster. It returns how many entities joined and left.
func (a *Arena) Commit() (born, died int) {
	died = len(a.dead)
	for _, e := range a.dead {
		a.world.RemoveEntity(e)
	}
	a.dead = a.dead[:0]

	live := a.roster[:0]
	for _, e := range a.roster {
		if a.world.Alive(e) {
			live = append(live, e)
		}
	}
	for _, e := range a.pending {
		if a.world.Alive(e) {
			live = append(live, e)
			born++
		}
	}
	a.roster = live
	a.pending = a.pending[:0]
	return born, died
}

// Roster returns a copy of the committed population in insertion order.
func (a *Arena) Roster() []ecs.Entity {
	return slices.Clone(a.roster)
}

// Pending returns the number of entities waiting to join the roster.
func (a *Arena) Pending() int { return len(a.pending) }

// Len returns the committed population size.
func (a *Arena) Len() int { return len(a.roster) }

// Alive reports whether e exists and has not been killed.
func (a *Arena) Alive(e ecs.Entity) bool {
	return a.world.Alive(e) && a.orgMap.Get(e).Alive
}

// Position returns the cell e occupies.
func (a *Arena) Position(e ecs.Entity) components.Position {
	return *a.posMap.Get(e)
}

// Organism returns the shared state of e.
func (a *Arena) Organism(e ecs.Entity) *components.Organism {
	return a.orgMap.Get(e)
}

// GrazerState returns the grazer payload of e, or nil for other kinds.
func (a *Arena) GrazerState(e ecs.Entity) *components.Grazer {
	if !a.grazerMap.Has(e) {
		return nil
	}
	return a.grazerMap.Get(e)
}

// FloraState returns the plant payload of e, or nil for other kinds.
func (a *Arena) FloraState(e ecs.Entity) *components.Flora {
	if !a.floraMap.Has(e) {
		return nil
	}
	return a.floraMap.Get(e)
}

// Census counts live entities per kind by querying the world, including
// newborns that have not joined the roster yet.
func (a *Arena) Census() Census {
	var c Census
	query := a.orgFilter.Query()
	for query.Next() {
		org := query.Get()
		if org.Alive {
			c[org.Kind]++
		}
	}
	return c
}
