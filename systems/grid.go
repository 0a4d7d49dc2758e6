// Package systems implements the grid, the entity arena and the per-species
// behavior rules of the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

// Slot references an entity placed in a cell. Kind is immutable for the
// lifetime of the entity, so storing it here never goes stale.
type Slot struct {
	Entity ecs.Entity
	Kind   components.Kind
}

// Empty reports whether the slot holds nothing.
func (s Slot) Empty() bool { return s.Kind == components.KindNone }

// Cell holds at most one animal/fire occupant and a bounded plant list.
type Cell struct {
	occupant Slot
	plants   []Slot
}

// PlantOutcome is the result of PlacePlant.
type PlantOutcome uint8

const (
	PlantAppended  PlantOutcome = iota // cell had room
	PlantDisplaced                     // a ground cover was pushed out to make room
	PlantRejected                      // cell full and nothing displaceable
)

// neighborOffsets enumerates the 8-neighborhood row-major from the top-left.
var neighborOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Grid is a fixed-size, non-wrapping field of cells in row-major order.
type Grid struct {
	width     int
	height    int
	maxPlants int
	cells     []Cell
}

// NewGrid allocates an empty grid. Non-positive dimensions are clamped to 1.
func NewGrid(width, height, maxPlants int) *Grid {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	if maxPlants <= 0 {
		maxPlants = 1
	}
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i].plants = make([]Slot, 0, maxPlants)
	}
	return &Grid{width: width, height: height, maxPlants: maxPlants, cells: cells}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// MaxPlants returns the per-cell plant capacity.
func (g *Grid) MaxPlants() int { return g.maxPlants }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p components.Position) bool {
	return p.Row >= 0 && p.Row < g.height && p.Col >= 0 && p.Col < g.width
}

func (g *Grid) cell(p components.Position) *Cell {
	return &g.cells[p.Row*g.width+p.Col]
}

// Reset empties every cell.
func (g *Grid) Reset() {
	for i := range g.cells {
		g.cells[i].occupant = Slot{}
		g.cells[i].plants = g.cells[i].plants[:0]
	}
}

// Occupant returns the animal/fire occupant at p.
func (g *Grid) Occupant(p components.Position) Slot {
	return g.cell(p).occupant
}

// Place sets the occupant at p, overwriting whatever was there. Callers are
// responsible for clearing the entity's previous position first.
func (g *Grid) Place(s Slot, p components.Position) {
	g.cell(p).occupant = s
}

// Clear removes the occupant at p. Plants are untouched.
func (g *Grid) Clear(p components.Position) {
	g.cell(p).occupant = Slot{}
}

// AdjacentInto appends the in-bounds neighbors of p to dst in enumeration
// order and returns the extended slice.
func (g *Grid) AdjacentInto(dst []components.Position, p components.Position) []components.Position {
	for _, off := range neighborOffsets {
		n := components.Position{Row: p.Row + off[0], Col: p.Col + off[1]}
		if g.InBounds(n) {
			dst = append(dst, n)
		}
	}
	return dst
}

// Adjacent returns the up-to-8 neighbors of p in enumeration order.
func (g *Grid) Adjacent(p components.Position) []components.Position {
	return g.AdjacentInto(make([]components.Position, 0, 8), p)
}

// FreeAdjacent returns the first neighbor of p with no occupant.
func (g *Grid) FreeAdjacent(p components.Position) (components.Position, bool) {
	for _, off := range neighborOffsets {
		n := components.Position{Row: p.Row + off[0], Col: p.Col + off[1]}
		if g.InBounds(n) && g.cell(n).occupant.Empty() {
			return n, true
		}
	}
	return components.Position{}, false
}

// FreeAdjacentAll returns every neighbor of p with no occupant, in
// enumeration order.
func (g *Grid) FreeAdjacentAll(p components.Position) []components.Position {
	var free []components.Position
	for _, off := range neighborOffsets {
		n := components.Position{Row: p.Row + off[0], Col: p.Col + off[1]}
		if g.InBounds(n) && g.cell(n).occupant.Empty() {
			free = append(free, n)
		}
	}
	return free
}

// PlantsAt returns the plant list at p. The slice aliases grid storage and
// is only valid until the next mutation of that cell.
func (g *Grid) PlantsAt(p components.Position) []Slot {
	return g.cell(p).plants
}

// PlantCount returns the number of plants at p.
func (g *Grid) PlantCount(p components.Position) int {
	return len(g.cell(p).plants)
}

// CountKind returns how many plants of kind k are at p.
func (g *Grid) CountKind(p components.Position, k components.Kind) int {
	n := 0
	for _, s := range g.cell(p).plants {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Full reports whether p is at plant capacity.
func (g *Grid) Full(p components.Position) bool {
	return len(g.cell(p).plants) >= g.maxPlants
}

// PlacePlant appends s to the plant list at p. A full cell accepts a woody
// plant by displacing its first ground cover, which is returned so the
// caller can mark it dead. Anything else is rejected and never placed.
func (g *Grid) PlacePlant(s Slot, p components.Position) (PlantOutcome, Slot) {
	c := g.cell(p)
	if len(c.plants) < g.maxPlants {
		c.plants = append(c.plants, s)
		return PlantAppended, Slot{}
	}
	if s.Kind != components.KindWoody {
		return PlantRejected, Slot{}
	}
	for i, existing := range c.plants {
		if existing.Kind == components.KindGroundCover {
			c.plants = append(c.plants[:i], c.plants[i+1:]...)
			c.plants = append(c.plants, s)
			return PlantDisplaced, existing
		}
	}
	return PlantRejected, Slot{}
}

// RemovePlant removes entity e from the plant list at p, preserving order.
func (g *Grid) RemovePlant(p components.Position, e ecs.Entity) bool {
	c := g.cell(p)
	for i, s := range c.plants {
		if s.Entity == e {
			c.plants = append(c.plants[:i], c.plants[i+1:]...)
			return true
		}
	}
	return false
}

// Dominant returns the kind a renderer should show for p:
// blaze or grazer occupant first, then woody, then ground cover.
func (g *Grid) Dominant(p components.Position) components.Kind {
	c := g.cell(p)
	if !c.occupant.Empty() {
		return c.occupant.Kind
	}
	dominant := components.KindNone
	for _, s := range c.plants {
		if s.Kind == components.KindWoody {
			return components.KindWoody
		}
		dominant = components.KindGroundCover
	}
	return dominant
}

// Census counts placed entities per kind.
func (g *Grid) Census() Census {
	var c Census
	for i := range g.cells {
		c[g.cells[i].occupant.Kind]++
		for _, s := range g.cells[i].plants {
			c[s.Kind]++
		}
	}
	c[components.KindNone] = 0
	return c
}

// Census holds per-kind population counts indexed by components.Kind.
type Census [components.NumKinds]int

// Of returns the count for kind k.
func (c Census) Of(k components.Kind) int { return c[k] }

// Plants returns the combined plant count.
func (c Census) Plants() int {
	return c[components.KindGroundCover] + c[components.KindWoody]
}

// Species returns how many kinds (excluding blaze) have at least one member.
func (c Census) Species() int {
	n := 0
	for _, k := range []components.Kind{components.KindGrazer, components.KindGroundCover, components.KindWoody} {
		if c[k] > 0 {
			n++
		}
	}
	return n
}

// Total returns the combined count of all kinds.
func (c Census) Total() int {
	n := 0
	for _, v := range c[1:] {
		n += v
	}
	return n
}
