package game

import (
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/systems"
)

// CellView is the renderable state of one cell.
type CellView struct {
	Kind   components.Kind // dominant entity, KindNone when empty
	Plants int
}

// Snapshot is a read-only copy of the grid taken between turns.
type Snapshot struct {
	Turn      int
	Width     int
	Height    int
	MaxPlants int
	Cells     []CellView // row-major
	Census    systems.Census
}

// At returns the view of cell (row, col).
func (s Snapshot) At(row, col int) CellView {
	return s.Cells[row*s.Width+col]
}

// Snapshot copies the current grid state.
func (s *Simulation) Snapshot() Snapshot {
	g := s.grid
	snap := Snapshot{
		Turn:      s.turn,
		Width:     g.Width(),
		Height:    g.Height(),
		MaxPlants: g.MaxPlants(),
		Cells:     make([]CellView, 0, g.Width()*g.Height()),
		Census:    g.Census(),
	}
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			p := components.Position{Row: row, Col: col}
			snap.Cells = append(snap.Cells, CellView{
				Kind:   g.Dominant(p),
				Plants: g.PlantCount(p),
			})
		}
	}
	return snap
}

// CellInfo describes one cell for the inspector.
type CellInfo struct {
	Pos         components.Position
	Occupant    components.Kind
	Health      int // grazer only
	Cycle       int // grazer only
	GroundCover int
	Woody       int
	MaxPlants   int
	OldestPlant int // age of the oldest plant, 0 when bare
}

// Plants returns the combined plant count.
func (c CellInfo) Plants() int { return c.GroundCover + c.Woody }

// View returns the cell as a snapshot would show it.
func (c CellInfo) View() CellView {
	v := CellView{Kind: c.Occupant, Plants: c.Plants()}
	if v.Kind == components.KindNone {
		switch {
		case c.Woody > 0:
			v.Kind = components.KindWoody
		case c.GroundCover > 0:
			v.Kind = components.KindGroundCover
		}
	}
	return v
}

// Inspect reports the contents of cell p. ok is false outside the grid.
func (s *Simulation) Inspect(p components.Position) (CellInfo, bool) {
	g := s.grid
	if !g.InBounds(p) {
		return CellInfo{}, false
	}
	info := CellInfo{
		Pos:         p,
		GroundCover: g.CountKind(p, components.KindGroundCover),
		Woody:       g.CountKind(p, components.KindWoody),
		MaxPlants:   g.MaxPlants(),
	}

	occ := g.Occupant(p)
	info.Occupant = occ.Kind
	if occ.Kind == components.KindGrazer {
		gs := s.arena.GrazerState(occ.Entity)
		info.Health = gs.Health
		info.Cycle = gs.Cycle
	}

	for _, slot := range g.PlantsAt(p) {
		if f := s.arena.FloraState(slot.Entity); f != nil {
			info.OldestPlant = max(info.OldestPlant, f.Age)
		}
	}
	return info, true
}
