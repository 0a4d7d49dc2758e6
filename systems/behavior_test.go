package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
)

type recorder struct {
	births [components.NumKinds]int
	deaths [components.NumCauses]int
}

func (r *recorder) RecordBirth(k components.Kind) { r.births[k]++ }

func (r *recorder) RecordDeath(_ components.Kind, c components.Cause) { r.deaths[c]++ }

func newTestArena(t *testing.T, width, height int, rng Source) *Arena {
	t.Helper()
	cfg := config.Default()
	if rng == nil {
		rng = NewSource(1)
	}
	return NewArena(NewGrid(width, height, cfg.Plants.MaxPerCell), rng, ParamsFromConfig(cfg))
}

func mustSpawn(t *testing.T, a *Arena, k components.Kind, p components.Position) ecs.Entity {
	t.Helper()
	e, ok := a.Spawn(k, p)
	if !ok {
		t.Fatalf("Spawn(%v, %v) refused", k, p)
	}
	return e
}

func fillPlants(t *testing.T, a *Arena, k components.Kind, p components.Position, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		mustSpawn(t, a, k, p)
	}
}

// ---------- Grazer ----------

func TestGrazer_StarvesBeforeMoving(t *testing.T) {
	a := newTestArena(t, 2, 2, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(0, 0))
	fillPlants(t, a, components.KindGroundCover, pos(1, 1), 3)
	a.Commit()

	a.GrazerState(g).Health = 1
	a.Act(g)

	org := a.Organism(g)
	if org.Alive || org.Cause != components.CauseStarvation {
		t.Errorf("alive=%v cause=%v, want dead by starvation", org.Alive, org.Cause)
	}
	if a.GrazerState(g).Health != 0 {
		t.Errorf("health = %d, want 0", a.GrazerState(g).Health)
	}
	if !a.Grid().Occupant(pos(0, 0)).Empty() {
		t.Error("dead grazer still occupies its cell")
	}
	if n := a.Grid().PlantCount(pos(1, 1)); n != 3 {
		t.Errorf("plants = %d, want 3 (starving grazer must not eat)", n)
	}
}

func TestGrazer_EatsFromRichestFreeCell(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(1, 1))
	fillPlants(t, a, components.KindGroundCover, pos(0, 1), 1)
	fillPlants(t, a, components.KindGroundCover, pos(2, 2), 3)
	fillPlants(t, a, components.KindGroundCover, pos(2, 0), 3)
	a.Commit()

	first := a.Grid().PlantsAt(pos(2, 0))[0].Entity
	a.GrazerState(g).Health = 5
	a.Act(g)

	if got := a.Position(g); got != pos(2, 0) {
		t.Errorf("position = %v, want (2,0) (first of the tied richest cells)", got)
	}
	if n := a.Grid().PlantCount(pos(2, 0)); n != 2 {
		t.Errorf("plants left = %d, want 2", n)
	}
	if c := a.Organism(first).Cause; c != components.CauseEaten {
		t.Errorf("eaten plant cause = %v, want eaten", c)
	}
	if h := a.GrazerState(g).Health; h != 5 {
		t.Errorf("health = %d, want 5 (5 - 1 + 1)", h)
	}
}

func TestGrazer_HealthCapped(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(0, 0))
	fillPlants(t, a, components.KindGroundCover, pos(0, 1), 2)
	a.Commit()

	a.GrazerState(g).Health = a.Params().MaxHealth
	a.Act(g)
	if h := a.GrazerState(g).Health; h != a.Params().MaxHealth {
		t.Errorf("health = %d, want %d", h, a.Params().MaxHealth)
	}
}

func TestGrazer_WandersToFirstFreeCell(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(1, 1))
	other := mustSpawn(t, a, components.KindGrazer, pos(0, 0))
	a.Commit()

	a.Act(g)
	if got := a.Position(g); got != pos(0, 1) {
		t.Errorf("position = %v, want (0,1)", got)
	}
	if a.Grid().Occupant(pos(1, 1)).Entity == g {
		t.Error("old cell still references the grazer")
	}
	if a.Grid().Occupant(pos(0, 0)).Entity != other {
		t.Error("neighbor was disturbed")
	}
}

func TestGrazer_Overcrowding(t *testing.T) {
	a := newTestArena(t, 2, 2, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(0, 0))
	mustSpawn(t, a, components.KindGrazer, pos(0, 1))
	mustSpawn(t, a, components.KindBlaze, pos(1, 0))
	mustSpawn(t, a, components.KindGrazer, pos(1, 1))
	a.Commit()

	a.Act(g)
	if c := a.Organism(g).Cause; c != components.CauseOvercrowding {
		t.Errorf("cause = %v, want overcrowding", c)
	}
}

func TestGrazer_BreedsOnCycle(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(1, 1))
	a.Commit()

	a.GrazerState(g).Cycle = a.Params().BreedingPeriod - 1
	a.Act(g)

	if a.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 offspring", a.Pending())
	}
	child := a.Grid().Occupant(pos(0, 0))
	if child.Kind != components.KindGrazer || child.Entity == g {
		t.Fatalf("offspring not at (0,0): %+v", child)
	}
	if h := a.GrazerState(child.Entity).Health; h != a.Params().MaxHealth {
		t.Errorf("offspring health = %d, want %d", h, a.Params().MaxHealth)
	}
	if got := a.Position(g); got != pos(0, 1) {
		t.Errorf("parent position = %v, want (0,1)", got)
	}

	// Off-cycle turns do not breed.
	a.Commit()
	a.Act(g)
	if a.Pending() != 0 {
		t.Errorf("pending = %d after off-cycle turn, want 0", a.Pending())
	}
}

// ---------- Plants ----------

func TestGroundCover_SpreadCadence(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	p := mustSpawn(t, a, components.KindGroundCover, pos(1, 1))
	a.Commit()

	for age := 1; age <= 6; age++ {
		a.Act(p)
		spread := a.Pending() > 0
		if want := age%2 == 0; spread != want {
			t.Errorf("age %d: spread = %v, want %v", age, spread, want)
		}
		a.Commit()
	}
	if a.FloraState(p).Age != 6 {
		t.Errorf("age = %d, want 6", a.FloraState(p).Age)
	}
	// (0,0) is first in enumeration order and stays under capacity.
	if n := a.Grid().PlantCount(pos(0, 0)); n != 3 {
		t.Errorf("cell (0,0) plants = %d, want 3", n)
	}
	for _, c := range []components.Position{pos(0, 1), pos(0, 2), pos(1, 0)} {
		if n := a.Grid().PlantCount(c); n != 0 {
			t.Errorf("cell %v plants = %d, want 0", c, n)
		}
	}
}

func TestGroundCover_SpreadsIntoFirstCellWithRoom(t *testing.T) {
	tests := []struct {
		name string
		full []components.Position
		want components.Position
	}{
		{"occupied neighbor still has room", nil, pos(0, 1)},
		{"skips full neighbor", []components.Position{pos(0, 1)}, pos(1, 0)},
		{"last neighbor", []components.Position{pos(0, 1), pos(1, 0)}, pos(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestArena(t, 2, 2, nil)
			p := mustSpawn(t, a, components.KindGroundCover, pos(0, 0))
			mustSpawn(t, a, components.KindGroundCover, pos(0, 1))
			mustSpawn(t, a, components.KindGroundCover, pos(1, 1))
			for _, c := range tt.full {
				fillPlants(t, a, components.KindGroundCover, c, a.Grid().MaxPlants()-a.Grid().PlantCount(c))
			}
			a.Commit()

			before := a.Grid().PlantCount(tt.want)
			a.FloraState(p).Age = 1
			a.Act(p)

			if n := a.Grid().PlantCount(tt.want); n != before+1 {
				t.Errorf("cell %v plants = %d, want %d", tt.want, n, before+1)
			}
			if a.Pending() != 1 {
				t.Errorf("pending = %d, want 1", a.Pending())
			}
		})
	}
}

func TestGroundCover_NoRoomNoSpread(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	p := mustSpawn(t, a, components.KindGroundCover, pos(0, 0))
	fillPlants(t, a, components.KindGroundCover, pos(0, 1), a.Grid().MaxPlants())
	a.Commit()

	a.FloraState(p).Age = 1
	a.Act(p)
	if a.Pending() != 0 {
		t.Errorf("pending = %d, want 0", a.Pending())
	}
	if n := a.Grid().PlantCount(pos(0, 1)); n != a.Grid().MaxPlants() {
		t.Errorf("plants = %d, want %d", n, a.Grid().MaxPlants())
	}
}

func TestWoody_SpreadCadence(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	w := mustSpawn(t, a, components.KindWoody, pos(1, 1))
	a.Commit()

	for age := 1; age <= 10; age++ {
		a.Act(w)
		spread := a.Pending() > 0
		if want := age%5 == 0; spread != want {
			t.Errorf("age %d: spread = %v, want %v", age, spread, want)
		}
		a.Commit()
	}
}

func TestWoody_PrefersCellUnderCapacity(t *testing.T) {
	a := newTestArena(t, 3, 1, nil)
	fillPlants(t, a, components.KindGroundCover, pos(0, 0), a.Grid().MaxPlants())
	w := mustSpawn(t, a, components.KindWoody, pos(0, 1))
	a.Commit()

	a.FloraState(w).Age = a.Params().WoodyInterval - 1
	a.Act(w)

	if n := a.Grid().CountKind(pos(0, 2), components.KindWoody); n != 1 {
		t.Errorf("woody at (0,2) = %d, want 1", n)
	}
	if n := a.Grid().CountKind(pos(0, 0), components.KindGroundCover); n != a.Grid().MaxPlants() {
		t.Errorf("ground cover at (0,0) = %d, want untouched", n)
	}
}

func TestWoody_DisplacesGroundCoverInFullCell(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	rec := &recorder{}
	w := mustSpawn(t, a, components.KindWoody, pos(0, 0))
	fillPlants(t, a, components.KindGroundCover, pos(0, 1), a.Grid().MaxPlants())
	a.Commit()
	a.SetEvents(rec)

	victim := a.Grid().PlantsAt(pos(0, 1))[0].Entity
	a.FloraState(w).Age = a.Params().WoodyInterval - 1
	a.Act(w)

	full := pos(0, 1)
	if n := a.Grid().PlantCount(full); n != a.Grid().MaxPlants() {
		t.Errorf("plant count = %d, want %d", n, a.Grid().MaxPlants())
	}
	if n := a.Grid().CountKind(full, components.KindGroundCover); n != a.Grid().MaxPlants()-1 {
		t.Errorf("ground cover = %d, want %d", n, a.Grid().MaxPlants()-1)
	}
	if n := a.Grid().CountKind(full, components.KindWoody); n != 1 {
		t.Errorf("woody = %d, want 1", n)
	}
	if c := a.Organism(victim).Cause; c != components.CauseDisplaced {
		t.Errorf("victim cause = %v, want displaced", c)
	}
	if rec.deaths[components.CauseDisplaced] != 1 || rec.births[components.KindWoody] != 1 {
		t.Errorf("events = %+v", rec)
	}
}

func TestWoody_AllWoodyNeighborsBlocksSpread(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	w := mustSpawn(t, a, components.KindWoody, pos(0, 0))
	fillPlants(t, a, components.KindWoody, pos(0, 1), a.Grid().MaxPlants())
	a.Commit()

	a.FloraState(w).Age = a.Params().WoodyInterval - 1
	a.Act(w)
	if a.Pending() != 0 {
		t.Errorf("pending = %d, want 0", a.Pending())
	}
}

// ---------- Blaze ----------

func TestBlaze_KillBoundary(t *testing.T) {
	tests := []struct {
		name  string
		plant components.Kind
		draw  float64
		dies  bool
	}{
		{"ground cover at threshold", components.KindGroundCover, 0.75, true},
		{"ground cover above threshold", components.KindGroundCover, 0.7501, false},
		{"woody at threshold", components.KindWoody, 0.60, true},
		{"woody above threshold", components.KindWoody, 0.61, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &ScriptedSource{Floats: []float64{tt.draw}}
			a := newTestArena(t, 2, 1, src)
			plant := mustSpawn(t, a, tt.plant, pos(0, 1))
			b := mustSpawn(t, a, components.KindBlaze, pos(0, 0))
			a.Commit()

			a.Act(b)

			if dead := !a.Organism(plant).Alive; dead != tt.dies {
				t.Errorf("plant dead = %v, want %v", dead, tt.dies)
			}
			if got := a.Position(b); got != pos(0, 1) {
				t.Errorf("blaze position = %v, want (0,1)", got)
			}
			if floats, ints := src.Draws(); floats != 1 || ints != 0 {
				t.Errorf("draws = %d floats, %d ints; want exactly one float", floats, ints)
			}
		})
	}
}

func TestBlaze_SpreadsToOtherFuelCells(t *testing.T) {
	src := &ScriptedSource{Floats: []float64{0.99}}
	a := newTestArena(t, 3, 3, src)
	b := mustSpawn(t, a, components.KindBlaze, pos(1, 1))
	mustSpawn(t, a, components.KindGroundCover, pos(0, 0))
	mustSpawn(t, a, components.KindWoody, pos(0, 2))
	mustSpawn(t, a, components.KindGroundCover, pos(2, 2))
	mustSpawn(t, a, components.KindGrazer, pos(2, 2))
	a.Commit()

	a.Act(b)

	if got := a.Position(b); got != pos(0, 0) {
		t.Errorf("blaze position = %v, want (0,0)", got)
	}
	if a.Pending() != 1 {
		t.Fatalf("pending = %d, want 1 spawned blaze", a.Pending())
	}
	if k := a.Grid().Occupant(pos(0, 2)).Kind; k != components.KindBlaze {
		t.Errorf("(0,2) occupant = %v, want blaze", k)
	}
	if k := a.Grid().Occupant(pos(2, 2)).Kind; k != components.KindGrazer {
		t.Errorf("(2,2) occupant = %v, want grazer untouched", k)
	}
	if n := a.Grid().PlantCount(pos(0, 0)); n != 1 {
		t.Errorf("fuel cell plants = %d, want 1 (draw above threshold)", n)
	}
}

func TestBlaze_WandersUniformly(t *testing.T) {
	src := &ScriptedSource{Ints: []int{3}}
	a := newTestArena(t, 3, 3, src)
	b := mustSpawn(t, a, components.KindBlaze, pos(1, 1))
	a.Commit()

	a.Act(b)
	if got := a.Position(b); got != pos(1, 0) {
		t.Errorf("position = %v, want (1,0) (fourth free neighbor)", got)
	}
	if floats, ints := src.Draws(); floats != 0 || ints != 1 {
		t.Errorf("draws = %d floats, %d ints; want one int", floats, ints)
	}
}

func TestBlaze_Burnout(t *testing.T) {
	a := newTestArena(t, 1, 1, nil)
	b := mustSpawn(t, a, components.KindBlaze, pos(0, 0))
	a.Commit()

	a.Act(b)
	if c := a.Organism(b).Cause; c != components.CauseBurnout {
		t.Errorf("cause = %v, want burnout", c)
	}
	if !a.Grid().Occupant(pos(0, 0)).Empty() {
		t.Error("burned-out blaze still on grid")
	}
}

// ---------- Arena ----------

func TestArena_SpawnRefusals(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	rec := &recorder{}
	a.SetEvents(rec)

	mustSpawn(t, a, components.KindGrazer, pos(0, 0))
	if _, ok := a.Spawn(components.KindBlaze, pos(0, 0)); ok {
		t.Error("blaze placed onto an occupied cell")
	}
	if _, ok := a.Spawn(components.KindGrazer, pos(5, 5)); ok {
		t.Error("spawn out of bounds accepted")
	}

	fillPlants(t, a, components.KindWoody, pos(0, 1), a.Grid().MaxPlants())
	if _, ok := a.Spawn(components.KindGroundCover, pos(0, 1)); ok {
		t.Error("ground cover placed into a full cell")
	}
	if rec.deaths[components.CauseRejected] != 1 {
		t.Errorf("rejected deaths = %d, want 1", rec.deaths[components.CauseRejected])
	}
}

func TestArena_NewbornsJoinAtCommit(t *testing.T) {
	a := newTestArena(t, 3, 3, nil)
	g := mustSpawn(t, a, components.KindGrazer, pos(1, 1))
	if a.Len() != 0 || a.Pending() != 1 {
		t.Fatalf("len/pending = %d/%d before commit, want 0/1", a.Len(), a.Pending())
	}
	if born, _ := a.Commit(); born != 1 {
		t.Errorf("born = %d, want 1", born)
	}

	a.GrazerState(g).Cycle = a.Params().BreedingPeriod - 1
	a.Act(g)
	roster := a.Roster()
	if len(roster) != 1 || roster[0] != g {
		t.Errorf("roster = %v, want only the parent until commit", roster)
	}
	a.Commit()
	if a.Len() != 2 {
		t.Errorf("len = %d after commit, want 2", a.Len())
	}
}

func TestArena_DeadNewbornNeverJoins(t *testing.T) {
	a := newTestArena(t, 2, 1, nil)
	p := mustSpawn(t, a, components.KindGroundCover, pos(0, 0))
	a.Kill(p, components.CauseBurned)
	a.Kill(p, components.CauseEaten)

	born, died := a.Commit()
	if born != 0 || died != 1 {
		t.Errorf("born/died = %d/%d, want 0/1", born, died)
	}
	if a.Len() != 0 {
		t.Errorf("len = %d, want 0", a.Len())
	}
}

func TestArena_CensusMatchesGrid(t *testing.T) {
	a := newTestArena(t, 6, 6, NewSource(7))
	for i := 0; i < 6; i++ {
		mustSpawn(t, a, components.KindGrazer, pos(i, i))
		mustSpawn(t, a, components.KindGroundCover, pos(i, (i+2)%6))
		mustSpawn(t, a, components.KindWoody, pos((i+3)%6, i))
	}
	mustSpawn(t, a, components.KindBlaze, pos(0, 5))
	a.Commit()

	for turn := 1; turn <= 40; turn++ {
		a.BeginTurn(turn)
		for _, e := range a.Roster() {
			a.Act(e)
		}
		a.Commit()

		if got, want := a.Census(), a.Grid().Census(); got != want {
			t.Fatalf("turn %d: arena census %v != grid census %v", turn, got, want)
		}
		for _, e := range a.Roster() {
			if g := a.GrazerState(e); g != nil && (g.Health < 0 || g.Health > a.Params().MaxHealth) {
				t.Fatalf("turn %d: grazer health %d out of bounds", turn, g.Health)
			}
		}
	}
}
