package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

// actBlaze burns the first fuel cell, spreads to every other fuel cell, and
// moves onto the one it burned. Without fuel it wanders; boxed in, it dies.
//
// A fuel cell holds at least one plant and has no occupant.
func actBlaze(a *Arena, e ecs.Entity) {
	at := a.Position(e)

	var fuel []components.Position
	for _, c := range a.grid.Adjacent(at) {
		if a.grid.PlantCount(c) > 0 && a.grid.Occupant(c).Empty() {
			fuel = append(fuel, c)
		}
	}

	if len(fuel) == 0 {
		free := a.grid.FreeAdjacentAll(at)
		if len(free) == 0 {
			a.Kill(e, components.CauseBurnout)
			return
		}
		a.Move(e, free[a.rng.Intn(len(free))])
		return
	}

	target := fuel[0]
	plant := a.grid.PlantsAt(target)[0]
	if a.rng.Float64() <= a.params.BurnProbability(plant.Kind) {
		a.Kill(plant.Entity, components.CauseBurned)
	}

	for _, c := range fuel[1:] {
		a.Spawn(components.KindBlaze, c)
	}

	a.Move(e, target)
}
