package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

// actGrazer: starve, breed, then graze or wander. Food and movement targets
// are restricted to cells without an occupant.
func actGrazer(a *Arena, e ecs.Entity) {
	p := a.params
	g := a.grazerMap.Get(e)

	g.Health--
	if g.Health <= 0 {
		g.Health = 0
		a.Kill(e, components.CauseStarvation)
		return
	}

	at := a.Position(e)
	g.Cycle++
	if g.Cycle%p.BreedingPeriod == 0 {
		if to, ok := a.grid.FreeAdjacent(at); ok {
			a.Spawn(components.KindGrazer, to)
			// Entity creation may move component storage.
			g = a.grazerMap.Get(e)
		}
	}

	free := a.grid.FreeAdjacentAll(at)
	if len(free) == 0 {
		a.Kill(e, components.CauseOvercrowding)
		return
	}

	best, most := free[0], a.grid.PlantCount(free[0])
	for _, c := range free[1:] {
		if n := a.grid.PlantCount(c); n > most {
			best, most = c, n
		}
	}

	if most > 0 {
		food := a.grid.PlantsAt(best)[0]
		a.Kill(food.Entity, components.CauseEaten)
		g.Health = min(g.Health+p.FoodValue, p.MaxHealth)
	}
	a.Move(e, best)
}
