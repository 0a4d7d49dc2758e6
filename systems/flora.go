package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
)

func actGroundCover(a *Arena, e ecs.Entity) {
	f := a.floraMap.Get(e)
	f.Age++
	if !a.params.SpreadDue(components.KindGroundCover, f.Age) {
		return
	}
	if to, ok := a.spreadTarget(a.Position(e)); ok {
		a.Spawn(components.KindGroundCover, to)
	}
}

func actWoody(a *Arena, e ecs.Entity) {
	f := a.floraMap.Get(e)
	f.Age++
	if !a.params.SpreadDue(components.KindWoody, f.Age) {
		return
	}
	at := a.Position(e)
	if to, ok := a.spreadTarget(at); ok {
		a.Spawn(components.KindWoody, to)
		return
	}
	// Every neighbor is full: push out ground cover if any neighbor has some.
	for _, c := range a.grid.Adjacent(at) {
		if a.grid.CountKind(c, components.KindGroundCover) > 0 {
			a.Spawn(components.KindWoody, c)
			return
		}
	}
}

// spreadTarget returns the first adjacent cell under plant capacity.
func (a *Arena) spreadTarget(at components.Position) (components.Position, bool) {
	for _, c := range a.grid.Adjacent(at) {
		if !a.grid.Full(c) {
			return c, true
		}
	}
	return components.Position{}, false
}

// SpreadDue reports whether a plant of kind k at age spreads this turn.
func (p Params) SpreadDue(k components.Kind, age int) bool {
	switch k {
	case components.KindGroundCover:
		return age%p.GroundCoverInterval == 0
	case components.KindWoody:
		return age%p.WoodyInterval == 0
	}
	return false
}
