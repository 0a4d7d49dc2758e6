package game

import (
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/systems"
)

// Viability decides whether a run should continue.
type Viability func(g *systems.Grid) bool

// GrazersAndPlants holds while at least one grazer and one plant remain.
func GrazersAndPlants(g *systems.Grid) bool {
	c := g.Census()
	return c.Of(components.KindGrazer) > 0 && c.Plants() > 0
}

// AnyLife holds while any grazer or plant remains.
func AnyLife(g *systems.Grid) bool {
	c := g.Census()
	return c.Of(components.KindGrazer)+c.Plants() > 0
}

// TwoSpecies holds while more than one species is present. Fire is not a
// species.
func TwoSpecies(g *systems.Grid) bool {
	return g.Census().Species() > 1
}

var viabilities = map[string]Viability{
	"grazers_and_plants": GrazersAndPlants,
	"any_life":           AnyLife,
	"two_species":        TwoSpecies,
}

// ViabilityByName looks up a predicate. Unknown names return
// GrazersAndPlants and false.
func ViabilityByName(name string) (Viability, bool) {
	v, ok := viabilities[name]
	if !ok {
		return GrazersAndPlants, false
	}
	return v, true
}
