package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
)

// Params holds the per-species constants the behavior rules read.
type Params struct {
	MaxHealth      int
	BreedingPeriod int
	FoodValue      int

	GroundCoverInterval int
	WoodyInterval       int
	GroundCoverBurn     float64
	WoodyBurn           float64
}

// ParamsFromConfig extracts behavior parameters from a normalized config.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		MaxHealth:           cfg.Grazer.MaxHealth,
		BreedingPeriod:      cfg.Grazer.BreedingPeriod,
		FoodValue:           cfg.Grazer.FoodValue,
		GroundCoverInterval: cfg.GroundCover.SpreadInterval,
		WoodyInterval:       cfg.Woody.SpreadInterval,
		GroundCoverBurn:     cfg.GroundCover.BurnProbability,
		WoodyBurn:           cfg.Woody.BurnProbability,
	}
}

// BurnProbability returns the chance a blaze kills a plant of kind k.
func (p Params) BurnProbability(k components.Kind) float64 {
	switch k {
	case components.KindGroundCover:
		return p.GroundCoverBurn
	case components.KindWoody:
		return p.WoodyBurn
	}
	return 0
}

// Rule advances one live entity by one turn.
type Rule func(a *Arena, e ecs.Entity)

// rules is the behavior table keyed by kind.
var rules = [components.NumKinds]Rule{
	components.KindGrazer:      actGrazer,
	components.KindGroundCover: actGroundCover,
	components.KindWoody:       actWoody,
	components.KindBlaze:       actBlaze,
}
