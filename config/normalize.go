package config

import "fmt"

// Fix records one configuration value that was replaced by a default.
type Fix struct {
	Field  string
	Reason string
}

// Normalize replaces unusable values with documented defaults and reports
// every substitution. Configuration errors are never fatal.
func (c *Config) Normalize() []Fix {
	var fixes []Fix
	fix := func(field, reason string) {
		fixes = append(fixes, Fix{Field: field, Reason: reason})
	}

	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		fix("grid", "dimensions must be greater than zero")
		c.Grid.Width = DefaultWidth
		c.Grid.Height = DefaultHeight
	}

	p := &c.Population
	switch {
	case p.Grazers < 0 || p.GroundCover < 0 || p.Woody < 0:
		fix("population", "counts must not be negative")
		p.resetCounts()
	case p.Grazers == 0 && p.GroundCover == 0 && p.Woody == 0:
		fix("population", "all counts are zero")
		p.resetCounts()
	case p.EnforceOrdering && (p.GroundCover < p.Grazers || p.Grazers < p.Woody):
		fix("population", "ground_cover >= grazers >= woody is required")
		p.resetCounts()
	}

	s := &c.Seeding
	if s.Mode != SeedingCounts && s.Mode != SeedingDensity {
		fix("seeding.mode", "unknown mode")
		s.Mode = SeedingCounts
	}
	if !unit(s.GrazerProbability) {
		fix("seeding.grazer_probability", "must be within [0, 1]")
		s.GrazerProbability = 0.05
	}
	if !unit(s.WoodyProbability) {
		fix("seeding.woody_probability", "must be within [0, 1]")
		s.WoodyProbability = 0.25
	}
	if !unit(s.GroundCoverProbability) {
		fix("seeding.ground_cover_probability", "must be within [0, 1]")
		s.GroundCoverProbability = 0.10
	}

	if c.Grazer.MaxHealth <= 0 {
		fix("grazer.max_health", "must be positive")
		c.Grazer.MaxHealth = DefaultMaxHealth
	} else if c.Grazer.MaxHealth > DefaultMaxHealth {
		fix("grazer.max_health", fmt.Sprintf("capped at %d", DefaultMaxHealth))
		c.Grazer.MaxHealth = DefaultMaxHealth
	}
	if c.Grazer.BreedingPeriod <= 0 {
		fix("grazer.breeding_period", "must be positive")
		c.Grazer.BreedingPeriod = DefaultBreedingPeriod
	}
	if c.Grazer.FoodValue < 0 {
		fix("grazer.food_value", "must not be negative")
		c.Grazer.FoodValue = DefaultFoodValue
	}

	if c.GroundCover.SpreadInterval <= 0 {
		fix("ground_cover.spread_interval", "must be positive")
		c.GroundCover.SpreadInterval = DefaultGroundCoverCycle
	}
	if !unit(c.GroundCover.BurnProbability) {
		fix("ground_cover.burn_probability", "must be within [0, 1]")
		c.GroundCover.BurnProbability = DefaultGroundCoverBurn
	}
	if c.Woody.SpreadInterval <= 0 {
		fix("woody.spread_interval", "must be positive")
		c.Woody.SpreadInterval = DefaultWoodyCycle
	}
	if !unit(c.Woody.BurnProbability) {
		fix("woody.burn_probability", "must be within [0, 1]")
		c.Woody.BurnProbability = DefaultWoodyBurn
	}

	if c.Plants.MaxPerCell <= 0 {
		fix("plants.max_per_cell", "must be positive")
		c.Plants.MaxPerCell = DefaultMaxPlants
	} else if c.Plants.MaxPerCell > DefaultMaxPlants {
		fix("plants.max_per_cell", fmt.Sprintf("capped at %d", DefaultMaxPlants))
		c.Plants.MaxPerCell = DefaultMaxPlants
	}

	if c.Fire.IgnitionInterval <= 0 {
		fix("fire.ignition_interval", "must be positive")
		c.Fire.IgnitionInterval = DefaultIgnitionInterval
	}

	if c.Run.MaxTurns <= 0 {
		fix("run.max_turns", "must be positive")
		c.Run.MaxTurns = DefaultMaxTurns
	}
	switch c.Run.Viability {
	case "grazers_and_plants", "any_life", "two_species":
	default:
		fix("run.viability", "unknown predicate")
		c.Run.Viability = "grazers_and_plants"
	}

	if c.Telemetry.StatsWindow <= 0 {
		c.Telemetry.StatsWindow = DefaultStatsWindow
	}
	if c.Telemetry.BookmarkHistorySize < 5 {
		c.Telemetry.BookmarkHistorySize = 5
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 60
	}

	if c.Screen.CellSize <= 0 {
		c.Screen.CellSize = 48
	}

	return fixes
}

func (p *PopulationConfig) resetCounts() {
	p.Grazers = DefaultGrazers
	p.GroundCover = DefaultGroundCover
	p.Woody = DefaultWoody
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
