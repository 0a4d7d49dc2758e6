// Package telemetry provides population tracking, bookmarking, and run output.
package telemetry

import "github.com/pthm-cable/grove/components"

// Collector accumulates lifecycle events within turn windows and produces
// WindowStats.
type Collector struct {
	windowTurns int

	// Current window tracking
	windowStart int

	// Event counters for current window
	births    [components.NumKinds]int
	deaths    [components.NumKinds]int
	causes    [components.NumCauses]int
	ignitions int
	smothered int
}

// NewCollector creates a collector that flushes every windowTurns turns.
func NewCollector(windowTurns int) *Collector {
	if windowTurns < 1 {
		windowTurns = 1
	}
	return &Collector{windowTurns: windowTurns}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth(kind components.Kind) {
	c.births[kind]++
}

// RecordDeath records a death event.
func (c *Collector) RecordDeath(kind components.Kind, cause components.Cause) {
	c.deaths[kind]++
	c.causes[cause]++
}

// RecordIgnition records a scheduled or manual ignition that placed a blaze.
func (c *Collector) RecordIgnition() {
	c.ignitions++
}

// RecordSmothered records an ignition that landed on an occupied cell.
func (c *Collector) RecordSmothered() {
	c.smothered++
}

// ShouldFlush returns true if enough turns have passed to flush the window.
func (c *Collector) ShouldFlush(turn int) bool {
	return turn-c.windowStart >= c.windowTurns
}

// WindowTurns returns the number of turns per window.
func (c *Collector) WindowTurns() int {
	return c.windowTurns
}

// Flush produces a WindowStats and resets counters for the next window.
// population is the live count per kind at the end of the window and
// plantsPerCell holds one plant count per grid cell.
func (c *Collector) Flush(turn int, population [components.NumKinds]int, plantsPerCell []float64) WindowStats {
	mean, std, p10, p50, p90 := ComputeDensityStats(plantsPerCell)

	covered := 0
	for _, n := range plantsPerCell {
		if n > 0 {
			covered++
		}
	}
	var coverage float64
	if len(plantsPerCell) > 0 {
		coverage = float64(covered) / float64(len(plantsPerCell))
	}

	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   turn,

		Grazers:     population[components.KindGrazer],
		GroundCover: population[components.KindGroundCover],
		Woody:       population[components.KindWoody],
		Blazes:      population[components.KindBlaze],

		GrazerBirths:      c.births[components.KindGrazer],
		GroundCoverBirths: c.births[components.KindGroundCover],
		WoodyBirths:       c.births[components.KindWoody],
		BlazeSpawns:       c.births[components.KindBlaze],

		GrazerDeaths:      c.deaths[components.KindGrazer],
		GroundCoverDeaths: c.deaths[components.KindGroundCover],
		WoodyDeaths:       c.deaths[components.KindWoody],
		BlazeDeaths:       c.deaths[components.KindBlaze],

		Starvation:   c.causes[components.CauseStarvation],
		Overcrowding: c.causes[components.CauseOvercrowding],
		Eaten:        c.causes[components.CauseEaten],
		Burned:       c.causes[components.CauseBurned],
		Displaced:    c.causes[components.CauseDisplaced],
		Rejected:     c.causes[components.CauseRejected],
		Burnout:      c.causes[components.CauseBurnout],

		Ignitions: c.ignitions,
		Smothered: c.smothered,

		PlantDensityMean: mean,
		PlantDensityStd:  std,
		PlantDensityP10:  p10,
		PlantDensityP50:  p50,
		PlantDensityP90:  p90,
		PlantCoverage:    coverage,
	}

	// Reset for next window
	c.windowStart = turn
	c.births = [components.NumKinds]int{}
	c.deaths = [components.NumKinds]int{}
	c.causes = [components.NumCauses]int{}
	c.ignitions = 0
	c.smothered = 0

	return stats
}
