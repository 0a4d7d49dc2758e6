package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
)

// seedAttemptsPerCell bounds random placement retries in counts mode.
const seedAttemptsPerCell = 4

// populate seeds the initial population according to seeding.mode.
func (s *Simulation) populate() {
	if s.cfg.Seeding.Mode == config.SeedingDensity {
		s.populateDensity()
		return
	}
	pop := s.cfg.Population
	s.populateCount(components.KindGrazer, pop.Grazers)
	s.populateCount(components.KindWoody, pop.Woody)
	s.populateCount(components.KindGroundCover, pop.GroundCover)
}

// populateCount places n entities of kind at uniformly random cells.
// Refused placements are redrawn; once the attempt budget is spent the
// remainder is skipped.
func (s *Simulation) populateCount(kind components.Kind, n int) {
	w, h := s.grid.Width(), s.grid.Height()
	attempts := w * h * seedAttemptsPerCell
	for placed := 0; placed < n && attempts > 0; attempts-- {
		p := components.Position{Row: s.rng.Intn(h), Col: s.rng.Intn(w)}
		if kind.IsPlant() && s.grid.Full(p) {
			continue
		}
		if _, ok := s.arena.Spawn(kind, p); ok {
			placed++
		}
	}
}

// populateDensity walks cells row-major and draws once per species per
// cell, stopping at the first success. Population counts are ignored.
func (s *Simulation) populateDensity() {
	sd := s.cfg.Seeding
	chain := [...]struct {
		kind components.Kind
		prob float64
	}{
		{components.KindGrazer, sd.GrazerProbability},
		{components.KindWoody, sd.WoodyProbability},
		{components.KindGroundCover, sd.GroundCoverProbability},
	}

	for row := 0; row < s.grid.Height(); row++ {
		for col := 0; col < s.grid.Width(); col++ {
			p := components.Position{Row: row, Col: col}
			for _, link := range chain {
				if s.rng.Float64() < link.prob {
					s.arena.Spawn(link.kind, p)
					break
				}
			}
		}
	}
}

// Ignite starts a Blaze at a uniformly random cell. An occupied cell
// smothers the ignition. The Blaze joins the population at the next commit.
func (s *Simulation) Ignite() bool {
	p := components.Position{
		Row: s.rng.Intn(s.grid.Height()),
		Col: s.rng.Intn(s.grid.Width()),
	}
	if _, ok := s.arena.Spawn(components.KindBlaze, p); !ok {
		s.collector.RecordSmothered()
		return false
	}
	s.collector.RecordIgnition()
	return true
}

// Spawn places a new entity between turns. It takes part from the next
// turn on. Returns false when the placement is refused.
func (s *Simulation) Spawn(kind components.Kind, p components.Position) (ecs.Entity, bool) {
	e, ok := s.arena.Spawn(kind, p)
	s.arena.Commit()
	return e, ok
}
