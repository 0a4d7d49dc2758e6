package game

import (
	"log/slog"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/telemetry"
)

// recordTurn appends the end-of-turn census to population.csv.
func (s *Simulation) recordTurn() {
	if s.output == nil {
		return
	}
	c := s.Census()
	rec := telemetry.PopulationRecord{
		Turn:        s.turn,
		Grazers:     c.Of(components.KindGrazer),
		GroundCover: c.Of(components.KindGroundCover),
		Woody:       c.Of(components.KindWoody),
		Blazes:      c.Of(components.KindBlaze),
	}
	if err := s.output.WritePopulation(rec); err != nil {
		slog.Error("failed to write population", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.turn) {
		return
	}

	stats := s.collector.Flush(s.turn, s.Census(), s.plantsPerCell())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if s.output != nil {
		if err := s.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := s.output.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if s.output != nil {
			if err := s.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if s.snapshotDir != "" {
			s.saveSnapshot(&bm)
		}
	}
}

// plantsPerCell samples the plant count of every cell.
func (s *Simulation) plantsPerCell() []float64 {
	g := s.grid
	out := make([]float64, 0, g.Width()*g.Height())
	for row := 0; row < g.Height(); row++ {
		for col := 0; col < g.Width(); col++ {
			out = append(out, float64(g.PlantCount(components.Position{Row: row, Col: col})))
		}
	}
	return out
}

// saveSnapshot creates and saves a snapshot to disk.
func (s *Simulation) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(s.entitySnapshot(bookmark), s.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "turn", s.turn)
}

// entitySnapshot dumps every committed entity in roster order.
func (s *Simulation) entitySnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snap := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		RNGSeed:   s.seed,
		Width:     s.grid.Width(),
		Height:    s.grid.Height(),
		MaxPlants: s.grid.MaxPlants(),
		Turn:      s.turn,
		Bookmark:  bookmark,
	}

	for _, e := range s.arena.Roster() {
		if !s.arena.Alive(e) {
			continue
		}
		org := s.arena.Organism(e)
		pos := s.arena.Position(e)
		state := telemetry.EntityState{
			ID:       org.ID,
			Kind:     org.Kind,
			Row:      pos.Row,
			Col:      pos.Col,
			BornTurn: org.BornTurn,
		}
		if g := s.arena.GrazerState(e); g != nil {
			state.Health = g.Health
			state.Cycle = g.Cycle
		}
		if f := s.arena.FloraState(e); f != nil {
			state.Age = f.Age
		}
		snap.Entities = append(snap.Entities, state)
	}
	return snap
}
