// Package game drives the turn loop: seeding, ignition, behavior dispatch,
// commit, and telemetry.
package game

import (
	"log/slog"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/systems"
	"github.com/pthm-cable/grove/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed          int64
	Config        *config.Config // nil = embedded defaults
	OutputDir     string         // empty = no CSV output
	SnapshotDir   string         // empty = no bookmark snapshots
	LogStats      bool
	StatsCallback func(telemetry.WindowStats)

	// Viability overrides the predicate named in Config.Run.Viability.
	Viability Viability

	// Source replaces the seeded random source. Reset always reseeds.
	Source systems.Source

	// Unseeded starts from an empty grid; populate it with Spawn.
	Unseeded bool
}

// Simulation owns one run: grid, arena, random source, and telemetry.
type Simulation struct {
	cfg      *config.Config
	seed     int64
	rng      systems.Source
	grid     *systems.Grid
	arena    *systems.Arena
	turn     int
	viable   Viability
	unseeded bool

	// Telemetry
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	snapshotDir   string
	logStats      bool
	statsCallback func(telemetry.WindowStats)
}

// New creates a simulation and seeds the initial population. Output
// directory failures are returned alongside a usable simulation that
// writes nothing.
func New(opts Options) (*Simulation, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	} else {
		cfg = cfg.Clone()
		for _, fix := range cfg.Normalize() {
			slog.Warn("config value replaced with default", "field", fix.Field, "reason", fix.Reason)
		}
	}

	viable := opts.Viability
	if viable == nil {
		viable, _ = ViabilityByName(cfg.Run.Viability)
	}

	s := &Simulation{
		cfg:           cfg,
		viable:        viable,
		unseeded:      opts.Unseeded,
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		snapshotDir:   opts.SnapshotDir,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err == nil {
		s.output = output
		err = output.WriteConfig(cfg)
	}

	rng := opts.Source
	if rng == nil {
		rng = systems.NewSource(opts.Seed)
	}
	s.reset(opts.Seed, rng)

	return s, err
}

// Reset discards the current run and starts over with seed.
func (s *Simulation) Reset(seed int64) {
	s.reset(seed, systems.NewSource(seed))
}

func (s *Simulation) reset(seed int64, rng systems.Source) {
	cfg := s.cfg
	s.seed = seed
	s.rng = rng
	s.turn = 0
	s.grid = systems.NewGrid(cfg.Grid.Width, cfg.Grid.Height, cfg.Plants.MaxPerCell)
	s.arena = systems.NewArena(s.grid, rng, systems.ParamsFromConfig(cfg))
	s.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow)
	s.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks)

	if !s.unseeded {
		s.populate()
	}
	s.arena.Commit()
	s.arena.SetEvents(s.collector)

	census := s.Census()
	slog.Info("simulation reset",
		"seed", seed,
		"width", cfg.Grid.Width,
		"height", cfg.Grid.Height,
		"seeding", cfg.Seeding.Mode,
		"grazers", census.Of(components.KindGrazer),
		"ground_cover", census.Of(components.KindGroundCover),
		"woody", census.Of(components.KindWoody),
	)
}

// Step advances the simulation by one turn.
func (s *Simulation) Step() {
	s.perf.StartTurn()
	s.turn++
	s.arena.BeginTurn(s.turn)

	s.perf.StartPhase(telemetry.PhaseIgnite)
	if s.cfg.Fire.Enabled && s.turn%s.cfg.Fire.IgnitionInterval == 0 {
		s.Ignite()
	}

	// Entities created from here on are pending until commit.
	s.perf.StartPhase(telemetry.PhaseAct)
	acted := 0
	for _, e := range s.arena.Roster() {
		if s.arena.Act(e) {
			acted++
		}
	}

	s.perf.StartPhase(telemetry.PhaseCommit)
	s.arena.Commit()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.recordTurn()
	s.flushTelemetry()

	s.perf.EndTurn(acted)
}

// Run steps while the simulation is viable, for at most maxTurns turns
// (0 = the configured run.max_turns). It returns the number of turns run.
func (s *Simulation) Run(maxTurns int) int {
	if maxTurns <= 0 {
		maxTurns = s.cfg.Run.MaxTurns
	}
	n := 0
	for n < maxTurns && s.Viable() {
		s.Step()
		n++
	}
	return n
}

// Viable reports whether the run should continue.
func (s *Simulation) Viable() bool {
	return s.viable(s.grid)
}

// Turn returns the number of completed turns.
func (s *Simulation) Turn() int { return s.turn }

// Seed returns the seed of the current run.
func (s *Simulation) Seed() int64 { return s.seed }

// Config returns the normalized configuration in use.
func (s *Simulation) Config() *config.Config { return s.cfg }

// Grid returns the live grid. Callers must treat it as read-only.
func (s *Simulation) Grid() *systems.Grid { return s.grid }

// Census returns live population counts per kind.
func (s *Simulation) Census() systems.Census {
	return s.arena.Census()
}

// Perf returns the rolling turn timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perf }

// Close flushes and closes run output.
func (s *Simulation) Close() error {
	return s.output.Close()
}
