package telemetry

import (
	"log/slog"
	"time"
)

// Phase is one timed section of a simulation turn.
type Phase int

// Turn phases in execution order.
const (
	PhaseIgnite Phase = iota
	PhaseAct
	PhaseCommit
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{"ignite", "act", "commit", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= NumPhases {
		return "unknown"
	}
	return phaseNames[p]
}

type turnSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	acted  int
}

// PerfCollector times turns over a rolling window of samples.
type PerfCollector struct {
	samples []turnSample
	next    int
	count   int

	current    turnSample
	turnStart  time.Time
	phaseStart time.Time
	phase      Phase
	timing     bool
}

// NewPerfCollector creates a collector averaging over windowSize turns.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{samples: make([]turnSample, windowSize)}
}

// StartTurn begins timing a new turn.
func (p *PerfCollector) StartTurn() {
	p.turnStart = time.Now()
	p.current = turnSample{}
	p.timing = false
}

// StartPhase closes the running phase, if any, and starts timing ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase = ph
	p.phaseStart = now
	p.timing = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.timing {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTurn records the turn. acted is the number of entities that took an
// action this turn.
func (p *PerfCollector) EndTurn(acted int) {
	now := time.Now()
	p.closePhase(now)
	p.timing = false

	p.current.total = now.Sub(p.turnStart)
	p.current.acted = acted
	p.samples[p.next] = p.current
	p.next = (p.next + 1) % len(p.samples)
	if p.count < len(p.samples) {
		p.count++
	}
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	Turns    int
	AvgTurn  time.Duration
	MinTurn  time.Duration
	MaxTurn  time.Duration
	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // share of the average turn, 0-100

	TurnsPerSecond float64
	ActsPerSecond  float64 // entity actions per second of turn time
	AvgActed       float64
}

// Stats computes statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Turns: p.count}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	var phaseSum [NumPhases]time.Duration
	acted := 0
	for i, smp := range p.samples[:p.count] {
		total += smp.total
		acted += smp.acted
		if i == 0 || smp.total < s.MinTurn {
			s.MinTurn = smp.total
		}
		s.MaxTurn = max(s.MaxTurn, smp.total)
		for ph, d := range smp.phases {
			phaseSum[ph] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTurn = total / n
	s.AvgActed = float64(acted) / float64(p.count)
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTurn > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTurn) * 100
		}
	}
	if total > 0 {
		s.TurnsPerSecond = float64(p.count) / total.Seconds()
		s.ActsPerSecond = float64(acted) / total.Seconds()
	}
	return s
}

// LogStats logs the window at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_turn_us", s.AvgTurn.Microseconds()),
		slog.Int64("min_turn_us", s.MinTurn.Microseconds()),
		slog.Int64("max_turn_us", s.MaxTurn.Microseconds()),
		slog.Float64("turns_per_sec", s.TurnsPerSecond),
		slog.Float64("acts_per_sec", s.ActsPerSecond),
	}
	for ph := Phase(0); ph < NumPhases; ph++ {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.PhasePct[ph]))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgTurnUS    int64   `csv:"avg_turn_us"`
	MinTurnUS    int64   `csv:"min_turn_us"`
	MaxTurnUS    int64   `csv:"max_turn_us"`
	TurnsPerSec  float64 `csv:"turns_per_sec"`
	ActsPerSec   float64 `csv:"acts_per_sec"`
	AvgActed     float64 `csv:"avg_acted"`
	IgnitePct    float64 `csv:"ignite_pct"`
	ActPct       float64 `csv:"act_pct"`
	CommitPct    float64 `csv:"commit_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTurnUS:    s.AvgTurn.Microseconds(),
		MinTurnUS:    s.MinTurn.Microseconds(),
		MaxTurnUS:    s.MaxTurn.Microseconds(),
		TurnsPerSec:  s.TurnsPerSecond,
		ActsPerSec:   s.ActsPerSecond,
		AvgActed:     s.AvgActed,
		IgnitePct:    s.PhasePct[PhaseIgnite],
		ActPct:       s.PhasePct[PhaseAct],
		CommitPct:    s.PhasePct[PhaseCommit],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
