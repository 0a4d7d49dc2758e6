package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTurns   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastTurns   float64 // mean survival from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTurns int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTurns:   maxTurns,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastTurns returns the mean turns survived in the most recent evaluation.
func (fe *FitnessEvaluator) LastTurns() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastTurns
}

// A grazer population below minViablePop for extinctionGraceTurns
// consecutive turns counts as functionally extinct.
const (
	minViablePop         = 2
	extinctionGraceTurns = 20
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTurns int                     // turns before collapse (or maxTurns if survived)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	turns   int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival turns: longer survival = lower (better) fitness.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: fitness(result.survivalTurns, quality),
				quality: quality,
				turns:   result.survivalTurns,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalTurns float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		totalTurns += float64(r.turns)
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastTurns = totalTurns / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
// Runs until collapse or maxTurns, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	sim, err := game.New(game.Options{
		Seed:   seed,
		Config: cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer sim.Close()

	below := 0
	for sim.Turn() < fe.maxTurns && sim.Viable() {
		sim.Step()

		if sim.Census().Of(components.KindGrazer) < minViablePop {
			below++
		} else {
			below = 0
		}
		if below >= extinctionGraceTurns {
			break
		}
	}

	result.survivalTurns = sim.Turn()
	return result
}

// fitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTurns × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func fitness(survivalTurns int, quality float64) float64 {
	return -(float64(survivalTurns) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.30
	qualityWeightCoverage  = 0.20
	qualityWeightDiversity = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
	qualityMinPop        = 3 // exclude windows with fewer grazers or plants

	targetPlantsPerGrazer = 6.0
	targetCoverage        = 0.6
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var ratioSum, coverageSum, diversitySum float64
	var count int
	grazers := make([]float64, 0, len(valid))
	plants := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.Grazers < qualityMinPop || w.Plants() < qualityMinPop {
			continue
		}
		count++
		grazers = append(grazers, float64(w.Grazers))
		plants = append(plants, float64(w.Plants()))

		// 1. Food supply per grazer, scored on a log scale
		logErr := math.Log(float64(w.Plants()) / float64(w.Grazers) / targetPlantsPerGrazer)
		ratioSum += math.Exp(-logErr * logErr)

		// 3. Share of cells with vegetation
		coverageSum += math.Exp(-math.Pow((w.PlantCoverage-targetCoverage)/0.25, 2))

		// 4. Both plant species present
		if w.GroundCover > 0 && w.Woody > 0 {
			diversitySum++
		}
	}

	if count == 0 {
		return 0
	}
	n := float64(count)

	// 2. Population stability across all valid windows
	stabilityScore := 0.0
	if count >= 2 {
		cvG := telemetry.CoefficientOfVariation(grazers)
		cvP := telemetry.CoefficientOfVariation(plants)
		stabilityScore = math.Exp(-(cvG*cvG + cvP*cvP))
	}

	quality := qualityWeightRatio*ratioSum/n +
		qualityWeightStability*stabilityScore +
		qualityWeightCoverage*coverageSum/n +
		qualityWeightDiversity*diversitySum/n

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
