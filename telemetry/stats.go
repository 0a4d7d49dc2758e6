package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a turn window.
type WindowStats struct {
	WindowStart int `csv:"-"`
	WindowEnd   int `csv:"window_end"`

	// Population counts at window end
	Grazers     int `csv:"grazers"`
	GroundCover int `csv:"ground_cover"`
	Woody       int `csv:"woody"`
	Blazes      int `csv:"blazes"`

	// Births during window
	GrazerBirths      int `csv:"grazer_births"`
	GroundCoverBirths int `csv:"ground_cover_births"`
	WoodyBirths       int `csv:"woody_births"`
	BlazeSpawns       int `csv:"blaze_spawns"`

	// Deaths during window
	GrazerDeaths      int `csv:"grazer_deaths"`
	GroundCoverDeaths int `csv:"ground_cover_deaths"`
	WoodyDeaths       int `csv:"woody_deaths"`
	BlazeDeaths       int `csv:"blaze_deaths"`

	// Deaths by cause
	Starvation   int `csv:"starvation"`
	Overcrowding int `csv:"overcrowding"`
	Eaten        int `csv:"eaten"`
	Burned       int `csv:"burned"`
	Displaced    int `csv:"displaced"`
	Rejected     int `csv:"rejected"`
	Burnout      int `csv:"burnout"`

	// Fire starts
	Ignitions int `csv:"ignitions"`
	Smothered int `csv:"smothered"`

	// Plants per cell (sampled at window end)
	PlantDensityMean float64 `csv:"plant_density_mean"`
	PlantDensityStd  float64 `csv:"plant_density_std"`
	PlantDensityP10  float64 `csv:"plant_density_p10"`
	PlantDensityP50  float64 `csv:"plant_density_p50"`
	PlantDensityP90  float64 `csv:"plant_density_p90"`
	PlantCoverage    float64 `csv:"plant_coverage"` // fraction of cells with any plant
}

// Plants returns the combined plant population.
func (s WindowStats) Plants() int {
	return s.GroundCover + s.Woody
}

// ComputeDensityStats calculates mean, standard deviation and empirical
// quantiles of per-cell plant counts.
func ComputeDensityStats(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		mean = values[0]
	} else {
		mean, std = stat.MeanStdDev(values, nil)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)

	return mean, std, p10, p50, p90
}

// CoefficientOfVariation returns stddev/mean of values, or 0 when the mean
// is zero or fewer than two values are given.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStart),
		slog.Int("window_end", s.WindowEnd),
		slog.Int("grazers", s.Grazers),
		slog.Int("ground_cover", s.GroundCover),
		slog.Int("woody", s.Woody),
		slog.Int("blazes", s.Blazes),
		slog.Int("grazer_births", s.GrazerBirths),
		slog.Int("ground_cover_births", s.GroundCoverBirths),
		slog.Int("woody_births", s.WoodyBirths),
		slog.Int("blaze_spawns", s.BlazeSpawns),
		slog.Int("grazer_deaths", s.GrazerDeaths),
		slog.Int("ground_cover_deaths", s.GroundCoverDeaths),
		slog.Int("woody_deaths", s.WoodyDeaths),
		slog.Int("blaze_deaths", s.BlazeDeaths),
		slog.Int("starvation", s.Starvation),
		slog.Int("overcrowding", s.Overcrowding),
		slog.Int("eaten", s.Eaten),
		slog.Int("burned", s.Burned),
		slog.Int("displaced", s.Displaced),
		slog.Int("rejected", s.Rejected),
		slog.Int("burnout", s.Burnout),
		slog.Int("ignitions", s.Ignitions),
		slog.Int("smothered", s.Smothered),
		slog.Float64("plant_density_mean", s.PlantDensityMean),
		slog.Float64("plant_density_std", s.PlantDensityStd),
		slog.Float64("plant_density_p50", s.PlantDensityP50),
		slog.Float64("plant_coverage", s.PlantCoverage),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEnd,
		"grazers", s.Grazers,
		"ground_cover", s.GroundCover,
		"woody", s.Woody,
		"blazes", s.Blazes,
		"grazer_births", s.GrazerBirths,
		"ground_cover_births", s.GroundCoverBirths,
		"woody_births", s.WoodyBirths,
		"blaze_spawns", s.BlazeSpawns,
		"starvation", s.Starvation,
		"overcrowding", s.Overcrowding,
		"eaten", s.Eaten,
		"burned", s.Burned,
		"displaced", s.Displaced,
		"rejected", s.Rejected,
		"burnout", s.Burnout,
		"ignitions", s.Ignitions,
		"smothered", s.Smothered,
		"plant_density_mean", s.PlantDensityMean,
		"plant_density_p90", s.PlantDensityP90,
		"plant_coverage", s.PlantCoverage,
	)
}
