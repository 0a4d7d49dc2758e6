// Package main provides CMA-ES optimization for ecosystem parameters.
package main

import (
	"math"

	"github.com/pthm-cable/grove/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
	Integer bool    // Rounded when applied
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Seeding (density mode)
			{Name: "grazer_probability", Path: "seeding.grazer_probability", Min: 0.01, Max: 0.30, Default: 0.05},
			{Name: "woody_probability", Path: "seeding.woody_probability", Min: 0.05, Max: 0.60, Default: 0.25},
			{Name: "ground_cover_probability", Path: "seeding.ground_cover_probability", Min: 0.05, Max: 0.60, Default: 0.10},
			// Fire
			{Name: "ground_cover_burn", Path: "ground_cover.burn_probability", Min: 0.05, Max: 1.0, Default: 0.75},
			{Name: "woody_burn", Path: "woody.burn_probability", Min: 0.05, Max: 1.0, Default: 0.60},
			{Name: "ignition_interval", Path: "fire.ignition_interval", Min: 2, Max: 60, Default: 10, Integer: true},
			// Grazer
			{Name: "breeding_period", Path: "grazer.breeding_period", Min: 2, Max: 12, Default: 4, Integer: true},
			{Name: "food_value", Path: "grazer.food_value", Min: 1, Max: 4, Default: 1, Integer: true},
			// Plants
			{Name: "ground_cover_interval", Path: "ground_cover.spread_interval", Min: 1, Max: 8, Default: 2, Integer: true},
			{Name: "woody_interval", Path: "woody.spread_interval", Min: 2, Max: 15, Default: 5, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// Named maps parameter names to the values ApplyToConfig would use.
func (pv *ParamVector) Named(values []float64) map[string]float64 {
	clamped := pv.Clamp(values)
	out := make(map[string]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v := clamped[i]
		if spec.Integer {
			v = math.Round(v)
		}
		out[spec.Name] = v
	}
	return out
}

// ApplyToConfig applies parameter values to a Config struct. Seeding is
// switched to density mode so the probabilities take effect.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	round := func(i int) int { return int(math.Round(clamped[i])) }

	// Order must match Specs order
	cfg.Seeding.Mode = config.SeedingDensity
	cfg.Seeding.GrazerProbability = clamped[0]
	cfg.Seeding.WoodyProbability = clamped[1]
	cfg.Seeding.GroundCoverProbability = clamped[2]

	cfg.GroundCover.BurnProbability = clamped[3]
	cfg.Woody.BurnProbability = clamped[4]
	cfg.Fire.IgnitionInterval = round(5)

	cfg.Grazer.BreedingPeriod = round(6)
	cfg.Grazer.FoodValue = round(7)

	cfg.GroundCover.SpreadInterval = round(8)
	cfg.Woody.SpreadInterval = round(9)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Seeding.GrazerProbability,
		cfg.Seeding.WoodyProbability,
		cfg.Seeding.GroundCoverProbability,
		cfg.GroundCover.BurnProbability,
		cfg.Woody.BurnProbability,
		float64(cfg.Fire.IgnitionInterval),
		float64(cfg.Grazer.BreedingPeriod),
		float64(cfg.Grazer.FoodValue),
		float64(cfg.GroundCover.SpreadInterval),
		float64(cfg.Woody.SpreadInterval),
	}
}
