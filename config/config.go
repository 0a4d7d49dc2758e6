// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Fallback values substituted when a configured value is unusable.
const (
	DefaultWidth            = 12
	DefaultHeight           = 12
	DefaultGrazers          = 15
	DefaultGroundCover      = 25
	DefaultWoody            = 10
	DefaultIgnitionInterval = 10
	DefaultMaxPlants        = 10
	DefaultMaxHealth        = 8
	DefaultBreedingPeriod   = 4
	DefaultFoodValue        = 1
	DefaultGroundCoverCycle = 2
	DefaultWoodyCycle       = 5
	DefaultGroundCoverBurn  = 0.75
	DefaultWoodyBurn        = 0.60
	DefaultMaxTurns         = 4000
	DefaultStatsWindow      = 10
)

// Seeding modes.
const (
	SeedingCounts  = "counts"
	SeedingDensity = "density"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Grid        GridConfig       `yaml:"grid"`
	Population  PopulationConfig `yaml:"population"`
	Seeding     SeedingConfig    `yaml:"seeding"`
	Grazer      GrazerConfig     `yaml:"grazer"`
	GroundCover PlantConfig      `yaml:"ground_cover"`
	Woody       PlantConfig      `yaml:"woody"`
	Plants      PlantsConfig     `yaml:"plants"`
	Fire        FireConfig       `yaml:"fire"`
	Run         RunConfig        `yaml:"run"`
	Telemetry   TelemetryConfig  `yaml:"telemetry"`
	Bookmarks   BookmarksConfig  `yaml:"bookmarks"`
	Screen      ScreenConfig     `yaml:"screen"`
}

// GridConfig holds the field dimensions.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// PopulationConfig holds initial population counts.
type PopulationConfig struct {
	Grazers     int `yaml:"grazers"`
	GroundCover int `yaml:"ground_cover"`
	Woody       int `yaml:"woody"`
	// EnforceOrdering requires ground_cover >= grazers >= woody.
	EnforceOrdering bool `yaml:"enforce_ordering"`
}

// SeedingConfig selects how the initial population is placed.
type SeedingConfig struct {
	Mode                   string  `yaml:"mode"` // "counts" or "density"
	GrazerProbability      float64 `yaml:"grazer_probability"`
	WoodyProbability       float64 `yaml:"woody_probability"`
	GroundCoverProbability float64 `yaml:"ground_cover_probability"`
}

// GrazerConfig holds grazer parameters.
type GrazerConfig struct {
	MaxHealth      int `yaml:"max_health"`
	BreedingPeriod int `yaml:"breeding_period"` // breed when cycle % period == 0
	FoodValue      int `yaml:"food_value"`      // health gained per plant eaten
}

// PlantConfig holds per-species plant parameters.
type PlantConfig struct {
	SpreadInterval  int     `yaml:"spread_interval"`  // spread when age % interval == 0
	BurnProbability float64 `yaml:"burn_probability"` // chance a blaze kills this plant
}

// PlantsConfig holds shared plant parameters.
type PlantsConfig struct {
	MaxPerCell int `yaml:"max_per_cell"`
}

// FireConfig holds ignition parameters.
type FireConfig struct {
	Enabled          bool `yaml:"enabled"`
	IgnitionInterval int  `yaml:"ignition_interval"` // turns between ignitions
}

// RunConfig holds run-length parameters.
type RunConfig struct {
	MaxTurns  int    `yaml:"max_turns"`
	Viability string `yaml:"viability"` // grazers_and_plants, any_life, two_species
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // turns per stats window
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
	PerfCollectorWindow int `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	FireDieOff      DieOffConfig          `yaml:"fire_die_off"`
	GrazerCrash     DieOffConfig          `yaml:"grazer_crash"`
	StableEcosystem StableEcosystemConfig `yaml:"stable_ecosystem"`
}

// DieOffConfig holds population drop detection parameters.
type DieOffConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinGrazers    int     `yaml:"min_grazers"`
	MinPlants     int     `yaml:"min_plants"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
	CellSize  int `yaml:"cell_size"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults, normalized.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	for _, fix := range cfg.Normalize() {
		slog.Warn("config value replaced with default",
			"field", fix.Field,
			"reason", fix.Reason,
		)
	}

	return cfg, nil
}

// Clone returns a copy of the config that can be modified independently.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
