// Package settings persists viewer preferences between sessions.
package settings

import (
	"fmt"
	"log/slog"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user data directory.
const AppName = "grove"

const (
	settingsObject   = "settings"
	settingsProperty = "viewer"
)

// Viewer holds the preferences the graphical viewer restores on start.
type Viewer struct {
	Speed      int     `yaml:"speed"` // turns per frame
	Zoom       float32 `yaml:"zoom"`  // 0 = fit grid
	Fullscreen bool    `yaml:"fullscreen"`
}

// Default returns the preferences used when nothing was saved.
func Default() Viewer {
	return Viewer{Speed: 1}
}

// Backend stores opaque property blobs. *gdata.Manager satisfies it.
type Backend interface {
	ObjectPropExists(objectKey, propKey string) bool
	LoadObjectProp(objectKey, propKey string) ([]byte, error)
	SaveObjectProp(objectKey, propKey string, data []byte) error
}

// Store loads and saves Viewer preferences. A Store without a backend
// keeps preferences in memory only.
type Store struct {
	backend Backend
	viewer  Viewer
}

// Open creates a store backed by the per-user gdata directory. When that
// directory is unavailable the store degrades to memory only and the
// error is returned alongside it.
func Open() (*Store, error) {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		return NewStore(nil), fmt.Errorf("opening data dir: %w", err)
	}
	return NewStore(m), nil
}

// NewStore creates a store over backend and loads saved preferences.
// backend may be nil.
func NewStore(backend Backend) *Store {
	s := &Store{backend: backend, viewer: Default()}
	if err := s.Load(); err != nil {
		slog.Warn("failed to load settings, using defaults", "error", err)
	}
	return s
}

// Load reads saved preferences, falling back to defaults when none exist.
func (s *Store) Load() error {
	s.viewer = Default()
	if s.backend == nil || !s.backend.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := s.backend.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var v Viewer
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if v.Speed < 1 {
		v.Speed = 1
	}
	if v.Zoom < 0 {
		v.Zoom = 0
	}
	s.viewer = v
	return nil
}

// Save writes the current preferences. It is a no-op without a backend.
func (s *Store) Save() error {
	if s.backend == nil {
		return nil
	}

	data, err := yaml.Marshal(s.viewer)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := s.backend.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Viewer returns the current preferences.
func (s *Store) Viewer() Viewer { return s.viewer }

// SetViewer replaces the in-memory preferences. Call Save to persist.
func (s *Store) SetViewer(v Viewer) { s.viewer = v }
