// Package server exposes a simulation over HTTP so headless runs can be
// watched and driven from outside the process.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/systems"
)

// MaxStepsPerRequest caps POST /api/step?n=.
const MaxStepsPerRequest = 10000

// Server serializes HTTP access to one simulation. Every mutation happens
// between turns.
type Server struct {
	mu  sync.Mutex
	sim *game.Simulation
}

// New wraps sim. The caller must not step sim directly afterwards.
func New(sim *game.Simulation) *Server {
	return &Server{sim: sim}
}

// Routes configures all routes and returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/state", s.getState)
		r.Get("/census", s.getCensus)
		r.Get("/cells/{row}/{col}", s.getCell)

		r.Post("/step", s.step)
		r.Post("/reset", s.reset)
		r.Post("/ignite", s.ignite)
	})

	return r
}

type cellJSON struct {
	Kind   string `json:"kind"`
	Plants int    `json:"plants"`
}

type stateResponse struct {
	Turn      int            `json:"turn"`
	Seed      int64          `json:"seed"`
	Viable    bool           `json:"viable"`
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	MaxPlants int            `json:"max_plants"`
	Census    map[string]int `json:"census"`
	Cells     []cellJSON     `json:"cells"` // row-major
}

type cellResponse struct {
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Occupant    string `json:"occupant"`
	Health      int    `json:"health,omitempty"`
	Cycle       int    `json:"cycle,omitempty"`
	GroundCover int    `json:"ground_cover"`
	Woody       int    `json:"woody"`
	MaxPlants   int    `json:"max_plants"`
	OldestPlant int    `json:"oldest_plant"`
}

type stepResponse struct {
	Steps  int  `json:"steps"`
	Turn   int  `json:"turn"`
	Viable bool `json:"viable"`
}

type igniteResponse struct {
	Ignited bool `json:"ignited"`
	Turn    int  `json:"turn"`
}

// getState handles GET /api/state
func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.sim.Snapshot()
	resp := stateResponse{
		Turn:      snap.Turn,
		Seed:      s.sim.Seed(),
		Viable:    s.sim.Viable(),
		Width:     snap.Width,
		Height:    snap.Height,
		MaxPlants: snap.MaxPlants,
		Census:    censusJSON(snap.Census),
		Cells:     make([]cellJSON, len(snap.Cells)),
	}
	s.mu.Unlock()

	for i, c := range snap.Cells {
		resp.Cells[i] = cellJSON{Kind: c.Kind.String(), Plants: c.Plants}
	}
	respondJSON(w, http.StatusOK, resp)
}

// getCensus handles GET /api/census
func (s *Server) getCensus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	census := s.sim.Census()
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, censusJSON(census))
}

// getCell handles GET /api/cells/{row}/{col}
func (s *Server) getCell(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid row")
		return
	}
	col, err := strconv.Atoi(chi.URLParam(r, "col"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid col")
		return
	}

	s.mu.Lock()
	info, ok := s.sim.Inspect(components.Position{Row: row, Col: col})
	s.mu.Unlock()
	if !ok {
		respondError(w, http.StatusNotFound, "Cell outside grid")
		return
	}

	respondJSON(w, http.StatusOK, cellResponse{
		Row:         row,
		Col:         col,
		Occupant:    info.Occupant.String(),
		Health:      info.Health,
		Cycle:       info.Cycle,
		GroundCover: info.GroundCover,
		Woody:       info.Woody,
		MaxPlants:   info.MaxPlants,
		OldestPlant: info.OldestPlant,
	})
}

// step handles POST /api/step?n=N. Stepping stops early once the run is no
// longer viable.
func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	n := 1
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = min(parsed, MaxStepsPerRequest)
	}

	s.mu.Lock()
	steps := 0
	for steps < n && s.sim.Viable() {
		s.sim.Step()
		steps++
	}
	resp := stepResponse{Steps: steps, Turn: s.sim.Turn(), Viable: s.sim.Viable()}
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, resp)
}

// reset handles POST /api/reset?seed=S. Without a seed the next seed in
// sequence is used.
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seed := s.sim.Seed() + 1
	if v := r.URL.Query().Get("seed"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid seed")
			return
		}
		seed = parsed
	}

	s.sim.Reset(seed)
	respondJSON(w, http.StatusOK, map[string]int64{"seed": seed})
}

// ignite handles POST /api/ignite. The blaze joins the population at the
// next step.
func (s *Server) ignite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := igniteResponse{Ignited: s.sim.Ignite(), Turn: s.sim.Turn()}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, resp)
}

func censusJSON(c systems.Census) map[string]int {
	out := make(map[string]int, len(components.Kinds))
	for _, k := range components.Kinds {
		out[k.String()] = c.Of(k)
	}
	return out
}

// requestLogger logs one line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
