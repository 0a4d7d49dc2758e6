package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
)

// newTestServer returns a server over a 5x5 grid holding one woody plant
// and two ground cover plants. Nothing can die, so every step succeeds.
func newTestServer(t *testing.T) (*game.Simulation, http.Handler) {
	t.Helper()
	cfg := config.Default()
	cfg.Grid.Width = 5
	cfg.Grid.Height = 5
	cfg.Fire.Enabled = false

	sim, err := game.New(game.Options{Seed: 1, Config: cfg, Unseeded: true, Viability: game.AnyLife})
	if err != nil {
		t.Fatalf("game.New: %v", err)
	}
	for _, sp := range []struct {
		kind components.Kind
		pos  components.Position
	}{
		{components.KindWoody, components.Position{Row: 0, Col: 0}},
		{components.KindGroundCover, components.Position{Row: 0, Col: 0}},
		{components.KindGroundCover, components.Position{Row: 4, Col: 4}},
	} {
		if _, ok := sim.Spawn(sp.kind, sp.pos); !ok {
			t.Fatalf("Spawn(%v, %v) refused", sp.kind, sp.pos)
		}
	}
	return sim, New(sim).Routes()
}

func do(t *testing.T, h http.Handler, method, target string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	if out != nil && rec.Code == http.StatusOK {
		if err := json.NewDecoder(rec.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding body: %v", method, target, err)
		}
	}
	return rec.Code
}

// ---------- reads ----------

func TestServer_Health(t *testing.T) {
	_, h := newTestServer(t)
	var body map[string]string
	if code := do(t, h, http.MethodGet, "/api/health", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestServer_State(t *testing.T) {
	_, h := newTestServer(t)
	var st stateResponse
	if code := do(t, h, http.MethodGet, "/api/state", &st); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	if st.Width != 5 || st.Height != 5 || len(st.Cells) != 25 {
		t.Fatalf("got %dx%d with %d cells", st.Width, st.Height, len(st.Cells))
	}
	if st.Turn != 0 || st.Seed != 1 || !st.Viable {
		t.Errorf("turn/seed/viable = %d/%d/%v", st.Turn, st.Seed, st.Viable)
	}
	if st.Census["woody"] != 1 || st.Census["ground_cover"] != 2 || st.Census["grazer"] != 0 {
		t.Errorf("census = %v", st.Census)
	}
	if c := st.Cells[0]; c.Kind != "woody" || c.Plants != 2 {
		t.Errorf("cell (0,0) = %+v, want woody with 2 plants", c)
	}
	if c := st.Cells[24]; c.Kind != "ground_cover" || c.Plants != 1 {
		t.Errorf("cell (4,4) = %+v, want ground_cover with 1 plant", c)
	}
}

func TestServer_Cell(t *testing.T) {
	_, h := newTestServer(t)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/cells/0/0", http.StatusOK},
		{"/api/cells/4/4", http.StatusOK},
		{"/api/cells/5/0", http.StatusNotFound},
		{"/api/cells/-1/2", http.StatusNotFound},
		{"/api/cells/x/0", http.StatusBadRequest},
		{"/api/cells/0/y", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if code := do(t, h, http.MethodGet, tt.target, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}

	var cell cellResponse
	do(t, h, http.MethodGet, "/api/cells/0/0", &cell)
	if cell.Woody != 1 || cell.GroundCover != 1 || cell.Occupant != "none" {
		t.Errorf("cell (0,0) = %+v", cell)
	}
}

// ---------- mutations ----------

func TestServer_Step(t *testing.T) {
	sim, h := newTestServer(t)

	var resp stepResponse
	if code := do(t, h, http.MethodPost, "/api/step?n=3", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if resp.Steps != 3 || resp.Turn != 3 || !resp.Viable {
		t.Errorf("step response = %+v", resp)
	}
	if sim.Turn() != 3 {
		t.Errorf("sim.Turn() = %d, want 3", sim.Turn())
	}

	do(t, h, http.MethodPost, "/api/step", &resp)
	if resp.Steps != 1 || resp.Turn != 4 {
		t.Errorf("default step = %+v", resp)
	}

	for _, bad := range []string{"0", "-2", "abc"} {
		if code := do(t, h, http.MethodPost, "/api/step?n="+bad, nil); code != http.StatusBadRequest {
			t.Errorf("n=%s: status = %d, want 400", bad, code)
		}
	}
}

func TestServer_StepStopsWhenNotViable(t *testing.T) {
	sim, err := game.New(game.Options{Seed: 1, Unseeded: true})
	if err != nil {
		t.Fatal(err)
	}
	h := New(sim).Routes()

	var resp stepResponse
	do(t, h, http.MethodPost, "/api/step?n=10", &resp)
	if resp.Steps != 0 || resp.Viable {
		t.Errorf("empty grid step = %+v", resp)
	}
}

func TestServer_Reset(t *testing.T) {
	sim, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/step?n=2", nil)

	var body map[string]int64
	if code := do(t, h, http.MethodPost, "/api/reset?seed=7", &body); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["seed"] != 7 || sim.Seed() != 7 || sim.Turn() != 0 {
		t.Errorf("after reset seed=%d sim seed=%d turn=%d", body["seed"], sim.Seed(), sim.Turn())
	}

	do(t, h, http.MethodPost, "/api/reset", &body)
	if body["seed"] != 8 {
		t.Errorf("default reset seed = %d, want 8", body["seed"])
	}

	if code := do(t, h, http.MethodPost, "/api/reset?seed=abc", nil); code != http.StatusBadRequest {
		t.Errorf("bad seed status = %d, want 400", code)
	}
}

func TestServer_Ignite(t *testing.T) {
	sim, h := newTestServer(t)

	// No grazers, so nothing can smother the ignition.
	var resp igniteResponse
	if code := do(t, h, http.MethodPost, "/api/ignite", &resp); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !resp.Ignited || resp.Turn != 0 {
		t.Errorf("ignite response = %+v", resp)
	}

	var st stateResponse
	do(t, h, http.MethodGet, "/api/state", &st)
	blazes := 0
	for _, c := range st.Cells {
		if c.Kind == "blaze" {
			blazes++
		}
	}
	if blazes != 1 {
		t.Errorf("blaze cells = %d, want 1", blazes)
	}
	if sim.Turn() != 0 {
		t.Errorf("ignite advanced the turn to %d", sim.Turn())
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t)
	if code := do(t, h, http.MethodGet, "/api/step", nil); code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/step status = %d, want 405", code)
	}
}
