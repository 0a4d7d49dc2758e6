package main

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/camera"
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/renderer"
	"github.com/pthm-cable/grove/settings"
	"github.com/pthm-cable/grove/ui"
)

const (
	gridTop    = 100
	gridLeft   = 10
	panelWidth = 220
)

// viewer drives a simulation from the raylib window loop. All changes to
// the simulation happen between turns.
type viewer struct {
	sim   *game.Simulation
	prefs *settings.Store

	camera    *camera.Camera
	cellSize  float32
	grid      *renderer.GridRenderer
	hud       *ui.HUD
	controls  *ui.ControlPanel
	inspector *ui.Inspector
	perfPanel *ui.PerfPanel

	paused   bool
	speed    int
	maxTurns int

	hovered    components.Position
	hasHovered bool
}

func newViewer(sim *game.Simulation, maxTurns int, prefs *settings.Store) *viewer {
	cfg := sim.Config()
	cellSize := float32(cfg.Screen.CellSize)
	screenW := float32(rl.GetScreenWidth())
	screenH := float32(rl.GetScreenHeight())
	panelX := int32(screenW) - panelWidth - 10

	cam := camera.New(gridLeft, gridTop,
		float32(panelX)-20-gridLeft, screenH-gridTop-40,
		float32(cfg.Grid.Width)*cellSize, float32(cfg.Grid.Height)*cellSize)

	controls := ui.NewControlPanel(panelX, gridTop, panelWidth)
	if maxTurns <= 0 {
		maxTurns = cfg.Run.MaxTurns
	}

	saved := prefs.Viewer()
	if saved.Zoom > 0 {
		cam.SetZoom(saved.Zoom)
	}
	if saved.Fullscreen && !rl.IsWindowFullscreen() {
		rl.ToggleFullscreen()
	}

	grid := renderer.NewGridRenderer(int32(cellSize), gridLeft, gridTop)
	swatch := func(c game.CellView) rl.Color {
		return grid.Palette.CellColor(c, cfg.Plants.MaxPerCell)
	}

	return &viewer{
		sim:       sim,
		prefs:     prefs,
		camera:    cam,
		cellSize:  cellSize,
		grid:      grid,
		hud:       ui.NewHUD(10, 10),
		controls:  controls,
		inspector: ui.NewInspector(panelX, gridTop+controls.Height()+10, ui.CellPanel(cfg.Grazer.MaxHealth, swatch)),
		perfPanel: ui.NewPerfPanel(panelX, int32(cfg.Screen.Height)-110),
		paused:    true,
		speed:     ui.ClampSpeed(saved.Speed),
		maxTurns:  maxTurns,
	}
}

// update handles input and advances the simulation.
func (v *viewer) update() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	v.apply(ui.KeyAction())
	v.handleCameraInput()
	v.grid.Follow(v.camera, v.cellSize)

	mouse := rl.GetMousePosition()
	cfg := v.sim.Config()
	v.hasHovered = false
	if v.camera.InViewport(mouse.X, mouse.Y) {
		v.hovered, v.hasHovered = v.grid.CellAt(int32(mouse.X), int32(mouse.Y), cfg.Grid.Width, cfg.Grid.Height)
	}

	if !v.paused {
		for i := 0; i < v.speed && v.running(); i++ {
			v.sim.Step()
		}
	}
}

// savePrefs stores the current speed, zoom and window mode.
func (v *viewer) savePrefs() {
	v.prefs.SetViewer(settings.Viewer{
		Speed:      v.speed,
		Zoom:       v.camera.Zoom,
		Fullscreen: rl.IsWindowFullscreen(),
	})
	if err := v.prefs.Save(); err != nil {
		slog.Warn("failed to save viewer settings", "error", err)
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (v *viewer) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / v.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -panSpeed)
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}

	// Wheel zooms toward the cursor
	if wheel := rl.GetMouseWheelMove(); wheel != 0 && v.camera.InViewport(mouse.X, mouse.Y) {
		v.camera.ZoomAt(mouse.X, mouse.Y, 1+wheel*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// running reports whether another turn may be taken.
func (v *viewer) running() bool {
	return v.sim.Turn() < v.maxTurns && v.sim.Viable()
}

// apply performs a user action between turns.
func (v *viewer) apply(a ui.Action) {
	switch a {
	case ui.ActionTogglePause:
		v.paused = !v.paused
	case ui.ActionStep:
		v.paused = true
		if v.running() {
			v.sim.Step()
		}
	case ui.ActionReset:
		seed := v.sim.Seed() + 1
		v.sim.Reset(seed)
		v.paused = true
		slog.Info("reset", "seed", seed)
	case ui.ActionIgnite:
		v.sim.Ignite()
	case ui.ActionSlower:
		v.speed = ui.ClampSpeed(v.speed - 1)
	case ui.ActionFaster:
		v.speed = ui.ClampSpeed(v.speed + 1)
	}
}

func (v *viewer) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(rl.Color{R: 30, G: 30, B: 35, A: 255})

	snap := v.sim.Snapshot()
	c := v.camera
	rl.BeginScissorMode(int32(c.ViewportX), int32(c.ViewportY), int32(c.ViewportW), int32(c.ViewportH))
	v.grid.Draw(snap)
	if v.hasHovered {
		v.grid.DrawHighlight(v.hovered)
	}
	rl.EndScissorMode()

	v.hud.Draw(ui.HUDData{
		Title:       "Grove",
		Turn:        snap.Turn,
		Seed:        v.sim.Seed(),
		Grazers:     snap.Census.Of(components.KindGrazer),
		GroundCover: snap.Census.Of(components.KindGroundCover),
		Woody:       snap.Census.Of(components.KindWoody),
		Blazes:      snap.Census.Of(components.KindBlaze),
		Speed:       v.speed,
		FPS:         rl.GetFPS(),
		Paused:      v.paused,
		Viable:      v.sim.Viable(),
	})
	v.hud.DrawControls(int32(rl.GetScreenHeight()), "[Space] run/pause  [N] step  [R] reset  [F] ignite  [,/.] speed  [wheel/arrows] view  [Home] fit")

	action, speed := v.controls.Draw(v.paused, v.speed)
	v.speed = speed
	v.apply(action)

	if v.hasHovered {
		if info, ok := v.sim.Inspect(v.hovered); ok {
			v.inspector.Draw(info)
		}
	}
	v.perfPanel.Draw(v.sim.Perf().Stats())
}
