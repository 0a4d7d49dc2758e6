package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title       string
	Turn        int
	Seed        int64
	Grazers     int
	GroundCover int
	Woody       int
	Blazes      int
	Speed       int
	FPS         int32
	Paused      bool
	Viable      bool
}

// HUD renders the main heads-up display.
type HUD struct {
	x, y int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y int32) *HUD {
	return &HUD{x: x, y: y}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, h.x, h.y, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Grazers: %d | Ground: %d | Woody: %d | Fire: %d",
			data.Grazers, data.GroundCover, data.Woody, data.Blazes),
		h.x, h.y+25, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Turn: %d | Speed: %dx | FPS: %d | Seed: %d", data.Turn, data.Speed, data.FPS, data.Seed),
		h.x, h.y+45, 16, rl.LightGray,
	)

	status, color := "Running", rl.Yellow
	switch {
	case !data.Viable:
		status, color = "ECOSYSTEM COLLAPSED", rl.Red
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(status, h.x, h.y+65, 16, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, h.x, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase turn timing.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y

	rl.DrawText("Turn Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Avg: %s  %.0f acts/s", stats.AvgTurn.Round(time.Microsecond), stats.ActsPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for ph := telemetry.Phase(0); ph < telemetry.NumPhases; ph++ {
		pct := stats.PhasePct[ph]
		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", ph, stats.PhaseAvg[ph].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
