package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a user request the driver applies between turns.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionStep
	ActionReset
	ActionIgnite
	ActionSlower
	ActionFaster
)

// MaxSpeed is the highest turns-per-frame setting.
const MaxSpeed = 20

// ControlPanel renders the run controls.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlPanel creates a new control panel.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Height returns the panel's pixel height.
func (c *ControlPanel) Height() int32 {
	return 150
}

// Draw renders the buttons and speed slider. It returns the button pressed
// this frame, if any, and the slider's speed.
func (c *ControlPanel) Draw(paused bool, speed int) (Action, int) {
	r := c.renderer
	padding := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := float32(c.x + padding)
	y := float32(c.y + padding)
	half := float32(c.width-padding*3) / 2

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 24

	action := ActionNone
	label := "Pause"
	if paused {
		label = "Run"
	}
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, label) {
		action = ActionTogglePause
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: 28}, "Step") {
		action = ActionStep
	}
	y += 36

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Reset") {
		action = ActionReset
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(padding), Y: y, Width: half, Height: 28}, "Ignite") {
		action = ActionIgnite
	}
	y += 40

	sliderWidth := float32(c.width-padding*2) - 40
	v := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: sliderWidth, Height: 16}, "", "", float32(speed), 1, MaxSpeed)
	rl.DrawText(fmt.Sprintf("%dx", speed), int32(x+sliderWidth+6), int32(y), 14, rl.LightGray)

	return action, ClampSpeed(int(v + 0.5))
}

// KeyAction maps this frame's key presses to an action.
func KeyAction() Action {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		return ActionTogglePause
	case rl.IsKeyPressed(rl.KeyN):
		return ActionStep
	case rl.IsKeyPressed(rl.KeyR):
		return ActionReset
	case rl.IsKeyPressed(rl.KeyF):
		return ActionIgnite
	case rl.IsKeyPressed(rl.KeyComma):
		return ActionSlower
	case rl.IsKeyPressed(rl.KeyPeriod):
		return ActionFaster
	}
	return ActionNone
}

// ClampSpeed limits speed to [1, MaxSpeed].
func ClampSpeed(speed int) int {
	return max(1, min(speed, MaxSpeed))
}
