// Package renderer draws simulation snapshots with raylib.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/camera"
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
)

// Palette maps each kind to its fill colour.
type Palette [components.NumKinds]rl.Color

// DefaultPalette returns the standard colours. Empty cells are tan.
func DefaultPalette() Palette {
	var p Palette
	p[components.KindNone] = rl.Color{R: 210, G: 180, B: 140, A: 255}
	p[components.KindGrazer] = rl.Black
	p[components.KindGroundCover] = rl.Color{R: 60, G: 170, B: 60, A: 255}
	p[components.KindWoody] = rl.Orange
	p[components.KindBlaze] = rl.Red
	return p
}

// minPlantShade is the blend weight of a cell holding a single plant.
const minPlantShade = 0.35

// CellColor returns the fill for one cell. Plant cells blend from the empty
// colour toward the plant colour as the cell fills up.
func (p Palette) CellColor(v game.CellView, maxPlants int) rl.Color {
	if !v.Kind.IsPlant() || maxPlants <= 0 {
		return p[v.Kind]
	}
	ratio := float32(v.Plants) / float32(maxPlants)
	if ratio > 1 {
		ratio = 1
	}
	t := minPlantShade + (1-minPlantShade)*ratio
	return lerpColor(p[components.KindNone], p[v.Kind], t)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	mix := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t + 0.5)
	}
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// GridRenderer draws a snapshot as one rectangle per cell.
type GridRenderer struct {
	Palette  Palette
	CellSize int32
	OffsetX  int32
	OffsetY  int32
	Gap      int32
}

// NewGridRenderer creates a renderer with the default palette.
func NewGridRenderer(cellSize, offsetX, offsetY int32) *GridRenderer {
	return &GridRenderer{
		Palette:  DefaultPalette(),
		CellSize: cellSize,
		OffsetX:  offsetX,
		OffsetY:  offsetY,
		Gap:      1,
	}
}

// Follow scales and positions the grid to match cam. The camera's world
// is the grid drawn at baseCell pixels per cell.
func (r *GridRenderer) Follow(cam *camera.Camera, baseCell float32) {
	size := int32(math.Round(float64(baseCell * cam.Zoom)))
	if size < 1 {
		size = 1
	}
	r.CellSize = size
	r.Gap = 0
	if size >= 4 {
		r.Gap = 1
	}
	x, y := cam.WorldToScreen(0, 0)
	r.OffsetX = int32(math.Round(float64(x)))
	r.OffsetY = int32(math.Round(float64(y)))
}

// CellAt maps a screen point to a cell. ok is false outside the grid.
func (r *GridRenderer) CellAt(x, y int32, width, height int) (components.Position, bool) {
	if x < r.OffsetX || y < r.OffsetY || r.CellSize <= 0 {
		return components.Position{}, false
	}
	col := int((x - r.OffsetX) / r.CellSize)
	row := int((y - r.OffsetY) / r.CellSize)
	if col >= width || row >= height {
		return components.Position{}, false
	}
	return components.Position{Row: row, Col: col}, true
}

// Draw renders every cell of snap.
func (r *GridRenderer) Draw(snap game.Snapshot) {
	size := r.CellSize - r.Gap
	for row := 0; row < snap.Height; row++ {
		for col := 0; col < snap.Width; col++ {
			x := r.OffsetX + int32(col)*r.CellSize
			y := r.OffsetY + int32(row)*r.CellSize
			rl.DrawRectangle(x, y, size, size, r.Palette.CellColor(snap.At(row, col), snap.MaxPlants))
		}
	}
}

// DrawHighlight outlines one cell.
func (r *GridRenderer) DrawHighlight(p components.Position) {
	x := r.OffsetX + int32(p.Col)*r.CellSize
	y := r.OffsetY + int32(p.Row)*r.CellSize
	rl.DrawRectangleLines(x, y, r.CellSize-r.Gap, r.CellSize-r.Gap, rl.White)
}
