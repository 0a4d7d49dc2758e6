package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
)

// CellPanel is the descriptor for the cell inspector. Getters receive a
// game.CellInfo. swatch, when non-nil, supplies the colour the cell is
// drawn with.
func CellPanel(maxHealth int, swatch func(game.CellView) rl.Color) PanelDescriptor {
	info := func(d any) game.CellInfo { return d.(game.CellInfo) }

	return PanelDescriptor{
		ID:    "cell",
		Title: "Cell",
		Width: 220,
		Sections: []SectionDescriptor{
			{
				ID: "location",
				Fields: []FieldDescriptor{
					{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
						p := info(d).Pos
						return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
					}},
					{
						ID: "colour", Label: "Colour", Widget: WidgetColorSwatch,
						Visible:     func(any) bool { return swatch != nil },
						ColorGetter: func(d any) rl.Color { return swatch(info(d).View()) },
					},
				},
			},
			{
				ID:    "occupant",
				Title: "Occupant",
				Visible: func(d any) bool {
					return info(d).Occupant != components.KindNone
				},
				Fields: []FieldDescriptor{
					{ID: "kind", Label: "Kind", Widget: WidgetText, TextGetter: func(d any) string {
						return info(d).Occupant.String()
					}},
					{
						ID: "health", Label: "Health", Widget: WidgetEnergyBar,
						Range:   FieldRange{Max: float32(maxHealth)},
						Visible: func(d any) bool { return info(d).Occupant == components.KindGrazer },
						Getter:  func(d any) float32 { return float32(info(d).Health) },
					},
					{
						ID: "cycle", Label: "Cycle", Widget: WidgetText, Format: "%.0f",
						Visible: func(d any) bool { return info(d).Occupant == components.KindGrazer },
						Getter:  func(d any) float32 { return float32(info(d).Cycle) },
					},
				},
			},
			{
				ID:    "plants",
				Title: "Plants",
				Fields: []FieldDescriptor{
					{ID: "fill", Label: "Fill", Widget: WidgetBar, Getter: func(d any) float32 {
						c := info(d)
						if c.MaxPlants == 0 {
							return 0
						}
						return float32(c.Plants()) / float32(c.MaxPlants)
					}},
					{ID: "ground_cover", Label: "Ground", Widget: WidgetText, Format: "%.0f",
						Getter: func(d any) float32 { return float32(info(d).GroundCover) }},
					{ID: "woody", Label: "Woody", Widget: WidgetText, Format: "%.0f",
						Getter: func(d any) float32 { return float32(info(d).Woody) }},
					{ID: "oldest", Label: "Oldest", Widget: WidgetText, Format: "%.0f turns",
						Visible: func(d any) bool { return info(d).Plants() > 0 },
						Getter:  func(d any) float32 { return float32(info(d).OldestPlant) }},
				},
			},
		},
	}
}

// Inspector renders the cell inspection panel.
type Inspector struct {
	renderer *Renderer
	panel    PanelDescriptor
	x, y     int32
}

// NewInspector creates an inspector at (x, y).
func NewInspector(x, y int32, panel PanelDescriptor) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		panel:    panel,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for info and returns the bottom Y.
func (ins *Inspector) Draw(info game.CellInfo) int32 {
	r := ins.renderer
	padding := r.Theme.Padding
	width := ins.panel.Width
	contentWidth := width - padding*2

	// Lay out once off-screen to size the background.
	height := ins.measure(info) + padding*2
	r.DrawPanel(ins.x, ins.y, width, height)

	y := ins.y + padding
	if ins.panel.Title != "" {
		rl.DrawText(ins.panel.Title, ins.x+padding, y, 16, rl.White)
		y += r.Theme.LineHeight + 4
	}
	for _, sd := range ins.panel.Sections {
		y = r.DrawSection(ins.x+padding, y, sd, info, contentWidth)
	}
	return y
}

// measure returns the content height for info without drawing.
func (ins *Inspector) measure(info game.CellInfo) int32 {
	t := ins.renderer.Theme
	h := int32(0)
	if ins.panel.Title != "" {
		h += t.LineHeight + 4
	}
	for _, sd := range ins.panel.Sections {
		if sd.Visible != nil && !sd.Visible(info) {
			continue
		}
		if sd.Title != "" {
			h += t.LineHeight
		}
		for _, fd := range sd.Fields {
			if fd.Visible != nil && !fd.Visible(info) {
				continue
			}
			h += t.LineHeight
			if fd.Widget == WidgetBar || fd.Widget == WidgetEnergyBar {
				h += 2
			}
		}
		h += 4
	}
	return h
}
