package renderer

import (
	"testing"

	"github.com/pthm-cable/grove/camera"
	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/game"
)

func TestPalette_CellColor(t *testing.T) {
	p := DefaultPalette()

	if got := p.CellColor(game.CellView{Kind: components.KindBlaze, Plants: 4}, 10); got != p[components.KindBlaze] {
		t.Errorf("blaze colour = %v, want %v", got, p[components.KindBlaze])
	}
	if got := p.CellColor(game.CellView{}, 10); got != p[components.KindNone] {
		t.Errorf("empty colour = %v, want %v", got, p[components.KindNone])
	}
	if got := p.CellColor(game.CellView{Kind: components.KindWoody, Plants: 10}, 10); got != p[components.KindWoody] {
		t.Errorf("full woody cell = %v, want %v", got, p[components.KindWoody])
	}

	// Sparse cells sit closer to the empty colour than dense ones.
	sparse := p.CellColor(game.CellView{Kind: components.KindGroundCover, Plants: 1}, 10)
	dense := p.CellColor(game.CellView{Kind: components.KindGroundCover, Plants: 8}, 10)
	if !(sparse.R > dense.R) {
		t.Errorf("sparse %v not lighter than dense %v", sparse, dense)
	}
}

func TestGridRenderer_CellAt(t *testing.T) {
	r := NewGridRenderer(10, 5, 20)

	tests := []struct {
		x, y   int32
		want   components.Position
		wantOK bool
	}{
		{5, 20, components.Position{Row: 0, Col: 0}, true},
		{34, 41, components.Position{Row: 2, Col: 2}, true},
		{4, 20, components.Position{}, false},
		{5 + 40, 20, components.Position{}, false},
		{5, 20 + 30, components.Position{}, false},
	}
	for _, tt := range tests {
		got, ok := r.CellAt(tt.x, tt.y, 4, 3)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("CellAt(%d,%d) = %v,%v, want %v,%v", tt.x, tt.y, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGridRenderer_Follow(t *testing.T) {
	// 10x5 grid at 40px is an 400x200 world
	cam := camera.New(20, 50, 400, 200, 400, 200)
	r := NewGridRenderer(40, 0, 0)

	r.Follow(cam, 40)
	if r.CellSize != 40 || r.OffsetX != 20 || r.OffsetY != 50 {
		t.Fatalf("at 1:1 got size %d offset (%d,%d)", r.CellSize, r.OffsetX, r.OffsetY)
	}

	cam.ZoomAt(20, 50, 2) // anchor the top-left corner
	r.Follow(cam, 40)
	if r.CellSize != 80 || r.OffsetX != 20 || r.OffsetY != 50 {
		t.Errorf("at 2x got size %d offset (%d,%d)", r.CellSize, r.OffsetX, r.OffsetY)
	}
	if p, ok := r.CellAt(20+85, 50+5, 10, 5); !ok || p != (components.Position{Row: 0, Col: 1}) {
		t.Errorf("CellAt after zoom = %v,%v", p, ok)
	}
}
