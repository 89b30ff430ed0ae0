package main

import (
	"image"
	"image/color"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/minimap"
)

var (
	minimapFrame    = color.RGBA{200, 200, 200, 255}
	minimapViewport = color.RGBA{255, 220, 0, 255}
)

// opacityKey changes whenever any layer's visibility or opacity does.
type opacityKey struct {
	visible bool
	opacity float64
}

// Minimap caches the rendered composite and re-renders it only when the
// committed tiles, the catalog or layer presentation change.
type Minimap struct {
	img     *ebiten.Image
	w, h    int
	gen     int
	catalog *biome.Catalog
	layers  []opacityKey
}

func fitMinimap(gw, gh, size int) (int, int) {
	if gw >= gh {
		return size, max(1, size*gh/gw)
	}
	return max(1, size*gw/gh), size
}

func (m *Minimap) Refresh(s *editor.State, v editor.View) {
	layers := make([]opacityKey, len(v.Layers))
	for i, l := range v.Layers {
		layers[i] = opacityKey{visible: l.Visible, opacity: l.Opacity}
	}
	if m.img != nil && m.gen == s.Generation() && m.catalog == s.Catalog() && slices.Equal(m.layers, layers) {
		return
	}
	gw, gh := s.Layers().Dimensions()
	w, h := fitMinimap(gw, gh, minimapSize)
	rgba := minimap.Render(s.Layers(), s.Catalog(), w, h)
	if m.img == nil || m.w != w || m.h != h {
		m.img = ebiten.NewImageFromImage(rgba)
		m.w, m.h = w, h
	} else {
		m.img.WritePixels(rgba.Pix)
	}
	m.gen, m.catalog, m.layers = s.Generation(), s.Catalog(), layers
}

// Draw places the minimap at (x, y) and outlines the part of the grid the
// canvas currently shows.
func (m *Minimap) Draw(screen *ebiten.Image, x, y int, s *editor.State, canvas image.Rectangle) {
	if m.img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(m.img, op)
	vector.StrokeRect(screen, float32(x)-1, float32(y)-1, float32(m.w)+2, float32(m.h)+2, 1, minimapFrame, false)

	gw, gh := s.Layers().Dimensions()
	r := s.Viewport().VisibleRange(canvas.Dx(), canvas.Dy(), gw, gh)
	if r.Empty() {
		return
	}
	vr := minimap.ViewportRect(r, gw, gh, m.w, m.h)
	vector.StrokeRect(screen, float32(x+vr.Min.X), float32(y+vr.Min.Y), float32(vr.Dx()), float32(vr.Dy()), 1, minimapViewport, false)
}
