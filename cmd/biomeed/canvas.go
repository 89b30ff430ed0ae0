package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/minimap"
)

var (
	canvasBackground = color.RGBA{24, 24, 28, 255}
	gridBackground   = color.RGBA{52, 52, 60, 255}
	gridLineColor    = color.RGBA{70, 70, 80, 255}
	eraseColor       = color.RGBA{20, 20, 20, 255}
	hoverColor       = color.RGBA{255, 255, 255, 200}
)

// previewAlpha is the opacity of uncommitted gesture writes.
const previewAlpha = 0.6

// minGridLinePixels hides cell lines when cells get too small to read.
const minGridLinePixels = 8

// Canvas draws the layer stack through the editor viewport. Coordinates
// given to the viewport are relative to the canvas origin.
type Canvas struct {
	pixel *ebiten.Image
}

func NewCanvas() *Canvas {
	px := ebiten.NewImage(1, 1)
	px.Fill(color.White)
	return &Canvas{pixel: px}
}

func (c *Canvas) Draw(screen *ebiten.Image, bounds image.Rectangle, s *editor.State, v editor.View) {
	dst := screen.SubImage(bounds).(*ebiten.Image)
	dst.Fill(canvasBackground)

	vp := s.Viewport()
	stack := s.Layers()
	gw, gh := stack.Dimensions()
	ox, oy := float64(bounds.Min.X), float64(bounds.Min.Y)
	cell := vp.CellPixels()

	x0, y0 := vp.GridToScreen(0, 0)
	x1, y1 := vp.GridToScreen(gw, gh)
	vector.FillRect(dst, float32(ox+x0), float32(oy+y0), float32(x1-x0), float32(y1-y0), gridBackground, false)

	r := vp.VisibleRange(bounds.Dx(), bounds.Dy(), gw, gh)
	if r.Empty() {
		return
	}
	cat := s.Catalog()
	for _, l := range stack.Layers() {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		for y := r.MinY; y < r.MaxY; y++ {
			for x := r.MinX; x < r.MaxX; x++ {
				t, err := l.Grid.Get(x, y)
				if err != nil || t.IsEmpty() {
					continue
				}
				px, py := vp.GridToScreen(x, y)
				c.fillCell(dst, ox+px, oy+py, cell, minimap.TileColor(cat, t.Biome), l.Opacity)
			}
		}
	}

	for _, w := range v.Preview {
		if !r.Contains(w.Point.X, w.Point.Y) {
			continue
		}
		col := eraseColor
		if !w.Tile.IsEmpty() {
			col = minimap.TileColor(cat, w.Tile.Biome)
		}
		px, py := vp.GridToScreen(w.Point.X, w.Point.Y)
		c.fillCell(dst, ox+px, oy+py, cell, col, previewAlpha)
	}

	if cell >= minGridLinePixels {
		for x := r.MinX; x <= r.MaxX; x++ {
			px, top := vp.GridToScreen(x, r.MinY)
			_, bottom := vp.GridToScreen(x, r.MaxY)
			vector.StrokeLine(dst, float32(ox+px), float32(oy+top), float32(ox+px), float32(oy+bottom), 1, gridLineColor, false)
		}
		for y := r.MinY; y <= r.MaxY; y++ {
			left, py := vp.GridToScreen(r.MinX, y)
			right, _ := vp.GridToScreen(r.MaxX, y)
			vector.StrokeLine(dst, float32(ox+left), float32(oy+py), float32(ox+right), float32(oy+py), 1, gridLineColor, false)
		}
	}

	for _, p := range s.Footprint() {
		px, py := vp.GridToScreen(p.X, p.Y)
		vector.StrokeRect(dst, float32(ox+px), float32(oy+py), float32(cell), float32(cell), 1, hoverColor, false)
	}
}

func (c *Canvas) fillCell(dst *ebiten.Image, x, y, size float64, col color.RGBA, alpha float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(x, y)
	a := float32(alpha)
	op.ColorScale.Scale(float32(col.R)/255*a, float32(col.G)/255*a, float32(col.B)/255*a, a)
	dst.DrawImage(c.pixel, op)
}
