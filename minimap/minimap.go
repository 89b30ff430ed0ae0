// Package minimap renders a downscaled composite of the visible layers.
package minimap

import (
	"image"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/viewport"
)

var (
	// Background fills cells no visible layer paints.
	Background = color.RGBA{R: 0x1e, G: 0x1e, B: 0x23, A: 0xff}
	// Missing marks tiles whose biome is absent from the catalog.
	Missing = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}
)

// Render draws the stack into a w×h image, sampling the nearest cell for
// each pixel. Visible layers are blended bottom to top by opacity.
func Render(s *layer.Stack, cat *biome.Catalog, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	gw, gh := s.Dimensions()
	if w <= 0 || h <= 0 || gw <= 0 || gh <= 0 {
		return img
	}
	sm := NewSampler(s, cat)
	for py := 0; py < h; py++ {
		cy := py * gh / h
		for px := 0; px < w; px++ {
			img.SetRGBA(px, py, sm.At(px*gw/w, cy))
		}
	}
	return img
}

// Sampler composites single cells. It caches the layer order and parsed
// biome colours, so one Sampler serves one frame.
type Sampler struct {
	layers  []*layer.Layer
	catalog *biome.Catalog
	bg      colorful.Color
	palette map[biome.ID]colorful.Color
}

func NewSampler(s *layer.Stack, cat *biome.Catalog) *Sampler {
	bg, _ := colorful.MakeColor(Background)
	return &Sampler{layers: s.Layers(), catalog: cat, bg: bg, palette: map[biome.ID]colorful.Color{}}
}

func (sm *Sampler) lookup(id biome.ID) colorful.Color {
	if c, ok := sm.palette[id]; ok {
		return c
	}
	c, _ := colorful.MakeColor(TileColor(sm.catalog, id))
	sm.palette[id] = c
	return c
}

// At blends the visible layers at (x, y) over Background. Out-of-bounds
// cells are Background.
func (sm *Sampler) At(x, y int) color.RGBA {
	c := sm.bg
	for _, l := range sm.layers {
		if !l.Visible || l.Opacity <= 0 {
			continue
		}
		t, err := l.Grid.Get(x, y)
		if err != nil || t.IsEmpty() {
			continue
		}
		c = c.BlendRgb(sm.lookup(t.Biome), l.Opacity)
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// TileColor resolves a biome's display colour.
func TileColor(cat *biome.Catalog, id biome.ID) color.RGBA {
	if id == biome.None {
		return Background
	}
	b, ok := cat.Lookup(id)
	if !ok {
		return Missing
	}
	return b.RGBA()
}

// ViewportRect projects a visible cell range into minimap pixel space.
func ViewportRect(r viewport.Range, gridW, gridH, w, h int) image.Rectangle {
	if r.Empty() || gridW <= 0 || gridH <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(
		r.MinX*w/gridW,
		r.MinY*h/gridH,
		ceilDiv(r.MaxX*w, gridW),
		ceilDiv(r.MaxY*h, gridH),
	)
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
