// Package biome holds the immutable catalog of paintable biomes.
//
// Tiles reference biomes by ID only, so swapping a catalog for one with
// different colours recolours every painted tile without touching a grid.
package biome

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ID identifies a biome. The zero value is the empty sentinel.
type ID string

// None is the empty sentinel written by the eraser.
const None ID = ""

var (
	ErrUnknownBiome = errors.New("unknown biome")
	ErrDuplicateID  = errors.New("duplicate biome id")
	ErrEmptyID      = errors.New("empty biome id")
)

// fallbackColor matches the editor's default layer tint.
var fallbackColor = color.RGBA{R: 0x3c, G: 0x78, B: 0xff, A: 0xff}

// Biome is a single catalog entry.
type Biome struct {
	ID    ID     `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

// RGBA returns the biome colour, or the fallback tint if Color is malformed.
func (b Biome) RGBA() color.RGBA {
	c, err := ParseColor(b.Color)
	if err != nil {
		return fallbackColor
	}
	return c
}

// Catalog is an ordered, read-only set of biomes. A nil *Catalog behaves as
// an empty catalog.
type Catalog struct {
	entries []Biome
	index   map[ID]int
}

// NewCatalog builds a catalog preserving entry order.
func NewCatalog(entries []Biome) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Biome, 0, len(entries)),
		index:   make(map[ID]int, len(entries)),
	}
	for _, b := range entries {
		b.ID = ID(strings.TrimSpace(string(b.ID)))
		if b.ID == None {
			return nil, fmt.Errorf("biome %q: %w", b.Name, ErrEmptyID)
		}
		if _, dup := c.index[b.ID]; dup {
			return nil, fmt.Errorf("biome %q: %w", b.ID, ErrDuplicateID)
		}
		if b.Name == "" {
			b.Name = string(b.ID)
		}
		c.index[b.ID] = len(c.entries)
		c.entries = append(c.entries, b)
	}
	return c, nil
}

// Empty returns a catalog with no entries.
func Empty() *Catalog {
	return &Catalog{index: map[ID]int{}}
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// All returns a copy of the entries in catalog order.
func (c *Catalog) All() []Biome {
	if c == nil {
		return nil
	}
	out := make([]Biome, len(c.entries))
	copy(out, c.entries)
	return out
}

// At returns the i-th biome in catalog order.
func (c *Catalog) At(i int) (Biome, bool) {
	if c == nil || i < 0 || i >= len(c.entries) {
		return Biome{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) Lookup(id ID) (Biome, bool) {
	if c == nil {
		return Biome{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Biome{}, false
	}
	return c.entries[i], true
}

// Validate reports ErrUnknownBiome for ids absent from the catalog. None is
// always valid.
func (c *Catalog) Validate(id ID) error {
	if id == None {
		return nil
	}
	if _, ok := c.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBiome, id)
	}
	return nil
}

// ByName finds a biome by display name, case-insensitively.
func (c *Catalog) ByName(name string) (Biome, bool) {
	if c == nil {
		return Biome{}, false
	}
	for _, b := range c.entries {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Biome{}, false
}

// ParseColor parses "#rrggbb" (or "#rgb") into an opaque RGBA.
func ParseColor(s string) (color.RGBA, error) {
	c, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
