// Package grid stores the tiles of a single layer.
package grid

import (
	"errors"
	"fmt"

	"github.com/milk9111/biomeeditor/biome"
)

var (
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrInvalidSize = errors.New("invalid grid size")
)

// Tile is an immutable cell value. The zero Tile is empty.
type Tile struct {
	Biome biome.ID
	// Overlay carries optional per-cell metadata such as a structure name.
	Overlay string
}

// Empty is the sentinel written by the eraser.
var Empty = Tile{}

// Of returns a plain tile for the given biome.
func Of(id biome.ID) Tile { return Tile{Biome: id} }

func (t Tile) IsEmpty() bool { return t.Biome == biome.None }

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

func Pt(x, y int) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// In reports whether p lies inside a w×h rectangle anchored at the origin.
func (p Point) In(w, h int) bool { return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h }

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Reader is the read-only view tools work against.
type Reader interface {
	Dimensions() (int, int)
	InBounds(x, y int) bool
	Get(x, y int) (Tile, error)
}

// Grid is a fixed-size row-major tile store. Per-biome counts are kept in
// step with every Set so statistics never need a full scan.
type Grid struct {
	w, h   int
	cells  []Tile
	counts map[biome.ID]int
}

// MaxCells bounds the area of a single grid, 2048×2048.
const MaxCells = 1 << 22

// CheckSize reports whether a w×h grid is allocatable.
func CheckSize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	if w > MaxCells/h {
		return fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidSize, w, h, MaxCells)
	}
	return nil
}

// New allocates an all-empty grid.
func New(w, h int) (*Grid, error) {
	if err := CheckSize(w, h); err != nil {
		return nil, err
	}
	return &Grid{
		w:      w,
		h:      h,
		cells:  make([]Tile, w*h),
		counts: map[biome.ID]int{},
	}, nil
}

func (g *Grid) Dimensions() (int, int) { return g.w, g.h }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *Grid) index(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	return y*g.w + x, nil
}

func (g *Grid) Get(x, y int) (Tile, error) {
	idx, err := g.index(x, y)
	if err != nil {
		return Tile{}, err
	}
	return g.cells[idx], nil
}

// Set replaces the tile at (x, y) and returns the previous value.
func (g *Grid) Set(x, y int, t Tile) (Tile, error) {
	idx, err := g.index(x, y)
	if err != nil {
		return Tile{}, err
	}
	old := g.cells[idx]
	if old == t {
		return old, nil
	}
	if !old.IsEmpty() {
		g.counts[old.Biome]--
		if g.counts[old.Biome] == 0 {
			delete(g.counts, old.Biome)
		}
	}
	if !t.IsEmpty() {
		g.counts[t.Biome]++
	}
	g.cells[idx] = t
	return old, nil
}

// CountByBiome returns a copy of the painted-tile counts, keyed by biome.
func (g *Grid) CountByBiome() map[biome.ID]int {
	out := make(map[biome.ID]int, len(g.counts))
	for id, n := range g.counts {
		out[id] = n
	}
	return out
}

// Painted is the number of non-empty tiles.
func (g *Grid) Painted() int {
	n := 0
	for _, c := range g.counts {
		n += c
	}
	return n
}

func (g *Grid) Empty() int { return g.w*g.h - g.Painted() }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		w:      g.w,
		h:      g.h,
		cells:  make([]Tile, len(g.cells)),
		counts: g.CountByBiome(),
	}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids hold identical tiles.
func (g *Grid) Equal(o *Grid) bool {
	if g.w != o.w || g.h != o.h {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Each visits every cell in row-major order.
func (g *Grid) Each(fn func(p Point, t Tile)) {
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			fn(Point{X: x, Y: y}, g.cells[y*g.w+x])
		}
	}
}
