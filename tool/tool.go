// Package tool implements the painting tools as pure functions from a
// gesture to an ordered batch of tile writes.
package tool

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/biomeeditor/grid"
)

var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidBrushSize = errors.New("invalid brush size")
)

// MaxBrush is the largest accepted brush size.
const MaxBrush = 15

type Kind int

const (
	Pencil Kind = iota
	Bucket
	Line
	Rectangle
	Eraser

	kindCount
)

var kindNames = [kindCount]string{
	Pencil:    "pencil",
	Bucket:    "bucket",
	Line:      "line",
	Rectangle: "rectangle",
	Eraser:    "eraser",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

func (k Kind) Valid() bool { return k >= 0 && k < kindCount }

// ParseKind maps a tool name ("pencil", "Bucket", ...) to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

// Kinds lists every tool in toolbar order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// Style describes how a tool consumes a pointer gesture.
type Style int

const (
	// StyleStroke accumulates writes at every sampled pointer position.
	StyleStroke Style = iota
	// StyleShape recomputes a preview from anchor to the current position
	// and commits the last preview on release.
	StyleShape
	// StyleClick computes its batch once, at press.
	StyleClick
)

var kindStyles = [kindCount]Style{
	Pencil:    StyleStroke,
	Bucket:    StyleClick,
	Line:      StyleShape,
	Rectangle: StyleShape,
	Eraser:    StyleStroke,
}

func (k Kind) Style() Style {
	if !k.Valid() {
		return StyleClick
	}
	return kindStyles[k]
}

// UsesBrush reports whether the brush size affects the tool's footprint.
func (k Kind) UsesBrush() bool {
	return k == Pencil || k == Eraser || k == Line
}

// Write is a single tile assignment produced by a tool.
type Write struct {
	Point grid.Point
	Tile  grid.Tile
}

// Request is the input to a tool algorithm.
//
// Points is interpreted per tool: the sampled path for Pencil and Eraser,
// anchor and end for Line and Rectangle, and the seed for Bucket.
type Request struct {
	Grid   grid.Reader
	Points []grid.Point
	Brush  int
	Tile   grid.Tile
}

type algorithm func(Request) []Write

var algorithms = [kindCount]algorithm{
	Pencil:    pencil,
	Bucket:    bucket,
	Line:      line,
	Rectangle: rectangle,
	Eraser:    eraser,
}

// ValidateBrush accepts odd sizes from 1 to MaxBrush.
func ValidateBrush(n int) error {
	if n < 1 || n > MaxBrush || n%2 == 0 {
		return fmt.Errorf("%w: %d (want odd 1..%d)", ErrInvalidBrushSize, n, MaxBrush)
	}
	return nil
}

// Apply runs the tool and returns its write batch. It never mutates the
// grid.
func Apply(k Kind, req Request) ([]Write, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTool, int(k))
	}
	if k.UsesBrush() {
		if err := ValidateBrush(req.Brush); err != nil {
			return nil, err
		}
	}
	if req.Grid == nil || len(req.Points) == 0 {
		return nil, nil
	}
	return algorithms[k](req), nil
}

// batch collects writes, keeping first-seen order and the last tile written
// per coordinate.
type batch struct {
	writes []Write
	index  map[grid.Point]int
}

func newBatch() *batch {
	return &batch{index: map[grid.Point]int{}}
}

func (b *batch) put(p grid.Point, t grid.Tile) {
	if i, ok := b.index[p]; ok {
		b.writes[i].Tile = t
		return
	}
	b.index[p] = len(b.writes)
	b.writes = append(b.writes, Write{Point: p, Tile: t})
}

// Merge folds later writes into earlier ones with last-write-wins
// semantics per coordinate.
func Merge(base []Write, more ...[]Write) []Write {
	b := newBatch()
	for _, w := range base {
		b.put(w.Point, w.Tile)
	}
	for _, ws := range more {
		for _, w := range ws {
			b.put(w.Point, w.Tile)
		}
	}
	return b.writes
}
