// Package viewport maps between screen pixels and grid cells under a
// discrete zoom and a pixel pan offset.
package viewport

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

var ErrInvalidSteps = errors.New("invalid zoom steps")

// DefaultSteps are power-of-two multipliers around 1.
var DefaultSteps = []float64{0.25, 0.5, 1, 2, 4, 8}

// DefaultStart indexes the 1x step of DefaultSteps.
const DefaultStart = 2

// Range is a half-open block of cells [MinX,MaxX) × [MinY,MaxY).
type Range struct {
	MinX, MinY int
	MaxX, MaxY int
}

func (r Range) Empty() bool { return r.MaxX <= r.MinX || r.MaxY <= r.MinY }

func (r Range) Contains(x, y int) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

func (r Range) Cells() int {
	if r.Empty() {
		return 0
	}
	return (r.MaxX - r.MinX) * (r.MaxY - r.MinY)
}

type Viewport struct {
	cellSize   int
	steps      []float64
	start      int
	index      int
	panX, panY float64
}

// New validates steps (positive, strictly ascending) and clamps start into
// range. A nil steps slice selects DefaultSteps.
func New(cellSize int, steps []float64, start int) (*Viewport, error) {
	if cellSize <= 0 {
		return nil, fmt.Errorf("%w: cell size %d", ErrInvalidSteps, cellSize)
	}
	if steps == nil {
		steps = DefaultSteps
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSteps)
	}
	for i, s := range steps {
		if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: step %d is %v", ErrInvalidSteps, i, s)
		}
		if i > 0 && s <= steps[i-1] {
			return nil, fmt.Errorf("%w: %v does not ascend after %v", ErrInvalidSteps, s, steps[i-1])
		}
	}
	start = min(max(start, 0), len(steps)-1)
	cp := make([]float64, len(steps))
	copy(cp, steps)
	return &Viewport{cellSize: cellSize, steps: cp, start: start, index: start}, nil
}

// Default is New with DefaultSteps and DefaultStart.
func Default(cellSize int) *Viewport {
	v, err := New(cellSize, DefaultSteps, DefaultStart)
	if err != nil {
		panic(err)
	}
	return v
}

func (v *Viewport) CellSize() int { return v.cellSize }

func (v *Viewport) Zoom() float64 { return v.steps[v.index] }

func (v *Viewport) Index() int { return v.index }

func (v *Viewport) Steps() []float64 {
	out := make([]float64, len(v.steps))
	copy(out, v.steps)
	return out
}

// Label formats the zoom as a whole percentage, "100%" at 1x.
func (v *Viewport) Label() string {
	return strconv.FormatFloat(v.Zoom()*100, 'f', -1, 64) + "%"
}

// ZoomIn moves one step up. It returns false at the top bound.
func (v *Viewport) ZoomIn() bool {
	if v.index >= len(v.steps)-1 {
		return false
	}
	v.index++
	return true
}

// ZoomOut moves one step down. It returns false at the bottom bound.
func (v *Viewport) ZoomOut() bool {
	if v.index <= 0 {
		return false
	}
	v.index--
	return true
}

// ZoomAt steps the zoom in (dir > 0) or out (dir < 0) and adjusts the pan
// so the point under (px, py) stays under the cursor.
func (v *Viewport) ZoomAt(px, py float64, dir int) bool {
	scale := v.scale()
	wx, wy := (px-v.panX)/scale, (py-v.panY)/scale
	var moved bool
	switch {
	case dir > 0:
		moved = v.ZoomIn()
	case dir < 0:
		moved = v.ZoomOut()
	}
	if !moved {
		return false
	}
	// Whole-pixel pan keeps the screen/grid transforms exact.
	scale = v.scale()
	v.panX = math.Round(px - wx*scale)
	v.panY = math.Round(py - wy*scale)
	return true
}

// Reset returns to the starting zoom with no pan.
func (v *Viewport) Reset() {
	v.index = v.start
	v.panX, v.panY = 0, 0
}

func (v *Viewport) Pan(dx, dy float64) {
	v.panX += dx
	v.panY += dy
}

func (v *Viewport) SetPan(x, y float64) {
	v.panX, v.panY = x, y
}

func (v *Viewport) PanOffset() (float64, float64) { return v.panX, v.panY }

func (v *Viewport) scale() float64 { return float64(v.cellSize) * v.Zoom() }

// CellPixels is the on-screen size of one cell.
func (v *Viewport) CellPixels() float64 { return v.scale() }

// GridToScreen returns the top-left pixel of cell (x, y).
func (v *Viewport) GridToScreen(x, y int) (float64, float64) {
	s := v.scale()
	return float64(x)*s + v.panX, float64(y)*s + v.panY
}

// ScreenToGrid returns the cell containing pixel (px, py). The result may be
// outside the grid; callers check bounds.
func (v *Viewport) ScreenToGrid(px, py float64) (int, int) {
	s := v.scale()
	return cellOf((px - v.panX) / s), cellOf((py - v.panY) / s)
}

// snapEps absorbs the rounding of x*s/s for scales that are not exactly
// representable, e.g. 3*0.3.
const snapEps = 1e-9

// cellOf floors q, treating values within snapEps of an integer as that
// integer so a cell's top-left pixel maps back to the cell.
func cellOf(q float64) int {
	if r := math.Round(q); math.Abs(q-r) <= snapEps*max(1, math.Abs(q)) {
		return int(r)
	}
	return int(math.Floor(q))
}

// VisibleRange returns the cells of a gridW×gridH grid that intersect a
// screenW×screenH view, clipped to the grid.
func (v *Viewport) VisibleRange(screenW, screenH, gridW, gridH int) Range {
	x0, y0 := v.ScreenToGrid(0, 0)
	x1, y1 := v.ScreenToGrid(float64(screenW)-1, float64(screenH)-1)
	r := Range{
		MinX: max(x0, 0),
		MinY: max(y0, 0),
		MaxX: min(x1+1, gridW),
		MaxY: min(y1+1, gridH),
	}
	if screenW <= 0 || screenH <= 0 || r.Empty() {
		return Range{}
	}
	return r
}
