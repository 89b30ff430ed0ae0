package tool

import (
	"errors"
	"testing"

	"github.com/milk9111/biomeeditor/grid"
)

func newGrid(t *testing.T, w, h int) *grid.Grid {
	t.Helper()
	g, err := grid.New(w, h)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	return g
}

func apply(t *testing.T, k Kind, req Request) []Write {
	t.Helper()
	ws, err := Apply(k, req)
	if err != nil {
		t.Fatalf("Apply(%s): %v", k, err)
	}
	return ws
}

func unique(ws []Write) int {
	seen := map[grid.Point]bool{}
	for _, w := range ws {
		seen[w.Point] = true
	}
	return len(seen)
}

func TestParseKindRoundTrip(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseKind("airbrush"); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool, got %v", err)
	}
	if _, err := Apply(Kind(42), Request{}); !errors.Is(err, ErrUnknownTool) {
		t.Fatalf("expected ErrUnknownTool for out-of-range kind, got %v", err)
	}
}

func TestValidateBrush(t *testing.T) {
	for _, n := range []int{1, 3, 5, MaxBrush} {
		if err := ValidateBrush(n); err != nil {
			t.Fatalf("brush %d should be valid: %v", n, err)
		}
	}
	for _, n := range []int{0, -1, 2, 4, MaxBrush + 2} {
		if err := ValidateBrush(n); !errors.Is(err, ErrInvalidBrushSize) {
			t.Fatalf("brush %d: expected ErrInvalidBrushSize, got %v", n, err)
		}
	}
	g := newGrid(t, 4, 4)
	_, err := Apply(Pencil, Request{Grid: g, Points: []grid.Point{{X: 1, Y: 1}}, Brush: 2})
	if !errors.Is(err, ErrInvalidBrushSize) {
		t.Fatalf("pencil with even brush: expected error, got %v", err)
	}
}

func TestPencilBrushFootprint(t *testing.T) {
	g := newGrid(t, 20, 20)
	cases := []struct {
		name  string
		at    grid.Point
		brush int
		want  int
	}{
		{"single", grid.Pt(5, 5), 1, 1},
		{"three_interior", grid.Pt(5, 5), 3, 9},
		{"five_interior", grid.Pt(10, 10), 5, 25},
		{"three_corner", grid.Pt(0, 0), 3, 4},
		{"three_edge", grid.Pt(19, 10), 3, 6},
		{"outside_grid", grid.Pt(-5, -5), 3, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ws := apply(t, Pencil, Request{Grid: g, Points: []grid.Point{c.at}, Brush: c.brush, Tile: grid.Of("grassland")})
			if len(ws) != c.want {
				t.Fatalf("expected %d writes, got %d", c.want, len(ws))
			}
			for _, w := range ws {
				if !g.InBounds(w.Point.X, w.Point.Y) {
					t.Fatalf("write %v outside grid", w.Point)
				}
				if w.Tile.Biome != "grassland" {
					t.Fatalf("unexpected tile %+v", w.Tile)
				}
			}
		})
	}
	if g.Painted() != 0 {
		t.Fatalf("tools must not mutate the grid")
	}
}

func TestPencilDragDeduplicates(t *testing.T) {
	g := newGrid(t, 30, 30)
	ws := apply(t, Pencil, Request{
		Grid:   g,
		Points: []grid.Point{grid.Pt(5, 5), grid.Pt(6, 5), grid.Pt(10, 5)},
		Brush:  3,
		Tile:   grid.Of("ocean"),
	})
	if len(ws) != unique(ws) {
		t.Fatalf("duplicate coordinates in batch")
	}
	// Cells 4..11 across three rows.
	if len(ws) != 8*3 {
		t.Fatalf("expected 24 writes, got %d", len(ws))
	}
}

func TestEraserWritesEmpty(t *testing.T) {
	g := newGrid(t, 5, 5)
	ws := apply(t, Eraser, Request{Grid: g, Points: []grid.Point{grid.Pt(2, 2)}, Brush: 3, Tile: grid.Of("ocean")})
	if len(ws) != 9 {
		t.Fatalf("expected 9 writes, got %d", len(ws))
	}
	for _, w := range ws {
		if !w.Tile.IsEmpty() {
			t.Fatalf("eraser wrote %+v", w.Tile)
		}
	}
}

func TestLineContinuity(t *testing.T) {
	cases := []struct {
		name string
		a, b grid.Point
	}{
		{"shallow", grid.Pt(0, 0), grid.Pt(10, 4)},
		{"steep", grid.Pt(2, 0), grid.Pt(5, 11)},
		{"reverse", grid.Pt(10, 4), grid.Pt(0, 0)},
		{"vertical", grid.Pt(3, 0), grid.Pt(3, 7)},
		{"point", grid.Pt(4, 4), grid.Pt(4, 4)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pts := Bresenham(c.a, c.b)
			if pts[0] != c.a || pts[len(pts)-1] != c.b {
				t.Fatalf("endpoints %v..%v, want %v..%v", pts[0], pts[len(pts)-1], c.a, c.b)
			}
			for i := 1; i < len(pts); i++ {
				dx, dy := abs(pts[i].X-pts[i-1].X), abs(pts[i].Y-pts[i-1].Y)
				if dx > 1 || dy > 1 || (dx == 0 && dy == 0) {
					t.Fatalf("gap between %v and %v", pts[i-1], pts[i])
				}
			}
		})
	}

	g := newGrid(t, 16, 16)
	ws := apply(t, Line, Request{Grid: g, Points: []grid.Point{grid.Pt(0, 0), grid.Pt(10, 4)}, Brush: 1, Tile: grid.Of("desert")})
	if len(ws) != 11 {
		t.Fatalf("expected 11 cells for (0,0)-(10,4), got %d", len(ws))
	}
}

func TestLineBrushExpansion(t *testing.T) {
	g := newGrid(t, 16, 16)
	ws := apply(t, Line, Request{Grid: g, Points: []grid.Point{grid.Pt(2, 5), grid.Pt(8, 5)}, Brush: 3, Tile: grid.Of("desert")})
	// x 1..9, y 4..6
	if len(ws) != 27 || unique(ws) != 27 {
		t.Fatalf("expected 27 unique writes, got %d (%d unique)", len(ws), unique(ws))
	}
}

func TestStrokeClipsFarSamples(t *testing.T) {
	g := newGrid(t, 10, 10)
	far := 1 << 40
	cases := []struct {
		name  string
		kind  Kind
		pts   []grid.Point
		brush int
		want  int
	}{
		{"pencil_across", Pencil, []grid.Point{grid.Pt(-far, 5), grid.Pt(far, 5)}, 1, 10},
		{"line_across", Line, []grid.Point{grid.Pt(5, -far), grid.Pt(5, far)}, 1, 10},
		{"brush_across", Pencil, []grid.Point{grid.Pt(-far, 0), grid.Pt(far, 0)}, 3, 20},
		{"eraser_diagonal", Eraser, []grid.Point{grid.Pt(-far, -far), grid.Pt(far, far)}, 1, 10},
		{"miss", Pencil, []grid.Point{grid.Pt(-far, -far), grid.Pt(far, -far)}, 1, 0},
		{"enter_from_far", Pencil, []grid.Point{grid.Pt(-far, 2), grid.Pt(3, 2)}, 1, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ws := apply(t, c.kind, Request{Grid: g, Points: c.pts, Brush: c.brush, Tile: grid.Of("desert")})
			if len(ws) != c.want || unique(ws) != c.want {
				t.Fatalf("expected %d unique writes, got %d (%d unique)", c.want, len(ws), unique(ws))
			}
			for _, w := range ws {
				if !w.Point.In(10, 10) {
					t.Fatalf("write outside the grid: %v", w.Point)
				}
			}
		})
	}
}

func TestStrokeUnclippedInsideGrid(t *testing.T) {
	samples := []grid.Point{grid.Pt(1, 1), grid.Pt(20, 7), grid.Pt(4, 30), grid.Pt(4, 30)}
	got := strokePath(samples, 3, 32, 32)
	var want []grid.Point
	want = append(want, samples[0])
	for i := 1; i < len(samples); i++ {
		want = append(want, Bresenham(samples[i-1], samples[i])[1:]...)
	}
	if len(got) != len(want) {
		t.Fatalf("path has %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRectangleFilledInclusive(t *testing.T) {
	g := newGrid(t, 10, 10)
	cases := []struct {
		name string
		a, b grid.Point
		want int
	}{
		{"inclusive", grid.Pt(1, 1), grid.Pt(3, 4), 3 * 4},
		{"reversed_corners", grid.Pt(3, 4), grid.Pt(1, 1), 3 * 4},
		{"single_cell", grid.Pt(5, 5), grid.Pt(5, 5), 1},
		{"clipped", grid.Pt(-2, 8), grid.Pt(1, 12), 2 * 2},
		{"fully_outside", grid.Pt(12, 12), grid.Pt(15, 15), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ws := apply(t, Rectangle, Request{Grid: g, Points: []grid.Point{c.a, c.b}, Brush: 9, Tile: grid.Of("forest")})
			if len(ws) != c.want {
				t.Fatalf("expected %d writes, got %d", c.want, len(ws))
			}
		})
	}
}

func TestBucketContainment(t *testing.T) {
	g := newGrid(t, 6, 6)
	// A vertical ocean wall at x=3 splits the grid.
	for y := 0; y < 6; y++ {
		g.Set(3, y, grid.Of("ocean"))
	}

	ws := apply(t, Bucket, Request{Grid: g, Points: []grid.Point{grid.Pt(1, 1)}, Tile: grid.Of("grassland")})
	if len(ws) != 3*6 {
		t.Fatalf("left region has 18 cells, got %d writes", len(ws))
	}
	if unique(ws) != len(ws) {
		t.Fatalf("bucket visited a cell twice")
	}
	for _, w := range ws {
		if w.Point.X >= 3 {
			t.Fatalf("fill leaked to %v", w.Point)
		}
	}

	all := apply(t, Bucket, Request{Grid: newGrid(t, 7, 5), Points: []grid.Point{grid.Pt(3, 2)}, Tile: grid.Of("grassland")})
	if len(all) != 35 {
		t.Fatalf("empty grid fill should cover all 35 cells, got %d", len(all))
	}

	same := apply(t, Bucket, Request{Grid: g, Points: []grid.Point{grid.Pt(3, 0)}, Tile: grid.Of("ocean")})
	if len(same) != 0 {
		t.Fatalf("fill with source colour should be a no-op, got %d writes", len(same))
	}

	outside := apply(t, Bucket, Request{Grid: g, Points: []grid.Point{grid.Pt(-1, 0)}, Tile: grid.Of("ocean")})
	if outside != nil {
		t.Fatalf("seed outside the grid should produce nothing")
	}
}

func TestBucketLargeGridNoRecursion(t *testing.T) {
	g := newGrid(t, 512, 512)
	ws := apply(t, Bucket, Request{Grid: g, Points: []grid.Point{grid.Pt(0, 0)}, Tile: grid.Of("tundra")})
	if len(ws) != 512*512 {
		t.Fatalf("expected full fill, got %d", len(ws))
	}
}

func TestMergeLastWriteWins(t *testing.T) {
	a := []Write{{Point: grid.Pt(0, 0), Tile: grid.Of("ocean")}, {Point: grid.Pt(1, 0), Tile: grid.Of("ocean")}}
	b := []Write{{Point: grid.Pt(0, 0), Tile: grid.Of("desert")}}
	got := Merge(a, b)
	if len(got) != 2 {
		t.Fatalf("expected 2 writes, got %d", len(got))
	}
	if got[0].Point != grid.Pt(0, 0) || got[0].Tile.Biome != "desert" {
		t.Fatalf("last write should win while keeping first-seen order, got %+v", got[0])
	}
}
