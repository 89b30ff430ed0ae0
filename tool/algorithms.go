package tool

import (
	"math"

	"github.com/milk9111/biomeeditor/grid"
)

// Footprint returns the brush×brush square centred on c, clipped to a w×h
// grid, in row-major order.
func Footprint(c grid.Point, brush, w, h int) []grid.Point {
	r := brush / 2
	pts := make([]grid.Point, 0, brush*brush)
	for y := c.Y - r; y <= c.Y+r; y++ {
		if y < 0 || y >= h {
			continue
		}
		for x := c.X - r; x <= c.X+r; x++ {
			if x < 0 || x >= w {
				continue
			}
			pts = append(pts, grid.Point{X: x, Y: y})
		}
	}
	return pts
}

// Bresenham returns the integer line from a to b inclusive. Consecutive
// points are 8-adjacent.
func Bresenham(a, b grid.Point) []grid.Point {
	x0, y0 := a.X, a.Y
	dx := abs(b.X - x0)
	dy := -abs(b.Y - y0)
	sx := 1
	if x0 >= b.X {
		sx = -1
	}
	sy := 1
	if y0 >= b.Y {
		sy = -1
	}
	points := make([]grid.Point, 0, max(dx, -dy)+1)
	err := dx + dy
	for {
		points = append(points, grid.Point{X: x0, Y: y0})
		if x0 == b.X && y0 == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return points
}

// clipSegment clips a→b to the inclusive box [x0,x1]×[y0,y1]
// (Liang-Barsky). ok is false when the segment misses the box. Clipped
// endpoints are rounded to the nearest cell.
func clipSegment(a, b grid.Point, x0, y0, x1, y1 int) (grid.Point, grid.Point, bool) {
	inside := func(p grid.Point) bool { return p.X >= x0 && p.X <= x1 && p.Y >= y0 && p.Y <= y1 }
	if inside(a) && inside(b) {
		return a, b, true
	}
	fx, fy := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X)-fx, float64(b.Y)-fy
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, fx - float64(x0)},
		{dx, float64(x1) - fx},
		{-dy, fy - float64(y0)},
		{dy, float64(y1) - fy},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = min(t1, t)
		}
	}
	at := func(t float64) grid.Point {
		return grid.Point{X: int(math.Round(fx + t*dx)), Y: int(math.Round(fy + t*dy))}
	}
	return at(t0), at(t1), true
}

// strokePath joins consecutive samples with Bresenham segments, without
// repeating shared endpoints. Each segment is first clipped to the w×h grid
// grown by the brush radius, so samples far off the grid cost no more than
// on-grid ones.
func strokePath(samples []grid.Point, brush, w, h int) []grid.Point {
	if len(samples) < 2 {
		return samples
	}
	r := brush/2 + 1
	var out []grid.Point
	for i := 1; i < len(samples); i++ {
		a, b, ok := clipSegment(samples[i-1], samples[i], -r, -r, w-1+r, h-1+r)
		if !ok {
			continue
		}
		seg := Bresenham(a, b)
		if n := len(out); n > 0 && out[n-1] == seg[0] {
			seg = seg[1:]
		}
		out = append(out, seg...)
	}
	return out
}

func stroke(req Request, path []grid.Point, t grid.Tile) []Write {
	w, h := req.Grid.Dimensions()
	b := newBatch()
	for _, p := range path {
		for _, fp := range Footprint(p, req.Brush, w, h) {
			b.put(fp, t)
		}
	}
	return b.writes
}

func pencil(req Request) []Write {
	w, h := req.Grid.Dimensions()
	return stroke(req, strokePath(req.Points, req.Brush, w, h), req.Tile)
}

func eraser(req Request) []Write {
	w, h := req.Grid.Dimensions()
	return stroke(req, strokePath(req.Points, req.Brush, w, h), grid.Empty)
}

func line(req Request) []Write {
	w, h := req.Grid.Dimensions()
	ends := []grid.Point{req.Points[0], req.Points[len(req.Points)-1]}
	return stroke(req, strokePath(ends, req.Brush, w, h), req.Tile)
}

// rectangle fills the inclusive box between the anchor and the end point.
func rectangle(req Request) []Write {
	w, h := req.Grid.Dimensions()
	a := req.Points[0]
	b := req.Points[len(req.Points)-1]
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	x0, y0 = max(x0, 0), max(y0, 0)
	x1, y1 = min(x1, w-1), min(y1, h-1)
	if x0 > x1 || y0 > y1 {
		return nil
	}
	writes := make([]Write, 0, (x1-x0+1)*(y1-y0+1))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			writes = append(writes, Write{Point: grid.Point{X: x, Y: y}, Tile: req.Tile})
		}
	}
	return writes
}

var neighbours4 = [4]grid.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}}

// bucket flood-fills the 4-connected region sharing the seed's biome. The
// frontier is an explicit stack and each cell is visited once.
func bucket(req Request) []Write {
	seed := req.Points[0]
	src, err := req.Grid.Get(seed.X, seed.Y)
	if err != nil || src.Biome == req.Tile.Biome {
		return nil
	}
	w, h := req.Grid.Dimensions()
	visited := make([]bool, w*h)
	visited[seed.Y*w+seed.X] = true
	frontier := []grid.Point{seed}
	var writes []Write
	for len(frontier) > 0 {
		p := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]
		writes = append(writes, Write{Point: p, Tile: req.Tile})
		for _, d := range neighbours4 {
			n := p.Add(d)
			if !req.Grid.InBounds(n.X, n.Y) || visited[n.Y*w+n.X] {
				continue
			}
			t, err := req.Grid.Get(n.X, n.Y)
			if err != nil || t.Biome != src.Biome {
				continue
			}
			visited[n.Y*w+n.X] = true
			frontier = append(frontier, n)
		}
	}
	return writes
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
