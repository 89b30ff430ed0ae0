// Package stats derives tile statistics from the layer stack.
package stats

import (
	"cmp"
	"encoding/json"
	"slices"
	"strconv"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
)

type Scope int

const (
	// ScopeActive counts the selected layer only.
	ScopeActive Scope = iota
	// ScopeVisible counts the composite of visible layers.
	ScopeVisible
)

func (s Scope) String() string {
	if s == ScopeVisible {
		return "visible"
	}
	return "active"
}

// Snapshot is an immutable view of the counts. Painted+Empty is always
// Width*Height.
type Snapshot struct {
	Width, Height int
	Painted       int
	Empty         int
	PerBiome      map[biome.ID]int
}

func (s Snapshot) Total() int { return s.Width * s.Height }

// Coverage is the percentage of all cells holding the given biome.
func (s Snapshot) Coverage(id biome.ID) float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.PerBiome[id]) * 100 / float64(s.Total())
}

// Ranked lists biome ids by descending count, ties broken by id.
func (s Snapshot) Ranked() []biome.ID {
	ids := make([]biome.ID, 0, len(s.PerBiome))
	for id := range s.PerBiome {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b biome.ID) int {
		if c := cmp.Compare(s.PerBiome[b], s.PerBiome[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return ids
}

// JSON renders the snapshot as indented JSON.
func (s Snapshot) JSON() ([]byte, error) {
	buf := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err != nil {
			return
		}
		buf, err = sjson.SetBytes(buf, path, v)
	}
	set("width", s.Width)
	set("height", s.Height)
	set("painted", s.Painted)
	set("empty", s.Empty)
	if err != nil {
		return nil, err
	}
	// Ids are arbitrary strings, so perBiome is encoded directly rather than
	// through sjson paths. Members keep ranking order.
	raw := []byte{'{'}
	for i, id := range s.Ranked() {
		key, _ := json.Marshal(string(id))
		if i > 0 {
			raw = append(raw, ',')
		}
		raw = append(raw, key...)
		raw = append(raw, ':')
		raw = strconv.AppendInt(raw, int64(s.PerBiome[id]), 10)
	}
	raw = append(raw, '}')
	if buf, err = sjson.SetRawBytes(buf, "perBiome", raw); err != nil {
		return nil, err
	}
	return pretty.Pretty(buf), nil
}

// Of snapshots a single grid.
func Of(g *grid.Grid) Snapshot {
	w, h := g.Dimensions()
	painted := g.Painted()
	return Snapshot{Width: w, Height: h, Painted: painted, Empty: w*h - painted, PerBiome: g.CountByBiome()}
}

// Composite snapshots the visible composite: a cell counts under the biome
// of its top-most visible non-empty tile.
func Composite(s *layer.Stack) Snapshot {
	w, h := s.Dimensions()
	snap := Snapshot{Width: w, Height: h, PerBiome: map[biome.ID]int{}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t, _ := s.Composite(x, y)
			if t.IsEmpty() {
				continue
			}
			snap.PerBiome[t.Biome]++
			snap.Painted++
		}
	}
	snap.Empty = w*h - snap.Painted
	return snap
}

// Tracker caches the last snapshot. Callers refresh it after every
// committed command, undo, redo and layer change.
type Tracker struct {
	scope Scope
	snap  Snapshot
	gen   int
}

func NewTracker(scope Scope) *Tracker { return &Tracker{scope: scope} }

func (t *Tracker) Scope() Scope { return t.scope }

func (t *Tracker) SetScope(s Scope) { t.scope = s }

// Refresh recomputes from the stack. A missing active layer in ScopeActive
// yields an all-empty snapshot of the stack's dimensions.
func (t *Tracker) Refresh(s *layer.Stack, active layer.ID) Snapshot {
	t.gen++
	if t.scope == ScopeVisible {
		t.snap = Composite(s)
		return t.snap
	}
	g, err := s.Grid(active)
	if err != nil {
		w, h := s.Dimensions()
		t.snap = Snapshot{Width: w, Height: h, Empty: w * h, PerBiome: map[biome.ID]int{}}
		return t.snap
	}
	t.snap = Of(g)
	return t.snap
}

func (t *Tracker) Snapshot() Snapshot { return t.snap }

// Generation counts refreshes; frontends use it to skip redundant redraws.
func (t *Tracker) Generation() int { return t.gen }
