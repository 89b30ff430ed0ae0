// Package editor ties the editing engine together. State owns the layer
// stack, history, viewport and statistics and applies input events to them
// one at a time.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/config"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/history"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/script"
	"github.com/milk9111/biomeeditor/stats"
	"github.com/milk9111/biomeeditor/tool"
	"github.com/milk9111/biomeeditor/viewport"
)

// ScriptTimeout bounds a single macro run.
const ScriptTimeout = 2 * time.Second

var ErrUnknownEvent = errors.New("unknown event")

// gesture captures everything a pointer gesture needs at press time, so
// later tool, brush, biome or layer changes only affect the next gesture.
type gesture struct {
	kind   tool.Kind
	brush  int
	tile   grid.Tile
	layer  layer.ID
	anchor grid.Point
	last   grid.Point
}

type State struct {
	catalog *biome.Catalog
	layers  *layer.Stack
	history *history.Stack
	view    *viewport.Viewport
	tracker *stats.Tracker

	tool   tool.Kind
	brush  int
	biome  biome.ID
	active layer.ID

	gesture *gesture
	hover   grid.Point
	hovered bool

	queue Queue
}

// New builds a State from a config. The returned error collects non-fatal
// problems (skipped biomes or layers); the State is usable whenever it is
// non-nil.
func New(cfg config.Config) (*State, error) {
	var errs []error
	cat, err := cfg.Catalog()
	if err != nil {
		errs = append(errs, err)
	}
	layers, err := cfg.Stack()
	if layers == nil {
		return nil, err
	}
	if err != nil {
		errs = append(errs, err)
	}
	vp, err := cfg.Viewport()
	if err != nil {
		return nil, err
	}
	s := NewState(cat, layers, vp, history.NewStack(cfg.History.MaxEntries))
	if err := tool.ValidateBrush(cfg.Brush.Size); err == nil {
		s.brush = cfg.Brush.Size
	}
	return s, errors.Join(errs...)
}

// NewState assembles a State from its parts. The first biome and the top
// layer start selected.
func NewState(cat *biome.Catalog, layers *layer.Stack, vp *viewport.Viewport, h *history.Stack) *State {
	if cat == nil {
		cat = biome.Empty()
	}
	s := &State{
		catalog: cat,
		layers:  layers,
		history: h,
		view:    vp,
		tracker: stats.NewTracker(stats.ScopeActive),
		tool:    tool.Pencil,
		brush:   1,
	}
	if b, ok := cat.At(0); ok {
		s.biome = b.ID
	}
	if n := layers.Len(); n > 0 {
		top, _ := layers.At(n - 1)
		s.active = top.ID
	}
	s.refresh()
	return s
}

func (s *State) Catalog() *biome.Catalog      { return s.catalog }
func (s *State) Layers() *layer.Stack         { return s.layers }
func (s *State) Viewport() *viewport.Viewport { return s.view }
func (s *State) History() *history.Stack      { return s.history }
func (s *State) Stats() stats.Snapshot        { return s.tracker.Snapshot() }
func (s *State) Generation() int              { return s.tracker.Generation() }

// Enqueue appends events for the next Drain.
func (s *State) Enqueue(evs ...Event) { s.queue.Push(evs...) }

func (s *State) Pending() int { return s.queue.Len() }

// Drain handles every queued event in arrival order. Errors are logged and
// returned; none stops the drain.
func (s *State) Drain() []error {
	var errs []error
	for {
		ev, ok := s.queue.Pop()
		if !ok {
			return errs
		}
		if err := s.Handle(ev); err != nil {
			log.Printf("editor: %T: %v", ev, err)
			errs = append(errs, err)
		}
	}
}

// Handle applies one event synchronously.
func (s *State) Handle(ev Event) error {
	switch e := ev.(type) {
	case PointerDown:
		return s.pointerDown(e.X, e.Y)
	case PointerMove:
		return s.pointerMove(e.X, e.Y)
	case PointerUp:
		return s.pointerUp(e.X, e.Y)
	case PointerLeave:
		s.hovered = false
		s.abort()
		return nil
	case Cancel:
		s.abort()
		return nil
	case SelectTool:
		return s.selectTool(e.Kind)
	case SetBrush:
		return s.setBrush(e.Size)
	case StepBrush:
		next := min(max(s.brush+2*e.Delta, 1), tool.MaxBrush)
		if next == s.brush {
			return nil
		}
		return s.setBrush(next)
	case SelectBiome:
		return s.selectBiome(e.ID)
	case SetScope:
		s.tracker.SetScope(e.Scope)
		s.refresh()
		return nil
	case SelectLayer:
		if _, err := s.layers.Get(e.ID); err != nil {
			return err
		}
		s.active = e.ID
		s.refresh()
		return nil
	case AddLayer:
		return s.addLayer(e.Name)
	case RemoveLayer:
		return s.removeLayer(e.ID)
	case ToggleVisibility:
		visible, err := s.layers.ToggleVisibility(e.ID)
		if err != nil {
			return err
		}
		log.Printf("Layer %d visible=%v", e.ID, visible)
		s.refresh()
		return nil
	case RenameLayer:
		return s.layers.Rename(e.ID, e.Name)
	case MoveLayer:
		var err error
		if e.Up {
			_, err = s.layers.MoveUp(e.ID)
		} else {
			_, err = s.layers.MoveDown(e.ID)
		}
		if err == nil {
			s.refresh()
		}
		return err
	case SetOpacity:
		return s.layers.SetOpacity(e.ID, e.Opacity)
	case Undo:
		return s.undo()
	case Redo:
		return s.redo()
	case ZoomIn:
		s.view.ZoomIn()
		return nil
	case ZoomOut:
		s.view.ZoomOut()
		return nil
	case ZoomAt:
		s.view.ZoomAt(e.X, e.Y, e.Dir)
		return nil
	case Pan:
		s.view.Pan(e.DX, e.DY)
		return nil
	case ResetView:
		s.view.Reset()
		return nil
	case ReloadCatalog:
		s.reloadCatalog(e.Catalog)
		return nil
	case RunScript:
		return s.runScript(e.Name, e.Source)
	}
	return fmt.Errorf("%w: %T", ErrUnknownEvent, ev)
}

func (s *State) cell(px, py float64) grid.Point {
	x, y := s.view.ScreenToGrid(px, py)
	return grid.Pt(x, y)
}

func (s *State) pointerDown(px, py float64) error {
	if s.history.IsOpen() {
		return history.ErrGestureAlreadyOpen
	}
	p := s.cell(px, py)
	s.hover, s.hovered = p, true

	l, err := s.layers.Get(s.active)
	if err != nil {
		return fmt.Errorf("paint: %w", err)
	}
	tile := grid.Of(s.biome)
	if s.tool == tool.Eraser {
		tile = grid.Empty
	} else if s.biome == biome.None {
		return fmt.Errorf("paint: %w: no biome selected", biome.ErrUnknownBiome)
	} else if err := s.catalog.Validate(s.biome); err != nil {
		return fmt.Errorf("paint: %w", err)
	}

	if err := s.history.Begin(l.ID, s.tool.String()); err != nil {
		return err
	}
	g := &gesture{kind: s.tool, brush: s.brush, tile: tile, layer: l.ID, anchor: p, last: p}
	s.gesture = g

	ws, err := s.compute(l.Grid, []grid.Point{p})
	if err != nil {
		s.abort()
		return err
	}
	if g.kind.Style() == tool.StyleShape {
		return s.history.Replace(ws)
	}
	return s.history.Accumulate(ws)
}

// compute runs the gesture's tool. Shape tools always span anchor to the
// given point.
func (s *State) compute(g *grid.Grid, pts []grid.Point) ([]tool.Write, error) {
	ge := s.gesture
	if ge.kind.Style() == tool.StyleShape {
		pts = []grid.Point{ge.anchor, pts[len(pts)-1]}
	}
	return tool.Apply(ge.kind, tool.Request{Grid: g, Points: pts, Brush: ge.brush, Tile: ge.tile})
}

func (s *State) pointerMove(px, py float64) error {
	p := s.cell(px, py)
	s.hover, s.hovered = p, true
	if s.gesture == nil {
		return nil
	}
	return s.extend(p)
}

func (s *State) extend(p grid.Point) error {
	ge := s.gesture
	if ge.kind.Style() == tool.StyleClick || p == ge.last {
		return nil
	}
	g, err := s.layers.Grid(ge.layer)
	if err != nil {
		s.abort()
		return fmt.Errorf("paint: %w", err)
	}
	ws, err := s.compute(g, []grid.Point{ge.last, p})
	if err != nil {
		return err
	}
	ge.last = p
	if ge.kind.Style() == tool.StyleShape {
		return s.history.Replace(ws)
	}
	return s.history.Accumulate(ws)
}

func (s *State) pointerUp(px, py float64) error {
	if s.gesture == nil {
		return nil
	}
	p := s.cell(px, py)
	s.hover, s.hovered = p, true
	if err := s.extend(p); err != nil {
		s.abort()
		return err
	}
	s.gesture = nil
	cmd, err := s.history.Commit(s.layers)
	if err != nil {
		return err
	}
	if cmd != nil {
		s.refresh()
	}
	return nil
}

func (s *State) abort() {
	if s.history.IsOpen() {
		s.history.Discard()
	}
	s.gesture = nil
}

func (s *State) selectTool(k tool.Kind) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", tool.ErrUnknownTool, int(k))
	}
	if s.tool != k {
		s.tool = k
		log.Printf("Switched to %s tool", k)
	}
	return nil
}

func (s *State) setBrush(n int) error {
	if err := tool.ValidateBrush(n); err != nil {
		return err
	}
	s.brush = n
	return nil
}

func (s *State) selectBiome(id biome.ID) error {
	if id == biome.None {
		return fmt.Errorf("%w: empty id", biome.ErrUnknownBiome)
	}
	if err := s.catalog.Validate(id); err != nil {
		return err
	}
	s.biome = id
	return nil
}

func (s *State) addLayer(name string) error {
	if name == "" {
		name = s.layers.NextName()
	}
	l, err := s.layers.Add(name, true)
	if err != nil {
		return err
	}
	s.active = l.ID
	log.Printf("Added layer %q", l.Name)
	s.refresh()
	return nil
}

func (s *State) removeLayer(id layer.ID) error {
	if s.history.IsOpen() {
		return history.ErrGestureOpen
	}
	order := s.layers.Order(id)
	l, err := s.layers.Get(id)
	if err != nil {
		return err
	}
	if err := s.layers.Remove(id); err != nil {
		return err
	}
	log.Printf("Removed layer %q", l.Name)
	if s.active == id {
		s.active = 0
		if n := s.layers.Len(); n > 0 {
			next, _ := s.layers.At(min(max(order-1, 0), n-1))
			s.active = next.ID
		}
	}
	s.refresh()
	return nil
}

func (s *State) undo() error {
	res, err := s.history.Undo(s.layers)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Printf("editor: %v", res.Warning)
	}
	s.refresh()
	return nil
}

func (s *State) redo() error {
	res, err := s.history.Redo(s.layers)
	if err != nil {
		return err
	}
	if res.Warning != nil {
		log.Printf("editor: %v", res.Warning)
	}
	s.refresh()
	return nil
}

func (s *State) reloadCatalog(cat *biome.Catalog) {
	if cat == nil {
		cat = biome.Empty()
	}
	s.catalog = cat
	if g := s.gesture; g != nil && !g.tile.IsEmpty() && cat.Validate(g.tile.Biome) != nil {
		log.Printf("Discarding %s: biome %q left the catalog", g.kind, g.tile.Biome)
		s.abort()
	}
	if s.catalog.Validate(s.biome) != nil || s.biome == biome.None {
		s.biome = biome.None
		if b, ok := cat.At(0); ok {
			s.biome = b.ID
		}
	}
	log.Printf("Reloaded catalog: %d biomes", cat.Len())
}

func (s *State) runScript(name string, src []byte) error {
	if s.history.IsOpen() {
		return history.ErrGestureOpen
	}
	l, err := s.layers.Get(s.active)
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), ScriptTimeout)
	defer cancel()
	res, err := script.Run(ctx, src, script.Env{Grid: l.Grid, Catalog: s.catalog, Biome: s.biome, Brush: s.brush})
	for _, line := range res.Output {
		log.Printf("script %s: %s", name, line)
	}
	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	if err := s.history.Begin(l.ID, "script "+name); err != nil {
		return err
	}
	if err := s.history.Accumulate(res.Writes); err != nil {
		s.history.Discard()
		return err
	}
	cmd, err := s.history.Commit(s.layers)
	if err != nil {
		return err
	}
	if cmd != nil {
		log.Printf("script %s: %d tiles", name, cmd.Len())
		s.refresh()
	}
	return nil
}

// refresh recomputes statistics from committed state. Writes of an open
// gesture have not reached any grid, so they are never counted.
func (s *State) refresh() {
	s.tracker.Refresh(s.layers, s.active)
}
