package history

import (
	"errors"
	"testing"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/tool"
)

func newLayers(t *testing.T) (*layer.Stack, *layer.Layer) {
	t.Helper()
	s, err := layer.NewStack(10, 10)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	l, err := s.Add("Terrain", true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	return s, l
}

func writes(id string, pts ...grid.Point) []tool.Write {
	out := make([]tool.Write, len(pts))
	for i, p := range pts {
		out[i] = tool.Write{Point: p, Tile: grid.Of(biome.ID(id))}
	}
	return out
}

func mustCommit(t *testing.T, h *Stack, target Target, id layer.ID, ws []tool.Write) *Command {
	t.Helper()
	if err := h.Begin(id, "paint"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := h.Accumulate(ws); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	cmd, err := h.Commit(target)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return cmd
}

func TestUndoRedoRoundTrip(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)

	mustCommit(t, h, layers, l.ID, writes("grassland", grid.Pt(5, 5)))
	if l.Grid.Painted() != 1 {
		t.Fatalf("painted=%d after commit", l.Grid.Painted())
	}
	before := l.Grid.Clone()

	if _, err := h.Undo(layers); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if l.Grid.Painted() != 0 {
		t.Fatalf("painted=%d after undo", l.Grid.Painted())
	}

	if _, err := h.Redo(layers); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if l.Grid.Painted() != 1 || !l.Grid.Equal(before) {
		t.Fatalf("redo did not restore identical state")
	}
}

func TestGestureAtomicity(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	l.Grid.Set(1, 1, grid.Of("ocean"))

	if err := h.Begin(l.ID, "drag"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	h.Accumulate(writes("desert", grid.Pt(1, 1), grid.Pt(2, 1)))
	h.Accumulate(writes("forest", grid.Pt(1, 1), grid.Pt(3, 1)))
	if l.Grid.Painted() != 1 {
		t.Fatalf("open gesture must not mutate the grid")
	}
	if len(h.Pending()) != 3 {
		t.Fatalf("expected 3 pending writes, got %d", len(h.Pending()))
	}

	cmd, err := h.Commit(layers)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if cmd.Len() != 3 || h.UndoCount() != 1 {
		t.Fatalf("expected one command with 3 changes, got %d (%d commands)", cmd.Len(), h.UndoCount())
	}
	for _, ch := range cmd.Changes() {
		if ch.Point == grid.Pt(1, 1) {
			if ch.Old.Biome != "ocean" || ch.New.Biome != "forest" {
				t.Fatalf("old must be pre-gesture, new last-written: %+v", ch)
			}
		}
	}

	h.Undo(layers)
	got, _ := l.Grid.Get(1, 1)
	if got.Biome != "ocean" || l.Grid.Painted() != 1 {
		t.Fatalf("single undo should revert the whole gesture, got %+v", got)
	}
}

func TestMisuseErrors(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"undo_empty", func() error { _, err := h.Undo(layers); return err }, ErrNothingToUndo},
		{"redo_empty", func() error { _, err := h.Redo(layers); return err }, ErrNothingToRedo},
		{"accumulate_idle", func() error { return h.Accumulate(nil) }, ErrNoGesture},
		{"commit_idle", func() error { _, err := h.Commit(layers); return err }, ErrNoGesture},
		{"double_begin", func() error {
			if err := h.Begin(l.ID, "a"); err != nil {
				return err
			}
			defer h.Discard()
			return h.Begin(l.ID, "b")
		}, ErrGestureAlreadyOpen},
		{"undo_while_open", func() error {
			h.Begin(l.ID, "a")
			defer h.Discard()
			_, err := h.Undo(layers)
			return err
		}, ErrGestureOpen},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.run(); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if l.Grid.Painted() != 0 || h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Fatalf("misuse must not change state")
	}
}

func TestDiscardLeavesGridUntouched(t *testing.T) {
	_, l := newLayers(t)
	h := NewStack(0)
	h.Begin(l.ID, "drag")
	h.Accumulate(writes("ocean", grid.Pt(0, 0), grid.Pt(1, 0)))
	h.Discard()
	if h.IsOpen() || l.Grid.Painted() != 0 || h.CanUndo() {
		t.Fatalf("discard must not mutate grid or history")
	}
	if err := h.Begin(l.ID, "again"); err != nil {
		t.Fatalf("Begin after discard: %v", err)
	}
	h.Discard()
}

func TestNoOpCommitRecordsNothing(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	cmd := mustCommit(t, h, layers, l.ID, nil)
	if cmd != nil || h.CanUndo() {
		t.Fatalf("empty batch should record nothing")
	}

	l.Grid.Set(4, 4, grid.Of("ocean"))
	cmd = mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(4, 4)))
	if cmd != nil {
		t.Fatalf("writes equal to current state should record nothing")
	}
}

func TestNewCommandClearsRedo(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(0, 0)))
	mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(1, 0)))
	h.Undo(layers)
	if !h.CanRedo() {
		t.Fatalf("expected redo available")
	}
	timeline := h.Timeline()
	if len(timeline) != 2 {
		t.Fatalf("timeline should hold done then undone, got %d", len(timeline))
	}

	mustCommit(t, h, layers, l.ID, writes("desert", grid.Pt(2, 0)))
	if h.CanRedo() || h.RedoCount() != 0 {
		t.Fatalf("new command must clear redo")
	}
	if h.UndoCount() != 2 {
		t.Fatalf("expected 2 done commands, got %d", h.UndoCount())
	}
}

func TestCommitUnknownLayer(t *testing.T) {
	layers, _ := newLayers(t)
	h := NewStack(0)
	h.Begin(layer.ID(77), "paint")
	h.Accumulate(writes("ocean", grid.Pt(0, 0)))
	if _, err := h.Commit(layers); !errors.Is(err, ErrLayerNotFound) {
		t.Fatalf("expected ErrLayerNotFound, got %v", err)
	}
	if h.IsOpen() {
		t.Fatalf("failed commit should close the gesture")
	}
}

func TestCommitOutOfBoundsIsAtomic(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	h.Begin(l.ID, "paint")
	h.Accumulate(writes("ocean", grid.Pt(0, 0), grid.Pt(50, 50)))
	if _, err := h.Commit(layers); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if l.Grid.Painted() != 0 {
		t.Fatalf("rejected commit must not partially apply")
	}
}

func TestUndoAfterLayerRemovalWarns(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(0, 0)))
	other, _ := layers.Add("Structures", true)
	mustCommit(t, h, layers, other.ID, writes("town", grid.Pt(1, 1)))

	if err := layers.Remove(other.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	res, err := h.Undo(layers)
	if err != nil {
		t.Fatalf("undo of removed layer should not fail: %v", err)
	}
	if !errors.Is(res.Warning, ErrLayerNotFound) {
		t.Fatalf("expected warning wrapping ErrLayerNotFound, got %v", res.Warning)
	}
	if h.RedoCount() != 1 {
		t.Fatalf("skipped command should still move to redo")
	}

	res, err = h.Undo(layers)
	if err != nil || res.Warning != nil {
		t.Fatalf("next undo should apply normally: res=%+v err=%v", res, err)
	}
	if l.Grid.Painted() != 0 {
		t.Fatalf("terrain edit should be reverted")
	}

	h.Redo(layers)
	res, err = h.Redo(layers)
	if err != nil || !errors.Is(res.Warning, ErrLayerNotFound) {
		t.Fatalf("redo on removed layer should warn: res=%+v err=%v", res, err)
	}
}

func TestMaxEntriesPolicy(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(2)
	for x := 0; x < 4; x++ {
		mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(x, 0)))
	}
	if h.UndoCount() != 2 {
		t.Fatalf("expected history capped at 2, got %d", h.UndoCount())
	}
	info, ok := h.PeekUndo()
	if !ok || info.Tiles != 1 || info.Label != "paint" {
		t.Fatalf("unexpected peek %+v", info)
	}

	// Only the first 100 commits land on distinct cells of the 10x10 grid.
	unbounded := NewStack(0)
	for x := 0; x < 150; x++ {
		mustCommit(t, unbounded, layers, l.ID, writes("desert", grid.Pt(x%10, x/10%10)))
	}
	if unbounded.UndoCount() != 100 {
		t.Fatalf("expected 100 recorded commands, got %d", unbounded.UndoCount())
	}
}

func TestClear(t *testing.T) {
	layers, l := newLayers(t)
	h := NewStack(0)
	mustCommit(t, h, layers, l.ID, writes("ocean", grid.Pt(0, 0)))
	h.Undo(layers)
	h.Begin(l.ID, "open")
	h.Clear()
	if h.CanUndo() || h.CanRedo() || h.IsOpen() {
		t.Fatalf("Clear should reset everything")
	}
}
