package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/tool"
)

var (
	ErrGestureAlreadyOpen = errors.New("gesture already open")
	ErrNoGesture          = errors.New("no open gesture")
	ErrGestureOpen        = errors.New("gesture in progress")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")

	// ErrLayerNotFound is reported when a command's layer no longer exists.
	ErrLayerNotFound = layer.ErrNotFound
)

// Target resolves layer ids to the grids commands are applied to.
type Target interface {
	Grid(id layer.ID) (*grid.Grid, error)
}

// Result is returned by Undo and Redo. Warning is set when the command was
// skipped because its layer has been removed; the history still moved.
type Result struct {
	Command *Command
	Warning error
}

// Stack is the undo/redo history plus the single open gesture.
type Stack struct {
	done   []*Command
	undone []*Command

	// 0 means unbounded.
	maxEntries int

	open         bool
	pendingLayer layer.ID
	pendingLabel string
	pending      []tool.Write
	pendingIndex map[grid.Point]int
}

// NewStack creates a history. maxEntries <= 0 keeps every command.
func NewStack(maxEntries int) *Stack {
	return &Stack{maxEntries: max(maxEntries, 0)}
}

// Begin opens a gesture targeting the given layer.
func (s *Stack) Begin(id layer.ID, label string) error {
	if s.open {
		return ErrGestureAlreadyOpen
	}
	s.open = true
	s.pendingLayer = id
	s.pendingLabel = label
	s.pending = nil
	s.pendingIndex = map[grid.Point]int{}
	return nil
}

func (s *Stack) IsOpen() bool { return s.open }

// PendingLayer returns the layer of the open gesture.
func (s *Stack) PendingLayer() (layer.ID, bool) {
	return s.pendingLayer, s.open
}

// Accumulate merges writes into the open gesture, last write wins per
// coordinate.
func (s *Stack) Accumulate(writes []tool.Write) error {
	if !s.open {
		return ErrNoGesture
	}
	for _, w := range writes {
		if i, ok := s.pendingIndex[w.Point]; ok {
			s.pending[i].Tile = w.Tile
			continue
		}
		s.pendingIndex[w.Point] = len(s.pending)
		s.pending = append(s.pending, w)
	}
	return nil
}

// Replace swaps the whole pending batch, used by shape tools whose preview
// is recomputed on every pointer move.
func (s *Stack) Replace(writes []tool.Write) error {
	if !s.open {
		return ErrNoGesture
	}
	s.pending = nil
	s.pendingIndex = map[grid.Point]int{}
	return s.Accumulate(writes)
}

// Pending returns a copy of the open gesture's writes.
func (s *Stack) Pending() []tool.Write {
	if !s.open {
		return nil
	}
	out := make([]tool.Write, len(s.pending))
	copy(out, s.pending)
	return out
}

// Discard drops the open gesture without touching any grid.
func (s *Stack) Discard() {
	s.open = false
	s.pending = nil
	s.pendingIndex = nil
	s.pendingLabel = ""
	s.pendingLayer = 0
}

// Commit applies the open gesture and records it. Writes that would not
// change a cell are dropped; if nothing changes, no command is recorded and
// Commit returns nil, nil. The gesture is closed in every case.
func (s *Stack) Commit(target Target) (*Command, error) {
	if !s.open {
		return nil, ErrNoGesture
	}
	id, label, writes := s.pendingLayer, s.pendingLabel, s.pending
	s.Discard()

	g, err := target.Grid(id)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", label, err)
	}

	// Resolve every old value before the first Set so a bad coordinate
	// leaves the grid untouched.
	changes := make([]Change, 0, len(writes))
	for _, w := range writes {
		old, err := g.Get(w.Point.X, w.Point.Y)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", label, err)
		}
		if old == w.Tile {
			continue
		}
		changes = append(changes, Change{Point: w.Point, Old: old, New: w.Tile})
	}
	if len(changes) == 0 {
		return nil, nil
	}

	cmd := &Command{layer: id, label: label, changes: changes, at: time.Now()}
	if err := cmd.forward(g); err != nil {
		return nil, err
	}
	s.push(cmd)
	return cmd, nil
}

func (s *Stack) push(cmd *Command) {
	s.done = append(s.done, cmd)
	s.undone = nil
	if s.maxEntries > 0 && len(s.done) > s.maxEntries {
		excess := len(s.done) - s.maxEntries
		s.done = s.done[excess:]
	}
}

// Undo reverts the most recent command.
func (s *Stack) Undo(target Target) (Result, error) {
	if s.open {
		return Result{}, ErrGestureOpen
	}
	n := len(s.done)
	if n == 0 {
		return Result{}, ErrNothingToUndo
	}
	cmd := s.done[n-1]
	g, err := target.Grid(cmd.layer)
	if err != nil {
		if !errors.Is(err, ErrLayerNotFound) {
			return Result{}, err
		}
		s.done = s.done[:n-1]
		s.undone = append(s.undone, cmd)
		return Result{Command: cmd, Warning: fmt.Errorf("undo %s skipped: %w", cmd.label, err)}, nil
	}
	if err := cmd.backward(g); err != nil {
		return Result{}, err
	}
	s.done = s.done[:n-1]
	s.undone = append(s.undone, cmd)
	return Result{Command: cmd}, nil
}

// Redo re-applies the most recently undone command.
func (s *Stack) Redo(target Target) (Result, error) {
	if s.open {
		return Result{}, ErrGestureOpen
	}
	n := len(s.undone)
	if n == 0 {
		return Result{}, ErrNothingToRedo
	}
	cmd := s.undone[n-1]
	g, err := target.Grid(cmd.layer)
	if err != nil {
		if !errors.Is(err, ErrLayerNotFound) {
			return Result{}, err
		}
		s.undone = s.undone[:n-1]
		s.done = append(s.done, cmd)
		return Result{Command: cmd, Warning: fmt.Errorf("redo %s skipped: %w", cmd.label, err)}, nil
	}
	if err := cmd.forward(g); err != nil {
		return Result{}, err
	}
	s.undone = s.undone[:n-1]
	s.done = append(s.done, cmd)
	return Result{Command: cmd}, nil
}

func (s *Stack) CanUndo() bool { return !s.open && len(s.done) > 0 }

func (s *Stack) CanRedo() bool { return !s.open && len(s.undone) > 0 }

func (s *Stack) UndoCount() int { return len(s.done) }

func (s *Stack) RedoCount() int { return len(s.undone) }

func (s *Stack) PeekUndo() (Info, bool) {
	if len(s.done) == 0 {
		return Info{}, false
	}
	return s.done[len(s.done)-1].info(), true
}

func (s *Stack) PeekRedo() (Info, bool) {
	if len(s.undone) == 0 {
		return Info{}, false
	}
	return s.undone[len(s.undone)-1].info(), true
}

// Timeline returns done commands oldest first, followed by undone commands
// in the order they would be redone.
func (s *Stack) Timeline() []Info {
	out := make([]Info, 0, len(s.done)+len(s.undone))
	for _, c := range s.done {
		out = append(out, c.info())
	}
	for i := len(s.undone) - 1; i >= 0; i-- {
		out = append(out, s.undone[i].info())
	}
	return out
}

// Clear drops all history and any open gesture.
func (s *Stack) Clear() {
	s.Discard()
	s.done = nil
	s.undone = nil
}

func (s *Stack) MaxEntries() int { return s.maxEntries }
