// Package layer manages the ordered stack of tile layers.
package layer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/milk9111/biomeeditor/grid"
)

var (
	ErrNotFound      = errors.New("layer not found")
	ErrDuplicateName = errors.New("duplicate layer name")
	ErrEmptyName     = errors.New("empty layer name")
)

// ID is a stable layer identifier. IDs are never reused within a Stack.
type ID int

// Layer wraps one grid with its presentation attributes.
type Layer struct {
	ID      ID
	Name    string
	Visible bool
	Opacity float64
	Grid    *grid.Grid
}

// Template describes a layer to create at startup.
type Template struct {
	Name    string `yaml:"name" json:"name"`
	Visible bool   `yaml:"visible" json:"visible"`
}

// Stack owns its layers and their grids. Index 0 is the bottom of the
// compositing order.
type Stack struct {
	w, h   int
	layers []*Layer
	nextID ID
}

// NewStack creates an empty stack whose layers will all be w×h.
func NewStack(w, h int) (*Stack, error) {
	if err := grid.CheckSize(w, h); err != nil {
		return nil, err
	}
	return &Stack{w: w, h: h, nextID: 1}, nil
}

// FromTemplates creates a stack and adds one layer per template. Templates
// with blank or repeated names are skipped and reported in the returned
// error; the stack is still usable.
func FromTemplates(w, h int, templates []Template) (*Stack, error) {
	s, err := NewStack(w, h)
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, t := range templates {
		if _, err := s.Add(t.Name, t.Visible); err != nil {
			errs = append(errs, err)
		}
	}
	return s, errors.Join(errs...)
}

func (s *Stack) Dimensions() (int, int) { return s.w, s.h }

func (s *Stack) Len() int { return len(s.layers) }

// Add appends a new empty layer on top.
func (s *Stack) Add(name string, visible bool) (*Layer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if s.indexOfName(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	g, err := grid.New(s.w, s.h)
	if err != nil {
		return nil, err
	}
	l := &Layer{ID: s.nextID, Name: name, Visible: visible, Opacity: 1, Grid: g}
	s.nextID++
	s.layers = append(s.layers, l)
	return l, nil
}

// NextName returns "Layer N" for the smallest N not already taken.
func (s *Stack) NextName() string {
	for n := len(s.layers) + 1; ; n++ {
		name := fmt.Sprintf("Layer %d", n)
		if s.indexOfName(name) < 0 {
			return name
		}
	}
}

// Remove deletes the layer and its grid.
func (s *Stack) Remove(id ID) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	return nil
}

func (s *Stack) Get(id ID) (*Layer, error) {
	i := s.indexOf(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return s.layers[i], nil
}

// Grid satisfies the history target contract.
func (s *Stack) Grid(id ID) (*grid.Grid, error) {
	l, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return l.Grid, nil
}

// At returns the layer at compositing position i.
func (s *Stack) At(i int) (*Layer, bool) {
	if i < 0 || i >= len(s.layers) {
		return nil, false
	}
	return s.layers[i], true
}

// Order returns the z-index of the layer, or -1.
func (s *Stack) Order(id ID) int { return s.indexOf(id) }

// Layers returns the layers bottom to top. The slice is a copy; the layers
// are not.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

func (s *Stack) SetVisible(id ID, visible bool) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.Visible = visible
	return nil
}

// ToggleVisibility flips visibility and returns the new state.
func (s *Stack) ToggleVisibility(id ID) (bool, error) {
	l, err := s.Get(id)
	if err != nil {
		return false, err
	}
	l.Visible = !l.Visible
	return l.Visible, nil
}

// SetOpacity clamps o into [0,1].
func (s *Stack) SetOpacity(id ID, o float64) error {
	l, err := s.Get(id)
	if err != nil {
		return err
	}
	l.Opacity = min(max(o, 0), 1)
	return nil
}

func (s *Stack) Rename(id ID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if j := s.indexOfName(name); j >= 0 && j != i {
		return fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	s.layers[i].Name = name
	return nil
}

// MoveUp swaps the layer with the one above it. Returns false at the top.
func (s *Stack) MoveUp(id ID) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if i >= len(s.layers)-1 {
		return false, nil
	}
	s.layers[i], s.layers[i+1] = s.layers[i+1], s.layers[i]
	return true, nil
}

// MoveDown swaps the layer with the one below it. Returns false at the bottom.
func (s *Stack) MoveDown(id ID) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if i == 0 {
		return false, nil
	}
	s.layers[i], s.layers[i-1] = s.layers[i-1], s.layers[i]
	return true, nil
}

// Composite returns the top-most non-empty tile among visible layers along
// with the layer that supplied it.
func (s *Stack) Composite(x, y int) (grid.Tile, *Layer) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		l := s.layers[i]
		if !l.Visible {
			continue
		}
		t, err := l.Grid.Get(x, y)
		if err != nil || t.IsEmpty() {
			continue
		}
		return t, l
	}
	return grid.Empty, nil
}

func (s *Stack) indexOf(id ID) int {
	for i, l := range s.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *Stack) indexOfName(name string) int {
	for i, l := range s.layers {
		if strings.EqualFold(l.Name, name) {
			return i
		}
	}
	return -1
}
