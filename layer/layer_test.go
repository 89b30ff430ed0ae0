package layer

import (
	"errors"
	"testing"

	"github.com/milk9111/biomeeditor/grid"
)

func newStack(t *testing.T, names ...string) *Stack {
	t.Helper()
	s, err := NewStack(8, 6)
	if err != nil {
		t.Fatalf("NewStack: %v", err)
	}
	for _, n := range names {
		if _, err := s.Add(n, true); err != nil {
			t.Fatalf("Add(%q): %v", n, err)
		}
	}
	return s
}

func TestAddAssignsStableIDsAndOrder(t *testing.T) {
	s := newStack(t, "Terrain", "Structures")
	if s.Len() != 2 {
		t.Fatalf("expected 2 layers, got %d", s.Len())
	}
	terrain, _ := s.At(0)
	structures, _ := s.At(1)
	if terrain.ID == structures.ID {
		t.Fatalf("ids must be unique")
	}
	if s.Order(terrain.ID) != 0 || s.Order(structures.ID) != 1 {
		t.Fatalf("unexpected order")
	}
	if w, h := terrain.Grid.Dimensions(); w != 8 || h != 6 {
		t.Fatalf("layer grid has wrong size %dx%d", w, h)
	}

	if err := s.Remove(terrain.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	added, err := s.Add("Terrain", false)
	if err != nil {
		t.Fatalf("re-Add: %v", err)
	}
	if added.ID == terrain.ID {
		t.Fatalf("removed ids must not be reused")
	}
	if s.Order(structures.ID) != 0 || s.Order(added.ID) != 1 {
		t.Fatalf("order should stay contiguous after remove")
	}
}

func TestAddRejectsBadNames(t *testing.T) {
	s := newStack(t, "Terrain")
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"blank", "   ", ErrEmptyName},
		{"duplicate", "Terrain", ErrDuplicateName},
		{"duplicate_case", "terrain", ErrDuplicateName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := s.Add(c.in, true); !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
	if s.Len() != 1 {
		t.Fatalf("rejected adds must not change the stack")
	}
}

func TestFromTemplatesSkipsInvalid(t *testing.T) {
	s, err := FromTemplates(4, 4, []Template{
		{Name: "Terrain", Visible: true},
		{Name: ""},
		{Name: "Terrain"},
		{Name: "Structures", Visible: false},
	})
	if err == nil {
		t.Fatalf("expected joined error for skipped templates")
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 layers, got %d", s.Len())
	}
	l, _ := s.At(1)
	if l.Visible {
		t.Fatalf("Structures template was not visible")
	}
}

func TestNextNameSkipsTaken(t *testing.T) {
	s := newStack(t, "Layer 2")
	if got := s.NextName(); got != "Layer 3" {
		t.Fatalf("expected Layer 3, got %q", got)
	}
}

func TestVisibilityOpacityRename(t *testing.T) {
	s := newStack(t, "Terrain", "Structures")
	l, _ := s.At(0)

	vis, err := s.ToggleVisibility(l.ID)
	if err != nil || vis {
		t.Fatalf("toggle: vis=%v err=%v", vis, err)
	}
	vis, _ = s.ToggleVisibility(l.ID)
	if !vis {
		t.Fatalf("second toggle should restore visibility")
	}

	s.SetOpacity(l.ID, 3)
	if l.Opacity != 1 {
		t.Fatalf("opacity should clamp to 1, got %v", l.Opacity)
	}
	s.SetOpacity(l.ID, -1)
	if l.Opacity != 0 {
		t.Fatalf("opacity should clamp to 0, got %v", l.Opacity)
	}

	if err := s.Rename(l.ID, "Structures"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if err := s.Rename(l.ID, "Ground"); err != nil || l.Name != "Ground" {
		t.Fatalf("rename failed: %v", err)
	}

	if _, err := s.ToggleVisibility(99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMoveUpDown(t *testing.T) {
	s := newStack(t, "A", "B", "C")
	a, _ := s.At(0)

	moved, err := s.MoveDown(a.ID)
	if err != nil || moved {
		t.Fatalf("bottom layer cannot move down: moved=%v err=%v", moved, err)
	}
	if moved, _ = s.MoveUp(a.ID); !moved || s.Order(a.ID) != 1 {
		t.Fatalf("MoveUp failed, order=%d", s.Order(a.ID))
	}
	s.MoveUp(a.ID)
	if moved, _ = s.MoveUp(a.ID); moved {
		t.Fatalf("top layer cannot move up")
	}
	if s.Order(a.ID) != 2 {
		t.Fatalf("expected order 2, got %d", s.Order(a.ID))
	}
}

func TestCompositeTopmostVisible(t *testing.T) {
	s := newStack(t, "Terrain", "Structures")
	terrain, _ := s.At(0)
	structures, _ := s.At(1)
	terrain.Grid.Set(2, 2, grid.Of("grassland"))
	structures.Grid.Set(2, 2, grid.Of("town"))

	tile, from := s.Composite(2, 2)
	if tile.Biome != "town" || from != structures {
		t.Fatalf("expected town from structures, got %+v", tile)
	}

	s.SetVisible(structures.ID, false)
	tile, from = s.Composite(2, 2)
	if tile.Biome != "grassland" || from != terrain {
		t.Fatalf("hidden layer should be skipped, got %+v", tile)
	}

	if tile, from = s.Composite(0, 0); !tile.IsEmpty() || from != nil {
		t.Fatalf("unpainted cell should be empty")
	}
}
