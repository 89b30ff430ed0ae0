package editor

import (
	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/stats"
	"github.com/milk9111/biomeeditor/tool"
)

type LayerInfo struct {
	ID      layer.ID
	Name    string
	Visible bool
	Opacity float64
	Active  bool
	Painted int
}

// View is the presentation snapshot frontends render from.
type View struct {
	Tool      tool.Kind
	Brush     int
	Biome     biome.ID
	BiomeName string
	// ActiveLayer is 0 when the stack is empty.
	ActiveLayer layer.ID
	// Layers are in compositing order, bottom first.
	Layers    []LayerInfo
	Stats     stats.Snapshot
	Scope     stats.Scope
	ZoomLabel string
	CanUndo   bool
	CanRedo   bool
	UndoLabel string
	RedoLabel string
	// Preview holds the open gesture's pending writes.
	Preview []tool.Write
	// Hover is the cell under the pointer when Hovered is set.
	Hover   grid.Point
	Hovered bool
}

func (s *State) View() View {
	v := View{
		Tool:        s.tool,
		Brush:       s.brush,
		Biome:       s.biome,
		ActiveLayer: s.active,
		Stats:       s.tracker.Snapshot(),
		Scope:       s.tracker.Scope(),
		ZoomLabel:   s.view.Label(),
		CanUndo:     s.history.CanUndo(),
		CanRedo:     s.history.CanRedo(),
		Preview:     s.history.Pending(),
		Hover:       s.hover,
		Hovered:     s.hovered,
	}
	if b, ok := s.catalog.Lookup(s.biome); ok {
		v.BiomeName = b.Name
	}
	if info, ok := s.history.PeekUndo(); ok {
		v.UndoLabel = info.Label
	}
	if info, ok := s.history.PeekRedo(); ok {
		v.RedoLabel = info.Label
	}
	for _, l := range s.layers.Layers() {
		v.Layers = append(v.Layers, LayerInfo{
			ID:      l.ID,
			Name:    l.Name,
			Visible: l.Visible,
			Opacity: l.Opacity,
			Active:  l.ID == s.active,
			Painted: l.Grid.Painted(),
		})
	}
	return v
}

// Footprint is the cells the current tool would touch if pressed at the
// hover cell, for cursor outlines.
func (s *State) Footprint() []grid.Point {
	if !s.hovered {
		return nil
	}
	w, h := s.layers.Dimensions()
	brush := s.brush
	if !s.tool.UsesBrush() {
		brush = 1
	}
	return tool.Footprint(s.hover, brush, w, h)
}
