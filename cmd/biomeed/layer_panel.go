package main

import (
	"fmt"
	"slices"

	"github.com/ebitenui/ebitenui/widget"

	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/layer"
)

// LayerEntry is a small value used by the UI list to represent a layer row.
type LayerEntry struct {
	ID      layer.ID
	Name    string
	Visible bool
	Opacity float64
}

func (e LayerEntry) label() string {
	mark := "[x]"
	if !e.Visible {
		mark = "[ ]"
	}
	if e.Opacity < 1 {
		return fmt.Sprintf("%s %s %d%%", mark, e.Name, int(e.Opacity*100+0.5))
	}
	return fmt.Sprintf("%s %s", mark, e.Name)
}

// LayerPanel holds the list widget and the callbacks behind its buttons.
type LayerPanel struct {
	list    *widget.List
	entries []any
	shown   []LayerEntry
	active  layer.ID

	onSelect  func(id layer.ID)
	onNew     func()
	onRemove  func(id layer.ID)
	onMove    func(id layer.ID, up bool)
	onToggle  func(id layer.ID)
	onOpacity func(id layer.ID, opacity float64)

	openRenameDialog func(id layer.ID, current string)
	// suppressEvents, when true, causes the selection handler to ignore
	// programmatic selections.
	suppressEvents bool
}

// Sync rebuilds the list when the layers changed and selects the active one.
// The list shows the top layer first.
func (lp *LayerPanel) Sync(layers []editor.LayerInfo, active layer.ID) {
	if lp == nil || lp.list == nil {
		return
	}
	rows := make([]LayerEntry, 0, len(layers))
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		rows = append(rows, LayerEntry{ID: l.ID, Name: l.Name, Visible: l.Visible, Opacity: l.Opacity})
	}
	lp.suppressEvents = true
	defer func() { lp.suppressEvents = false }()
	if !slices.Equal(rows, lp.shown) {
		lp.shown = rows
		lp.entries = make([]any, len(rows))
		for i, r := range rows {
			lp.entries[i] = r
		}
		lp.list.SetEntries(lp.entries)
		lp.active = 0
	}
	if active == lp.active {
		return
	}
	lp.active = active
	for i, r := range lp.shown {
		if r.ID == active {
			lp.list.SetSelectedEntry(lp.entries[i])
			return
		}
	}
}

// Selected returns the highlighted layer.
func (lp *LayerPanel) Selected() (LayerEntry, bool) {
	if lp == nil || lp.list == nil {
		return LayerEntry{}, false
	}
	e, ok := lp.list.SelectedEntry().(LayerEntry)
	return e, ok
}

func (lp *LayerPanel) withSelected(fn func(e LayerEntry)) {
	if fn == nil {
		return
	}
	if e, ok := lp.Selected(); ok {
		fn(e)
	}
}
