package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/biomeeditor/biome"
)

// PalettePanel lists the catalog's biomes.
type PalettePanel struct {
	list     *widget.List
	catalog  *biome.Catalog
	selected biome.ID
	suppress bool
}

func addPaletteSection(parent *widget.Container, fontFace *text.Face, onBiomeSelected func(id biome.ID)) *PalettePanel {
	pp := &PalettePanel{}
	parent.AddChild(newLabel(fontFace, "Biomes"))
	pp.list = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if b, ok := e.(biome.Biome); ok {
				return b.Name
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			b, ok := args.Entry.(biome.Biome)
			if !ok || pp.suppress {
				return
			}
			pp.selected = b.ID
			if onBiomeSelected != nil {
				onBiomeSelected(b.ID)
			}
		}),
	)
	parent.AddChild(pp.list)
	return pp
}

// Sync refreshes the entries after a catalog reload and follows the
// editor's selected biome.
func (pp *PalettePanel) Sync(cat *biome.Catalog, selected biome.ID) {
	if pp == nil || pp.list == nil {
		return
	}
	pp.suppress = true
	defer func() { pp.suppress = false }()
	if cat != pp.catalog {
		pp.catalog = cat
		all := cat.All()
		entries := make([]any, len(all))
		for i, b := range all {
			entries[i] = b
		}
		pp.list.SetEntries(entries)
		pp.selected = biome.None
	}
	if selected == pp.selected {
		return
	}
	pp.selected = selected
	if b, ok := cat.Lookup(selected); ok {
		pp.list.SetSelectedEntry(b)
	}
}
