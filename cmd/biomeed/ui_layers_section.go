package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const opacityStep = 0.25

func addLayersSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, lp *LayerPanel) {
	parent.AddChild(newLabel(fontFace, "Layers"))

	layerList := widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(LayerEntry); ok {
				return entry.label()
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(LayerEntry)
			if !ok || lp.suppressEvents {
				return
			}
			lp.active = entry.ID
			if lp.onSelect != nil {
				lp.onSelect(entry.ID)
			}
		}),
	)
	parent.AddChild(layerList)
	lp.list = layerList

	edit := newRow(6)
	edit.AddChild(newButton(theme, fontFace, "New", lp.onNew))
	edit.AddChild(newButton(theme, fontFace, "Remove", func() {
		lp.withSelected(func(e LayerEntry) { lp.onRemove(e.ID) })
	}))
	edit.AddChild(newButton(theme, fontFace, "Rename", func() {
		lp.withSelected(func(e LayerEntry) {
			if lp.openRenameDialog != nil {
				lp.openRenameDialog(e.ID, e.Name)
			}
		})
	}))
	parent.AddChild(edit)

	order := newRow(6)
	order.AddChild(newButton(theme, fontFace, "Up", func() {
		lp.withSelected(func(e LayerEntry) { lp.onMove(e.ID, true) })
	}))
	order.AddChild(newButton(theme, fontFace, "Down", func() {
		lp.withSelected(func(e LayerEntry) { lp.onMove(e.ID, false) })
	}))
	order.AddChild(newButton(theme, fontFace, "Show/Hide", func() {
		lp.withSelected(func(e LayerEntry) { lp.onToggle(e.ID) })
	}))
	parent.AddChild(order)

	opacity := newRow(6)
	opacity.AddChild(newLabel(fontFace, "Opacity"))
	opacity.AddChild(newButton(theme, fontFace, "-", func() {
		lp.withSelected(func(e LayerEntry) { lp.onOpacity(e.ID, max(e.Opacity-opacityStep, 0)) })
	}))
	opacity.AddChild(newButton(theme, fontFace, "+", func() {
		lp.withSelected(func(e LayerEntry) { lp.onOpacity(e.ID, min(e.Opacity+opacityStep, 1)) })
	}))
	parent.AddChild(opacity)
}
