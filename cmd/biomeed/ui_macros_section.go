package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

func addMacrosSection(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, names []string, onRun func(name string)) {
	parent.AddChild(newLabel(fontFace, "Macros"))
	entries := make([]any, len(names))
	for i, n := range names {
		entries[i] = n
	}
	list := widget.NewList(
		widget.ListOpts.Entries(entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			s, _ := e.(string)
			return s
		}),
	)
	parent.AddChild(list)
	parent.AddChild(newButton(theme, fontFace, "Run macro", func() {
		if name, ok := list.SelectedEntry().(string); ok && onRun != nil {
			onRun(name)
		}
	}))
}
