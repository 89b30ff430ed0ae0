package main

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/stats"
	"github.com/milk9111/biomeeditor/tool"
)

const (
	leftPanelWidth  = 220
	rightPanelWidth = 240
	minimapSize     = 200
	// statsTop is how many biomes the stats panel lists.
	statsTop = 5
)

// EditorUI is the composed widget tree and the widgets synced every frame.
type EditorUI struct {
	UI      *ebitenui.UI
	ToolBar *ToolBar
	Layers  *LayerPanel
	Palette *PalettePanel
	Rename  *layerRenameDialog

	biomeLabel *widget.Label
	brushLabel *widget.Label
	zoomLabel  *widget.Label
	scopeBtn   *widget.Button
	undoBtn    *widget.Button
	redoBtn    *widget.Button
	statsText  *widget.Text
	scope      stats.Scope
}

func BuildEditorUI(
	macros []string,
	enqueue func(evs ...editor.Event),
	onRunMacro func(name string),
	onCopyStats func(),
	initialTool tool.Kind,
) *EditorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)
	theme := ui.PrimaryTheme
	eui := &EditorUI{UI: ui}

	toolbarContainer, toolBar := buildToolBar(theme, &fontFace, func(k tool.Kind) {
		enqueue(editor.SelectTool{Kind: k})
	}, initialTool)
	eui.ToolBar = toolBar

	leftPanel := newColumn(leftPanelWidth, 400)
	eui.Palette = addPaletteSection(leftPanel, &fontFace, func(id biome.ID) {
		enqueue(editor.SelectBiome{ID: id})
	})
	lp := &LayerPanel{
		onSelect: func(id layer.ID) { enqueue(editor.SelectLayer{ID: id}) },
		onNew:    func() { enqueue(editor.AddLayer{}) },
		onRemove: func(id layer.ID) { enqueue(editor.RemoveLayer{ID: id}) },
		onMove:   func(id layer.ID, up bool) { enqueue(editor.MoveLayer{ID: id, Up: up}) },
		onToggle: func(id layer.ID) { enqueue(editor.ToggleVisibility{ID: id}) },
		onOpacity: func(id layer.ID, o float64) {
			enqueue(editor.SetOpacity{ID: id, Opacity: o})
		},
	}
	addLayersSection(leftPanel, theme, &fontFace, lp)
	eui.Layers = lp
	addMacrosSection(leftPanel, theme, &fontFace, macros, onRunMacro)

	eui.Rename = newLayerRenameDialog(theme, &fontFace, func(id layer.ID, name string) {
		enqueue(editor.RenameLayer{ID: id, Name: name})
	})
	lp.openRenameDialog = eui.Rename.Open

	rightPanel := newColumn(rightPanelWidth, 400)
	eui.biomeLabel = newLabel(&fontFace, "Biome: -")
	rightPanel.AddChild(eui.biomeLabel)

	brushRow := newRow(6)
	eui.brushLabel = newLabel(&fontFace, "Brush: 1")
	brushRow.AddChild(eui.brushLabel)
	brushRow.AddChild(newButton(theme, &fontFace, "-", func() { enqueue(editor.StepBrush{Delta: -1}) }))
	brushRow.AddChild(newButton(theme, &fontFace, "+", func() { enqueue(editor.StepBrush{Delta: 1}) }))
	rightPanel.AddChild(brushRow)

	zoomRow := newRow(6)
	eui.zoomLabel = newLabel(&fontFace, "Zoom: 100%")
	zoomRow.AddChild(eui.zoomLabel)
	zoomRow.AddChild(newButton(theme, &fontFace, "-", func() { enqueue(editor.ZoomOut{}) }))
	zoomRow.AddChild(newButton(theme, &fontFace, "+", func() { enqueue(editor.ZoomIn{}) }))
	zoomRow.AddChild(newButton(theme, &fontFace, "Reset", func() { enqueue(editor.ResetView{}) }))
	rightPanel.AddChild(zoomRow)

	historyRow := newRow(6)
	eui.undoBtn = newButton(theme, &fontFace, "Undo", func() { enqueue(editor.Undo{}) })
	eui.redoBtn = newButton(theme, &fontFace, "Redo", func() { enqueue(editor.Redo{}) })
	historyRow.AddChild(eui.undoBtn)
	historyRow.AddChild(eui.redoBtn)
	rightPanel.AddChild(historyRow)

	rightPanel.AddChild(newLabel(&fontFace, "Statistics"))
	eui.scopeBtn = newButton(theme, &fontFace, "Scope: active", func() {
		next := stats.ScopeVisible
		if eui.scope == stats.ScopeVisible {
			next = stats.ScopeActive
		}
		enqueue(editor.SetScope{Scope: next})
	})
	rightPanel.AddChild(eui.scopeBtn)
	eui.statsText = widget.NewText(widget.TextOpts.Text("", &fontFace, color.White))
	rightPanel.AddChild(eui.statsText)
	rightPanel.AddChild(newButton(theme, &fontFace, "Copy stats (ctrl+c)", onCopyStats))

	// Reserve room for the minimap; the game draws it over this spacer.
	rightPanel.AddChild(widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(minimapSize, minimapSize)),
	))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	leftPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	rightPanel.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	// Toolbar: top center
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(leftPanel)
	root.AddChild(rightPanel)
	root.AddChild(toolbarContainer)
	root.AddChild(eui.Rename.Overlay)

	ui.Container = root
	return eui
}

// Sync copies the editor view into the widgets.
func (eui *EditorUI) Sync(v editor.View, s *editor.State) {
	eui.ToolBar.SetTool(v.Tool)
	eui.Palette.Sync(s.Catalog(), v.Biome)
	eui.Layers.Sync(v.Layers, v.ActiveLayer)

	name := v.BiomeName
	if name == "" {
		name = "-"
	}
	eui.biomeLabel.Label = "Biome: " + name
	eui.brushLabel.Label = fmt.Sprintf("Brush: %d", v.Brush)
	eui.zoomLabel.Label = "Zoom: " + v.ZoomLabel
	eui.scope = v.Scope
	if t := eui.scopeBtn.Text(); t != nil {
		t.Label = "Scope: " + v.Scope.String()
	}
	eui.undoBtn.GetWidget().Disabled = !v.CanUndo
	eui.redoBtn.GetWidget().Disabled = !v.CanRedo
	eui.statsText.Label = statsSummary(v.Stats, s)
}

func statsSummary(snap stats.Snapshot, s *editor.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%dx%d\npainted %d\nempty %d\n", snap.Width, snap.Height, snap.Painted, snap.Empty)
	for i, id := range snap.Ranked() {
		if i == statsTop {
			break
		}
		name := string(id)
		if bm, ok := s.Catalog().Lookup(id); ok {
			name = bm.Name
		}
		fmt.Fprintf(&b, "%s %d (%.1f%%)\n", name, snap.PerBiome[id], snap.Coverage(id))
	}
	return strings.TrimRight(b.String(), "\n")
}
