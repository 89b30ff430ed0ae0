package main

import (
	"fmt"
	"image"
	"log"

	ebuiinput "github.com/ebitenui/ebitenui/input"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/biomeeditor/config"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/script"
)

// minimapMargin is the gap between the minimap and the window corner.
const minimapMargin = 20

// EditorGame is the Ebiten game for the biome editor. It only translates
// input into editor events and renders editor state.
type EditorGame struct {
	state   *editor.State
	ui      *EditorUI
	canvas  *Canvas
	minimap *Minimap
	watcher *config.Watcher

	clipboardReady bool

	width, height int
	painting      bool
	hovering      bool
	panning       bool
	lastX, lastY  int
}

func NewEditorGame(state *editor.State) *EditorGame {
	g := &EditorGame{
		state:   state,
		canvas:  NewCanvas(),
		minimap: &Minimap{},
		width:   1280,
		height:  800,
	}
	g.ui = BuildEditorUI(script.Macros(), state.Enqueue, g.runMacro, g.copyStats, state.View().Tool)
	return g
}

func (g *EditorGame) canvasBounds() image.Rectangle {
	return image.Rect(leftPanelWidth, 0, max(g.width-rightPanelWidth, leftPanelWidth), g.height)
}

func (g *EditorGame) Update() error {
	g.pollWatcher()

	// If the UI has a focused text widget (user is typing), suppress hotkeys.
	suppressHotkeys := false
	if fw := g.ui.UI.GetFocusedWidget(); fw != nil {
		if _, ok := fw.(*widget.TextInput); ok {
			suppressHotkeys = true
		}
	}
	if !suppressHotkeys {
		g.handleKeys()
	}

	g.ui.UI.Update()
	g.handlePointer()

	g.state.Drain()
	v := g.state.View()
	g.ui.Sync(v, g.state)
	g.minimap.Refresh(g.state, v)
	return nil
}

func (g *EditorGame) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	if ctrl {
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeyZ):
			g.state.Enqueue(editor.Undo{})
		case inpututil.IsKeyJustPressed(ebiten.KeyY):
			g.state.Enqueue(editor.Redo{})
		case inpututil.IsKeyJustPressed(ebiten.KeyC):
			g.copyStats()
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.state.Enqueue(editor.Cancel{})
		g.painting = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.state.Enqueue(editor.AddLayer{})
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if ev, ok := editor.Shortcut(r, false); ok {
			g.state.Enqueue(ev)
		}
	}
}

func (g *EditorGame) handlePointer() {
	mx, my := ebiten.CursorPosition()
	bounds := g.canvasBounds()
	inCanvas := image.Pt(mx, my).In(bounds) && !ebuiinput.UIHovered &&
		g.ui.Rename.Overlay.GetWidget().Visibility != widget.Visibility_Show
	lx, ly := float64(mx-bounds.Min.X), float64(my-bounds.Min.Y)

	// Handle pan (middle mouse drag)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) && inCanvas {
		g.panning = true
		g.lastX, g.lastY = mx, my
	}
	if g.panning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		if dx, dy := mx-g.lastX, my-g.lastY; dx != 0 || dy != 0 {
			g.state.Enqueue(editor.Pan{DX: float64(dx), DY: float64(dy)})
		}
		g.lastX, g.lastY = mx, my
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonMiddle) {
		g.panning = false
	}

	// Handle zoom (mouse wheel, centered on cursor)
	if _, wy := ebiten.Wheel(); wy != 0 && inCanvas {
		dir := 1
		if wy < 0 {
			dir = -1
		}
		g.state.Enqueue(editor.ZoomAt{X: lx, Y: ly, Dir: dir})
	}

	if !inCanvas {
		if g.hovering {
			g.state.Enqueue(editor.PointerLeave{})
			g.hovering, g.painting = false, false
		}
		return
	}
	moved := !g.hovering || mx != g.lastX || my != g.lastY
	g.hovering = true
	if !g.panning {
		g.lastX, g.lastY = mx, my
	}
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.state.Enqueue(editor.PointerDown{X: lx, Y: ly})
		g.painting = true
	case g.painting && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.state.Enqueue(editor.PointerUp{X: lx, Y: ly})
		g.painting = false
	case moved:
		g.state.Enqueue(editor.PointerMove{X: lx, Y: ly})
	}
}

func (g *EditorGame) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("Watcher error: %v", err)
		default:
			return
		}
	}
}

func (g *EditorGame) reload(path string) {
	switch {
	case config.IsScriptFile(path):
		name, src, err := script.Resolve(path)
		if err != nil {
			log.Printf("Failed to read macro %s: %v", path, err)
			return
		}
		log.Printf("Macro %s changed; running", name)
		g.state.Enqueue(editor.RunScript{Name: name, Source: src})
	case config.IsConfigFile(path):
		cat, err := config.LoadCatalog(path)
		if cat == nil {
			log.Printf("Reload %s: %v; keeping current biomes", path, err)
			return
		}
		if err != nil {
			log.Printf("Reload %s: %v", path, err)
		}
		g.state.Enqueue(editor.ReloadCatalog{Catalog: cat})
	}
}

func (g *EditorGame) runMacro(name string) {
	name, src, err := script.Resolve(name)
	if err != nil {
		log.Printf("Failed to load macro %s: %v", name, err)
		return
	}
	g.state.Enqueue(editor.RunScript{Name: name, Source: src})
}

func (g *EditorGame) copyStats() {
	data, err := g.state.Stats().JSON()
	if err != nil {
		log.Printf("Stats: %v", err)
		return
	}
	if !g.clipboardReady {
		log.Printf("Clipboard unavailable; stats:\n%s", data)
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	log.Println("Copied statistics to clipboard")
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	bounds := g.canvasBounds()
	v := g.state.View()
	g.canvas.Draw(screen, bounds, g.state, v)
	g.ui.UI.Draw(screen)

	mx := g.width - rightPanelWidth + minimapMargin
	my := g.height - g.minimap.h - minimapMargin
	g.minimap.Draw(screen, mx, my, g.state, bounds)

	status := fmt.Sprintf("%s  brush %d  zoom %s", v.Tool, v.Brush, v.ZoomLabel)
	if v.Hovered {
		status += "  " + v.Hover.String()
	}
	if v.UndoLabel != "" {
		status += "  undo: " + v.UndoLabel
	}
	ebitenutil.DebugPrintAt(screen, status, bounds.Min.X+8, bounds.Max.Y-20)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
