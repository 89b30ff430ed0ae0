package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/gdamore/tcell/v2"

	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/config"
	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/grid"
	"github.com/milk9111/biomeeditor/minimap"
	"github.com/milk9111/biomeeditor/script"
	"github.com/milk9111/biomeeditor/stats"
)

const (
	// canvasTop is the first terminal row of the canvas; row 0 is the header.
	canvasTop = 1
	// colsPerUnit makes cells roughly square: one viewport unit is two
	// terminal columns by one row.
	colsPerUnit  = 2
	sidebarWidth = 30
	panStep      = 4
)

// App maps terminal input onto editor events and draws the editor state.
// It is driven from a single goroutine.
type App struct {
	state  *editor.State
	macros []string

	width, height int
	painting      bool
	hovering      bool
	panning       bool
	lastX, lastY  int
	macro         int
}

func NewApp(state *editor.State) *App {
	return &App{state: state, macros: script.Macros(), width: 80, height: 24}
}

func (a *App) canvasWidth() int { return max(a.width-sidebarWidth, 0) }

func (a *App) inCanvas(x, y int) bool {
	return x >= 0 && x < a.canvasWidth() && y >= canvasTop && y < a.height-1
}

// units converts a terminal cell into viewport coordinates.
func (a *App) units(x, y int) (float64, float64) {
	return float64(x) / colsPerUnit, float64(y - canvasTop)
}

// Handle applies one terminal event. It reports whether the app should quit.
func (a *App) Handle(ev tcell.Event) bool {
	switch e := ev.(type) {
	case *tcell.EventResize:
		a.width, a.height = e.Size()
	case *tcell.EventKey:
		if a.handleKey(e) {
			return true
		}
	case *tcell.EventMouse:
		a.handleMouse(e)
	case *tcell.EventInterrupt:
		if path, ok := e.Data().(string); ok {
			a.reload(path)
		}
	}
	a.state.Drain()
	return false
}

func (a *App) handleKey(e *tcell.EventKey) bool {
	s := a.state
	switch e.Key() {
	case tcell.KeyCtrlC, tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlZ:
		s.Enqueue(editor.Undo{})
	case tcell.KeyCtrlY:
		s.Enqueue(editor.Redo{})
	case tcell.KeyEscape:
		s.Enqueue(editor.Cancel{})
		a.painting = false
	case tcell.KeyTab:
		a.cycleLayer()
	case tcell.KeyUp:
		s.Enqueue(editor.Pan{DY: panStep})
	case tcell.KeyDown:
		s.Enqueue(editor.Pan{DY: -panStep})
	case tcell.KeyLeft:
		s.Enqueue(editor.Pan{DX: panStep})
	case tcell.KeyRight:
		s.Enqueue(editor.Pan{DX: -panStep})
	case tcell.KeyRune:
		a.handleRune(e.Rune())
	}
	return false
}

func (a *App) handleRune(r rune) {
	s := a.state
	if ev, ok := editor.Shortcut(r, false); ok {
		s.Enqueue(ev)
		return
	}
	v := s.View()
	switch {
	case r >= '1' && r <= '9':
		if b, ok := s.Catalog().At(int(r - '1')); ok {
			s.Enqueue(editor.SelectBiome{ID: b.ID})
		}
	case r == 'n':
		s.Enqueue(editor.AddLayer{})
	case r == 'x':
		if v.ActiveLayer != 0 {
			s.Enqueue(editor.RemoveLayer{ID: v.ActiveLayer})
		}
	case r == 'v':
		if v.ActiveLayer != 0 {
			s.Enqueue(editor.ToggleVisibility{ID: v.ActiveLayer})
		}
	case r == 'u' || r == 'd':
		if v.ActiveLayer != 0 {
			s.Enqueue(editor.MoveLayer{ID: v.ActiveLayer, Up: r == 'u'})
		}
	case r == 's':
		next := stats.ScopeVisible
		if v.Scope == stats.ScopeVisible {
			next = stats.ScopeActive
		}
		s.Enqueue(editor.SetScope{Scope: next})
	case r == 'm':
		a.runNextMacro()
	}
}

// cycleLayer selects the next layer up, wrapping to the bottom.
func (a *App) cycleLayer() {
	layers := a.state.Layers()
	if layers.Len() == 0 {
		return
	}
	next := (layers.Order(a.state.View().ActiveLayer) + 1) % layers.Len()
	if l, ok := layers.At(next); ok {
		a.state.Enqueue(editor.SelectLayer{ID: l.ID})
	}
}

func (a *App) runNextMacro() {
	if len(a.macros) == 0 {
		return
	}
	name := a.macros[a.macro%len(a.macros)]
	a.macro++
	name, src, err := script.Resolve(name)
	if err != nil {
		log.Printf("Failed to load macro %s: %v", name, err)
		return
	}
	a.state.Enqueue(editor.RunScript{Name: name, Source: src})
}

func (a *App) handleMouse(e *tcell.EventMouse) {
	s := a.state
	x, y := e.Position()
	ux, uy := a.units(x, y)
	buttons := e.Buttons()
	inCanvas := a.inCanvas(x, y)

	switch {
	case buttons&tcell.WheelUp != 0 && inCanvas:
		s.Enqueue(editor.ZoomAt{X: ux, Y: uy, Dir: 1})
		return
	case buttons&tcell.WheelDown != 0 && inCanvas:
		s.Enqueue(editor.ZoomAt{X: ux, Y: uy, Dir: -1})
		return
	}

	if buttons&tcell.Button2 != 0 {
		if a.panning {
			dx, dy := x-a.lastX, y-a.lastY
			if dx != 0 || dy != 0 {
				s.Enqueue(editor.Pan{DX: float64(dx) / colsPerUnit, DY: float64(dy)})
			}
		}
		a.panning = inCanvas || a.panning
		a.lastX, a.lastY = x, y
		return
	}
	a.panning = false

	if !inCanvas {
		if a.hovering {
			s.Enqueue(editor.PointerLeave{})
			a.hovering, a.painting = false, false
		}
		return
	}
	a.hovering = true
	left := buttons&tcell.Button1 != 0
	switch {
	case left && !a.painting:
		s.Enqueue(editor.PointerDown{X: ux, Y: uy})
		a.painting = true
	case !left && a.painting:
		s.Enqueue(editor.PointerUp{X: ux, Y: uy})
		a.painting = false
	default:
		s.Enqueue(editor.PointerMove{X: ux, Y: uy})
	}
}

func (a *App) reload(path string) {
	switch {
	case config.IsScriptFile(path):
		name, src, err := script.Resolve(path)
		if err != nil {
			log.Printf("Failed to read macro %s: %v", path, err)
			return
		}
		a.state.Enqueue(editor.RunScript{Name: name, Source: src})
	case config.IsConfigFile(path):
		cat, err := config.LoadCatalog(path)
		if cat == nil {
			log.Printf("Reload %s: %v; keeping current biomes", path, err)
			return
		}
		if err != nil {
			log.Printf("Reload %s: %v", path, err)
		}
		a.state.Enqueue(editor.ReloadCatalog{Catalog: cat})
	}
}

func rgbStyle(c color.RGBA) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

func drawText(sc tcell.Screen, x, y, maxX int, style tcell.Style, s string) int {
	for _, r := range s {
		if x >= maxX {
			break
		}
		sc.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

// Draw renders the canvas, the sidebar and the header into sc.
func (a *App) Draw(sc tcell.Screen) {
	sc.Clear()
	v := a.state.View()
	a.drawCanvas(sc, v)
	a.drawSidebar(sc, v)

	header := fmt.Sprintf(" %s  brush %d  %s  zoom %s", v.Tool, v.Brush, orDash(v.BiomeName), v.ZoomLabel)
	drawText(sc, 0, 0, a.width, tcell.StyleDefault.Reverse(true), fmt.Sprintf("%-*s", a.width, header))

	footer := "b/g/l/r/e tools  1-9 biome  [ ] brush  +/- zoom  ^Z/^Y undo/redo  tab layer  m macro  ^Q quit"
	drawText(sc, 0, a.height-1, a.width, tcell.StyleDefault.Dim(true), footer)
	sc.Show()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (a *App) drawCanvas(sc tcell.Screen, v editor.View) {
	vp := a.state.Viewport()
	gw, gh := a.state.Layers().Dimensions()
	sm := minimap.NewSampler(a.state.Layers(), a.state.Catalog())

	preview := make(map[grid.Point]grid.Tile, len(v.Preview))
	for _, w := range v.Preview {
		preview[w.Point] = w.Tile
	}
	hover := map[grid.Point]bool{}
	for _, p := range a.state.Footprint() {
		hover[p] = true
	}

	for y := canvasTop; y < a.height-1; y++ {
		for x := 0; x < a.canvasWidth(); x++ {
			gx, gy := vp.ScreenToGrid(a.units(x, y))
			p := grid.Pt(gx, gy)
			if !p.In(gw, gh) {
				continue
			}
			c := sm.At(gx, gy)
			if t, ok := preview[p]; ok {
				c = minimap.TileColor(a.state.Catalog(), t.Biome)
			}
			r := ' '
			if hover[p] {
				r = '·'
			}
			sc.SetContent(x, y, r, nil, rgbStyle(c).Foreground(tcell.ColorWhite))
		}
	}
}

func (a *App) drawSidebar(sc tcell.Screen, v editor.View) {
	x0 := a.canvasWidth() + 1
	y := canvasTop
	line := func(style tcell.Style, format string, args ...any) {
		if y < a.height-1 {
			drawText(sc, x0, y, a.width, style, fmt.Sprintf(format, args...))
		}
		y++
	}
	bold := tcell.StyleDefault.Bold(true)

	line(bold, "Biomes")
	for i, b := range a.state.Catalog().All() {
		marker := ' '
		if b.ID == v.Biome {
			marker = '>'
		}
		row := y
		line(tcell.StyleDefault, "%c  %s", marker, label(i, b))
		if row < a.height-1 {
			sc.SetContent(x0+2, row, ' ', nil, rgbStyle(b.RGBA()))
		}
	}
	y++

	line(bold, "Layers")
	for i := len(v.Layers) - 1; i >= 0; i-- {
		l := v.Layers[i]
		line(layerStyle(l), "%s %s (%d)", visibleMark(l), l.Name, l.Painted)
	}
	y++

	line(bold, "Stats (%s)", v.Scope)
	line(tcell.StyleDefault, "painted %d  empty %d", v.Stats.Painted, v.Stats.Empty)
	for _, id := range v.Stats.Ranked() {
		line(tcell.StyleDefault, "%-12s %5.1f%%", biomeName(a.state.Catalog(), id), v.Stats.Coverage(id))
	}
	y++

	if v.UndoLabel != "" {
		line(tcell.StyleDefault, "undo: %s", v.UndoLabel)
	}
	if v.RedoLabel != "" {
		line(tcell.StyleDefault, "redo: %s", v.RedoLabel)
	}
}

func label(i int, b biome.Biome) string {
	if i < 9 {
		return fmt.Sprintf("%d %s", i+1, b.Name)
	}
	return "  " + b.Name
}

func biomeName(cat *biome.Catalog, id biome.ID) string {
	if b, ok := cat.Lookup(id); ok {
		return b.Name
	}
	return string(id)
}

func visibleMark(l editor.LayerInfo) string {
	if l.Visible {
		return "[x]"
	}
	return "[ ]"
}

func layerStyle(l editor.LayerInfo) tcell.Style {
	if l.Active {
		return tcell.StyleDefault.Reverse(true)
	}
	return tcell.StyleDefault
}
