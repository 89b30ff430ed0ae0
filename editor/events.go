package editor

import (
	"github.com/milk9111/biomeeditor/biome"
	"github.com/milk9111/biomeeditor/layer"
	"github.com/milk9111/biomeeditor/stats"
	"github.com/milk9111/biomeeditor/tool"
)

// Event is an input to State.Handle. The set is closed.
type Event interface {
	event()
}

// Pointer events carry screen coordinates relative to the canvas origin.
type (
	PointerDown  struct{ X, Y float64 }
	PointerMove  struct{ X, Y float64 }
	PointerUp    struct{ X, Y float64 }
	PointerLeave struct{}
	// Cancel aborts the open gesture, like PointerLeave.
	Cancel struct{}
)

type (
	SelectTool  struct{ Kind tool.Kind }
	SetBrush    struct{ Size int }
	StepBrush   struct{ Delta int }
	SelectBiome struct{ ID biome.ID }
	SetScope    struct{ Scope stats.Scope }
)

type (
	SelectLayer struct{ ID layer.ID }
	// AddLayer with an empty Name picks the next "Layer N".
	AddLayer         struct{ Name string }
	RemoveLayer      struct{ ID layer.ID }
	ToggleVisibility struct{ ID layer.ID }
	RenameLayer      struct {
		ID   layer.ID
		Name string
	}
	MoveLayer struct {
		ID layer.ID
		Up bool
	}
	SetOpacity struct {
		ID      layer.ID
		Opacity float64
	}
)

type (
	Undo    struct{}
	Redo    struct{}
	ZoomIn  struct{}
	ZoomOut struct{}
	// ZoomAt zooms one step around a screen point; Dir > 0 zooms in.
	ZoomAt struct {
		X, Y float64
		Dir  int
	}
	Pan       struct{ DX, DY float64 }
	ResetView struct{}
)

type (
	// ReloadCatalog swaps the biome definitions without touching tiles.
	ReloadCatalog struct{ Catalog *biome.Catalog }
	// RunScript runs a tengo macro on the active layer as one command.
	RunScript struct {
		Name   string
		Source []byte
	}
)

func (PointerDown) event()      {}
func (PointerMove) event()      {}
func (PointerUp) event()        {}
func (PointerLeave) event()     {}
func (Cancel) event()           {}
func (SelectTool) event()       {}
func (SetBrush) event()         {}
func (StepBrush) event()        {}
func (SelectBiome) event()      {}
func (SetScope) event()         {}
func (SelectLayer) event()      {}
func (AddLayer) event()         {}
func (RemoveLayer) event()      {}
func (ToggleVisibility) event() {}
func (RenameLayer) event()      {}
func (MoveLayer) event()        {}
func (SetOpacity) event()       {}
func (Undo) event()             {}
func (Redo) event()             {}
func (ZoomIn) event()           {}
func (ZoomOut) event()          {}
func (ZoomAt) event()           {}
func (Pan) event()              {}
func (ResetView) event()        {}
func (ReloadCatalog) event()    {}
func (RunScript) event()        {}
