package editor

import (
	"unicode"

	"github.com/milk9111/biomeeditor/tool"
)

// ToolKeys maps toolbar shortcuts to tools.
var ToolKeys = map[rune]tool.Kind{
	'b': tool.Pencil,
	'g': tool.Bucket,
	'l': tool.Line,
	'r': tool.Rectangle,
	'e': tool.Eraser,
}

// KeyFor returns the shortcut of a tool.
func KeyFor(k tool.Kind) (rune, bool) {
	for r, kind := range ToolKeys {
		if kind == k {
			return r, true
		}
	}
	return 0, false
}

// Shortcut translates a key press into an event. ctrl selects the
// undo/redo chords; everything else is a plain key.
func Shortcut(r rune, ctrl bool) (Event, bool) {
	r = unicode.ToLower(r)
	if ctrl {
		switch r {
		case 'z':
			return Undo{}, true
		case 'y':
			return Redo{}, true
		}
		return nil, false
	}
	if k, ok := ToolKeys[r]; ok {
		return SelectTool{Kind: k}, true
	}
	switch r {
	case '+', '=':
		return ZoomIn{}, true
	case '-', '_':
		return ZoomOut{}, true
	case '0':
		return ResetView{}, true
	case ']':
		return StepBrush{Delta: 1}, true
	case '[':
		return StepBrush{Delta: -1}, true
	}
	return nil, false
}
