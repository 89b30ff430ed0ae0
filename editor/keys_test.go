package editor

import (
	"testing"

	"github.com/milk9111/biomeeditor/tool"
)

func TestShortcuts(t *testing.T) {
	cases := []struct {
		key  rune
		ctrl bool
		want Event
	}{
		{'b', false, SelectTool{Kind: tool.Pencil}},
		{'G', false, SelectTool{Kind: tool.Bucket}},
		{'l', false, SelectTool{Kind: tool.Line}},
		{'r', false, SelectTool{Kind: tool.Rectangle}},
		{'e', false, SelectTool{Kind: tool.Eraser}},
		{'z', true, Undo{}},
		{'y', true, Redo{}},
		{'+', false, ZoomIn{}},
		{'-', false, ZoomOut{}},
		{']', false, StepBrush{Delta: 1}},
		{'[', false, StepBrush{Delta: -1}},
	}
	for _, c := range cases {
		got, ok := Shortcut(c.key, c.ctrl)
		if !ok || got != c.want {
			t.Fatalf("Shortcut(%q, %v) = %#v, %v; want %#v", c.key, c.ctrl, got, ok, c.want)
		}
	}
	if _, ok := Shortcut('b', true); ok {
		t.Fatalf("ctrl+b should not map")
	}
	if _, ok := Shortcut('q', false); ok {
		t.Fatalf("q should not map")
	}
	for _, k := range tool.Kinds() {
		if _, ok := KeyFor(k); !ok {
			t.Fatalf("%s has no shortcut", k)
		}
	}
}

func TestQueueFIFO(t *testing.T) {
	var q Queue
	q.Push(Undo{}, Redo{})
	q.Push(ZoomIn{})
	want := []Event{Undo{}, Redo{}, ZoomIn{}}
	for i, w := range want {
		got, ok := q.Pop()
		if !ok || got != w {
			t.Fatalf("pop %d = %#v, want %#v", i, got, w)
		}
	}
	if _, ok := q.Pop(); ok || q.Len() != 0 {
		t.Fatalf("queue should be empty")
	}
	q.Push(Pan{DX: 1})
	if q.Len() != 1 {
		t.Fatalf("queue should be reusable after draining")
	}
}
