package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/biomeeditor/editor"
	"github.com/milk9111/biomeeditor/tool"
)

// ToolBar contains the radio-group state for the floating tool buttons.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
	kinds   []tool.Kind
	// suppress is set while the group is driven from editor state.
	suppress bool
}

func (tb *ToolBar) SetTool(k tool.Kind) {
	if tb == nil || tb.group == nil {
		return
	}
	for i, kind := range tb.kinds {
		if kind == k && tb.group.Active() != tb.buttons[i] {
			tb.suppress = true
			tb.group.SetActive(tb.buttons[i])
			tb.suppress = false
			return
		}
	}
}

func toolLabel(k tool.Kind) string {
	name := k.String()
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if r, ok := editor.KeyFor(k); ok {
		return fmt.Sprintf("%s (%c)", name, r)
	}
	return name
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, onToolSelected func(k tool.Kind), initial tool.Kind) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	tb := &ToolBar{kinds: tool.Kinds()}
	for _, k := range tb.kinds {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(toolLabel(k), fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 40),
			),
		)
		tb.buttons = append(tb.buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(tb.buttons))
	for _, b := range tb.buttons {
		elements = append(elements, b)
	}

	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onToolSelected == nil || tb.suppress {
				return
			}
			for idx, b := range tb.buttons {
				if args.Active == b {
					onToolSelected(tb.kinds[idx])
					return
				}
			}
		}),
	)
	tb.SetTool(initial)

	return toolbar, tb
}
