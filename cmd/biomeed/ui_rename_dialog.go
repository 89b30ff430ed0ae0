package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/biomeeditor/layer"
)

type layerRenameDialog struct {
	Overlay *widget.Container
	Open    func(id layer.ID, current string)
	Input   *widget.TextInput
}

func newLayerRenameDialog(theme *widget.Theme, fontFace *text.Face, onLayerRenamed func(id layer.ID, newName string)) *layerRenameDialog {
	var target layer.ID

	renameOverlay := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{0, 0, 0, 160})),
	)
	renameOverlay.GetWidget().Visibility = widget.Visibility_Hide

	dialog := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(320, 140),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 220, 255})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
	)
	dialog.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
	}

	hide := func() {
		renameOverlay.GetWidget().Visibility = widget.Visibility_Hide
		target = 0
	}
	submit := func(name string) {
		if target != 0 && onLayerRenamed != nil && name != "" {
			onLayerRenamed(target, name)
		}
		hide()
	}

	nameLabel := widget.NewLabel(
		widget.LabelOpts.Text("Rename layer", fontFace, &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 140}}),
	)
	nameInput := widget.NewTextInput(
		widget.TextInputOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(260, 28),
		),
		widget.TextInputOpts.Image(&widget.TextInputImage{
			Idle:     solidNineSlice(color.RGBA{245, 245, 245, 255}),
			Disabled: solidNineSlice(color.RGBA{200, 200, 200, 255}),
		}),
		widget.TextInputOpts.Color(&widget.TextInputColor{
			Idle:     color.Black,
			Disabled: color.Gray{Y: 120},
			Caret:    color.Black,
		}),
		widget.TextInputOpts.Face(fontFace),
		widget.TextInputOpts.SubmitOnEnter(true),
		widget.TextInputOpts.SubmitHandler(func(args *widget.TextInputChangedEventArgs) {
			submit(args.InputText)
		}),
	)

	buttonsRow := newRow(8)
	buttonsRow.AddChild(newButton(theme, fontFace, "OK", func() { submit(nameInput.GetText()) }))
	buttonsRow.AddChild(newButton(theme, fontFace, "Cancel", hide))

	dialog.AddChild(nameLabel)
	dialog.AddChild(nameInput)
	dialog.AddChild(buttonsRow)
	renameOverlay.AddChild(dialog)

	open := func(id layer.ID, current string) {
		target = id
		nameInput.SetText(current)
		nameInput.Focus(true)
		renameOverlay.GetWidget().Visibility = widget.Visibility_Show
	}

	return &layerRenameDialog{Overlay: renameOverlay, Open: open, Input: nameInput}
}
