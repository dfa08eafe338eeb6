package main

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/veldrane/helix/ecs"
)

type entityEntry struct {
	Entity ecs.Entity
	Label  string
}

// inspectorPanel holds the widgets the game updates each frame.
type inspectorPanel struct {
	entityList  *widget.List
	contactText *widget.Text
	lastLines   string
}

func (p *inspectorPanel) SetEntities(entries []entityEntry) {
	boxed := make([]any, 0, len(entries))
	for _, e := range entries {
		boxed = append(boxed, e)
	}
	p.entityList.SetEntries(boxed)
}

func (p *inspectorPanel) SetContacts(lines []string) {
	joined := strings.Join(lines, "\n")
	if joined == p.lastLines {
		return
	}
	p.lastLines = joined
	p.contactText.Label = joined
}

func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newInspectorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          color.Black,
				Selected:            color.RGBA{0, 0, 128, 255},
				DisabledUnselected:  color.Gray{Y: 128},
				DisabledSelected:    color.Gray{Y: 64},
				SelectingBackground: color.RGBA{200, 220, 255, 255},
				SelectedBackground:  color.RGBA{180, 200, 255, 255},
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(color.RGBA{220, 220, 220, 255}),
				Mask: solidNineSlice(color.RGBA{220, 220, 220, 255}),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(color.RGBA{40, 40, 40, 255}),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(color.RGBA{180, 180, 180, 255}),
				Hover:   solidNineSlice(color.RGBA{200, 200, 200, 255}),
				Pressed: solidNineSlice(color.RGBA{160, 160, 160, 255}),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: color.Black,
			},
		},
	}
}

func buildInspectorUI(
	onEntitySelected func(e ecs.Entity),
	onCopy func(),
) (*ebitenui.UI, *inspectorPanel) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newInspectorTheme(&fontFace)

	panel := &inspectorPanel{}

	sidebar := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 255})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(8)),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)

	sidebar.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Entities", &fontFace,
			&widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	))

	panel.entityList = widget.NewList(
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(entityEntry); ok {
				return entry.Label
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if entry, ok := args.Entry.(entityEntry); ok && onEntitySelected != nil {
				onEntitySelected(entry.Entity)
			}
		}),
	)
	sidebar.AddChild(panel.entityList)

	copyBtn := widget.NewButton(
		widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Copy summary", &fontFace, ui.PrimaryTheme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			if onCopy != nil {
				onCopy()
			}
		}),
	)
	sidebar.AddChild(copyBtn)

	sidebar.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Contacts", &fontFace,
			&widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	))

	panel.contactText = widget.NewText(
		widget.TextOpts.Text("", &fontFace, color.RGBA{200, 220, 255, 255}),
	)
	sidebar.AddChild(panel.contactText)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	sidebar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	root.AddChild(sidebar)
	ui.Container = root

	return ui, panel
}
