package presentation

import (
	"fmt"
	"image/color"

	"dcmview/core/search"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var highlightStyle = &widget.CustomTextGridStyle{
	FGColor: color.Black,
	BGColor: color.NRGBA{R: 0xFF, G: 0xD5, B: 0x4F, A: 0xFF},
}

// MetadataPane shows the read-only metadata text with a search box
// beneath it.
type MetadataPane struct {
	widget.BaseWidget

	grid    *widget.TextGrid
	scroll  *container.Scroll
	entry   *widget.Entry
	status  *widget.Label
	content fyne.CanvasObject

	finder  *search.Finder
	query   string
	current *search.Match
}

// NewMetadataPane creates a pane displaying text.
func NewMetadataPane(text string) *MetadataPane {
	p := &MetadataPane{
		grid:   widget.NewTextGridFromString(text),
		entry:  widget.NewEntry(),
		status: widget.NewLabel(""),
		finder: search.NewFinder(text),
	}

	p.scroll = container.NewScroll(p.grid)
	p.entry.SetPlaceHolder("Find in header...")
	p.entry.OnChanged = func(query string) {
		p.Search(query)
	}
	p.entry.OnSubmitted = func(string) {
		p.FindNext()
	}

	searchRow := container.NewBorder(nil, nil, nil, p.status, p.entry)
	p.content = container.NewBorder(nil, searchRow, nil, nil, p.scroll)

	p.ExtendBaseWidget(p)
	return p
}

// Search highlights the first occurrence of query from the top of the
// text. An empty query clears the highlight.
func (p *MetadataPane) Search(query string) bool {
	return p.find(query, search.Position{})
}

// FindNext moves to the occurrence after the current one, wrapping at the
// end of the text.
func (p *MetadataPane) FindNext() bool {
	from := search.Position{}
	if p.current != nil {
		from = p.current.End()
	}
	return p.find(p.query, from)
}

func (p *MetadataPane) find(query string, from search.Position) bool {
	p.clearHighlight()
	p.query = query

	if query == "" {
		p.status.SetText("")
		return false
	}

	m, ok := p.finder.Next(query, from)
	if !ok {
		p.status.SetText("no match")
		return false
	}

	p.current = &m
	p.grid.SetStyleRange(m.Row, m.Col, m.Row, m.Col+m.Len-1, highlightStyle)
	p.grid.Refresh()
	p.reveal(m.Row)

	if n := p.finder.Count(query); n == 1 {
		p.status.SetText("1 match")
	} else {
		p.status.SetText(fmt.Sprintf("%d matches", n))
	}
	return true
}

func (p *MetadataPane) clearHighlight() {
	if p.current == nil {
		return
	}
	m := p.current
	p.grid.SetStyleRange(m.Row, m.Col, m.Row, m.Col+m.Len-1, nil)
	p.grid.Refresh()
	p.current = nil
}

// reveal scrolls so that row is vertically centred where possible.
func (p *MetadataPane) reveal(row int) {
	lineHeight := fyne.MeasureText("M", theme.TextSize(), fyne.TextStyle{Monospace: true}).Height
	viewport := p.scroll.Size().Height

	y := float32(row)*lineHeight - viewport/2
	if limit := p.grid.MinSize().Height - viewport; y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}

	p.scroll.Offset = fyne.NewPos(p.scroll.Offset.X, y)
	p.scroll.Refresh()
}

// CreateRenderer creates the widget renderer.
func (p *MetadataPane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}
