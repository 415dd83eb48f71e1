package presentation

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// ResizePane is the top-level window content. It lays out its content as
// usual and then asks the bound ImageView to rescale to its new height.
type ResizePane struct {
	widget.BaseWidget
	content fyne.CanvasObject
	view    *ImageView
}

// NewResizePane wraps content. No image view is bound initially.
func NewResizePane(content fyne.CanvasObject) *ResizePane {
	p := &ResizePane{content: content}
	p.ExtendBaseWidget(p)
	return p
}

// Bind sets the image view that follows resizes.
func (p *ResizePane) Bind(view *ImageView) {
	p.view = view
}

// Resize runs the default resize, then rescales the bound image view.
func (p *ResizePane) Resize(size fyne.Size) {
	p.BaseWidget.Resize(size)
	if p.view == nil {
		return
	}

	before := p.view.MinSize()
	p.view.Rescale()
	if p.view.MinSize() != before {
		p.relayout()
	}
}

// relayout reapplies the content layout so that a changed image width
// is honoured by its siblings.
func (p *ResizePane) relayout() {
	if c, ok := p.content.(*fyne.Container); ok {
		c.Refresh()
		return
	}
	p.content.Resize(p.Size())
	p.content.Refresh()
}

// CreateRenderer creates the widget renderer.
func (p *ResizePane) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}
