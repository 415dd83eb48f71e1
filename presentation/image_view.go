package presentation

import (
	"image"
	"math"
	"sync"

	"dcmview/core/imaging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// ImageView displays a bitmap scaled to fill its height while keeping the
// aspect ratio. It keeps the unscaled original so that every resize is a
// fresh scale of the same bitmap, never a re-decode.
type ImageView struct {
	widget.BaseWidget
	raster *canvas.Image

	imageMu  sync.RWMutex
	original image.Image
	scaled   image.Image
	minWidth float32
}

// NewImageView creates an empty image view.
func NewImageView() *ImageView {
	v := &ImageView{
		raster: canvas.NewImageFromImage(imaging.Empty()),
	}
	v.raster.FillMode = canvas.ImageFillContain
	v.raster.ScaleMode = canvas.ImageScaleSmooth
	v.ExtendBaseWidget(v)
	return v
}

// Display stores img as the original and shows a copy scaled to the
// current height. The minimum width follows the scaled width so that
// neighbouring widgets cannot squeeze the image.
func (v *ImageView) Display(img image.Image) {
	if img == nil {
		img = imaging.Empty()
	}
	h := int(math.Round(float64(v.Size().Height)))
	scaled := imaging.ScaleToHeight(img, h)

	v.imageMu.Lock()
	v.original = img
	v.scaled = scaled
	v.minWidth = float32(scaled.Bounds().Dx())
	v.imageMu.Unlock()

	v.raster.Image = scaled
	v.raster.Refresh()
}

// Rescale redisplays the stored original at the current height.
func (v *ImageView) Rescale() {
	original, _ := v.images()
	if original == nil {
		return
	}
	v.Display(original)
}

// images returns the unscaled original, nil before the first Display,
// and the bitmap currently on screen.
func (v *ImageView) images() (original, scaled image.Image) {
	v.imageMu.RLock()
	defer v.imageMu.RUnlock()
	return v.original, v.scaled
}

// CreateRenderer creates the widget renderer.
func (v *ImageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize returns the scaled image width; the height is left to the layout.
func (v *ImageView) MinSize() fyne.Size {
	v.imageMu.RLock()
	defer v.imageMu.RUnlock()
	return fyne.NewSize(v.minWidth, 0)
}
