// Package imaging provides the raster operations used to display a
// decoded DICOM frame: height-fitted scaling and the grayscale display
// pipeline from stored values to 8-bit output.
package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Empty returns a zero-size bitmap, used when a study has no pixel data.
func Empty() image.Image {
	return image.NewGray(image.Rect(0, 0, 0, 0))
}

// ScaledWidth returns the width that keeps the aspect ratio of a
// srcW x srcH bitmap when scaled to height h.
func ScaledWidth(srcW, srcH, h int) int {
	if srcW <= 0 || srcH <= 0 || h <= 0 {
		return 0
	}
	return int(math.Round(float64(srcW) * float64(h) / float64(srcH)))
}

// ScaleToHeight returns a copy of src scaled to height h, with the width
// computed proportionally. src is never modified. A zero-size source or a
// non-positive height yields a zero-size bitmap.
func ScaleToHeight(src image.Image, h int) image.Image {
	if src == nil {
		return Empty()
	}
	b := src.Bounds()
	w := ScaledWidth(b.Dx(), b.Dy(), h)
	if w <= 0 {
		return Empty()
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Rescale is the modality transform from stored pixel values to output
// units such as Hounsfield units.
type Rescale struct {
	Slope     float64
	Intercept float64
}

// IdentityRescale leaves stored values unchanged.
func IdentityRescale() Rescale {
	return Rescale{Slope: 1}
}

// Apply maps one stored value.
func (r Rescale) Apply(v int) float64 {
	return float64(v)*r.Slope + r.Intercept
}

// SignExtend reads the low bits of v as a two's complement number.
func SignExtend(v, bits int) int {
	if bits <= 0 || bits >= 63 {
		return v
	}
	v &= 1<<bits - 1
	if v&(1<<(bits-1)) != 0 {
		v -= 1 << bits
	}
	return v
}

// Plane is a single-sample image in modality units, stored row by row.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane returns a zeroed w x h plane.
func NewPlane(w, h int) *Plane {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &Plane{Width: w, Height: h, Pix: make([]float64, w*h)}
}

// Window is a VOI window in modality units.
type Window struct {
	Center float64
	Width  float64
}

// Valid reports whether the window can be applied.
func (w Window) Valid() bool {
	return w.Width >= 1
}

// AutoWindow returns a window spanning the full value range of p.
func AutoWindow(p *Plane) Window {
	if p == nil || len(p.Pix) == 0 {
		return Window{}
	}
	lo, hi := p.Pix[0], p.Pix[0]
	for _, v := range p.Pix[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := max(hi-lo, 1)
	return Window{Center: lo + width/2, Width: width}
}

// ApplyWindow maps p to 8-bit grayscale using w, or the full value range
// when w is not valid. Values below the window are black, values above
// are white. When invert is set the output is inverted, as MONOCHROME1
// requires.
func ApplyWindow(p *Plane, w Window, invert bool) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	if !w.Valid() {
		w = AutoWindow(p)
	}
	lo := w.Center - w.Width/2
	for i, raw := range p.Pix {
		v := (raw - lo) / w.Width
		v = math.Max(0, math.Min(1, v))
		if invert {
			v = 1 - v
		}
		out.Pix[i] = uint8(math.Round(v * 255))
	}
	return out
}

// ToRGB builds a colour image from interleaved pixels of at least three
// samples each, stored with the given bit depth. ycbcr selects YBR_FULL
// input instead of RGB.
func ToRGB(w, h int, pixels [][]int, bits int, ycbcr bool) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < w*h && i < len(pixels); i++ {
		px := pixels[i]
		if len(px) < 3 {
			continue
		}
		r, g, b := to8(px[0], bits), to8(px[1], bits), to8(px[2], bits)
		if ycbcr {
			r, g, b = color.YCbCrToRGB(r, g, b)
		}
		out.SetRGBA(i%w, i/w, color.RGBA{R: r, G: g, B: b, A: 0xFF})
	}
	return out
}

func to8(v, bits int) uint8 {
	if bits > 8 {
		v >>= bits - 8
	}
	return uint8(max(0, min(0xFF, v)))
}
