// Package study defines the loaded DICOM study and the extraction of its
// displayable bitmap.
package study

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"dcmview/core/imaging"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ErrFileLoad is returned when a file cannot be opened or parsed as DICOM.
var ErrFileLoad = errors.New("invalid DICOM file")

// Study is one parsed DICOM file.
type Study struct {
	// Path is the file the study was loaded from.
	Path string

	// Dataset is the parsed tag tree, including the file meta group.
	Dataset dicom.Dataset
}

// Source loads studies from storage.
type Source interface {
	// Load parses the file at path. Failures wrap ErrFileLoad.
	Load(path string) (*Study, error)
}

// Bitmap decodes the first frame of the pixel data.
//
// A study without pixel data yields a zero-size bitmap and no error. A
// frame that cannot be decoded yields a zero-size bitmap together with
// the error. Native grayscale frames go through the modality rescale and
// then the VOI window; frames with three samples per pixel keep their
// colour. Encapsulated frames are left to the parser's decoder.
func (s *Study) Bitmap() (image.Image, error) {
	el, err := s.Dataset.FindElementByTag(tag.PixelData)
	if err != nil || el.Value == nil {
		return imaging.Empty(), nil
	}
	info, ok := el.Value.GetValue().(dicom.PixelDataInfo)
	if !ok || len(info.Frames) == 0 || info.Frames[0] == nil {
		return imaging.Empty(), nil
	}

	f := info.Frames[0]
	if !f.Encapsulated {
		return s.native(&f.NativeData)
	}
	img, err := f.GetImage()
	if err != nil {
		return imaging.Empty(), fmt.Errorf("failed to decode frame: %w", err)
	}
	return img, nil
}

func (s *Study) native(nf *frame.NativeFrame) (image.Image, error) {
	n := nf.Rows * nf.Cols
	if nf.Rows <= 0 || nf.Cols <= 0 || len(nf.Data) < n {
		return imaging.Empty(), fmt.Errorf("failed to decode frame: %dx%d frame holds %d pixels", nf.Cols, nf.Rows, len(nf.Data))
	}

	bits := s.bitsStored(nf)
	if len(nf.Data[0]) >= 3 {
		return imaging.ToRGB(nf.Cols, nf.Rows, nf.Data, bits, s.photometric() == "YBR_FULL"), nil
	}

	rescale := s.rescale()
	signed := s.signed()
	plane := imaging.NewPlane(nf.Cols, nf.Rows)
	for i := range plane.Pix {
		v := 0
		if len(nf.Data[i]) > 0 {
			v = nf.Data[i][0]
		}
		if signed {
			v = imaging.SignExtend(v, bits)
		}
		plane.Pix[i] = rescale.Apply(v)
	}
	return imaging.ApplyWindow(plane, s.window(), s.photometric() == "MONOCHROME1"), nil
}

// window returns the first VOI window stored in the dataset, or an
// invalid window when none is present.
func (s *Study) window() imaging.Window {
	center, ok := s.firstFloat(tag.WindowCenter)
	if !ok {
		return imaging.Window{}
	}
	width, ok := s.firstFloat(tag.WindowWidth)
	if !ok {
		return imaging.Window{}
	}
	return imaging.Window{Center: center, Width: width}
}

// rescale returns the modality transform, identity when absent.
func (s *Study) rescale() imaging.Rescale {
	r := imaging.IdentityRescale()
	if slope, ok := s.firstFloat(tag.RescaleSlope); ok && slope != 0 {
		r.Slope = slope
	}
	if intercept, ok := s.firstFloat(tag.RescaleIntercept); ok {
		r.Intercept = intercept
	}
	return r
}

func (s *Study) signed() bool {
	v, ok := s.firstFloat(tag.PixelRepresentation)
	return ok && v == 1
}

func (s *Study) bitsStored(nf *frame.NativeFrame) int {
	if v, ok := s.firstFloat(tag.BitsStored); ok && v > 0 {
		return int(v)
	}
	if nf.BitsPerSample > 0 {
		return nf.BitsPerSample
	}
	return 16
}

func (s *Study) photometric() string {
	el, err := s.Dataset.FindElementByTag(tag.PhotometricInterpretation)
	if err != nil || el.Value == nil {
		return ""
	}
	values, _ := el.Value.GetValue().([]string)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

func (s *Study) firstFloat(t tag.Tag) (float64, bool) {
	el, err := s.Dataset.FindElementByTag(t)
	if err != nil || el.Value == nil {
		return 0, false
	}
	switch v := el.Value.GetValue().(type) {
	case []string:
		if len(v) == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v[0]), 64)
		return f, err == nil
	case []float64:
		if len(v) == 0 {
			return 0, false
		}
		return v[0], true
	case []int:
		if len(v) == 0 {
			return 0, false
		}
		return float64(v[0]), true
	}
	return 0, false
}
