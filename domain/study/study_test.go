package study

import (
	"image"
	"image/color"
	"testing"

	"dcmview/core/imaging"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/frame"
	"github.com/suyashkumar/dicom/pkg/tag"
)

func mustElement(t *testing.T, tg tag.Tag, data interface{}) *dicom.Element {
	t.Helper()
	el, err := dicom.NewElement(tg, data)
	if err != nil {
		t.Fatalf("NewElement(%v) failed: %v", tg, err)
	}
	return el
}

func TestStudy_Bitmap_NoPixelData(t *testing.T) {
	s := &Study{
		Path: "empty.dcm",
		Dataset: dicom.Dataset{Elements: []*dicom.Element{
			mustElement(t, tag.PatientName, []string{"Doe^Jane"}),
		}},
	}

	img, err := s.Bitmap()
	if err != nil {
		t.Fatalf("Bitmap() unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 0 || b.Dy() != 0 {
		t.Errorf("Bitmap() bounds = %v, want zero size", b)
	}
}

func TestStudy_Bitmap_EmptyDataset(t *testing.T) {
	img, err := (&Study{}).Bitmap()
	if err != nil {
		t.Fatalf("Bitmap() unexpected error: %v", err)
	}
	if !img.Bounds().Empty() {
		t.Errorf("Bitmap() bounds = %v, want empty", img.Bounds())
	}
}

func TestStudy_Window(t *testing.T) {
	tests := []struct {
		name     string
		elements []*dicom.Element
		expected imaging.Window
	}{
		{
			name: "center and width",
			elements: []*dicom.Element{
				mustElement(t, tag.WindowCenter, []string{"40", "300"}),
				mustElement(t, tag.WindowWidth, []string{" 400 ", "1500"}),
			},
			expected: imaging.Window{Center: 40, Width: 400},
		},
		{
			name: "width missing",
			elements: []*dicom.Element{
				mustElement(t, tag.WindowCenter, []string{"40"}),
			},
			expected: imaging.Window{},
		},
		{
			name: "unparseable center",
			elements: []*dicom.Element{
				mustElement(t, tag.WindowCenter, []string{"abc"}),
				mustElement(t, tag.WindowWidth, []string{"400"}),
			},
			expected: imaging.Window{},
		},
		{
			name:     "none",
			elements: nil,
			expected: imaging.Window{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Study{Dataset: dicom.Dataset{Elements: tt.elements}}
			if got := s.window(); got != tt.expected {
				t.Errorf("window() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestStudy_Photometric(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "monochrome1", value: "MONOCHROME1", expected: "MONOCHROME1"},
		{name: "padded", value: "RGB ", expected: "RGB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Study{Dataset: dicom.Dataset{Elements: []*dicom.Element{
				mustElement(t, tag.PhotometricInterpretation, []string{tt.value}),
			}}}
			if got := s.photometric(); got != tt.expected {
				t.Errorf("photometric() = %q, want %q", got, tt.expected)
			}
		})
	}

	if got := (&Study{}).photometric(); got != "" {
		t.Errorf("photometric() without the tag = %q, want empty", got)
	}
}

func TestStudy_Rescale(t *testing.T) {
	tests := []struct {
		name     string
		elements []*dicom.Element
		expected imaging.Rescale
	}{
		{name: "absent", expected: imaging.Rescale{Slope: 1}},
		{
			name: "ct",
			elements: []*dicom.Element{
				mustElement(t, tag.RescaleIntercept, []string{"-1024 "}),
				mustElement(t, tag.RescaleSlope, []string{"1"}),
			},
			expected: imaging.Rescale{Slope: 1, Intercept: -1024},
		},
		{
			name: "zero slope ignored",
			elements: []*dicom.Element{
				mustElement(t, tag.RescaleSlope, []string{"0"}),
			},
			expected: imaging.Rescale{Slope: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Study{Dataset: dicom.Dataset{Elements: tt.elements}}
			if got := s.rescale(); got != tt.expected {
				t.Errorf("rescale() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func pixelData(t *testing.T, rows, cols, bits int, data [][]int) *dicom.Element {
	t.Helper()
	return mustElement(t, tag.PixelData, dicom.PixelDataInfo{
		Frames: []*frame.Frame{{
			NativeData: frame.NativeFrame{
				BitsPerSample: bits,
				Rows:          rows,
				Cols:          cols,
				Data:          data,
			},
		}},
	})
}

func TestStudy_Bitmap_Grayscale(t *testing.T) {
	tests := []struct {
		name     string
		elements []*dicom.Element
		want     []uint8
	}{
		{
			name: "ct soft tissue window",
			elements: []*dicom.Element{
				mustElement(t, tag.RescaleIntercept, []string{"-1024"}),
				mustElement(t, tag.RescaleSlope, []string{"1"}),
				mustElement(t, tag.WindowCenter, []string{"40"}),
				mustElement(t, tag.WindowWidth, []string{"400"}),
				pixelData(t, 1, 2, 16, [][]int{{1064}, {224}}),
			},
			want: []uint8{128, 0},
		},
		{
			name: "ct above window",
			elements: []*dicom.Element{
				mustElement(t, tag.RescaleIntercept, []string{"-1024"}),
				mustElement(t, tag.WindowCenter, []string{"40"}),
				mustElement(t, tag.WindowWidth, []string{"400"}),
				pixelData(t, 1, 2, 16, [][]int{{2024}, {1024}}),
			},
			want: []uint8{255, 102},
		},
		{
			name: "signed without window",
			elements: []*dicom.Element{
				mustElement(t, tag.PixelRepresentation, []int{1}),
				mustElement(t, tag.BitsStored, []int{16}),
				pixelData(t, 1, 2, 16, [][]int{{0xFC18}, {1000}}),
			},
			want: []uint8{0, 255},
		},
		{
			name: "signed with intercept and window",
			elements: []*dicom.Element{
				mustElement(t, tag.PixelRepresentation, []int{1}),
				mustElement(t, tag.RescaleIntercept, []string{"0"}),
				mustElement(t, tag.WindowCenter, []string{"0"}),
				mustElement(t, tag.WindowWidth, []string{"2000"}),
				pixelData(t, 1, 2, 16, [][]int{{0xFC18}, {0}}),
			},
			want: []uint8{0, 128},
		},
		{
			name: "slope",
			elements: []*dicom.Element{
				mustElement(t, tag.RescaleSlope, []string{"2"}),
				mustElement(t, tag.WindowCenter, []string{"30"}),
				mustElement(t, tag.WindowWidth, []string{"20"}),
				pixelData(t, 1, 2, 16, [][]int{{10}, {20}}),
			},
			want: []uint8{0, 255},
		},
		{
			name: "monochrome1 inverted",
			elements: []*dicom.Element{
				mustElement(t, tag.PhotometricInterpretation, []string{"MONOCHROME1"}),
				mustElement(t, tag.WindowCenter, []string{"100"}),
				mustElement(t, tag.WindowWidth, []string{"200"}),
				pixelData(t, 1, 2, 16, [][]int{{0}, {200}}),
			},
			want: []uint8{255, 0},
		},
		{
			name: "8-bit auto window",
			elements: []*dicom.Element{
				pixelData(t, 1, 2, 8, [][]int{{0}, {255}}),
			},
			want: []uint8{0, 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Study{Dataset: dicom.Dataset{Elements: tt.elements}}
			img, err := s.Bitmap()
			if err != nil {
				t.Fatalf("Bitmap() unexpected error: %v", err)
			}
			gray, ok := img.(*image.Gray)
			if !ok {
				t.Fatalf("Bitmap() = %T, want *image.Gray", img)
			}
			if b := gray.Bounds(); b.Dx() != len(tt.want) || b.Dy() != 1 {
				t.Fatalf("Bitmap() bounds = %v, want %dx1", b, len(tt.want))
			}
			for x, w := range tt.want {
				if got := gray.GrayAt(x, 0).Y; got != w {
					t.Errorf("pixel %d = %d, want %d", x, got, w)
				}
			}
		})
	}
}

func TestStudy_Bitmap_Colour(t *testing.T) {
	s := &Study{Dataset: dicom.Dataset{Elements: []*dicom.Element{
		mustElement(t, tag.SamplesPerPixel, []int{3}),
		mustElement(t, tag.PhotometricInterpretation, []string{"RGB"}),
		pixelData(t, 1, 3, 8, [][]int{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}),
	}}}

	img, err := s.Bitmap()
	if err != nil {
		t.Fatalf("Bitmap() unexpected error: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("Bitmap() = %T, want *image.RGBA", img)
	}

	want := []color.RGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{B: 255, A: 255},
	}
	for x, w := range want {
		if got := rgba.RGBAAt(x, 0); got != w {
			t.Errorf("pixel %d = %+v, want %+v", x, got, w)
		}
	}
}

func TestStudy_Bitmap_Undecodable(t *testing.T) {
	tests := []struct {
		name  string
		frame *frame.Frame
	}{
		{
			name: "short native frame",
			frame: &frame.Frame{NativeData: frame.NativeFrame{
				BitsPerSample: 16, Rows: 2, Cols: 2, Data: [][]int{{1}},
			}},
		},
		{
			name: "corrupt encapsulated frame",
			frame: &frame.Frame{
				Encapsulated:     true,
				EncapsulatedData: frame.EncapsulatedFrame{Data: []byte("not a jpeg")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Study{Dataset: dicom.Dataset{Elements: []*dicom.Element{
				mustElement(t, tag.PixelData, dicom.PixelDataInfo{Frames: []*frame.Frame{tt.frame}}),
			}}}

			img, err := s.Bitmap()
			if err == nil {
				t.Error("Bitmap() expected a decode error")
			}
			if !img.Bounds().Empty() {
				t.Errorf("Bitmap() bounds = %v, want empty", img.Bounds())
			}
		})
	}
}
