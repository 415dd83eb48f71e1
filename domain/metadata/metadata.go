// Package metadata renders a parsed DICOM dataset as a flat,
// human-readable text dump.
package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// PrivateHeaderSeparator precedes the vendor-private header in the
// composed metadata text.
const PrivateHeaderSeparator = "--- Siemens header ---"

// Options controls the dump layout.
type Options struct {
	// ShortenLongValues elides values longer than MaxValueLength.
	ShortenLongValues bool
	// MaxValueLength is the number of characters kept when shortening.
	MaxValueLength int
}

// DefaultOptions returns the options used by the viewer.
func DefaultOptions() Options {
	return Options{
		ShortenLongValues: true,
		MaxValueLength:    64,
	}
}

var itemTag = tag.Tag{Group: 0xFFFE, Element: 0xE000}

const (
	metaGroup   = 0x0002
	indentStep  = "  "
	valueColumn = 40
)

// Render dumps every element of ds, one per line, in the form
//
//	(gggg,eeee) VR value  # Keyword
//
// Sequence items are listed beneath their sequence with extra indentation.
func Render(ds *dicom.Dataset, opts Options) string {
	if ds == nil {
		return ""
	}

	var sb strings.Builder
	var meta, data []*dicom.Element
	for _, el := range ds.Elements {
		if el == nil {
			continue
		}
		if el.Tag.Group == metaGroup {
			meta = append(meta, el)
		} else {
			data = append(data, el)
		}
	}

	r := &renderer{sb: &sb, opts: opts}
	if len(meta) > 0 {
		sb.WriteString("# Dicom-Meta-Information-Header\n")
		r.elements(meta, 0)
		sb.WriteString("\n")
	}
	sb.WriteString("# Dicom-Data-Set\n")
	r.elements(data, 0)

	return sb.String()
}

// Compose appends the private header section to a rendered dump.
func Compose(dump, private string) string {
	return dump + "\n" + PrivateHeaderSeparator + "\n" + private
}

type renderer struct {
	sb   *strings.Builder
	opts Options
}

func (r *renderer) elements(elems []*dicom.Element, depth int) {
	for _, el := range elems {
		if el == nil {
			continue
		}
		r.element(el, depth)
	}
}

func (r *renderer) element(el *dicom.Element, depth int) {
	vr := el.RawValueRepresentation
	if vr == "" {
		vr = "??"
	}

	if el.Value != nil && el.Value.ValueType() == dicom.Sequences {
		items, _ := el.Value.GetValue().([]*dicom.SequenceItemValue)
		r.line(depth, el.Tag, vr, fmt.Sprintf("(Sequence with %d items)", len(items)), keyword(el.Tag))
		for _, item := range items {
			if item == nil {
				continue
			}
			children, _ := item.GetValue().([]*dicom.Element)
			r.line(depth+1, itemTag, "na", fmt.Sprintf("(Item with %d elements)", len(children)), "Item")
			r.elements(children, depth+2)
		}
		return
	}

	r.line(depth, el.Tag, vr, r.value(el.Value), keyword(el.Tag))
}

func (r *renderer) line(depth int, t tag.Tag, vr, value, name string) {
	head := fmt.Sprintf("%s(%04X,%04X) %s %s", strings.Repeat(indentStep, depth), t.Group, t.Element, vr, value)
	r.sb.WriteString(head)
	if pad := valueColumn - len(head); pad > 0 {
		r.sb.WriteString(strings.Repeat(" ", pad))
	}
	r.sb.WriteString("  # ")
	r.sb.WriteString(name)
	r.sb.WriteString("\n")
}

func (r *renderer) value(v dicom.Value) string {
	if v == nil {
		return "(no value available)"
	}

	switch v.ValueType() {
	case dicom.Strings:
		s, _ := v.GetValue().([]string)
		return "[" + r.shorten(strings.Join(s, `\`)) + "]"
	case dicom.Ints:
		ints, _ := v.GetValue().([]int)
		parts := make([]string, len(ints))
		for i, n := range ints {
			parts[i] = strconv.Itoa(n)
		}
		return r.shorten(strings.Join(parts, `\`))
	case dicom.Floats:
		floats, _ := v.GetValue().([]float64)
		parts := make([]string, len(floats))
		for i, f := range floats {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return r.shorten(strings.Join(parts, `\`))
	case dicom.Bytes:
		b, _ := v.GetValue().([]byte)
		return r.bytes(b)
	case dicom.PixelData:
		info, ok := v.GetValue().(dicom.PixelDataInfo)
		if !ok {
			return "(PixelData)"
		}
		return fmt.Sprintf("(PixelData with %d frames)", len(info.Frames))
	default:
		return r.shorten(v.String())
	}
}

// bytes renders a byte array as backslash separated hex pairs. Only as
// many bytes as fit before shortening are formatted.
func (r *renderer) bytes(b []byte) string {
	if len(b) == 0 {
		return "(no value available)"
	}
	n := len(b)
	if r.opts.ShortenLongValues && r.opts.MaxValueLength > 0 {
		// each byte takes three characters including its separator
		if limit := r.opts.MaxValueLength/3 + 2; n > limit {
			n = limit
		}
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("%02x", b[i])
	}
	return r.shorten(strings.Join(parts, `\`))
}

func (r *renderer) shorten(s string) string {
	if !r.opts.ShortenLongValues || r.opts.MaxValueLength <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= r.opts.MaxValueLength {
		return s
	}
	return string(runes[:r.opts.MaxValueLength]) + "..."
}

func keyword(t tag.Tag) string {
	if info, err := tag.Find(t); err == nil && info.Name != "" {
		return info.Name
	}
	if t.Group%2 == 1 {
		return "PrivateTag"
	}
	return "Unknown Tag & Data"
}
