// Package privatetag extracts the vendor-private free-text header stored
// in Siemens DICOM files and turns it into displayable text.
package privatetag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Location identifies where the private header lives in a dataset.
// The tag numbers are vendor-defined and treated as opaque.
type Location struct {
	// PerFrameSequence is the multi-frame functional group sequence.
	PerFrameSequence tag.Tag
	// NestedSequence is the private sequence inside the first per-frame item.
	NestedSequence tag.Tag
	// Leaf holds the byte array with the header text.
	Leaf tag.Tag
}

// DefaultLocation returns the tag locations used by Siemens scanners.
func DefaultLocation() Location {
	return Location{
		PerFrameSequence: tag.Tag{Group: 0x5200, Element: 0x9229},
		NestedSequence:   tag.Tag{Group: 0x0021, Element: 0x10FE},
		Leaf:             tag.Tag{Group: 0x0021, Element: 0x1019},
	}
}

// Extract returns the raw bytes of the private header.
// The nested per-frame location is tried first; only when it yields no
// bytes is the top-level leaf consulted. Returns nil if neither holds data.
func (l Location) Extract(ds *dicom.Dataset) []byte {
	if ds == nil {
		return nil
	}
	if b := l.nested(ds.Elements); len(b) > 0 {
		return b
	}
	return leafBytes(ds.Elements, l.Leaf)
}

// Text extracts and sanitizes the private header.
func (l Location) Text(ds *dicom.Dataset) string {
	return Sanitize(l.Extract(ds))
}

func (l Location) nested(elems []*dicom.Element) []byte {
	frameItem := firstItem(elems, l.PerFrameSequence)
	if frameItem == nil {
		return nil
	}
	privateItem := firstItem(frameItem, l.NestedSequence)
	if privateItem == nil {
		return nil
	}
	return leafBytes(privateItem, l.Leaf)
}

// firstItem returns the elements of the first item of the sequence at t.
func firstItem(elems []*dicom.Element, t tag.Tag) []*dicom.Element {
	el := find(elems, t)
	if el == nil || el.Value == nil || el.Value.ValueType() != dicom.Sequences {
		return nil
	}
	items, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok || len(items) == 0 || items[0] == nil {
		return nil
	}
	item, _ := items[0].GetValue().([]*dicom.Element)
	return item
}

func leafBytes(elems []*dicom.Element, t tag.Tag) []byte {
	el := find(elems, t)
	if el == nil || el.Value == nil || el.Value.ValueType() != dicom.Bytes {
		return nil
	}
	b, _ := el.Value.GetValue().([]byte)
	return b
}

func find(elems []*dicom.Element, t tag.Tag) *dicom.Element {
	for _, el := range elems {
		if el != nil && el.Tag == t {
			return el
		}
	}
	return nil
}

// Sanitize converts the raw header bytes into printable text.
// Every byte that is neither a newline nor within [' ', '~'] becomes a
// space. The final byte is a terminator and is dropped, so the result
// has len(b)-1 characters. b is not modified.
func Sanitize(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	out := make([]byte, len(b)-1)
	for i, c := range b[:len(b)-1] {
		if c != '\n' && (c < ' ' || c > '~') {
			c = ' '
		}
		out[i] = c
	}
	return string(out)
}

// ParseTag parses a tag written as "gggg,eeee", optionally wrapped in
// parentheses, with hexadecimal group and element.
func ParseTag(s string) (tag.Tag, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	group, element, ok := strings.Cut(s, ",")
	if !ok {
		return tag.Tag{}, fmt.Errorf("invalid tag %q: expected gggg,eeee", s)
	}
	g, err := strconv.ParseUint(strings.TrimSpace(group), 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid tag group %q: %w", group, err)
	}
	e, err := strconv.ParseUint(strings.TrimSpace(element), 16, 16)
	if err != nil {
		return tag.Tag{}, fmt.Errorf("invalid tag element %q: %w", element, err)
	}
	return tag.Tag{Group: uint16(g), Element: uint16(e)}, nil
}
