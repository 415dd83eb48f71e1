// Package application turns a file path into the document shown by the
// viewer window.
package application

import (
	"context"
	"errors"
	"fmt"
	"image"

	"dcmview/domain/metadata"
	"dcmview/domain/privatetag"
	"dcmview/domain/study"
	"dcmview/infrastructure/logging"
)

// ErrMissingArgument is returned when no DICOM file path is given.
var ErrMissingArgument = errors.New("application needs at least one argument (DICOM file name)")

// ParseArgs returns the DICOM file path from the process arguments,
// excluding the program name. Extra arguments are ignored.
func ParseArgs(args []string) (string, error) {
	if len(args) < 1 || args[0] == "" {
		return "", ErrMissingArgument
	}
	return args[0], nil
}

// Document is everything the window displays for one file.
type Document struct {
	// Path is the file the document was loaded from.
	Path string

	// Bitmap is the decoded first frame; zero-size when the file has no
	// displayable pixel data.
	Bitmap image.Image

	// Text is the metadata dump followed by the private header section.
	Text string
}

// Viewer loads documents.
type Viewer struct {
	source      study.Source
	privateTags privatetag.Location
	dumpOptions metadata.Options
}

// ViewerConfig holds configuration for Viewer.
type ViewerConfig struct {
	Source      study.Source
	PrivateTags privatetag.Location
	DumpOptions metadata.Options
}

// NewViewer creates a new viewer.
func NewViewer(cfg *ViewerConfig) *Viewer {
	return &Viewer{
		source:      cfg.Source,
		privateTags: cfg.PrivateTags,
		dumpOptions: cfg.DumpOptions,
	}
}

// Open loads the file at path and builds its document. Load failures wrap
// study.ErrFileLoad; a frame that cannot be decoded is logged and shown
// as an empty bitmap. Logging goes to the logger carried by ctx.
func (v *Viewer) Open(ctx context.Context, path string) (*Document, error) {
	logger := logging.From(ctx)

	if v.source == nil {
		return nil, fmt.Errorf("%w: no study source configured", study.ErrFileLoad)
	}
	s, err := v.source.Load(path)
	if err != nil {
		return nil, err
	}

	bitmap, err := s.Bitmap()
	if err != nil {
		logger.Warn("Pixel data could not be decoded", "error", err)
	}

	private := v.privateTags.Text(&s.Dataset)
	if private == "" {
		logger.Debug("No private header present")
	}

	dump := metadata.Render(&s.Dataset, v.dumpOptions)

	b := bitmap.Bounds()
	logger.Info("Document ready", "width", b.Dx(), "height", b.Dy(), "private_header_bytes", len(private))

	return &Document{
		Path:   s.Path,
		Bitmap: bitmap,
		Text:   metadata.Compose(dump, private),
	}, nil
}
