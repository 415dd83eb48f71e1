// Package dicomfile loads DICOM studies from the local filesystem.
package dicomfile

import (
	"fmt"
	"log/slog"
	"os"

	"dcmview/domain/study"

	"github.com/suyashkumar/dicom"
)

// Reader implements study.Source on top of the DICOM parser.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a new file reader.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// Load opens and parses the file at path. Any failure, including a
// panic inside the parser, is returned wrapped in study.ErrFileLoad.
func (r *Reader) Load(path string) (*study.Study, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", study.ErrFileLoad, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", study.ErrFileLoad, path)
	}

	ds, err := safelyParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", study.ErrFileLoad, path, err)
	}

	r.logger.Info("DICOM file loaded", "path", path, "size", info.Size(), "elements", len(ds.Elements))

	return &study.Study{Path: path, Dataset: ds}, nil
}

// safelyParseFile turns parser panics on malformed input into errors.
func safelyParseFile(path string) (ds dicom.Dataset, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	return dicom.ParseFile(path, nil)
}
