package model

import (
	"errors"
	"fmt"
)

// ErrSourceUnavailable reports that a document could not be opened or decoded.
// It is fatal for the whole run.
var ErrSourceUnavailable = errors.New("source unavailable")

// PageExtractionError records one extractor failing on one page. The page is
// still produced from whatever the other extractors returned.
type PageExtractionError struct {
	Page      int
	Extractor string // words, tables, images, charts, or page
	Err       error
}

func (e *PageExtractionError) Error() string {
	return fmt.Sprintf("page %d: extract %s: %v", e.Page, e.Extractor, e.Err)
}

func (e *PageExtractionError) Unwrap() error { return e.Err }

// SerializationError reports a failed write of an extracted document.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
