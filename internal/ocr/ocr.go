// Package ocr reads chart data out of embedded images.
//
// Recognition uses Tesseract via gosseract and is compiled in only with the
// "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag New returns ErrOCRNotEnabled and callers fall back to Nop.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// ErrOCRNotEnabled is returned by New when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

type recognizer interface {
	Recognize(image []byte) (string, error)
	Close() error
}

// ChartReader OCRs image bytes and splits the recognized text into rows.
// Calls are serialized; the underlying engine is not safe for concurrent use.
type ChartReader struct {
	mu  sync.Mutex
	rec recognizer
}

// New creates a ChartReader recognizing the given Tesseract language(s),
// e.g. "eng" or "eng+deu".
func New(language string) (*ChartReader, error) {
	rec, err := newRecognizer(language)
	if err != nil {
		return nil, err
	}
	return &ChartReader{rec: rec}, nil
}

// ReadChart returns no rows for images without bytes.
func (r *ChartReader) ReadChart(ctx context.Context, img model.RawImage) ([][]string, error) {
	if len(img.Bytes) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	text, err := r.rec.Recognize(img.Bytes)
	r.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	return Rows(text), nil
}

// Close releases the OCR engine.
func (r *ChartReader) Close() error {
	if r == nil || r.rec == nil {
		return nil
	}
	return r.rec.Close()
}

var cellSep = regexp.MustCompile(`\s{2,}|\t+`)

// Rows splits OCR output into rows on newlines and cells on runs of two or
// more spaces or tabs. Blank lines are dropped.
func Rows(text string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, cellSep.Split(line, -1))
	}
	return rows
}

// Nop is a chart reader that never finds data.
type Nop struct{}

func (Nop) ReadChart(context.Context, model.RawImage) ([][]string, error) { return nil, nil }
