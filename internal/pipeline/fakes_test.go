package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

type fakePage struct {
	words  []model.Token
	tables []model.RawTable
	images []model.RawImage

	wordsErr, tablesErr, imagesErr error
	panicOn                        string
	delay                          time.Duration
}

func (f *fakePage) Words() ([]model.Token, error) {
	time.Sleep(f.delay)
	if f.panicOn == "words" {
		panic("corrupt content stream")
	}
	return f.words, f.wordsErr
}

func (f *fakePage) Tables() ([]model.RawTable, error) {
	if f.panicOn == "tables" {
		panic("corrupt content stream")
	}
	return f.tables, f.tablesErr
}

func (f *fakePage) Images() ([]model.RawImage, error) {
	if f.panicOn == "images" {
		panic("corrupt content stream")
	}
	return f.images, f.imagesErr
}

type locatingPage struct {
	*fakePage
	section string
}

func (l locatingPage) NearestSection(float64) *string { return model.String(l.section) }

type fakeDoc struct {
	pages   []PageSource
	pageErr map[int]error
	closed  bool
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) Page(n int) (PageSource, error) {
	if err := d.pageErr[n]; err != nil {
		return nil, err
	}
	return d.pages[n-1], nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

// textPage returns a page holding one body paragraph.
func textPage(text string) *fakePage {
	return &fakePage{words: []model.Token{{Text: text, Top: 700, X0: 50, Size: 11}}}
}

type fakeCharts struct {
	rows   [][]string
	err    error
	panics bool
}

func (f fakeCharts) ReadChart(context.Context, model.RawImage) ([][]string, error) {
	if f.panics {
		panic("ocr crash")
	}
	return f.rows, f.err
}

type fakeStore struct {
	mu     sync.Mutex
	err    error
	stored map[string]*model.Document
}

func (s *fakeStore) StoreDocument(_ context.Context, docID, _ string, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.stored == nil {
		s.stored = make(map[string]*model.Document)
	}
	s.stored[docID] = doc
	return nil
}

func openerFor(doc DocumentSource) Opener {
	return func(string, []byte) (DocumentSource, error) { return doc, nil }
}

var errOpen = errors.New("not a document")

func failingOpener(string, []byte) (DocumentSource, error) {
	return nil, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, errOpen)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
