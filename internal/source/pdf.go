package source

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/pipeline"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PDFDocument reads pages lazily from an in-memory PDF.
type PDFDocument struct {
	reader *pdflib.Reader
	pages  int
}

// OpenPDF validates data with pdfcpu and opens it for glyph extraction.
func OpenPDF(data []byte) (doc *PDFDocument, err error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("validate pdf: %w", err)
	}

	// The glyph reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("open pdf: %v", r)
		}
	}()

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	pages := reader.NumPage()
	if count < pages {
		pages = count
	}
	return &PDFDocument{reader: reader, pages: pages}, nil
}

func (d *PDFDocument) NumPages() int { return d.pages }

func (d *PDFDocument) Page(number int) (src pipeline.PageSource, err error) {
	if number < 1 || number > d.pages {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, d.pages)
	}
	defer func() {
		if r := recover(); r != nil {
			src, err = nil, fmt.Errorf("read page %d: %v", number, r)
		}
	}()
	p := d.reader.Page(number)
	if p.V.IsNull() {
		return nil, fmt.Errorf("page %d has no page object", number)
	}
	return &pdfPage{page: p}, nil
}

func (d *PDFDocument) Close() error { return nil }

// pdfPage decodes the content stream once and serves all extractors from it.
// A panic while decoding propagates to the calling extractor.
type pdfPage struct {
	page    pdflib.Page
	loaded  bool
	content pdflib.Content
	words   []pdfWord
}

func (p *pdfPage) load() {
	if p.loaded {
		return
	}
	p.content = p.page.Content()
	p.words = groupGlyphs(p.content.Text)
	p.loaded = true
}

func (p *pdfPage) Words() ([]model.Token, error) {
	p.load()
	tokens := make([]model.Token, len(p.words))
	for i, w := range p.words {
		tokens[i] = w.Token
	}
	return tokens, nil
}

func (p *pdfPage) Tables() ([]model.RawTable, error) {
	p.load()
	grids := newGridDetector().detect(p.content.Rect)
	tables := make([]model.RawTable, 0, len(grids))
	for _, g := range grids {
		tables = append(tables, model.RawTable{
			Rows:     g.fill(p.words),
			Position: model.Float(g.top()),
		})
	}
	return tables, nil
}

// Images reports image XObjects on the page. The content stream does not
// expose their placement, so positions are unknown.
func (p *pdfPage) Images() ([]model.RawImage, error) {
	xobjects := p.page.Resources().Key("XObject")
	if xobjects.Kind() != pdflib.Dict {
		return nil, nil
	}
	names := xobjects.Keys()
	sort.Strings(names)

	var images []model.RawImage
	for _, name := range names {
		if xobjects.Key(name).Key("Subtype").Name() != "Image" {
			continue
		}
		images = append(images, model.RawImage{})
	}
	return images, nil
}
