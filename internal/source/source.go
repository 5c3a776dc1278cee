// Package source opens uploaded documents as page sources for the
// extraction pipeline. PDFs expose real glyph geometry; flow formats are laid
// out on a synthetic page by a typesetter.
package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/pipeline"
)

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".docx":     true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".csv":      true,
	".txt":      true,
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Open decodes data according to the filename's extension. Every error wraps
// model.ErrSourceUnavailable. It satisfies pipeline.Opener.
func Open(filename string, data []byte) (pipeline.DocumentSource, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		doc pipeline.DocumentSource
		err error
	)
	switch ext {
	case ".pdf":
		doc, err = OpenPDF(data)
	case ".docx":
		doc, err = parseDOCX(data)
	case ".md", ".markdown":
		doc, err = parseMarkdown(data)
	case ".html", ".htm":
		doc, err = parseHTML(data)
	case ".csv":
		doc, err = parseCSV(data)
	case ".txt":
		doc, err = parseText(data)
	default:
		return nil, fmt.Errorf("%w: unsupported file extension: %q", model.ErrSourceUnavailable, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", model.ErrSourceUnavailable, filename, err)
	}
	return doc, nil
}

// FlowPage is a fully materialized page. It never fails to extract.
type FlowPage struct {
	Tokens     []model.Token
	TableItems []model.RawTable
	ImageItems []model.RawImage
	Sections   []Anchor // outermost headings, top to bottom
}

// Anchor is a heading placed at a vertical position.
type Anchor struct {
	Top   float64
	Title string
}

// NearestSection names the closest outermost heading at or above position.
func (p *FlowPage) NearestSection(position float64) *string {
	var nearest *string
	for i := range p.Sections {
		if p.Sections[i].Top < position {
			break
		}
		nearest = &p.Sections[i].Title
	}
	if nearest == nil {
		return nil
	}
	return model.String(*nearest)
}

func (p *FlowPage) Words() ([]model.Token, error)     { return p.Tokens, nil }
func (p *FlowPage) Tables() ([]model.RawTable, error) { return p.TableItems, nil }
func (p *FlowPage) Images() ([]model.RawImage, error) { return p.ImageItems, nil }

// FlowDocument is an in-memory document of materialized pages.
type FlowDocument struct {
	Pages []*FlowPage
}

func (d *FlowDocument) NumPages() int { return len(d.Pages) }

func (d *FlowDocument) Page(number int) (pipeline.PageSource, error) {
	if number < 1 || number > len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range [1, %d]", number, len(d.Pages))
	}
	return d.Pages[number-1], nil
}

func (d *FlowDocument) Close() error { return nil }
