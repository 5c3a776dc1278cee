package pipeline

import (
	"context"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// PageSource supplies the raw material of one page. Each method is an
// independent extractor: a failure in one never hides the others' output.
type PageSource interface {
	Words() ([]model.Token, error)
	Tables() ([]model.RawTable, error)
	Images() ([]model.RawImage, error)
}

// SectionLocator is implemented by page sources that can name the section
// nearest to a vertical position. Without it, tables and charts carry a null
// section unless the source set one on the item itself.
type SectionLocator interface {
	NearestSection(position float64) *string
}

// DocumentSource is an opened document made of independent pages.
type DocumentSource interface {
	NumPages() int
	Page(number int) (PageSource, error) // number is 1-indexed
	Close() error
}

// ChartReader turns an image into chart rows. Its output is passed through
// unvalidated.
type ChartReader interface {
	ReadChart(ctx context.Context, img model.RawImage) ([][]string, error)
}

// Opener decodes uploaded bytes into a document source.
type Opener func(filename string, data []byte) (DocumentSource, error)
