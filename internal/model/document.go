package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BlockType tags a ContentBlock variant.
type BlockType string

const (
	TypeParagraph BlockType = "paragraph"
	TypeTable     BlockType = "table"
	TypeChart     BlockType = "chart"
)

// Document is the root of an extracted document.
type Document struct {
	Pages []Page `json:"pages"`
}

// Page is the reading-order content of one source page.
type Page struct {
	PageNumber int            `json:"page_number"` // 1-indexed
	Content    []ContentBlock `json:"content"`
}

// ContentBlock is a paragraph, table, or chart with its structural provenance.
// Only the fields belonging to Type are serialized.
type ContentBlock struct {
	Type        BlockType
	Section     *string
	SubSection  *string // paragraph only
	Text        string  // paragraph only
	Description *string // table and chart only
	TableData   [][]string
}

// NewParagraph builds a paragraph block.
func NewParagraph(section, subSection *string, text string) ContentBlock {
	return ContentBlock{Type: TypeParagraph, Section: section, SubSection: subSection, Text: text}
}

// NewTable builds a table block.
func NewTable(section, description *string, data [][]string) ContentBlock {
	return ContentBlock{Type: TypeTable, Section: section, Description: description, TableData: data}
}

// NewChart builds a chart block.
func NewChart(section, description *string, data [][]string) ContentBlock {
	return ContentBlock{Type: TypeChart, Section: section, Description: description, TableData: data}
}

type paragraphJSON struct {
	Type       BlockType `json:"type"`
	Section    *string   `json:"section"`
	SubSection *string   `json:"sub_section"`
	Text       string    `json:"text"`
}

type gridJSON struct {
	Type        BlockType  `json:"type"`
	Section     *string    `json:"section"`
	Description *string    `json:"description"`
	TableData   [][]string `json:"table_data"`
}

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case TypeParagraph:
		return marshal(paragraphJSON{
			Type:       b.Type,
			Section:    b.Section,
			SubSection: b.SubSection,
			Text:       b.Text,
		})
	case TypeTable, TypeChart:
		data := b.TableData
		if data == nil {
			data = [][]string{}
		}
		return marshal(gridJSON{
			Type:        b.Type,
			Section:     b.Section,
			Description: b.Description,
			TableData:   data,
		})
	default:
		return nil, fmt.Errorf("unknown content block type %q", b.Type)
	}
}

func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type        BlockType  `json:"type"`
		Section     *string    `json:"section"`
		SubSection  *string    `json:"sub_section"`
		Text        string     `json:"text"`
		Description *string    `json:"description"`
		TableData   [][]string `json:"table_data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case TypeParagraph:
		*b = NewParagraph(raw.Section, raw.SubSection, raw.Text)
	case TypeTable:
		*b = NewTable(raw.Section, raw.Description, raw.TableData)
	case TypeChart:
		*b = NewChart(raw.Section, raw.Description, raw.TableData)
	default:
		return fmt.Errorf("unknown content block type %q", raw.Type)
	}
	return nil
}

func (p Page) MarshalJSON() ([]byte, error) {
	type page Page
	out := page(p)
	if out.Content == nil {
		out.Content = []ContentBlock{}
	}
	return marshal(out)
}

func (d Document) MarshalJSON() ([]byte, error) {
	type document Document
	out := document(d)
	if out.Pages == nil {
		out.Pages = []Page{}
	}
	return marshal(out)
}

// marshal encodes v without HTML escaping. json.Marshal would escape text
// inside nested Marshalers even when the outer encoder is told not to.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Summary aggregates counts over an extracted document.
type Summary struct {
	Pages  int               `json:"pages"`
	Items  int               `json:"items"`
	ByType map[BlockType]int `json:"by_type"`
}

// Summary counts pages, content items and items per block type.
func (d Document) Summary() Summary {
	s := Summary{Pages: len(d.Pages), ByType: make(map[BlockType]int)}
	for _, p := range d.Pages {
		s.Items += len(p.Content)
		for _, b := range p.Content {
			s.ByType[b.Type]++
		}
	}
	return s
}
