package source

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
	pdflib "github.com/ledongthuc/pdf"
)

const (
	// baselineTolerance is how far two glyph baselines may differ and still
	// share a text row.
	baselineTolerance = 3.0
	// wordGapRatio is the horizontal gap, as a fraction of the font size,
	// above which two adjacent glyphs start separate words.
	wordGapRatio = 0.25
)

// pdfWord is a token plus the right edge needed for cell assignment.
type pdfWord struct {
	model.Token
	X1 float64
}

// groupGlyphs assembles positioned glyphs into words. Glyphs are bucketed
// into rows by baseline, ordered left to right, and split on whitespace
// glyphs or horizontal gaps.
func groupGlyphs(glyphs []pdflib.Text) []pdfWord {
	visible := make([]pdflib.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S != "" {
			visible = append(visible, g)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Y > visible[j].Y })

	var words []pdfWord
	for start := 0; start < len(visible); {
		end := start + 1
		for end < len(visible) && visible[start].Y-visible[end].Y <= baselineTolerance {
			end++
		}
		words = append(words, rowWords(visible[start:end])...)
		start = end
	}
	return words
}

func rowWords(row []pdflib.Text) []pdfWord {
	sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })

	var (
		words []pdfWord
		cur   *pdfWord
		text  strings.Builder
	)
	flush := func() {
		if cur != nil {
			cur.Text = text.String()
			words = append(words, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, g := range row {
		if strings.TrimFunc(g.S, unicode.IsSpace) == "" {
			flush()
			continue
		}
		if cur != nil && g.X-cur.X1 > wordGapRatio*glyphSize(g) {
			flush()
		}
		if cur == nil {
			cur = &pdfWord{Token: model.Token{Top: g.Y, X0: g.X, Size: g.FontSize}}
		}
		text.WriteString(g.S)
		cur.X1 = math.Max(cur.X1, g.X+g.W)
	}
	flush()
	return words
}

func glyphSize(g pdflib.Text) float64 {
	if g.FontSize <= 0 {
		return model.DefaultFontSize
	}
	return g.FontSize
}
