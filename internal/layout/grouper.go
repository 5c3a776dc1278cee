// Package layout rebuilds reading-order structure from positioned words:
// lines, paragraphs, section context, and the merged per-page block stream.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

const (
	// LineTolerance is the largest vertical distance from a line's reference
	// top at which a token still joins that line.
	LineTolerance = 2.0

	// ParagraphGap is the vertical gap between consecutive lines above which a
	// new paragraph starts.
	ParagraphGap = 15.0

	// IndentShift is the left-edge change between consecutive lines above
	// which a new paragraph starts.
	IndentShift = 10.0
)

// Line is a run of tokens sharing an approximate vertical position.
type Line struct {
	Text string
	Top  float64 // reference top: the first token of the line
	X0   float64 // minimum left edge of member tokens
	Size float64 // font size of the first token
}

// Paragraph is a run of consecutive lines with no large gap or indent change.
type Paragraph struct {
	Text string
	Top  float64
	Size float64
}

// GroupIntoLines orders tokens top to bottom, left to right and splits them
// into lines. The input slice is left untouched.
func GroupIntoLines(tokens []model.Token) []Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]model.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top > sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []Line
	var current []model.Token
	var currentTop float64

	for _, tok := range sorted {
		if len(current) == 0 {
			current = append(current, tok)
			currentTop = tok.Top
			continue
		}
		if math.Abs(tok.Top-currentTop) <= LineTolerance {
			current = append(current, tok)
			continue
		}
		lines = append(lines, sealLine(current, currentTop))
		current = []model.Token{tok}
		currentTop = tok.Top
	}
	if len(current) > 0 {
		lines = append(lines, sealLine(current, currentTop))
	}

	return lines
}

func sealLine(tokens []model.Token, top float64) Line {
	texts := make([]string, len(tokens))
	x0 := tokens[0].X0
	for i, t := range tokens {
		texts[i] = t.Text
		if t.X0 < x0 {
			x0 = t.X0
		}
	}
	return Line{
		Text: strings.Join(texts, " "),
		Top:  top,
		X0:   x0,
		Size: tokens[0].FontSize(),
	}
}

// GroupIntoParagraphs walks lines in the order GroupIntoLines produced them
// and splits on large vertical gaps or indentation changes.
func GroupIntoParagraphs(lines []Line) []Paragraph {
	if len(lines) == 0 {
		return nil
	}

	var paragraphs []Paragraph
	current := []Line{lines[0]}

	for i := 1; i < len(lines); i++ {
		prev, line := lines[i-1], lines[i]
		gap := prev.Top - line.Top
		shift := math.Abs(line.X0 - prev.X0)

		if gap > ParagraphGap || shift > IndentShift {
			paragraphs = append(paragraphs, sealParagraph(current))
			current = []Line{line}
			continue
		}
		current = append(current, line)
	}
	paragraphs = append(paragraphs, sealParagraph(current))

	return paragraphs
}

func sealParagraph(lines []Line) Paragraph {
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	return Paragraph{
		Text: strings.Join(texts, "\n"),
		Top:  lines[0].Top,
		Size: lines[0].Size,
	}
}
