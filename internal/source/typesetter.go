package source

import (
	"strings"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/layout"
	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// Synthetic page metrics for flow formats. Sizes are chosen against the
// classifier font thresholds: level-1 headings are large enough for sections,
// deeper headings for subsections. The text shape still decides the role. Blocks are separated by more than the
// paragraph gap; lines inside a block by less.
const (
	pageTop        = 800.0
	leftMargin     = 72.0
	charWidth      = 5.5
	lineStep       = 12.0
	blockGap       = 24.0
	bodySize       = 11.0
	sectionSize    = 18.0
	subsectionSize = 13.0
)

// typesetter lays flow content out top to bottom on one synthetic page.
type typesetter struct {
	cursor float64
	page   FlowPage
}

func newTypesetter() *typesetter {
	return &typesetter{cursor: pageTop}
}

// heading places a heading of the given level (1 is the outermost). Only
// headings the classifier will read as sections become anchors, so tables
// and images share the section context of the surrounding text.
func (t *typesetter) heading(level int, text string) {
	size := subsectionSize
	if level <= 1 {
		size = sectionSize
		c := layout.Classify(layout.Paragraph{Text: laidOut(text), Size: size})
		if c.Role == layout.RoleSection {
			t.page.Sections = append(t.page.Sections, Anchor{Top: t.cursor, Title: c.Label})
		}
	}
	t.block(text, size)
}

// laidOut returns text the way the grouper reads it back: words joined by
// single spaces, non-empty lines joined by newlines.
func laidOut(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if words := strings.Fields(line); len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
		}
	}
	return strings.Join(lines, "\n")
}

// paragraph places body text; each input line becomes one line on the page.
func (t *typesetter) paragraph(text string) {
	t.block(text, bodySize)
}

func (t *typesetter) block(text string, size float64) {
	placed := false
	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}
		x := leftMargin
		for _, w := range words {
			t.page.Tokens = append(t.page.Tokens, model.Token{Text: w, Top: t.cursor, X0: x, Size: size})
			x += float64(len([]rune(w))+1) * charWidth
		}
		t.cursor -= lineStep
		placed = true
	}
	if placed {
		t.cursor -= blockGap - lineStep
	}
}

// table places a grid at the cursor.
func (t *typesetter) table(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	t.page.TableItems = append(t.page.TableItems, model.RawTable{
		Rows:     rows,
		Position: model.Float(t.cursor),
	})
	t.cursor -= float64(len(rows))*lineStep + blockGap
}

// image places a figure at the cursor.
func (t *typesetter) image(description string) {
	img := model.RawImage{Position: model.Float(t.cursor)}
	if description = strings.TrimSpace(description); description != "" {
		img.Description = model.String(description)
	}
	t.page.ImageItems = append(t.page.ImageItems, img)
	t.cursor -= blockGap
}

// document returns the laid-out page as a one-page document.
func (t *typesetter) document() *FlowDocument {
	page := t.page
	return &FlowDocument{Pages: []*FlowPage{&page}}
}
