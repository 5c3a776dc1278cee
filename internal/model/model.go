package model

// DefaultFontSize is assumed for tokens whose source reports no font size.
const DefaultFontSize = 12.0

// Token is a positioned word supplied by a page source.
type Token struct {
	Text string
	Top  float64 // Vertical offset; larger is higher on the page.
	X0   float64 // Left edge.
	Size float64 // Font size; <= 0 means unknown.
}

// FontSize returns the token's font size, falling back to DefaultFontSize.
func (t Token) FontSize() float64 {
	if t.Size <= 0 {
		return DefaultFontSize
	}
	return t.Size
}

// RawTable is a detected table grid as reported by a page source.
type RawTable struct {
	Rows     [][]string
	Position *float64 // nil when the source has no geometry for the table
	Section  *string
}

// RawImage is a detected image or figure as reported by a page source.
type RawImage struct {
	Position    *float64
	Description *string
	Data        [][]string // Opaque chart payload; nil when not yet read.
	Bytes       []byte     // Encoded image, when the source can supply it.
	Section     *string
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s.
func String(s string) *string { return &s }
