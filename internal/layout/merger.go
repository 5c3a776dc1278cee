package layout

import (
	"sort"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

// Block is a content block tagged with the vertical position used to order
// it. The position never leaves this package's callers.
type Block struct {
	Position float64
	Content  model.ContentBlock
}

// Merge interleaves text, table and chart blocks into reading order: highest
// position first. Equal positions keep text, then tables, then charts, each
// in its own input order.
func Merge(text, tables, charts []Block) []model.ContentBlock {
	all := make([]Block, 0, len(text)+len(tables)+len(charts))
	all = append(all, text...)
	all = append(all, tables...)
	all = append(all, charts...)

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Position > all[j].Position
	})

	out := make([]model.ContentBlock, len(all))
	for i, b := range all {
		out[i] = b.Content
	}
	return out
}

// StackingPosition is the synthetic position given to the index-th table or
// image of a page when the source has no geometry for it. It only preserves
// stacking order among items of one kind; interleaving with text is approximate.
func StackingPosition(index int) float64 {
	return 500 - float64(index)*100
}

// BuildBlocks runs the grouper and classifier over one page's tokens.
func BuildBlocks(tokens []model.Token) []Block {
	return ClassifyParagraphs(GroupIntoParagraphs(GroupIntoLines(tokens)))
}
