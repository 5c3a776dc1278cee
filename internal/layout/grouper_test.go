package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

func TestGroupIntoLines(t *testing.T) {
	t.Run("Should return nothing for empty input", func(t *testing.T) {
		assert.Empty(t, GroupIntoLines(nil))
		assert.Empty(t, GroupIntoParagraphs(nil))
	})

	t.Run("Should keep the first token's top as the line reference", func(t *testing.T) {
		tokens := []model.Token{
			{Text: "Overview", Top: 700, X0: 50, Size: 16},
			{Text: "Details", Top: 680, X0: 50, Size: 11},
			{Text: "follow.", Top: 678, X0: 90, Size: 11},
		}

		lines := GroupIntoLines(tokens)

		require.Len(t, lines, 2)
		assert.Equal(t, Line{Text: "Overview", Top: 700, X0: 50, Size: 16}, lines[0])
		assert.Equal(t, Line{Text: "Details follow.", Top: 680, X0: 50, Size: 11}, lines[1])
	})

	t.Run("Should order tokens on one line left to right", func(t *testing.T) {
		tokens := []model.Token{
			{Text: "world", Top: 100, X0: 80},
			{Text: "hello", Top: 100, X0: 20},
			{Text: "again", Top: 99, X0: 140},
		}

		lines := GroupIntoLines(tokens)

		require.Len(t, lines, 1)
		assert.Equal(t, "hello world again", lines[0].Text)
		assert.Equal(t, 20.0, lines[0].X0)
		assert.Equal(t, model.DefaultFontSize, lines[0].Size)
	})

	t.Run("Should not chain tokens past the tolerance of the reference top", func(t *testing.T) {
		tokens := []model.Token{
			{Text: "a", Top: 100, X0: 0},
			{Text: "b", Top: 98.5, X0: 10},
			{Text: "c", Top: 97, X0: 20},
		}

		lines := GroupIntoLines(tokens)

		require.Len(t, lines, 2)
		assert.Equal(t, "a b", lines[0].Text)
		assert.Equal(t, "c", lines[1].Text)
		assert.Equal(t, 97.0, lines[1].Top)
	})

	t.Run("Should split at exactly beyond tolerance", func(t *testing.T) {
		lines := GroupIntoLines([]model.Token{
			{Text: "a", Top: 100},
			{Text: "b", Top: 98},
			{Text: "c", Top: 97.9},
		})

		require.Len(t, lines, 2)
		assert.Equal(t, "a b", lines[0].Text)
	})

	t.Run("Should not reorder the caller's slice", func(t *testing.T) {
		tokens := []model.Token{{Text: "low", Top: 10}, {Text: "high", Top: 500}}
		GroupIntoLines(tokens)
		assert.Equal(t, "low", tokens[0].Text)
	})
}

func TestGroupIntoParagraphs(t *testing.T) {
	t.Run("Should split on a vertical gap above the threshold", func(t *testing.T) {
		lines := []Line{
			{Text: "one", Top: 700, X0: 50, Size: 11},
			{Text: "two", Top: 688, X0: 50, Size: 11},
			{Text: "three", Top: 672, X0: 50, Size: 11},
		}

		paras := GroupIntoParagraphs(lines)

		require.Len(t, paras, 2)
		assert.Equal(t, Paragraph{Text: "one\ntwo", Top: 700, Size: 11}, paras[0])
		assert.Equal(t, Paragraph{Text: "three", Top: 672, Size: 11}, paras[1])
	})

	t.Run("Should keep a gap equal to the threshold in one paragraph", func(t *testing.T) {
		paras := GroupIntoParagraphs([]Line{
			{Text: "one", Top: 700},
			{Text: "two", Top: 685},
		})
		require.Len(t, paras, 1)
	})

	t.Run("Should split on an indentation change", func(t *testing.T) {
		paras := GroupIntoParagraphs([]Line{
			{Text: "body", Top: 700, X0: 50},
			{Text: "indented", Top: 688, X0: 72},
			{Text: "still", Top: 676, X0: 75},
		})

		require.Len(t, paras, 2)
		assert.Equal(t, "body", paras[0].Text)
		assert.Equal(t, "indented\nstill", paras[1].Text)
	})

	t.Run("Should turn a single stray line into a paragraph", func(t *testing.T) {
		paras := GroupIntoParagraphs([]Line{{Text: "alone", Top: 10, X0: 3, Size: 9}})
		require.Len(t, paras, 1)
		assert.Equal(t, Paragraph{Text: "alone", Top: 10, Size: 9}, paras[0])
	})
}

func TestGrouping_PartitionsTokens(t *testing.T) {
	var tokens []model.Token
	words := strings.Fields("the quick brown fox jumps over the lazy dog while seven wizards hex")
	for i, w := range words {
		tokens = append(tokens, model.Token{
			Text: w,
			Top:  800 - float64(i/3)*(7+float64(i%4)*5),
			X0:   float64((i%3)*60 + (i/5)*4),
			Size: 11,
		})
	}

	lines := GroupIntoLines(tokens)
	paras := GroupIntoParagraphs(lines)

	lineWords := 0
	for _, l := range lines {
		lineWords += len(strings.Fields(l.Text))
	}
	assert.Equal(t, len(tokens), lineWords)

	var joined []string
	for _, p := range paras {
		joined = append(joined, p.Text)
	}
	recovered := strings.Fields(strings.Join(joined, "\n"))
	assert.ElementsMatch(t, words, recovered)

	paraLines := 0
	for _, p := range paras {
		paraLines += len(strings.Split(p.Text, "\n"))
	}
	assert.Equal(t, len(lines), paraLines)
}
