package layout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Manvithareddyk/PDF-Parser-and-JSON-Extraction/internal/model"
)

const (
	// SectionFontSize must be exceeded for a paragraph to be a section header.
	SectionFontSize = 14.0

	// SubsectionFontSize must be exceeded for a paragraph to be a subsection header.
	SubsectionFontSize = 12.0

	// ShortTextLimit is the rune count below which a paragraph may be a header.
	ShortTextLimit = 100
)

// Role is the structural role assigned to a paragraph.
type Role int

const (
	RoleSkip Role = iota // empty after trimming; ignored
	RoleBody
	RoleSubsection
	RoleSection
)

func (r Role) String() string {
	switch r {
	case RoleBody:
		return "body"
	case RoleSubsection:
		return "subsection"
	case RoleSection:
		return "section"
	default:
		return "skip"
	}
}

// Classification is the outcome of classifying one paragraph.
type Classification struct {
	Role  Role
	Label string // trimmed paragraph text
}

// SectionContext is the running section/subsection state of one page's
// classification pass. Start each page from NewSectionContext.
type SectionContext struct {
	Section    *string
	SubSection *string
}

// NewSectionContext returns an empty context.
func NewSectionContext() SectionContext {
	return SectionContext{}
}

// Apply updates the context for a classified paragraph. A new section clears
// the subsection.
func (c *SectionContext) Apply(cl Classification) {
	switch cl.Role {
	case RoleSection:
		c.Section = model.String(cl.Label)
		c.SubSection = nil
	case RoleSubsection:
		c.SubSection = model.String(cl.Label)
	}
}

var leadingNumberRe = regexp.MustCompile(`^\p{Nd}+\.?[\s\p{Z}]`)

// Classify assigns a role to a paragraph from its font size and text shape.
// The decision does not depend on the context; callers feed the result to
// SectionContext.Apply.
func Classify(p Paragraph) Classification {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return Classification{Role: RoleSkip}
	}

	isShort := utf8.RuneCountInString(text) < ShortTextLimit
	isTitleLike := IsTitleCase(text) || IsUpperCase(text)
	hasLeadingNumber := leadingNumberRe.MatchString(text)
	endsWithColon := strings.HasSuffix(text, ":")

	switch {
	case p.Size > SectionFontSize && isShort && (isTitleLike || hasLeadingNumber):
		return Classification{Role: RoleSection, Label: text}
	case p.Size > SubsectionFontSize && isShort && (isTitleLike || hasLeadingNumber || endsWithColon):
		return Classification{Role: RoleSubsection, Label: text}
	default:
		return Classification{Role: RoleBody, Label: text}
	}
}

// ClassifyParagraphs runs one page's classification pass with a fresh
// context and returns a paragraph block for every body paragraph. Headers
// only move the context and are not emitted.
func ClassifyParagraphs(paragraphs []Paragraph) []Block {
	ctx := NewSectionContext()
	var blocks []Block

	for _, p := range paragraphs {
		cl := Classify(p)
		switch cl.Role {
		case RoleSkip:
			continue
		case RoleBody:
			blocks = append(blocks, Block{
				Position: p.Top,
				Content:  model.NewParagraph(ctx.Section, ctx.SubSection, cl.Label),
			})
		default:
			ctx.Apply(cl)
		}
	}

	return blocks
}

// IsTitleCase reports whether s has at least one cased rune, every
// uppercase or titlecase rune follows an uncased rune, and every lowercase
// rune follows a cased rune.
func IsTitleCase(s string) bool {
	cased, prevCased := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prevCased {
				return false
			}
			prevCased, cased = true, true
		case unicode.IsLower(r):
			if !prevCased {
				return false
			}
			prevCased, cased = true, true
		default:
			prevCased = false
		}
	}
	return cased
}

// IsUpperCase reports whether s has at least one cased rune and all of its
// cased runes are uppercase.
func IsUpperCase(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r) || (unicode.IsTitle(r) && !unicode.IsUpper(r)):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
