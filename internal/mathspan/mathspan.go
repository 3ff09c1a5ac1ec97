// Package mathspan locates LaTeX math spans in raw Markdown text and swaps
// them for opaque placeholder tokens before the Markdown processor runs.
//
// Delimiter protocol (part of the document format, do not change lightly):
//
//	inline: $...$   \(...\)
//	block:  $$...$$ \[...\]
//
// Placeholders use Unicode Private Use Area characters, which goldmark passes
// through without escaping or reflowing, so math source containing `_`, `*`
// or `\` survives the Markdown stage untouched.
package mathspan

import (
	"strconv"
	"strings"
)

// Kind distinguishes inline spans from display (block) spans.
type Kind int

const (
	Inline Kind = iota
	Block
)

// String returns "inline" or "block".
func (k Kind) String() string {
	if k == Block {
		return "block"
	}
	return "inline"
}

// Placeholder token framing characters (Private Use Area, next to the
// highlight markers U+E000/U+E001 used elsewhere in the pipeline).
const (
	placeholderStart = '\uE002'
	placeholderEnd   = '\uE003'
)

// Placeholder is the canonical representation of a span position in the
// rewritten text. Its literal string form only exists at the seam where the
// Markdown processor needs plain text.
type Placeholder struct {
	Kind Kind
	ID   int
}

// String renders the literal token: U+E002, "B" or "I", the decimal ID, U+E003.
func (p Placeholder) String() string {
	tag := "I"
	if p.Kind == Block {
		tag = "B"
	}
	return string(placeholderStart) + tag + strconv.Itoa(p.ID) + string(placeholderEnd)
}

// Span is one math expression found in a document.
type Span struct {
	ID     int    // unique within one document, assigned in document order
	Kind   Kind   // after multi-line reclassification
	Source string // text between the delimiters, verbatim
	Open   string // opening delimiter as written ("$", "$$", `\(`, `\[`)
	Close  string // closing delimiter as written
}

// Placeholder returns the token that stands in for s in rewritten text.
func (s Span) Placeholder() Placeholder {
	return Placeholder{Kind: s.Kind, ID: s.ID}
}

// Display reports whether the span renders as a centered block.
func (s Span) Display() bool {
	return s.Kind == Block
}

// Delimited returns the span exactly as it appeared in the input.
func (s Span) Delimited() string {
	return s.Open + s.Source + s.Close
}

// Restore replaces every placeholder of spans in text with render(span).
// Each placeholder is substituted exactly once; tokens that do not belong
// to spans are left alone.
func Restore(text string, spans []Span, render func(Span) string) string {
	if len(spans) == 0 {
		return text
	}
	pairs := make([]string, 0, len(spans)*2)
	for _, s := range spans {
		pairs = append(pairs, s.Placeholder().String(), render(s))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
