package pipeline

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-mathpdf/internal/mathengine"
	"github.com/alnah/go-mathpdf/internal/mathspan"
)

// Substitute replaces each span's placeholder in body with its rendered
// markup. rendered is indexed by span ID. It returns the IDs of spans whose
// placeholder was not found.
//
// Where a placeholder lands decides what replaces it:
//   - in text, a block placeholder that is the whole content of a paragraph
//     replaces the paragraph with a <div class="math-block">; other block
//     placeholders become a <span class="math-block"> and inline ones a
//     <span class="math-inline">;
//   - in text inside <pre> or <code>, the escaped delimited source;
//   - in an attribute value (image alt, link title), the delimited source.
func Substitute(body string, spans []mathspan.Span, rendered []mathengine.Rendered) (string, []int) {
	var (
		markup, source, attr []string
		paragraphs           = make(map[string]string)
		missing              []int
	)

	for _, s := range spans {
		ph := s.Placeholder().String()
		if !strings.Contains(body, ph) {
			missing = append(missing, s.ID)
			continue
		}
		m := markupFor(s, rendered)
		if s.Kind == mathspan.Block {
			paragraphs[ph] = `<div class="math-block">` + m + `</div>`
			markup = append(markup, ph, `<span class="math-block">`+m+`</span>`)
		} else {
			markup = append(markup, ph, `<span class="math-inline">`+m+`</span>`)
		}
		source = append(source, ph, html.EscapeString(s.Delimited()))
		attr = append(attr, ph, s.Delimited())
	}
	if len(markup) == 0 {
		return body, missing
	}

	sub := substitution{
		markup:     strings.NewReplacer(markup...),
		source:     strings.NewReplacer(source...),
		attr:       strings.NewReplacer(attr...),
		paragraphs: paragraphs,
	}
	return sub.apply(tokenize(body)), missing
}

// htmlToken is one token of the fragment with its raw bytes.
type htmlToken struct {
	typ html.TokenType
	raw string
	tok html.Token
}

// tokenize splits an HTML fragment into tokens. Raw is copied before Token
// because reading the tag name lowercases the tokenizer buffer in place.
func tokenize(body string) []htmlToken {
	var toks []htmlToken
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if z.Err() != io.EOF {
				// Unreachable for a string reader; keep what was not tokenized.
				toks = append(toks, htmlToken{typ: html.TextToken, raw: string(z.Raw())})
			}
			return toks
		}
		raw := string(z.Raw())
		toks = append(toks, htmlToken{typ: tt, raw: raw, tok: z.Token()})
	}
}

type substitution struct {
	markup     *strings.Replacer
	source     *strings.Replacer
	attr       *strings.Replacer
	paragraphs map[string]string
}

func (s substitution) apply(toks []htmlToken) string {
	var (
		b        strings.Builder
		verbatim int // open <pre> and <code> elements
	)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.typ {
		case html.TextToken:
			if verbatim > 0 {
				b.WriteString(s.source.Replace(t.raw))
			} else {
				b.WriteString(s.markup.Replace(t.raw))
			}
		case html.StartTagToken:
			if div, ok := s.blockParagraph(toks, i); ok && verbatim == 0 {
				b.WriteString(div)
				i += 2
				continue
			}
			if isVerbatim(t.tok.DataAtom) {
				verbatim++
			}
			b.WriteString(s.tag(t))
		case html.EndTagToken:
			if isVerbatim(t.tok.DataAtom) && verbatim > 0 {
				verbatim--
			}
			b.WriteString(t.raw)
		case html.SelfClosingTagToken:
			b.WriteString(s.tag(t))
		default:
			b.WriteString(t.raw)
		}
	}
	return b.String()
}

// blockParagraph matches <p>PLACEHOLDER</p> for a block span at toks[i].
func (s substitution) blockParagraph(toks []htmlToken, i int) (string, bool) {
	if i+2 >= len(toks) {
		return "", false
	}
	open, text, end := toks[i], toks[i+1], toks[i+2]
	if open.tok.DataAtom != atom.P || len(open.tok.Attr) > 0 ||
		text.typ != html.TextToken || end.typ != html.EndTagToken || end.tok.DataAtom != atom.P {
		return "", false
	}
	div, ok := s.paragraphs[text.raw]
	return div, ok
}

// tag restores placeholders in attribute values as source text. Tags
// without placeholders are copied byte for byte.
func (s substitution) tag(t htmlToken) string {
	changed := false
	for j, a := range t.tok.Attr {
		if v := s.attr.Replace(a.Val); v != a.Val {
			t.tok.Attr[j].Val = v
			changed = true
		}
	}
	if !changed {
		return t.raw
	}
	return t.tok.String()
}

func isVerbatim(a atom.Atom) bool {
	return a == atom.Pre || a == atom.Code
}

// markupFor returns the rendered markup for s, or its raw source when the
// renderer produced nothing for it.
func markupFor(s mathspan.Span, rendered []mathengine.Rendered) string {
	if s.ID < len(rendered) && rendered[s.ID].Markup != "" {
		return rendered[s.ID].Markup
	}
	return mathengine.RawMarkup(s)
}
