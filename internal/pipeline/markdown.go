package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// Markdown converts Markdown to an HTML fragment using goldmark (pure Go).
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a converter with GFM, footnotes, YAML front matter and
// syntax highlighting.
func NewMarkdown() *Markdown {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			// WithUnsafe is not used: math and highlights travel as
			// placeholders and are substituted after conversion.
		),
	)
	return &Markdown{md: md}
}

// Fragment is the converted body and its front matter.
type Fragment struct {
	Body string
	Meta map[string]any
}

// Convert converts content to an HTML fragment. Goldmark has no context
// support, so conversion runs in a goroutine raced against ctx.
func (m *Markdown) Convert(ctx context.Context, content string) (Fragment, error) {
	if err := ctx.Err(); err != nil {
		return Fragment{}, err
	}

	type result struct {
		frag Fragment
		err  error
	}
	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		pctx := parser.NewContext()
		if err := m.md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{frag: Fragment{Body: buf.String(), Meta: meta.Get(pctx)}}
	}()

	select {
	case <-ctx.Done():
		return Fragment{}, ctx.Err()
	case r := <-done:
		return r.frag, r.err
	}
}
