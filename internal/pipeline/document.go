package pipeline

import (
	"fmt"
	"html/template"
	"strings"
	"sync"

	"github.com/alnah/go-mathpdf/internal/assets"
	"github.com/alnah/go-mathpdf/internal/mathspan"
)

// Default document metadata.
const (
	DefaultTitle = "Document"
	DefaultLang  = "en"
)

// documentData feeds the document template.
type documentData struct {
	Title       string
	Lang        string
	Author      string
	Date        string
	CSS         template.CSS
	Stylesheets []template.URL
	Body        template.HTML
}

// documentTemplate parses the document template once per renderer.
type documentTemplate struct {
	loader assets.AssetLoader
	name   string

	once sync.Once
	tmpl *template.Template
	err  error
}

func (d *documentTemplate) get() (*template.Template, error) {
	d.once.Do(func() {
		src, err := d.loader.LoadTemplate(d.name)
		if err != nil {
			d.err = fmt.Errorf("%w: loading template: %v", ErrHTMLConversion, err)
			return
		}
		d.tmpl, d.err = template.New(d.name).Parse(src)
		if d.err != nil {
			d.err = fmt.Errorf("%w: parsing template: %v", ErrHTMLConversion, d.err)
		}
	})
	return d.tmpl, d.err
}

// metaString reads a string front matter field. Math placeholders inside it
// are turned back into their delimited source.
func metaString(meta map[string]any, key string, spans []mathspan.Span) string {
	v, ok := meta[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	return strings.TrimSpace(mathspan.Restore(s, spans, mathspan.Span.Delimited))
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
