package pipeline

import (
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
)

// newMinifier returns a minifier for HTML documents with embedded CSS.
func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	return m
}

// Minify compacts an HTML document and its <style> blocks.
func Minify(doc string) (string, error) {
	out, err := newMinifier().String("text/html", doc)
	if err != nil {
		return "", fmt.Errorf("minifying HTML: %w", err)
	}
	return out, nil
}
