// Package pipeline turns math-bearing Markdown into a complete HTML document.
//
// The stages are:
//   - preprocessing (line endings, Unicode NFC, ==highlight== markers)
//   - math span extraction into opaque placeholders
//   - Markdown to HTML conversion via Goldmark
//   - relative path rewriting for local images and links
//   - math rendering through the engine adapter with bounded concurrency
//   - placeholder substitution and document templating with resolved styles
//
// PDF generation is handled by the root mathpdf package using headless
// Chrome (go-rod).
package pipeline
