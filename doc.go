// Package mathpdf converts Markdown documents with LaTeX math to PDF or
// self-contained HTML.
//
// # Quick Start
//
//	conv, err := mathpdf.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	out, err := conv.Convert(ctx, mathpdf.Job{
//	    InputPath: "notes.md",
//	    Format:    mathpdf.FormatPDF,
//	})
//
// # Math
//
// Formulas use $...$ or \(...\) inline and $$...$$ or \[...\] for display
// math. Each formula is rendered by KaTeX, running in an embedded
// JavaScript runtime, then by a TeX to MathML converter when KaTeX rejects
// it. A formula neither engine accepts is printed as its source, or fails
// the job under WithStrictMath.
//
// KaTeX is not bundled. Point WithKaTeXScript or MATHPDF_KATEX_JS at a
// katex.min.js, or place one at ~/.config/go-mathpdf/katex.min.js. Without
// it every formula renders as MathML.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (line endings, Unicode NFC, blank lines)
//  2. Math extraction into placeholders
//  3. Markdown to HTML via Goldmark (GFM, footnotes, syntax highlighting)
//  4. Concurrent math rendering and substitution
//  5. Document templating with the style stylesheet
//  6. PDF printing via headless Chrome (go-rod) once the page is ready
//
// # Browser Reuse
//
// By default each PDF job launches and closes its own browser. With
// WithBrowserReuse(true) one browser serves every Convert call until Close.
// ConvertBatch always shares one browser across its jobs and closes it at
// the end, whatever the outcome.
//
// # Errors
//
// Job failures are *PhaseError values naming the phase that failed
// (reading, rendering or exporting). Use errors.Is with the sentinel errors
// to classify the cause:
//
//	_, err := conv.Convert(ctx, job)
//	if errors.Is(err, mathpdf.ErrBrowserConnect) {
//	    // Chrome not found or failed to start
//	}
package mathpdf
