package mathpdf

import (
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds configuration collected from options.
type converterConfig struct {
	logger           *slog.Logger
	reuse            bool
	katexSource      string
	katexPath        string
	katexStylesheet  string
	stylesheets      []string
	strict           bool
	workers          int
	cachePath        string
	readinessTimeout time.Duration
	minify           bool
	browserBin       string
	noSandbox        bool
	extract          ExtractOptions
	assetPath        string
	theme            string
}

// defaultReadinessTimeout bounds each readiness condition. It is a ceiling,
// not a delay.
const defaultReadinessTimeout = 60 * time.Second

// WithLogger sets the logger. By default the converter logs nothing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.cfg.logger = l
		}
	}
}

// WithBrowserReuse keeps one browser process alive across Convert calls.
// Without it every PDF job launches and tears down its own browser.
func WithBrowserReuse(enabled bool) Option {
	return func(c *Converter) { c.cfg.reuse = enabled }
}

// WithKaTeXScript loads katex.min.js from path.
func WithKaTeXScript(path string) Option {
	return func(c *Converter) { c.cfg.katexPath = path }
}

// WithKaTeXScriptSource uses src as the KaTeX source.
func WithKaTeXScriptSource(src string) Option {
	return func(c *Converter) { c.cfg.katexSource = src }
}

// WithKaTeXStylesheet sets the KaTeX stylesheet href linked from documents.
// An empty href links none, for documents that embed their own.
func WithKaTeXStylesheet(href string) Option {
	return func(c *Converter) { c.cfg.katexStylesheet = href }
}

// WithStylesheets links extra stylesheets from every document.
func WithStylesheets(hrefs ...string) Option {
	return func(c *Converter) { c.cfg.stylesheets = append(c.cfg.stylesheets, hrefs...) }
}

// WithStrictMath fails the job when a formula renders with neither engine,
// instead of printing its source.
func WithStrictMath(enabled bool) Option {
	return func(c *Converter) { c.cfg.strict = enabled }
}

// WithMathWorkers bounds concurrent formula rendering. Zero sizes it from
// GOMAXPROCS.
func WithMathWorkers(n int) Option {
	return func(c *Converter) { c.cfg.workers = n }
}

// WithMathCache persists rendered formulas in a bbolt file at path.
// Without it formulas are cached in memory for the converter's lifetime.
func WithMathCache(path string) Option {
	return func(c *Converter) { c.cfg.cachePath = path }
}

// WithReadinessTimeout bounds each page readiness condition. Zero disables
// the bound; the context still applies.
func WithReadinessTimeout(d time.Duration) Option {
	if d < 0 {
		panic("mathpdf: WithReadinessTimeout duration must not be negative")
	}
	return func(c *Converter) { c.cfg.readinessTimeout = d }
}

// WithMinifiedHTML minifies rendered documents.
func WithMinifiedHTML(enabled bool) Option {
	return func(c *Converter) { c.cfg.minify = enabled }
}

// WithBrowserBin sets the Chrome binary. It takes precedence over
// ROD_BROWSER_BIN.
func WithBrowserBin(path string) Option {
	return func(c *Converter) { c.cfg.browserBin = path }
}

// WithNoSandbox disables the Chrome sandbox, for containers.
func WithNoSandbox(enabled bool) Option {
	return func(c *Converter) { c.cfg.noSandbox = enabled }
}

// WithExtractOptions tunes math span detection.
func WithExtractOptions(o ExtractOptions) Option {
	return func(c *Converter) { c.cfg.extract = o }
}

// WithAssetPath sets a directory of custom styles and templates. Assets not
// found there fall back to the embedded ones.
func WithAssetPath(path string) Option {
	return func(c *Converter) { c.cfg.assetPath = path }
}

// WithTheme selects the document theme (a stylesheet name under styles/).
func WithTheme(name string) Option {
	return func(c *Converter) { c.cfg.theme = name }
}

// withSessionFactory replaces the browser session constructor.
func withSessionFactory(f func() pdfSession) Option {
	return func(c *Converter) { c.newSession = f }
}
