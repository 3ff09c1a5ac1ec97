package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-mathpdf/internal/assets"
	"github.com/alnah/go-mathpdf/internal/dateutil"
	"github.com/alnah/go-mathpdf/internal/mathengine"
	"github.com/alnah/go-mathpdf/internal/mathspan"
	"github.com/alnah/go-mathpdf/internal/style"
)

// MathRenderer renders one extracted span. *mathengine.Adapter implements it.
type MathRenderer interface {
	Render(ctx context.Context, span mathspan.Span, sel mathengine.Selector) (mathengine.Rendered, error)
}

var _ MathRenderer = (*mathengine.Adapter)(nil)

// Input is one document to render.
type Input struct {
	Markdown  string
	Style     style.Options
	SourceDir string // resolves relative image and link paths; empty skips
}

// Result is a rendered document with per-engine span counts.
type Result struct {
	HTML  string
	Spans int
	Used  map[mathengine.EngineUsed]int
}

// Renderer converts math-bearing Markdown into a full HTML document.
type Renderer struct {
	math        MathRenderer
	markdown    *Markdown
	loader      assets.AssetLoader
	theme       string
	stylesheets []string
	workers     int
	extract     mathspan.Options
	minify      bool
	logger      *slog.Logger
	now         func() time.Time
	template    *documentTemplate
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAssets sets the loader for the document template and theme CSS.
func WithAssets(loader assets.AssetLoader) Option {
	return func(r *Renderer) {
		if loader != nil {
			r.loader = loader
		}
	}
}

// WithTheme selects the CSS theme by name.
func WithTheme(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.theme = name
		}
	}
}

// WithStylesheets adds <link rel="stylesheet"> hrefs to the document head.
func WithStylesheets(hrefs ...string) Option {
	return func(r *Renderer) { r.stylesheets = append(r.stylesheets, hrefs...) }
}

// WithWorkers bounds concurrent math rendering.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithExtractOptions sets math extraction heuristics.
func WithExtractOptions(o mathspan.Options) Option {
	return func(r *Renderer) { r.extract = o }
}

// WithMinify minifies the final document.
func WithMinify(enabled bool) Option {
	return func(r *Renderer) { r.minify = enabled }
}

// WithLogger sets the renderer logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock sets the time used to resolve "date: auto" front matter.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRenderer creates a renderer that renders math through m.
func NewRenderer(m MathRenderer, opts ...Option) *Renderer {
	r := &Renderer{
		math:     m,
		markdown: NewMarkdown(),
		loader:   assets.NewEmbeddedLoader(),
		theme:    assets.DefaultStyleName,
		workers:  1,
		extract:  mathspan.DefaultOptions(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.template = &documentTemplate{loader: r.loader, name: assets.DefaultTemplateName}
	return r
}

// Render renders markdown with the given style into a complete HTML document.
func (r *Renderer) Render(ctx context.Context, markdown string, opts style.Options, progress ProgressFunc) (string, error) {
	res, err := r.RenderInput(ctx, Input{Markdown: markdown, Style: opts}, progress)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}

// RenderInput runs the full pipeline for in. Per-span math failures never
// fail the document unless the math renderer is strict.
func (r *Renderer) RenderInput(ctx context.Context, in Input, progress ProgressFunc) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	progress.Report(Progress{Phase: PhaseRendering})

	normalized, err := style.Normalize(in.Style)
	if err != nil {
		return Result{}, err
	}
	sel, err := mathengine.ParseSelector(normalized.MathEngine)
	if err != nil {
		return Result{}, err
	}

	text, spans := r.extract.Extract(Preprocess(in.Markdown))
	text = convertHighlights(text)

	frag, err := r.markdown.Convert(ctx, text)
	if err != nil {
		return Result{}, err
	}
	body := ConvertMarkPlaceholders(frag.Body)
	if body, err = RewriteRelativePaths(body, in.SourceDir); err != nil {
		return Result{}, fmt.Errorf("%w: rewriting paths: %v", ErrHTMLConversion, err)
	}

	rendered, err := r.renderMath(ctx, spans, sel, progress)
	if err != nil {
		return Result{}, err
	}

	body, missing := Substitute(body, spans, rendered)
	if len(missing) > 0 {
		r.logger.Warn("math placeholders lost during Markdown conversion", "spans", missing)
	}

	doc, err := r.document(body, frag.Meta, spans, normalized)
	if err != nil {
		return Result{}, err
	}
	if r.minify {
		if doc, err = Minify(doc); err != nil {
			return Result{}, err
		}
	}

	used := make(map[mathengine.EngineUsed]int)
	for _, rd := range rendered {
		used[rd.Engine]++
	}
	r.logger.Debug("document rendered", "spans", len(spans), "primary", used[mathengine.Primary],
		"secondary", used[mathengine.Secondary], "raw", used[mathengine.RawFallback])

	return Result{HTML: doc, Spans: len(spans), Used: used}, nil
}

// renderMath renders every span with at most r.workers in flight. Results
// are indexed by span ID; ordering between spans does not matter.
func (r *Renderer) renderMath(ctx context.Context, spans []mathspan.Span, sel mathengine.Selector, progress ProgressFunc) ([]mathengine.Rendered, error) {
	total := len(spans)
	rendered := make([]mathengine.Rendered, total)
	progress.Report(Progress{Phase: PhaseMath, Done: 0, Total: total})
	if total == 0 {
		return rendered, nil
	}

	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for _, s := range spans {
		g.Go(func() error {
			rd, err := r.math.Render(gctx, s, sel)
			if err != nil {
				return err
			}
			mu.Lock()
			rendered[s.ID] = rd
			done++
			progress.Report(Progress{Phase: PhaseMath, Done: done, Total: total})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rendered, nil
}

func (r *Renderer) document(body string, meta map[string]any, spans []mathspan.Span, opts style.Options) (string, error) {
	tmpl, err := r.template.get()
	if err != nil {
		return "", err
	}
	theme, err := r.loader.LoadStyle(r.theme)
	if err != nil {
		return "", fmt.Errorf("%w: loading theme: %v", ErrHTMLConversion, err)
	}

	data := documentData{
		Title:  metaString(meta, "title", spans),
		Lang:   metaString(meta, "lang", spans),
		Author: metaString(meta, "author", spans),
		Date:   r.resolveDate(metaString(meta, "date", spans)),
		CSS:    template.CSS(sanitizeCSS(theme + "\n" + style.CSS(opts))), // #nosec G203 -- theme from trusted assets, style values validated
		Body:   template.HTML(body),                                       // #nosec G203 -- goldmark output without WithUnsafe
	}
	if data.Title == "" {
		data.Title = DefaultTitle
	}
	if data.Lang == "" {
		data.Lang = DefaultLang
	}
	for _, href := range r.stylesheets {
		data.Stylesheets = append(data.Stylesheets, template.URL(href)) // #nosec G203 -- configured by the caller
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: executing template: %v", ErrHTMLConversion, err)
	}
	return buf.String(), nil
}

// resolveDate expands "auto" and "auto:FORMAT". A bad format is kept as
// written.
func (r *Renderer) resolveDate(v string) string {
	if v == "" {
		return ""
	}
	d, err := dateutil.Resolve(v, r.now())
	if err != nil {
		r.logger.Warn("front matter date kept as written", "date", v, "err", err)
		return v
	}
	return d
}
