package mathengine

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"strings"

	"github.com/alnah/go-mathpdf/internal/mathcache"
	"github.com/alnah/go-mathpdf/internal/mathspan"
)

// Adapter applies the fallback chain: primary engine, then secondary engine,
// then the HTML-escaped delimited source.
type Adapter struct {
	primary   Engine
	secondary Engine
	cache     mathcache.Cache
	strict    bool
	logger    *slog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithCache stores engine results in c. Raw fallbacks are never stored.
func WithCache(c mathcache.Cache) AdapterOption {
	return func(a *Adapter) { a.cache = c }
}

// WithStrict makes Render return ErrMathRender when both engines fail.
func WithStrict(strict bool) AdapterOption {
	return func(a *Adapter) { a.strict = strict }
}

// WithLogger sets the adapter logger.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAdapter creates an adapter. Either engine may be nil, which counts as a
// failing engine.
func NewAdapter(primary, secondary Engine, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		primary:   primary,
		secondary: secondary,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render renders one span. Markup is never empty. The error is non-nil only
// when ctx is done, or in strict mode when both engines failed; the raw
// fallback markup is returned alongside ErrMathRender in that case.
func (a *Adapter) Render(ctx context.Context, span mathspan.Span, sel Selector) (Rendered, error) {
	if err := ctx.Err(); err != nil {
		return Rendered{}, err
	}

	display := span.Display()
	key := mathcache.Key(cacheSelector(sel), display, span.Source)
	if a.cache != nil {
		if e, ok := a.cache.Get(key); ok {
			if used, ok := parseEngineUsed(e.Engine); ok && usable(e.Markup) {
				return Rendered{SpanID: span.ID, Markup: e.Markup, Engine: used}, nil
			}
		}
	}

	var errs []string

	if sel != SelectorSecondary {
		markup, err := a.try(ctx, a.primary, span.Source, display)
		if err == nil {
			return a.done(key, span.ID, markup, Primary), nil
		}
		if ctx.Err() != nil {
			return Rendered{}, ctx.Err()
		}
		a.logger.Debug("primary math engine failed, trying secondary", "span", span.ID, "error", err)
		errs = append(errs, err.Error())
	}

	markup, err := a.try(ctx, a.secondary, span.Source, display)
	if err == nil {
		return a.done(key, span.ID, markup, Secondary), nil
	}
	if ctx.Err() != nil {
		return Rendered{}, ctx.Err()
	}
	errs = append(errs, err.Error())

	raw := Rendered{SpanID: span.ID, Markup: RawMarkup(span), Engine: RawFallback}
	if a.strict {
		return raw, fmt.Errorf("%w: span %d %s: %s", ErrMathRender, span.ID, span.Delimited(), strings.Join(errs, "; "))
	}
	a.logger.Warn("math rendered as raw source", "span", span.ID, "source", span.Source, "error", strings.Join(errs, "; "))
	return raw, nil
}

func (a *Adapter) try(ctx context.Context, e Engine, source string, display bool) (string, error) {
	if e == nil {
		return "", ErrEngineUnavailable
	}
	markup, err := e.Render(ctx, source, display)
	if err != nil {
		return "", fmt.Errorf("%s: %w", e.Name(), err)
	}
	if !usable(markup) {
		return "", fmt.Errorf("%s: unusable output", e.Name())
	}
	return markup, nil
}

func (a *Adapter) done(key string, id int, markup string, used EngineUsed) Rendered {
	if a.cache != nil {
		a.cache.Put(key, mathcache.Entry{Markup: markup, Engine: used.String()})
	}
	return Rendered{SpanID: id, Markup: markup, Engine: used}
}

// usable rejects empty output and bare HTML comments.
func usable(markup string) bool {
	m := strings.TrimSpace(markup)
	if m == "" {
		return false
	}
	return !(strings.HasPrefix(m, "<!--") && strings.HasSuffix(m, "-->"))
}

// cacheSelector folds auto into primary, which behave identically.
func cacheSelector(sel Selector) string {
	if sel == SelectorSecondary {
		return SelectorSecondary.String()
	}
	return SelectorPrimary.String()
}

// RawMarkup returns the HTML-escaped delimited source of span.
func RawMarkup(span mathspan.Span) string {
	return `<span class="math-raw">` + html.EscapeString(span.Delimited()) + `</span>`
}
