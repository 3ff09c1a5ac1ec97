package mathengine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alnah/go-mathpdf/internal/mathcache"
	"github.com/alnah/go-mathpdf/internal/mathspan"
)

// fakeEngine renders by a fixed function and counts calls.
type fakeEngine struct {
	name   string
	render func(source string, display bool) (string, error)
	calls  atomic.Int32
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Render(_ context.Context, source string, display bool) (string, error) {
	f.calls.Add(1)
	return f.render(source, display)
}

var errRejected = errors.New("rejected")

// primaryEngine rejects multi-line environments, like KaTeX on some inputs.
func primaryEngine() *fakeEngine {
	return &fakeEngine{name: "fast", render: func(src string, display bool) (string, error) {
		if strings.Contains(src, `\begin{multline}`) {
			return "", errRejected
		}
		return `<span class="katex">` + src + `</span>`, nil
	}}
}

func secondaryEngine() *fakeEngine {
	return &fakeEngine{name: "broad", render: func(src string, display bool) (string, error) {
		if strings.Contains(src, `\unknown`) {
			return "", errRejected
		}
		return "<math>" + src + "</math>", nil
	}}
}

func failingEngine(markup string) *fakeEngine {
	return &fakeEngine{name: "broken", render: func(string, bool) (string, error) {
		if markup != "" {
			return markup, nil
		}
		return "", errRejected
	}}
}

func span(kind mathspan.Kind, src string) mathspan.Span {
	open, closer := "$", "$"
	if kind == mathspan.Block {
		open, closer = "$$", "$$"
	}
	return mathspan.Span{ID: 7, Kind: kind, Source: src, Open: open, Close: closer}
}

func TestAdapter_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		primary    Engine
		secondary  Engine
		sel        Selector
		span       mathspan.Span
		wantEngine EngineUsed
		wantMarkup string
	}{
		{
			name:       "primary succeeds",
			primary:    primaryEngine(),
			secondary:  secondaryEngine(),
			sel:        SelectorAuto,
			span:       span(mathspan.Block, "E=mc^2"),
			wantEngine: Primary,
			wantMarkup: `<span class="katex">E=mc^2</span>`,
		},
		{
			name:       "primary rejects, secondary accepts",
			primary:    primaryEngine(),
			secondary:  secondaryEngine(),
			sel:        SelectorAuto,
			span:       span(mathspan.Block, `\begin{multline}a\\b\end{multline}`),
			wantEngine: Secondary,
			wantMarkup: `<math>\begin{multline}a\\b\end{multline}</math>`,
		},
		{
			name:       "explicit primary still falls back",
			primary:    primaryEngine(),
			secondary:  secondaryEngine(),
			sel:        SelectorPrimary,
			span:       span(mathspan.Block, `\begin{multline}x\end{multline}`),
			wantEngine: Secondary,
		},
		{
			name:       "secondary selector skips primary",
			primary:    primaryEngine(),
			secondary:  secondaryEngine(),
			sel:        SelectorSecondary,
			span:       span(mathspan.Inline, "x"),
			wantEngine: Secondary,
			wantMarkup: "<math>x</math>",
		},
		{
			name:       "both fail yields escaped delimited source",
			primary:    primaryEngine(),
			secondary:  secondaryEngine(),
			sel:        SelectorAuto,
			span:       span(mathspan.Inline, `\begin{multline}a<b\unknown\end{multline}`),
			wantEngine: RawFallback,
			wantMarkup: `<span class="math-raw">$\begin{multline}a&lt;b\unknown\end{multline}$</span>`,
		},
		{
			name:       "missing engines yield raw",
			sel:        SelectorAuto,
			span:       span(mathspan.Inline, "x"),
			wantEngine: RawFallback,
			wantMarkup: `<span class="math-raw">$x$</span>`,
		},
		{
			name:       "empty output counts as failure",
			primary:    failingEngine("   "),
			secondary:  secondaryEngine(),
			sel:        SelectorAuto,
			span:       span(mathspan.Inline, "y"),
			wantEngine: Secondary,
		},
		{
			name:       "comment output counts as failure",
			primary:    failingEngine("<!-- error -->"),
			secondary:  failingEngine("<!-- error -->"),
			sel:        SelectorAuto,
			span:       span(mathspan.Inline, "y"),
			wantEngine: RawFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := NewAdapter(tt.primary, tt.secondary)
			got, err := a.Render(context.Background(), tt.span, tt.sel)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got.Engine != tt.wantEngine {
				t.Errorf("Engine = %v, want %v", got.Engine, tt.wantEngine)
			}
			if got.SpanID != tt.span.ID {
				t.Errorf("SpanID = %d, want %d", got.SpanID, tt.span.ID)
			}
			if tt.wantMarkup != "" && got.Markup != tt.wantMarkup {
				t.Errorf("Markup = %q, want %q", got.Markup, tt.wantMarkup)
			}
			if !usable(got.Markup) {
				t.Errorf("Markup %q is empty or a comment", got.Markup)
			}
		})
	}
}

func TestAdapter_SecondarySelectorNeverCallsPrimary(t *testing.T) {
	t.Parallel()

	p, s := primaryEngine(), secondaryEngine()
	a := NewAdapter(p, s)
	if _, err := a.Render(context.Background(), span(mathspan.Inline, "x"), SelectorSecondary); err != nil {
		t.Fatal(err)
	}
	if p.calls.Load() != 0 {
		t.Errorf("primary called %d times", p.calls.Load())
	}
}

func TestAdapter_Strict(t *testing.T) {
	t.Parallel()

	a := NewAdapter(failingEngine(""), failingEngine(""), WithStrict(true))
	got, err := a.Render(context.Background(), span(mathspan.Block, `\bad`), SelectorAuto)
	if !errors.Is(err, ErrMathRender) {
		t.Fatalf("error = %v, want ErrMathRender", err)
	}
	if got.Engine != RawFallback || got.Markup == "" {
		t.Errorf("strict failure should still carry raw markup, got %+v", got)
	}
}

func TestAdapter_CacheSkipsEngines(t *testing.T) {
	t.Parallel()

	p, s := primaryEngine(), secondaryEngine()
	cache := mathcache.NewMemory()
	a := NewAdapter(p, s, WithCache(cache))
	sp := span(mathspan.Inline, "a+b")

	first, err := a.Render(context.Background(), sp, SelectorAuto)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Render(context.Background(), sp, SelectorPrimary)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("cached result differs: %+v vs %+v", first, second)
	}
	if p.calls.Load() != 1 {
		t.Errorf("primary called %d times, want 1", p.calls.Load())
	}
}

func TestAdapter_RawFallbackNotCached(t *testing.T) {
	t.Parallel()

	cache := mathcache.NewMemory()
	a := NewAdapter(failingEngine(""), failingEngine(""), WithCache(cache))
	if _, err := a.Render(context.Background(), span(mathspan.Inline, "z"), SelectorAuto); err != nil {
		t.Fatal(err)
	}
	if cache.Len() != 0 {
		t.Errorf("cache holds %d entries, want 0", cache.Len())
	}
}

func TestAdapter_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := NewAdapter(primaryEngine(), secondaryEngine())
	if _, err := a.Render(ctx, span(mathspan.Inline, "x"), SelectorAuto); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestAdapter_LogsRawFallback(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a := NewAdapter(failingEngine(""), failingEngine(""), WithLogger(logger))
	if _, err := a.Render(context.Background(), span(mathspan.Inline, "q"), SelectorAuto); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "math rendered as raw source") {
		t.Errorf("log missing raw fallback warning: %s", buf.String())
	}
}
