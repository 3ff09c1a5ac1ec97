package mathengine

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
)

func TestKaTeX_Unavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
	}{
		{"empty script", ""},
		{"syntax error", "function ("},
		{"no katex global", "var notKatex = 1;"},
		{"renderToString missing", "var katex = {};"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			k := NewKaTeX(tt.script, 2, nil)
			_, err := k.Render(context.Background(), "x", false)
			if !errors.Is(err, ErrEngineUnavailable) {
				t.Errorf("Render() error = %v, want ErrEngineUnavailable", err)
			}
		})
	}
}

// stubKaTeX mimics the renderToString contract: throws on "\bad", warns on
// non-ASCII input.
const stubKaTeX = `
var katex = {
  renderToString: function (src, opts) {
    if (src.indexOf("\\bad") >= 0) { throw new Error("KaTeX parse error: Undefined control sequence: \\bad"); }
    if (/[^\x00-\x7f]/.test(src)) { console.warn("LaTeX-incompatible input and strict mode is set to 'warn'"); }
    return '<span class="katex' + (opts.displayMode ? '-display' : '') + '">' + src + '</span>';
  }
};
`

func TestKaTeX_StubScript(t *testing.T) {
	t.Parallel()

	k := NewKaTeX(stubKaTeX, 2, nil)
	if !k.Available() {
		t.Fatal("Available() = false")
	}

	got, err := k.Render(context.Background(), "a+b", true)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got != `<span class="katex-display">a+b</span>` {
		t.Errorf("Render() = %q", got)
	}

	if _, err := k.Render(context.Background(), `\bad`, false); err == nil || !strings.Contains(err.Error(), "Undefined control sequence") {
		t.Errorf("Render(\\bad) error = %v", err)
	}
}

func TestKaTeX_PoolConcurrency(t *testing.T) {
	t.Parallel()

	k := NewKaTeX(stubKaTeX, 3, nil)
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := k.Render(context.Background(), "x", false); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	if k.created > 3 {
		t.Errorf("created %d runtimes, pool size 3", k.created)
	}
}

// TestKaTeX_RealScript runs against katex.min.js when MATHPDF_KATEX_JS
// points at it.
func TestKaTeX_RealScript(t *testing.T) {
	path := os.Getenv("MATHPDF_KATEX_JS")
	if path == "" {
		t.Skip("MATHPDF_KATEX_JS not set")
	}
	script, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	k := NewKaTeX(string(script), 1, nil)
	got, err := k.Render(context.Background(), `\sum_{k=0}^n k`, true)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(got, "katex") {
		t.Errorf("Render() = %q, want katex markup", got)
	}
	if _, err := k.Render(context.Background(), `\begin{multline}a\end{multlin}`, true); err == nil {
		t.Error("malformed environment rendered without error")
	}
}
