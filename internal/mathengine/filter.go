package mathengine

import (
	"context"
	"log/slog"
	"strings"
)

// strictNoise lists fragments of KaTeX strict-mode warnings. They describe
// input KaTeX accepts anyway and are not render failures.
var strictNoise = []string{
	"LaTeX-incompatible input and strict mode",
	"unicodeTextInMathMode",
	"unknownSymbol",
	"No character metrics",
	"newLineInDisplayMode",
	"commentAtEnd",
}

// WarningFilter is a slog.Handler that drops engine strict-mode warnings and
// forwards every other record to the wrapped handler. It is scoped to the
// engine logger it is installed on.
type WarningFilter struct {
	next     slog.Handler
	patterns []string
}

var _ slog.Handler = (*WarningFilter)(nil)

// NewWarningFilter wraps next. Extra patterns are added to the built-in list.
func NewWarningFilter(next slog.Handler, extra ...string) *WarningFilter {
	patterns := make([]string, 0, len(strictNoise)+len(extra))
	patterns = append(patterns, strictNoise...)
	patterns = append(patterns, extra...)
	return &WarningFilter{next: next, patterns: patterns}
}

// Enabled implements slog.Handler.
func (f *WarningFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return f.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (f *WarningFilter) Handle(ctx context.Context, r slog.Record) error {
	if f.suppressed(r) {
		return nil
	}
	return f.next.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (f *WarningFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &WarningFilter{next: f.next.WithAttrs(attrs), patterns: f.patterns}
}

// WithGroup implements slog.Handler.
func (f *WarningFilter) WithGroup(name string) slog.Handler {
	return &WarningFilter{next: f.next.WithGroup(name), patterns: f.patterns}
}

func (f *WarningFilter) suppressed(r slog.Record) bool {
	if r.Level > slog.LevelWarn {
		return false
	}
	if f.matches(r.Message) {
		return true
	}
	hit := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Value.Kind() == slog.KindString && f.matches(a.Value.String()) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (f *WarningFilter) matches(s string) bool {
	for _, p := range f.patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
