// Package mathengine renders LaTeX math spans to markup through a primary
// engine (KaTeX on goja) with a deterministic fallback to a secondary engine
// (MathML via treeblood) and finally to the verbatim delimited source.
package mathengine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors.
var (
	ErrEngineUnavailable = errors.New("math engine unavailable")
	ErrMathRender        = errors.New("math rendering failed")
	ErrInvalidSelector   = errors.New("invalid math engine selector")
)

// Engine renders one LaTeX expression to markup.
type Engine interface {
	Name() string
	Render(ctx context.Context, source string, display bool) (string, error)
}

// Selector chooses which engine a span is rendered with.
type Selector int

const (
	// SelectorAuto tries the primary engine first, then the secondary.
	SelectorAuto Selector = iota
	// SelectorPrimary behaves as SelectorAuto.
	SelectorPrimary
	// SelectorSecondary uses only the secondary engine.
	SelectorSecondary
)

func (s Selector) String() string {
	switch s {
	case SelectorPrimary:
		return "primary"
	case SelectorSecondary:
		return "secondary"
	default:
		return "auto"
	}
}

// ParseSelector parses "auto", "primary" or "secondary". Empty means auto.
func ParseSelector(s string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return SelectorAuto, nil
	case "primary":
		return SelectorPrimary, nil
	case "secondary":
		return SelectorSecondary, nil
	}
	return SelectorAuto, fmt.Errorf("%w: %q (must be auto, primary or secondary)", ErrInvalidSelector, s)
}

// EngineUsed records which step of the fallback chain produced markup.
type EngineUsed int

const (
	Primary EngineUsed = iota
	Secondary
	RawFallback
)

func (e EngineUsed) String() string {
	switch e {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	default:
		return "raw"
	}
}

func parseEngineUsed(s string) (EngineUsed, bool) {
	switch s {
	case "primary":
		return Primary, true
	case "secondary":
		return Secondary, true
	}
	return RawFallback, false
}

// Rendered is the markup produced for one span.
type Rendered struct {
	SpanID int
	Markup string
	Engine EngineUsed
}
