package mathengine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wyatt915/treeblood"
)

var errEmptyMathML = errors.New("empty MathML output")

// MathML renders TeX to MathML with treeblood. It is the secondary engine:
// slower to lay out in the browser but tolerant of environments KaTeX rejects.
type MathML struct{}

var _ Engine = MathML{}

// Name implements Engine.
func (MathML) Name() string { return "mathml" }

// Render implements Engine. Output containing an <merror> node counts as a
// failure so the adapter can fall back to the raw source.
func (MathML) Render(ctx context.Context, source string, display bool) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("mathml: panic: %v", r)
		}
	}()

	mml, err := treeblood.TexToMML(source, nil, display, false)
	if err != nil {
		return "", fmt.Errorf("mathml: %w", err)
	}
	mml = strings.TrimSpace(mml)
	if mml == "" {
		return "", errEmptyMathML
	}
	if strings.Contains(mml, "<merror") {
		return "", fmt.Errorf("mathml: unsupported input %q", source)
	}
	return mml, nil
}
