package mathpdf

import (
	"errors"

	"github.com/alnah/go-mathpdf/internal/assets"
	"github.com/alnah/go-mathpdf/internal/browser"
	"github.com/alnah/go-mathpdf/internal/mathengine"
	"github.com/alnah/go-mathpdf/internal/pipeline"
	"github.com/alnah/go-mathpdf/internal/style"
)

// Sentinel errors for library operations.
var (
	ErrReadInput         = errors.New("failed to read input")
	ErrWriteOutput       = errors.New("failed to write output")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrConverterClosed   = errors.New("converter is closed")
	ErrKaTeXScript       = errors.New("failed to load KaTeX script")
	ErrInvalidAssetPath  = errors.New("invalid asset path")
	ErrInvalidMathCache  = errors.New("failed to open math cache")

	// Errors from internal packages, re-exported for errors.Is checks.
	ErrHTMLConversion    = pipeline.ErrHTMLConversion
	ErrInvalidStyle      = style.ErrInvalidStyle
	ErrInvalidLayout     = browser.ErrInvalidLayout
	ErrMathRender        = mathengine.ErrMathRender
	ErrEngineUnavailable = mathengine.ErrEngineUnavailable
	ErrBrowserConnect    = browser.ErrBrowserConnect
	ErrPageCreate        = browser.ErrPageCreate
	ErrPageLoad          = browser.ErrPageLoad
	ErrPDFGeneration     = browser.ErrPDFGeneration
	ErrStyleNotFound     = assets.ErrStyleNotFound
)

// PhaseError reports the job phase in which a conversion failed.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string {
	return string(e.Phase) + ": " + e.Err.Error()
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// FailedPhase returns the phase recorded in err, or "" when err carries none.
func FailedPhase(err error) Phase {
	var pe *PhaseError
	if errors.As(err, &pe) {
		return pe.Phase
	}
	return ""
}
