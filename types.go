package mathpdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mathpdf/internal/browser"
	"github.com/alnah/go-mathpdf/internal/mathengine"
	"github.com/alnah/go-mathpdf/internal/mathspan"
	"github.com/alnah/go-mathpdf/internal/pipeline"
	"github.com/alnah/go-mathpdf/internal/style"
)

// Format is the output format of a job.
type Format string

// Output formats.
const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
)

// ParseFormat parses a format name, case-insensitively. Empty means PDF.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pdf":
		return FormatPDF, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q (must be pdf or html)", ErrUnsupportedFormat, s)
	}
}

// Ext returns the file extension for the format, with its dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// StyleOptions holds document style settings. See NormalizeStyle.
type StyleOptions = style.Options

// PDFLayout holds page format, margins and print flags.
type PDFLayout = browser.Layout

// Margins holds per-side page margins such as "0.5in" or "12mm".
type Margins = browser.Margins

// ExtractOptions tunes math span detection.
type ExtractOptions = mathspan.Options

// EngineUsed identifies which engine produced a formula's markup.
type EngineUsed = mathengine.EngineUsed

// Engine outcomes.
const (
	EnginePrimary   = mathengine.Primary
	EngineSecondary = mathengine.Secondary
	EngineRaw       = mathengine.RawFallback
)

// Phase names a step reported to progress callbacks.
type Phase = pipeline.Phase

// Job phases.
const (
	PhaseReading   = pipeline.PhaseReading
	PhaseRendering = pipeline.PhaseRendering
	PhaseMath      = pipeline.PhaseMath
	PhaseExporting = pipeline.PhaseExporting
	PhaseDone      = pipeline.PhaseDone
	PhaseError     = pipeline.PhaseError
)

// Progress is one progress event.
type Progress = pipeline.Progress

// ProgressFunc observes progress. It never affects control flow.
type ProgressFunc = pipeline.ProgressFunc

// DefaultLayout returns A4 portrait with 0.5in margins and backgrounds.
func DefaultLayout() PDFLayout {
	return browser.DefaultLayout()
}

// DefaultExtractOptions returns the math span detection defaults.
func DefaultExtractOptions() ExtractOptions {
	return mathspan.DefaultOptions()
}

// NormalizeStyle resolves style presets into concrete CSS values. It is
// idempotent.
func NormalizeStyle(o StyleOptions) (StyleOptions, error) {
	return style.Normalize(o)
}

// StylePresets lists preset names per style field.
func StylePresets() map[string][]string {
	return style.Presets()
}

// Job is one conversion request. A Job is not modified by the converter.
type Job struct {
	InputPath  string
	OutputPath string // empty derives it from InputPath and Format
	Format     Format // empty means PDF
	Layout     *PDFLayout
	Style      StyleOptions

	// Progress observes this job. Nil falls back to the batch callback.
	Progress ProgressFunc
}

// Output returns the output path, deriving it from the input when unset.
func (j Job) Output() string {
	if j.OutputPath != "" {
		return j.OutputPath
	}
	format, err := ParseFormat(string(j.Format))
	if err != nil {
		format = j.Format // rejected by Convert before anything is written
	}
	ext := filepath.Ext(j.InputPath)
	return strings.TrimSuffix(j.InputPath, ext) + format.Ext()
}

// BatchResult is the outcome of one job in a batch.
type BatchResult struct {
	JobID  string
	Input  string
	Output string
	Err    error
}
