package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	mathpdf "github.com/alnah/go-mathpdf"
	"github.com/alnah/go-mathpdf/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitSuccess},
		{name: "browser connect in phase error", err: &mathpdf.PhaseError{Phase: mathpdf.PhaseExporting, Err: mathpdf.ErrBrowserConnect}, want: ExitBrowser},
		{name: "page load", err: fmt.Errorf("x: %w", mathpdf.ErrPageLoad), want: ExitBrowser},
		{name: "pdf generation", err: mathpdf.ErrPDFGeneration, want: ExitBrowser},
		{name: "no input", err: ErrNoInput, want: ExitUsage},
		{name: "config parse", err: config.ErrConfigParse, want: ExitUsage},
		{name: "invalid style", err: &mathpdf.PhaseError{Phase: mathpdf.PhaseReading, Err: mathpdf.ErrInvalidStyle}, want: ExitUsage},
		{name: "invalid layout", err: mathpdf.ErrInvalidLayout, want: ExitUsage},
		{name: "theme not found", err: mathpdf.ErrStyleNotFound, want: ExitUsage},
		{name: "not exist", err: fmt.Errorf("open: %w", os.ErrNotExist), want: ExitIO},
		{name: "read input", err: mathpdf.ErrReadInput, want: ExitIO},
		{name: "write output", err: mathpdf.ErrWriteOutput, want: ExitIO},
		{name: "katex script", err: mathpdf.ErrKaTeXScript, want: ExitIO},
		{name: "no markdown", err: ErrNoMarkdown, want: ExitIO},
		{name: "strict math", err: mathpdf.ErrMathRender, want: ExitGeneral},
		{name: "unknown", err: errors.New("boom"), want: ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
