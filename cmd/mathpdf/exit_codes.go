package main

import (
	"errors"
	"os"

	mathpdf "github.com/alnah/go-mathpdf"
	"github.com/alnah/go-mathpdf/internal/config"
)

// Exit codes for the mathpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, style or layout
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mathpdf.ErrBrowserConnect) ||
		errors.Is(err, mathpdf.ErrPageCreate) ||
		errors.Is(err, mathpdf.ErrPageLoad) ||
		errors.Is(err, mathpdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, mathpdf.ErrUnsupportedFormat) ||
		errors.Is(err, mathpdf.ErrInvalidStyle) ||
		errors.Is(err, mathpdf.ErrInvalidLayout) ||
		errors.Is(err, mathpdf.ErrStyleNotFound) ||
		errors.Is(err, mathpdf.ErrInvalidAssetPath) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoMarkdown) ||
		errors.Is(err, mathpdf.ErrReadInput) ||
		errors.Is(err, mathpdf.ErrWriteOutput) ||
		errors.Is(err, mathpdf.ErrKaTeXScript) ||
		errors.Is(err, mathpdf.ErrInvalidMathCache) {
		return ExitIO
	}

	return ExitGeneral
}
