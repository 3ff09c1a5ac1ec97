package main

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	mathpdf "github.com/alnah/go-mathpdf"
)

// Converter is the part of *mathpdf.Converter the CLI drives.
type Converter interface {
	Convert(ctx context.Context, job mathpdf.Job) (string, error)
	ConvertBatch(ctx context.Context, jobs []mathpdf.Job, progress mathpdf.ProgressFunc) []mathpdf.BatchResult
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*mathpdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// Getenv and Environ read the process environment.
	Getenv  func(string) string
	Environ func() []string

	// Interactive reports whether Stderr is a terminal.
	Interactive func() bool

	NewConverter func(opts ...mathpdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		Environ: os.Environ,
		Interactive: func() bool {
			return term.IsTerminal(int(os.Stderr.Fd())) // #nosec G115 -- file descriptors fit in int
		},
		NewConverter: func(opts ...mathpdf.Option) (Converter, error) {
			return mathpdf.NewConverter(opts...)
		},
	}
}
