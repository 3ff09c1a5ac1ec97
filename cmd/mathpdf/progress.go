package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"

	mathpdf "github.com/alnah/go-mathpdf"
)

// Reporter shows per-document progress.
type Reporter interface {
	Start(total int)
	Update(index int, input string, p mathpdf.Progress)
	Finish()
}

// newReporter returns a progress bar on an interactive terminal outside
// CI, line output otherwise, and nothing when quiet.
func newReporter(env *Environment, quiet bool) Reporter {
	switch {
	case quiet:
		return nopReporter{}
	case env.Getenv("CI") == "" && env.Getenv("GITHUB_ACTIONS") == "" && env.Interactive():
		return &TerminalReporter{w: env.Stderr}
	default:
		return &LineReporter{w: env.Stderr}
	}
}

// TerminalReporter displays a progress bar counting finished documents.
type TerminalReporter struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(_ int, input string, p mathpdf.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	r.bar.Describe(describe(input, p))
	if p.Phase == mathpdf.PhaseDone || p.Phase == mathpdf.PhaseError {
		_ = r.bar.Add(1)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// LineReporter prints one line per phase change, suitable for CI logs.
// Formula ticks are reduced to the final count.
type LineReporter struct {
	w     io.Writer
	mu    sync.Mutex
	total int
}

func (r *LineReporter) Start(total int) {
	r.total = total
}

func (r *LineReporter) Update(index int, input string, p mathpdf.Progress) {
	if p.Phase == mathpdf.PhaseMath && p.Done != p.Total {
		return
	}
	if p.Phase == mathpdf.PhaseError {
		// Failures are reported with the results.
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, "[%d/%d] %s\n", index+1, r.total, describe(input, p))
}

func (r *LineReporter) Finish() {}

type nopReporter struct{}

func (nopReporter) Start(int)                            {}
func (nopReporter) Update(int, string, mathpdf.Progress) {}
func (nopReporter) Finish()                              {}

// describe renders one progress event, e.g. "notes.md: math 3/10".
func describe(input string, p mathpdf.Progress) string {
	name := filepath.Base(input)
	if p.Phase == mathpdf.PhaseMath {
		return fmt.Sprintf("%s: %s %d/%d", name, p.Phase, p.Done, p.Total)
	}
	return fmt.Sprintf("%s: %s", name, p.Phase)
}
