// Package readiness decides when a loaded page has finished asynchronous
// rendering (images, fonts, animations, math engine output) and is safe to
// print. It waits on conditions, never on fixed sleeps.
package readiness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultConditionTimeout caps each condition so a stuck one degrades to
// "proceed anyway".
const DefaultConditionTimeout = 60 * time.Second

// DefaultMathSelectors match KaTeX and MathJax output nodes.
var DefaultMathSelectors = []string{".katex", "mjx-container", ".MathJax"}

// Evaluator runs a JavaScript function expression in the page, awaits the
// returned promise and returns its string result.
type Evaluator interface {
	Eval(ctx context.Context, js string) (string, error)
}

// Condition names.
const (
	CondImages     = "images"
	CondFonts      = "fonts"
	CondAnimations = "animations"
	CondMath       = "math"
	CondIdle       = "idle"
)

// Outcome is the result of one condition.
type Outcome struct {
	Name     string
	Result   string
	Err      error
	Duration time.Duration
}

// Report lists every condition outcome.
type Report struct {
	Outcomes []Outcome
}

// Ready reports whether every condition settled without error.
func (r Report) Ready() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil {
			return false
		}
	}
	return true
}

// Outcome returns the outcome of the named condition.
func (r Report) Outcome(name string) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return Outcome{}, false
}

// Detector gates export on page readiness.
type Detector struct {
	// Logger receives warnings for failed conditions. Nil discards.
	Logger *slog.Logger
	// ConditionTimeout caps each condition. Zero disables the cap.
	ConditionTimeout time.Duration
	// MathSelectors identify math engine output nodes.
	MathSelectors []string
}

// New returns a detector with default settings.
func New(logger *slog.Logger) *Detector {
	return &Detector{
		Logger:           logger,
		ConditionTimeout: DefaultConditionTimeout,
		MathSelectors:    DefaultMathSelectors,
	}
}

type condition struct {
	name   string
	script string
}

// Wait runs the images, fonts, animations and math conditions concurrently,
// then yields once to the idle callback. It never fails: a condition error
// or timeout is logged and recorded in the report.
func (d *Detector) Wait(ctx context.Context, ev Evaluator) Report {
	selectors := d.MathSelectors
	if len(selectors) == 0 {
		selectors = DefaultMathSelectors
	}

	parallel := []condition{
		{CondImages, imagesScript},
		{CondFonts, fontsScript},
		{CondAnimations, animationsScript},
		{CondMath, fmt.Sprintf(mathScript, strings.Join(selectors, ", "))},
	}

	outcomes := make([]Outcome, len(parallel), len(parallel)+1)
	var wg sync.WaitGroup
	for i, c := range parallel {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = d.run(ctx, ev, c)
		}()
	}
	wg.Wait()

	outcomes = append(outcomes, d.run(ctx, ev, condition{CondIdle, idleScript}))
	return Report{Outcomes: outcomes}
}

func (d *Detector) run(ctx context.Context, ev Evaluator, c condition) (o Outcome) {
	start := time.Now()
	o.Name = c.name

	defer func() {
		if r := recover(); r != nil {
			o.Err = fmt.Errorf("panic: %v", r)
		}
		o.Duration = time.Since(start)
		if o.Err != nil {
			d.logger().Warn("readiness condition failed, proceeding", "condition", c.name, "error", o.Err, "elapsed", o.Duration)
		} else {
			d.logger().Debug("readiness condition settled", "condition", c.name, "result", o.Result, "elapsed", o.Duration)
		}
	}()

	cctx := ctx
	if d.ConditionTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, d.ConditionTimeout)
		defer cancel()
	}

	o.Result, o.Err = ev.Eval(cctx, c.script)
	return o
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d.Logger
}
