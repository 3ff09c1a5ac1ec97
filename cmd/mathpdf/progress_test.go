package main

import (
	"bytes"
	"strings"
	"testing"

	mathpdf "github.com/alnah/go-mathpdf"
)

func TestNewReporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		vars        map[string]string
		interactive bool
		quiet       bool
		want        string
	}{
		{name: "quiet", interactive: true, quiet: true, want: "nop"},
		{name: "terminal", interactive: true, want: "terminal"},
		{name: "pipe", want: "line"},
		{name: "CI terminal", vars: map[string]string{"CI": "true"}, interactive: true, want: "line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(tt.vars)
			env.Interactive = func() bool { return tt.interactive }

			var got string
			switch newReporter(env.Environment, tt.quiet).(type) {
			case nopReporter:
				got = "nop"
			case *TerminalReporter:
				got = "terminal"
			case *LineReporter:
				got = "line"
			}
			if got != tt.want {
				t.Errorf("newReporter() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLineReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &LineReporter{w: &buf}
	r.Start(2)
	for _, p := range []mathpdf.Progress{
		{Phase: mathpdf.PhaseReading},
		{Phase: mathpdf.PhaseMath, Done: 1, Total: 3},
		{Phase: mathpdf.PhaseMath, Done: 3, Total: 3},
		{Phase: mathpdf.PhaseDone},
	} {
		r.Update(1, "/docs/notes.md", p)
	}
	r.Update(0, "/docs/a.md", mathpdf.Progress{Phase: mathpdf.PhaseError})
	r.Finish()

	want := "[2/2] notes.md: reading\n[2/2] notes.md: math 3/3\n[2/2] notes.md: done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestTerminalReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}
	r.Update(0, "a.md", mathpdf.Progress{Phase: mathpdf.PhaseDone}) // before Start
	r.Start(2)
	r.Update(0, "a.md", mathpdf.Progress{Phase: mathpdf.PhaseMath, Done: 1, Total: 2})
	r.Update(0, "a.md", mathpdf.Progress{Phase: mathpdf.PhaseDone})
	r.Update(1, "b.md", mathpdf.Progress{Phase: mathpdf.PhaseError})
	r.Finish()

	if !strings.Contains(buf.String(), "a.md: math 1/2") {
		t.Errorf("bar description not rendered: %q", buf.String())
	}
}
