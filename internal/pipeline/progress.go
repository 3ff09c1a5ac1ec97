package pipeline

// Phase names a step reported to progress callbacks.
type Phase string

// Phases in the order a job passes through them.
const (
	PhaseReading   Phase = "reading"
	PhaseRendering Phase = "rendering"
	PhaseMath      Phase = "math"
	PhaseExporting Phase = "exporting"
	PhaseDone      Phase = "done"
	PhaseError     Phase = "error"
)

// Progress is one progress event. Done and Total count formulas during
// PhaseMath. Err is set for PhaseError.
type Progress struct {
	Phase Phase
	Done  int
	Total int
	Err   error
}

// ProgressFunc observes progress. It never affects control flow and may be nil.
type ProgressFunc func(Progress)

// Report calls f if it is not nil.
func (f ProgressFunc) Report(p Progress) {
	if f != nil {
		f(p)
	}
}
