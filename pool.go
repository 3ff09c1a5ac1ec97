package mathpdf

import "runtime"

// Math worker sizing constants.
const (
	// MinWorkers ensures at least one formula renders at a time.
	MinWorkers = 1

	// MaxWorkers caps KaTeX runtimes, each holding a compiled copy of the
	// script (~10MB).
	MaxWorkers = 8

	// cpuDivisor leaves headroom for the browser process.
	cpuDivisor = 2
)

// ResolveWorkers determines how many formulas render concurrently.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
