// Package throttle decides how many export workers a run gets.
package throttle

import "runtime"

// MaxAutoWorkers caps the CPU-derived fallback. The remote API throttles per
// principal; past this point extra workers only buy 429s.
const MaxAutoWorkers = 12

// Resolve picks the worker count for a run. Priority: an explicit non-zero
// override, then the configured value, then the host's logical CPU count
// capped at MaxAutoWorkers. Always returns at least 1.
func Resolve(override, configured int) int {
	if override > 0 {
		return override
	}
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU()
	if n > MaxAutoWorkers {
		n = MaxAutoWorkers
	}
	if n < 1 {
		n = 1
	}
	return n
}
