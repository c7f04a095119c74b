package md2site

import "runtime"

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent renders; each may hold a decoded
	// full-size image while resampling.
	MaxPoolSize = 16
)

// ResolvePoolSize determines how many articles render concurrently.
// Priority: explicit workers > GOMAXPROCS.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
