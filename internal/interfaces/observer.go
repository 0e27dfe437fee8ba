// File: internal/interfaces/observer.go
package interfaces

// Observer is a per-Volume notification sink, used in place of a
// process-wide verbosity flag and notification global: a handle injected
// at Volume construction, never a package-level variable.
type Observer interface {
	// Debugf logs fine-grained diagnostic detail (chain walks, cache
	// hits/misses). Implementations may no-op this entirely.
	Debugf(format string, args ...any)

	// Warnf logs a recoverable anomaly: a store that failed to load while
	// others remain usable, a skipped NOT_USED descriptor, and similar.
	Warnf(format string, args ...any)

	// Errorf logs a fatal condition immediately before it is returned to
	// the caller as an error.
	Errorf(format string, args ...any)
}
