//go:build !denoisedebug

package syncutil

// debugState is the no-op, zero-cost release-build implementation. The
// denoisedebug-tagged variant in debug_on.go replaces it with an
// atomic.Bool and a panicking assertion.
type debugState struct{}

func (*debugState) markLocked()   {}
func (*debugState) markUnlocked() {}

// MustBeLocked is a no-op outside debug builds, matching spec.md §7's
// note that assertion-only checks are disabled in release builds.
func (*Mutex) MustBeLocked() {}
