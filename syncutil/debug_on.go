//go:build denoisedebug

package syncutil

import "sync/atomic"

// debugState tracks lock ownership when built with -tags denoisedebug.
type debugState struct {
	locked atomic.Bool
}

func (d *debugState) markLocked()   { d.locked.Store(true) }
func (d *debugState) markUnlocked() { d.locked.Store(false) }

// MustBeLocked panics if the mutex is not currently held. Used to
// validate pool-membership and worker-state-machine preconditions that
// spec.md specifies as assertion-only behaviour.
func (m *Mutex) MustBeLocked() {
	if !m.locked.Load() {
		panic("syncutil: precondition violated: mutex must be locked")
	}
}
