/*
DESCRIPTION
  cond.go provides a condition variable permanently bound to one Mutex,
  paired with an explicit boolean predicate so that a Wait/Signal
  exchange never relies on a spurious wakeup being harmless.
*/

package syncutil

import "sync"

// Cond binds a sync.Cond to a Mutex and a boolean predicate. Wait
// atomically releases the mutex until Signal is called, then reacquires
// it; the caller is expected to have set the predicate true before
// calling Wait and the signaller is expected to clear it before
// signalling, so a single Signal per event is sufficient even though
// sync.Cond itself gives no such guarantee.
type Cond struct {
	c *sync.Cond
	m *Mutex
}

// NewCond returns a Cond bound to m.
func NewCond(m *Mutex) *Cond {
	return &Cond{c: sync.NewCond(&m.mu), m: m}
}

// Wait blocks until Signal is called. The caller must hold the bound
// mutex.
func (c *Cond) Wait() {
	c.m.markUnlocked()
	c.c.Wait()
	c.m.markLocked()
}

// Signal wakes one waiter, if any. The caller must hold the bound mutex.
func (c *Cond) Signal() {
	c.c.Signal()
}
