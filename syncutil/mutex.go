/*
DESCRIPTION
  mutex.go provides a mutex wrapper that, in debug builds (build tag
  denoisedebug), tracks ownership so callers can assert a guarded
  invariant is only touched while the lock is held.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package syncutil provides the mutex, condition-variable and worker-shell
// primitives shared by the frame pool, reader/writer stages and denoise
// workers. All three pool types (reader, writer, denoise worker) are
// single-producer/single-consumer, so a single Signal per event suffices;
// spurious wakeups are guarded against by a boolean predicate the
// signaller clears before returning, rather than by robust re-checking
// inside Wait.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. In non-debug builds it is exactly sync.Mutex;
// the debug build (denoisedebug tag) additionally tracks whether the
// mutex is currently held, so MustBeLocked can validate a precondition
// that spec.md calls out as assertion-only (disabled in release builds).
type Mutex struct {
	mu sync.Mutex
	debugState
}

// Lock acquires the mutex.
func (m *Mutex) Lock() {
	m.mu.Lock()
	m.markLocked()
}

// Unlock releases the mutex.
func (m *Mutex) Unlock() {
	m.markUnlocked()
	m.mu.Unlock()
}
