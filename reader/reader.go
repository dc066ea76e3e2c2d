/*
DESCRIPTION
  reader.go implements the reader stage (spec.md §4.4): fills free
  buffers from a stream.Source and publishes them as valid, giving the
  pipeline facade a read_frame-style call that blocks until data is
  available or the stream is exhausted.

  Adapted from ausocean-av/device/file.go's Start/Stop lifecycle and
  revid/revid.go's processFrom goroutine pattern.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package reader implements the producer side of a framepool.Pool: a
// stage that fills free buffers from a stream.Source and hands them to
// the pipeline facade in strict FIFO order.
package reader

import (
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/framepool"
	"github.com/ausocean/y4mdenoise/stream"
)

// Stage reads frames from a stream.Source into a framepool.Pool.
type Stage struct {
	pool *framepool.Pool
	src  stream.Source
	log  logging.Logger
}

// New returns a Stage backed by a new pool sized planeSizes.
func New(src stream.Source, planeSizes [3]int, log logging.Logger) *Stage {
	return &Stage{pool: framepool.New(planeSizes), src: src, log: log}
}

// Pool exposes the stage's underlying pool, e.g. for inspecting its
// state in tests.
func (s *Stage) Pool() *framepool.Pool { return s.pool }

// Start begins the reader's goroutine (thread-bit 0 set). Callers that
// want synchronous, single-threaded reading should instead call Work
// directly via syncutil.RunOnce-style code and skip Start.
func (s *Stage) Start() {
	s.pool.Start(s)
}

// ForceShutdown stops the reader; join mirrors syncutil.Shell.ForceShutdown.
func (s *Stage) ForceShutdown(join bool) {
	s.pool.ForceShutdown(join)
}

// Work implements syncutil.Workable (spec.md §4.4):
//  1. Lock. If free list empty and keepRunning, wait for input. If
//     still empty, return EOF.
//  2. Pop a free buffer. Unlock.
//  3. Read one frame from the source into its planes.
//  4. On success: lock, append to valid, wake an output waiter, unlock.
//     On failure: lock, return buffer to free, unlock, return the error.
func (s *Stage) Work() error {
	s.pool.Lock()
	if s.pool.FreeLen() == 0 && s.pool.KeepRunning() {
		s.pool.WaitForInput()
	}
	if s.pool.FreeLen() == 0 {
		s.pool.Unlock()
		return io.EOF
	}
	f, _ := s.pool.GetFree()
	s.pool.Unlock()

	err := s.src.ReadFrame(f.Planes)
	if err != nil {
		s.pool.Lock()
		s.pool.AddToFree(f)
		s.pool.Unlock()
		return err
	}

	s.pool.Lock()
	wasEmpty := s.pool.ValidLen() == 0
	s.pool.AddToValid(f)
	if wasEmpty {
		s.pool.SignalOutput()
	}
	s.pool.Unlock()
	return nil
}

// ReadFrame is the public, client-facing entry point (spec.md §4.4). It
// returns the previous current buffer (if any) to free, waits for a
// valid buffer if none is ready yet, and promotes the new head-valid to
// current. The returned planes remain valid to the caller until the
// next call to ReadFrame.
func (s *Stage) ReadFrame(out *[3][]byte) error {
	s.pool.Lock()
	defer s.pool.Unlock()

	if s.pool.HasCurrent() {
		wasEmpty := s.pool.FreeLen() == 0
		s.pool.MoveCurrentToFree()
		if wasEmpty {
			s.pool.SignalInput()
		}
	}

	if s.pool.ValidLen() == 0 && s.pool.KeepRunning() {
		s.pool.WaitForOutput()
	}
	if s.pool.ValidLen() == 0 {
		if err := s.pool.FinalStatus(); err != nil {
			return err
		}
		return io.EOF
	}

	s.pool.MoveValidToCurrent()
	*out = s.pool.Current().Planes
	return nil
}
