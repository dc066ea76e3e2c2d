/*
DESCRIPTION
  writer.go implements the writer stage (spec.md §4.5): mirrors the
  reader but drains to a stream.Sink, with one difference — the writer
  implements syncutil.Drainer so the shell keeps calling Work past a
  ForceShutdown while the valid list is still non-empty, guaranteeing a
  force shutdown still flushes every previously published frame to the
  sink (spec.md §4.5, §8 "writer drain").

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package writer implements the consumer side of a framepool.Pool that
// drains to a stream.Sink, guaranteeing every frame the caller submits
// via WriteFrame reaches the sink before shutdown completes.
package writer

import (
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/framepool"
	"github.com/ausocean/y4mdenoise/stream"
	"github.com/ausocean/y4mdenoise/syncutil"
)

var _ syncutil.Drainer = (*Stage)(nil)

// Stage writes frames from a framepool.Pool to a stream.Sink.
type Stage struct {
	pool *framepool.Pool
	dst  stream.Sink
	log  logging.Logger
}

// New returns a Stage backed by a new pool sized planeSizes.
func New(dst stream.Sink, planeSizes [3]int, log logging.Logger) *Stage {
	return &Stage{pool: framepool.New(planeSizes), dst: dst, log: log}
}

// Pool exposes the stage's underlying pool.
func (s *Stage) Pool() *framepool.Pool { return s.pool }

// Start begins the writer's goroutine (thread-bit 0 set).
func (s *Stage) Start() {
	s.pool.Start(s)
}

// ForceShutdown stops the writer. Because Work keeps draining while the
// valid list is non-empty, every frame submitted via WriteFrame before
// this call reaches the sink before the underlying goroutine exits
// (when join is true).
func (s *Stage) ForceShutdown(join bool) {
	s.pool.ForceShutdown(join)
}

// ShouldDrain implements syncutil.Drainer. The shell's loop consults
// this once keepRunning has gone false, so a ForceShutdown racing a
// just-published frame never drops it: the goroutine keeps calling Work
// until the valid list is actually empty.
func (s *Stage) ShouldDrain() bool {
	s.pool.Lock()
	defer s.pool.Unlock()
	return s.pool.ValidLen() > 0
}

// Work implements syncutil.Workable (spec.md §4.5).
func (s *Stage) Work() error {
	s.pool.Lock()
	if s.pool.ValidLen() == 0 && s.pool.KeepRunning() {
		s.pool.WaitForOutput()
	}
	if s.pool.ValidLen() == 0 {
		s.pool.Unlock()
		return io.EOF
	}
	f, _ := s.pool.GetFirstValid()
	s.pool.Unlock()

	err := s.dst.WriteFrame(f.Planes)

	s.pool.Lock()
	wasEmpty := s.pool.FreeLen() == 0
	s.pool.AddToFree(f)
	if wasEmpty {
		s.pool.SignalInput()
	}
	s.pool.Unlock()

	return err
}

// GetSpaceToWriteFrame is the public entry point that obtains a buffer
// for the caller to fill (spec.md §4.5). It requires no current buffer
// be already held.
func (s *Stage) GetSpaceToWriteFrame(out *[3][]byte) error {
	s.pool.Lock()
	defer s.pool.Unlock()

	if s.pool.HasCurrent() {
		return errors.New("writer: GetSpaceToWriteFrame called while a current buffer is already held")
	}

	if s.pool.FreeLen() == 0 && s.pool.KeepRunning() {
		s.pool.WaitForInput()
	}
	if s.pool.FreeLen() == 0 {
		if err := s.pool.FinalStatus(); err != nil {
			return err
		}
		return io.EOF
	}

	s.pool.MoveFreeToCurrent()
	*out = s.pool.Current().Planes
	return nil
}

// WriteFrame publishes the buffer most recently handed out by
// GetSpaceToWriteFrame (spec.md §4.5).
func (s *Stage) WriteFrame() error {
	s.pool.Lock()
	defer s.pool.Unlock()

	if !s.pool.HasCurrent() {
		return errors.New("writer: WriteFrame called without a current buffer")
	}

	wasEmpty := s.pool.ValidLen() == 0
	s.pool.MoveCurrentToValid()
	if wasEmpty {
		s.pool.SignalOutput()
	}
	return nil
}
