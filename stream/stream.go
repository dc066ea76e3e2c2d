/*
DESCRIPTION
  stream.go declares the raw-video I/O contract (spec.md §6): Source
  reads one frame's planes at a time, Sink writes one frame's planes at
  a time. Stream parsing, framing and stream-info headers are out of
  scope for the core (spec.md §1); this package exists only so the
  reader/writer stages and the pipeline facade have something concrete
  to drive in tests and in cmd/denoise.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stream provides the raw planar-video descriptors the reader
// and writer stages read from and write to, and Y4MSource/Y4MSink, a
// minimal implementation of the planar Y4M wire format.
package stream

import "io"

// Source reads one frame's planes into dst. dst[i] must already be
// sized to the plane's dimensions; ReadFrame fills it in place. Returns
// io.EOF once the stream is exhausted.
type Source interface {
	ReadFrame(dst [3][]byte) error
}

// Sink writes one frame's planes, each already filled by the caller.
type Sink interface {
	WriteFrame(src [3][]byte) error
}

// ErrShortPlane names the truncated-plane condition (an alias of
// io.ErrUnexpectedEOF). Y4MSource does not return it: a plane cut short
// by the end of the stream is reported as io.EOF.
var ErrShortPlane = io.ErrUnexpectedEOF
