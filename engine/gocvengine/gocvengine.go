//go:build withcv
// +build withcv

/*
DESCRIPTION
  gocvengine implements a gocv.Mat-backed Denoiser: a per-pixel temporal
  filter that keeps the previous frame's value unless the absolute
  difference against the new frame exceeds Params.Threshold, in which
  case the new value is adopted. This is the same absolute-difference
  thresholding ausocean-av's motion filters use to decide "is this
  pixel/frame different enough to matter", repurposed here as the
  temporal smoothing rule itself rather than a motion gate.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package gocvengine provides a gocv-backed engine.Denoiser, built only
// with the withcv tag (gocv requires a local OpenCV install).
package gocvengine

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/ausocean/y4mdenoise/engine"
	"github.com/ausocean/y4mdenoise/pixel"
)

// Engine is an engine.Denoiser that holds one channel's worth of
// working state in a gocv.Mat, diffing each new frame against the
// previous one and keeping whichever pixel value changed enough to
// cross Threshold.
type Engine struct {
	params   engine.Params
	prev     gocv.Mat
	pending  gocv.Mat
	hasPrev  bool
	hasReady bool
}

// New returns an uninitialised Engine; call Init before use.
func New() *Engine { return &Engine{} }

// Init allocates the working Mats for the given plane geometry.
func (e *Engine) Init(p engine.Params) error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("gocvengine: invalid geometry %dx%d", p.Width, p.Height)
	}
	e.params = p
	e.prev = gocv.NewMatWithSize(p.Height, p.Width, gocv.MatTypeCV8UC1)
	e.pending = gocv.NewMatWithSize(p.Height, p.Width, gocv.MatTypeCV8UC1)
	return nil
}

// Purge discards the held working frame, mirroring an engine that
// drops its temporal history.
func (e *Engine) Purge() {
	e.hasPrev = false
	e.hasReady = false
}

// Close releases the Mats. gocv resources are C-backed and must be
// freed explicitly; callers that construct an Engine should Close it
// once done.
func (e *Engine) Close() error {
	e.prev.Close()
	e.pending.Close()
	return nil
}

// AddFrame stages one luma frame, thresholding it against the
// previously held frame.
func (e *Engine) AddFrame(staging interface{}) error {
	s, ok := staging.([]pixel.Y)
	if !ok {
		return fmt.Errorf("gocvengine: unsupported staging type %T", staging)
	}
	if len(s) != e.params.Width*e.params.Height {
		return fmt.Errorf("gocvengine: staging length %d does not match geometry %dx%d", len(s), e.params.Width, e.params.Height)
	}

	cur := gocv.NewMatWithSize(e.params.Height, e.params.Width, gocv.MatTypeCV8UC1)
	defer cur.Close()
	for y := 0; y < e.params.Height; y++ {
		for x := 0; x < e.params.Width; x++ {
			cur.SetUCharAt(y, x, uint8(s[y*e.params.Width+x]))
		}
	}

	if !e.hasPrev {
		cur.CopyTo(&e.pending)
		cur.CopyTo(&e.prev)
		e.hasPrev = true
		e.hasReady = true
		return nil
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(cur, e.prev, &diff)

	for y := 0; y < e.params.Height; y++ {
		for x := 0; x < e.params.Width; x++ {
			if int(diff.GetUCharAt(y, x)) > e.params.Threshold {
				e.pending.SetUCharAt(y, x, cur.GetUCharAt(y, x))
			}
		}
	}
	cur.CopyTo(&e.prev)
	e.hasReady = true
	return nil
}

// FrameReady returns the thresholded frame once an AddFrame call has
// populated it, and nil until the next AddFrame after that.
func (e *Engine) FrameReady() engine.ReferenceFrame {
	if !e.hasReady {
		return nil
	}
	e.hasReady = false
	return matFrame{e.pending.Clone()}
}

// RemainingFrames drains whatever is held, same as FrameReady at end
// of input.
func (e *Engine) RemainingFrames() engine.ReferenceFrame {
	return e.FrameReady()
}

// matFrame adapts a cloned gocv.Mat to engine.ReferenceFrame. The clone
// is read once by the pipeline facade and never reused, so it is not
// pooled back to gocv.
type matFrame struct{ m gocv.Mat }

func (f matFrame) Pixel(i int) engine.ReferencePixel {
	w := f.m.Cols()
	y, x := i/w, i%w
	return matPixel(f.m.GetUCharAt(y, x))
}

func (f matFrame) Len() int { return f.m.Rows() * f.m.Cols() }

type matPixel uint8

func (p matPixel) Value() [2]uint8 { return [2]uint8{uint8(p), 0} }
