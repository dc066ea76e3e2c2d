/*
DESCRIPTION
  passthrough.go implements PassThrough, a trivial Denoiser stand-in
  that stores exactly one staged frame and returns it verbatim on the
  drain path, never on FrameReady. This is the degenerate "pass through"
  configuration spec.md §8 scenario 1 exercises (a tolerance of 255
  accepts everything, so the reference implementation is free to just
  remember the last frame and hand it back unchanged).

  Grounded on the corpus's own filter.NoOp (ausocean-av/filter/filter.go):
  a minimal, interface-conformant collaborator that does nothing beyond
  satisfying the wider contract, used here to stand in for the engine
  the pipeline does not itself implement.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import (
	"fmt"

	"github.com/ausocean/y4mdenoise/pixel"
)

// PassThrough is a Denoiser that performs no motion search: it stores
// the most recently staged frame and returns it as-is from
// RemainingFrames, never from FrameReady, matching the "one frame of
// latency, emitted only on flush" behaviour spec.md §8 scenario 1
// requires of a tolerance-255 configuration.
type PassThrough struct {
	params Params
	stored *refFrame
}

// NewPassThrough returns an unitialised PassThrough; call Init before
// use, as with any Denoiser.
func NewPassThrough() *PassThrough { return &PassThrough{} }

// Init records the plane geometry.
func (p *PassThrough) Init(params Params) error {
	p.params = params
	return nil
}

// Purge is a no-op: the stored frame is still awaiting output on the
// drain path, and PassThrough holds no other working set to release.
func (p *PassThrough) Purge() {}

// AddFrame stages one frame of pixel.Y or pixel.CbCr values.
func (p *PassThrough) AddFrame(staging interface{}) error {
	switch s := staging.(type) {
	case []pixel.Y:
		f := make([]refPixel, len(s))
		for i, v := range s {
			f[i] = refPixel{uint8(v), 0}
		}
		p.stored = &refFrame{pixels: f}
	case []pixel.CbCr:
		f := make([]refPixel, len(s))
		for i, v := range s {
			f[i] = refPixel{v.Cb, v.Cr}
		}
		p.stored = &refFrame{pixels: f}
	default:
		return fmt.Errorf("engine: PassThrough.AddFrame: unsupported staging type %T", staging)
	}
	return nil
}

// FrameReady always returns nil: PassThrough only emits on the drain
// path, matching spec.md §8 scenario 1 ("frame_intensity returns 1 (no
// output) on submit").
func (p *PassThrough) FrameReady() ReferenceFrame { return nil }

// RemainingFrames returns and clears the stored frame, or nil if there
// is none — the flush-time emission spec.md §8 scenario 1 expects.
func (p *PassThrough) RemainingFrames() ReferenceFrame {
	f := p.stored
	p.stored = nil
	if f == nil {
		return nil
	}
	return f
}

// refPixel is the concrete ReferencePixel PassThrough (and the staging
// helpers other engines may reuse) hand back.
type refPixel struct {
	a, b uint8
}

func (p refPixel) Value() [2]uint8 { return [2]uint8{p.a, p.b} }

// refFrame is the concrete ReferenceFrame PassThrough hands back.
type refFrame struct {
	pixels []refPixel
}

func (f *refFrame) Pixel(i int) ReferencePixel { return f.pixels[i] }
func (f *refFrame) Len() int                   { return len(f.pixels) }
