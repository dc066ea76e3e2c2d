/*
DESCRIPTION
  engine.go declares the opaque motion-search engine contract (spec.md
  §6). The engine itself — block match, reference-frame construction,
  pixel voting — is out of scope for this repository; only the
  interface the pipeline facade drives is specified here.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package engine declares the Denoiser contract that the pipeline
// facade drives, and provides PassThrough, a contract-conformant
// stand-in used by tests and by callers that want the pipeline's
// pooling/threading machinery without a real motion-search engine.
package engine

// Params bundles the opaque per-plane-group tuning knobs the pipeline
// facade hands to Init. Their meaning is defined entirely by the
// engine; the facade only passes them through (spec.md §6).
type Params struct {
	FrameCount   int
	Width        int
	Height       int
	RadiusX      int
	RadiusY      int
	ZThreshold   int
	Threshold    int
	CountThrottle int
	SizeThrottle  int
}

// ReferencePixel is one pixel of a ReferenceFrame. Value returns the
// final smoothed pixel; the facade reads it once per output event and
// never mutates a ReferenceFrame.
type ReferencePixel interface {
	// Value returns up to two components: Value()[0] is luma or Cb,
	// Value()[1] is Cr for chroma reference frames.
	Value() [2]uint8
}

// ReferenceFrame is an engine-owned output frame, indexable per pixel.
type ReferenceFrame interface {
	Pixel(i int) ReferencePixel
	Len() int
}

// Denoiser is the opaque motion-search engine for one plane group (Y or
// CbCr). Staging is a slice of engine-native pixels (pixel.Y or
// pixel.CbCr, boxed as interface{} so the same Denoiser shape serves
// both plane groups without generics-driven interface duplication).
type Denoiser interface {
	// Init allocates engine state for the given stream/plane geometry
	// and tuning params.
	Init(p Params) error

	// Purge releases the engine's temporal working set. Must be called
	// by the facade every purge_cadence frames; purge may not be
	// suppressed without a semantic change (spec.md §4.7).
	Purge()

	// AddFrame stages one new input frame (length Width*Height engine
	// pixels). Returns a non-nil error on engine failure (spec.md §7
	// category 2).
	AddFrame(staging interface{}) error

	// FrameReady returns the next reference frame ready for output, or
	// nil if none is ready yet.
	FrameReady() ReferenceFrame

	// RemainingFrames drains the engine's working set at end-of-input;
	// returns nil once fully drained.
	RemainingFrames() ReferenceFrame
}
