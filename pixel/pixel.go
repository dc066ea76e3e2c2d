/*
DESCRIPTION
  pixel.go provides the per-pixel tolerance predicates consumed by the
  motion-search engine: a 1-D kernel for luma (Y) and a 2-D kernel for
  chroma (Cb, Cr).

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pixel defines the pixel value shapes and tolerance predicates
// that form the contract between the denoise pipeline and the opaque
// motion-search engine it drives.
package pixel

// Y is a single-component luma sample.
type Y uint8

// CbCr is a two-component chroma sample.
type CbCr struct {
	Cb, Cr uint8
}

// Tolerance is the wide signed domain tolerances and SAD values live in.
// It must hold 2*255*255 without overflow; int32 comfortably does.
type Tolerance int32

// MakeTolerance converts a caller-supplied scalar t into the tolerance
// domain used by Within/SAD. For Y the tolerance is the scalar itself.
func (Y) MakeTolerance(t int32) Tolerance { return Tolerance(t) }

// Within reports whether a and b differ by no more than t.
func (a Y) Within(b Y, t Tolerance) bool {
	return a.SAD(b) <= t
}

// SAD returns |a-b|.
func (a Y) SAD(b Y) Tolerance {
	d := int32(a) - int32(b)
	if d < 0 {
		d = -d
	}
	return Tolerance(d)
}

// MakeTolerance converts a caller-supplied scalar t into the tolerance
// domain used by Within/SAD. For CbCr the tolerance is t*t, a squared
// distance threshold that avoids a square root.
func (CbCr) MakeTolerance(t int32) Tolerance { return Tolerance(t * t) }

// Within reports whether a and b lie within squared-distance t2 of
// each other, where t2 is normally produced by MakeTolerance.
func (a CbCr) Within(b CbCr, t2 Tolerance) bool {
	return a.SAD(b) <= t2
}

// SAD returns (Δcb)² + (Δcr)², the squared vector length between a and b.
func (a CbCr) SAD(b CbCr) Tolerance {
	dcb := int32(a.Cb) - int32(b.Cb)
	dcr := int32(a.Cr) - int32(b.Cr)
	return Tolerance(dcb*dcb + dcr*dcr)
}
