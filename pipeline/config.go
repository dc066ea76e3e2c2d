/*
DESCRIPTION
  config.go provides Config, the immutable-after-Init configuration
  table the pipeline facade is constructed from (spec.md §3, §6).

  Adapted from ausocean-av/revid/config/config.go: the same
  struct-of-fields-plus-Logger shape, the same Validate/Update/
  LogInvalidField pattern driven by a package-level Variables table
  (variables.go), generalised from revid's media pipeline knobs
  to this spec's plane geometry, thread mask and per-plane-group
  denoise tuning fields.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline implements the denoising pipeline facade (spec.md
// §4.7): the frame pool, reader/writer stages and per-plane denoise
// workers wired together behind a single constructed value, mirroring
// the shape revid.Revid gives the rest of the corpus's media pipeline.
package pipeline

import "github.com/ausocean/utils/logging"

// Interlace modes (spec.md §3).
const (
	Progressive       = 0
	TopFieldFirst     = 1
	BottomFieldFirst  = 2
)

// Thread-mask bits (spec.md §3). Bit 0 enables the reader/writer
// goroutines; bit 1 enables the chroma worker goroutine. Either or both
// may be clear, in which case the corresponding stage runs synchronously
// on the caller's goroutine.
const (
	ThreadIO     = 1 << 0
	ThreadChroma = 1 << 1
)

// Config provides the parameters a Pipeline is constructed from. A
// Config must be validated (Validate) before Init; default values for
// zero/invalid fields are documented alongside each Variable in
// variables.go.
type Config struct {
	// WidthY, HeightY, WidthCbCr, HeightCbCr are plane dimensions.
	// WidthCbCr/HeightCbCr default to WidthY/HeightY downscaled by
	// SSH/SSV when left zero (4:2:0 the common case).
	WidthY, HeightY     uint
	WidthCbCr, HeightCbCr uint

	// Interlaced selects progressive (0), top-field-first (1) or
	// bottom-field-first (2) processing.
	Interlaced uint

	// Frames is the purge cadence: engine.Purge is invoked once every
	// Frames calls to Frame/InterlacedFrame (spec.md §4.7, resolved:
	// once per frame, not per field — see DESIGN.md).
	Frames uint

	// Threads is the thread-mask bitmask (ThreadIO | ThreadChroma).
	Threads uint

	// RadiusY, RadiusCbCr are motion-search radii handed to the luma
	// and chroma engines respectively, in luma-plane pixel units.
	// RadiusCbCr is scaled down by SSH/SSV at Init time before it
	// reaches the chroma engine's Params, since the chroma plane itself
	// is already subsampled.
	RadiusY, RadiusCbCr uint

	// SSH, SSV are the chroma horizontal/vertical subsampling factors
	// (e.g. 2, 2 for 4:2:0), used to derive default chroma plane
	// dimensions when WidthCbCr/HeightCbCr are left zero, and to scale
	// RadiusCbCr down for the chroma engine at Init.
	SSH, SSV uint

	// ZThresholdY, ThresholdY, ZThresholdCbCr, ThresholdCbCr,
	// MatchCountThrottle, MatchSizeThrottle are opaque engine tuning
	// values, passed through unexamined (spec.md §3).
	ZThresholdY, ThresholdY         int
	ZThresholdCbCr, ThresholdCbCr   int
	MatchCountThrottle, MatchSizeThrottle int

	// Logger holds the Logger implementation the whole pipeline logs
	// through (ausocean convention: the config doubles as the logging
	// carrier, matching revid/config.Config.Logger).
	Logger logging.Logger
}

// Validate checks Config for missing or nonsensical fields, defaulting
// what it safely can, mirroring revid/config.Config.Validate. Zero
// dimensions and replaced values are logged via LogInvalidField; the
// chroma dimensions and SSH/SSV are defaulted without a log entry. It
// always returns nil.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names to string values
// (as might arrive from a hot-reloaded config file) and applies every
// recognised key to c, mirroring revid/config.Config.Update.
func (c *Config) Update(vars map[string]string) {
	for _, v := range Variables {
		if val, ok := vars[v.Name]; ok && v.Update != nil {
			v.Update(c, val)
		}
	}
}

// LogInvalidField logs that a field was bad or unset and the default
// value substituted in its place, mirroring
// revid/config.Config.LogInvalidField.
func (c *Config) LogInvalidField(name string, def interface{}) {
	if c.Logger == nil {
		return
	}
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
