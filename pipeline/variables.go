/*
DESCRIPTION
  variables.go lists, for every Config field, its hot-reload key name,
  a string-parsing Update function and an optional Validate function —
  the same Name/Update/Validate table shape as
  ausocean-av/revid/config/variables.go, sized down to this spec's
  field set.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"strconv"
	"strings"
)

// Config map keys, used by Config.Update and cmd/denoise's hot-reload
// watcher.
const (
	KeyWidthY             = "WidthY"
	KeyHeightY            = "HeightY"
	KeyWidthCbCr          = "WidthCbCr"
	KeyHeightCbCr         = "HeightCbCr"
	KeyInterlaced         = "Interlaced"
	KeyFrames             = "Frames"
	KeyThreads            = "Threads"
	KeyRadiusY            = "RadiusY"
	KeyRadiusCbCr         = "RadiusCbCr"
	KeySSH                = "SSH"
	KeySSV                = "SSV"
	KeyZThresholdY        = "ZThresholdY"
	KeyThresholdY         = "ThresholdY"
	KeyZThresholdCbCr     = "ZThresholdCbCr"
	KeyThresholdCbCr      = "ThresholdCbCr"
	KeyMatchCountThrottle = "MatchCountThrottle"
	KeyMatchSizeThrottle  = "MatchSizeThrottle"
)

// Default variable values, substituted by Validate when a field is
// zero/invalid.
const (
	defaultFrames  = 1 // Purge every frame unless told otherwise.
	defaultThreads = ThreadIO
	defaultSSH     = 2
	defaultSSV     = 2
	defaultRadius  = 8
)

// Variables describes every Config field that can be hot-reloaded or
// validated: its string key, an Update function parsing a string value
// into the Config, and an optional Validate function defaulting a
// missing/invalid value. Mirrors
// ausocean-av/revid/config/variables.go's Variables table.
var Variables = []struct {
	Name     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name:   KeyWidthY,
		Update: func(c *Config, v string) { c.WidthY = parseUint(KeyWidthY, v, c) },
		Validate: func(c *Config) {
			if c.WidthY == 0 {
				c.LogInvalidField(KeyWidthY, 0)
			}
		},
	},
	{
		Name:   KeyHeightY,
		Update: func(c *Config, v string) { c.HeightY = parseUint(KeyHeightY, v, c) },
		Validate: func(c *Config) {
			if c.HeightY == 0 {
				c.LogInvalidField(KeyHeightY, 0)
			}
		},
	},
	{
		Name:   KeyWidthCbCr,
		Update: func(c *Config, v string) { c.WidthCbCr = parseUint(KeyWidthCbCr, v, c) },
		Validate: func(c *Config) {
			if c.WidthCbCr == 0 {
				ssh := c.SSH
				if ssh == 0 {
					ssh = defaultSSH
				}
				c.WidthCbCr = c.WidthY / ssh
			}
		},
	},
	{
		Name:   KeyHeightCbCr,
		Update: func(c *Config, v string) { c.HeightCbCr = parseUint(KeyHeightCbCr, v, c) },
		Validate: func(c *Config) {
			if c.HeightCbCr == 0 {
				ssv := c.SSV
				if ssv == 0 {
					ssv = defaultSSV
				}
				c.HeightCbCr = c.HeightY / ssv
			}
		},
	},
	{
		Name:   KeyInterlaced,
		Update: func(c *Config, v string) { c.Interlaced = parseUint(KeyInterlaced, v, c) },
		Validate: func(c *Config) {
			if c.Interlaced > BottomFieldFirst {
				c.LogInvalidField(KeyInterlaced, Progressive)
				c.Interlaced = Progressive
			}
		},
	},
	{
		Name:   KeyFrames,
		Update: func(c *Config, v string) { c.Frames = parseUint(KeyFrames, v, c) },
		Validate: func(c *Config) {
			if c.Frames == 0 {
				c.LogInvalidField(KeyFrames, defaultFrames)
				c.Frames = defaultFrames
			}
		},
	},
	{
		Name:   KeyThreads,
		Update: func(c *Config, v string) { c.Threads = parseUint(KeyThreads, v, c) },
	},
	{
		Name:   KeyRadiusY,
		Update: func(c *Config, v string) { c.RadiusY = parseUint(KeyRadiusY, v, c) },
		Validate: func(c *Config) {
			if c.RadiusY == 0 {
				c.LogInvalidField(KeyRadiusY, defaultRadius)
				c.RadiusY = defaultRadius
			}
		},
	},
	{
		Name:   KeyRadiusCbCr,
		Update: func(c *Config, v string) { c.RadiusCbCr = parseUint(KeyRadiusCbCr, v, c) },
		Validate: func(c *Config) {
			if c.RadiusCbCr == 0 {
				c.LogInvalidField(KeyRadiusCbCr, defaultRadius)
				c.RadiusCbCr = defaultRadius
			}
		},
	},
	{
		Name:   KeySSH,
		Update: func(c *Config, v string) { c.SSH = parseUint(KeySSH, v, c) },
		Validate: func(c *Config) {
			if c.SSH == 0 {
				c.SSH = defaultSSH
			}
		},
	},
	{
		Name:   KeySSV,
		Update: func(c *Config, v string) { c.SSV = parseUint(KeySSV, v, c) },
		Validate: func(c *Config) {
			if c.SSV == 0 {
				c.SSV = defaultSSV
			}
		},
	},
	{
		Name:   KeyZThresholdY,
		Update: func(c *Config, v string) { c.ZThresholdY = parseInt(KeyZThresholdY, v, c) },
	},
	{
		Name:   KeyThresholdY,
		Update: func(c *Config, v string) { c.ThresholdY = parseInt(KeyThresholdY, v, c) },
	},
	{
		Name:   KeyZThresholdCbCr,
		Update: func(c *Config, v string) { c.ZThresholdCbCr = parseInt(KeyZThresholdCbCr, v, c) },
	},
	{
		Name:   KeyThresholdCbCr,
		Update: func(c *Config, v string) { c.ThresholdCbCr = parseInt(KeyThresholdCbCr, v, c) },
	},
	{
		Name:   KeyMatchCountThrottle,
		Update: func(c *Config, v string) { c.MatchCountThrottle = parseInt(KeyMatchCountThrottle, v, c) },
	},
	{
		Name:   KeyMatchSizeThrottle,
		Update: func(c *Config, v string) { c.MatchSizeThrottle = parseInt(KeyMatchSizeThrottle, v, c) },
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warning("expected unsigned int for param", "param", n, "value", v)
		}
		return 0
	}
	return uint(_v)
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		if c.Logger != nil {
			c.Logger.Warning("expected integer for param", "param", n, "value", v)
		}
		return 0
	}
	return _v
}
