/*
DESCRIPTION
  denoisebench runs a Y4M file through the denoising pipeline and plots
  instantaneous bitrate (pipeline.Stats.Bitrate, sampled once per
  emitted frame) over the run, to spot throughput regressions across
  engine/tuning changes.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package denoisebench is a throughput benchmark/chart tool for the
// y4mdenoise pipeline.
package main

import (
	"bytes"
	"flag"
	"io"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/engine"
	"github.com/ausocean/y4mdenoise/pipeline"
	"github.com/ausocean/y4mdenoise/stream"
)

func main() {
	inPath := flag.String("in", "", "input Y4M file")
	width := flag.Uint("width", 0, "luma plane width")
	height := flag.Uint("height", 0, "luma plane height")
	chartPath := flag.String("chart", "bitrate.png", "output PNG chart path")
	flag.Parse()

	if *inPath == "" || *width == 0 || *height == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := logging.New(logging.Info, os.Stderr, false)

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatal("could not open input", "error", err)
	}
	defer f.Close()

	planeSizes := [3]int{int(*width * *height), 0, 0}
	src := stream.NewY4MSource(f, planeSizes, log)
	var discard bytes.Buffer
	sink := stream.NewY4MSink(&discard, int(*width), int(*height), planeSizes, log)

	cfg := pipeline.Config{WidthY: *width, HeightY: *height, Frames: 1, RadiusY: 8, ThresholdY: 8, ZThresholdY: 8, Threads: pipeline.ThreadIO}
	p, err := pipeline.Init(cfg, src, sink, engine.NewPassThrough(), nil, log)
	if err != nil {
		log.Fatal("pipeline init failed", "error", err)
	}
	defer p.Shutdown()

	samples := run(p, planeSizes, log)

	if err := chart(samples, *chartPath); err != nil {
		log.Fatal("could not write chart", "error", err)
	}
	log.Info("wrote chart", "path", *chartPath, "samples", len(samples))
}

// run drains the input through the pipeline, recording Stats.Bitrate
// after every emitted frame.
func run(p *pipeline.Pipeline, planeSizes [3]int, log logging.Logger) plotter.XYs {
	var in, out [3][]byte
	for i := range in {
		in[i] = make([]byte, planeSizes[i])
		out[i] = make([]byte, planeSizes[i])
	}

	var samples plotter.XYs
	for {
		if err := p.ReadFrame(&in); err == io.EOF {
			break
		} else if err != nil {
			log.Fatal("read failed", "error", err)
		}

		emitted, err := p.Frame(in[0], nil, nil, out[0], nil, nil)
		if err != nil {
			log.Fatal("denoise failed", "error", err)
		}
		if !emitted {
			continue
		}

		if err := p.GetWriteFrame(&out); err != nil {
			log.Fatal("write back-pressure failed", "error", err)
		}
		if err := p.WriteFrame(); err != nil {
			log.Fatal("write failed", "error", err)
		}

		stats := p.Stats()
		samples = append(samples, plotter.XY{X: float64(len(samples)), Y: float64(stats.Bitrate)})
	}
	return samples
}

// chart renders samples as a line plot saved to path.
func chart(samples plotter.XYs, path string) error {
	p := plot.New()
	p.Title.Text = "denoise throughput"
	p.X.Label.Text = "frame"
	p.Y.Label.Text = "bytes/sec"

	line, err := plotter.NewLine(samples)
	if err != nil {
		return err
	}
	p.Add(line)

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
