/*
DESCRIPTION
  denoise is a command-line front end for the y4mdenoise pipeline: it
  reads a planar Y4M stream from a file (or stdin), denoises it, and
  writes the result to another file (or stdout). The purge cadence can
  be hot-reloaded from a JSON config file while the pipeline runs.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package denoise is the command-line entry point for the y4mdenoise
// pipeline.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/coreos/go-systemd/daemon"
	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/engine"
	"github.com/ausocean/y4mdenoise/pipeline"
	"github.com/ausocean/y4mdenoise/stream"
)

// Logging configuration.
const (
	logVerbosity = logging.Debug
	logSuppress  = false
)

func main() {
	inPath := flag.String("in", "", "input Y4M file; empty for stdin")
	outPath := flag.String("out", "", "output Y4M file; empty for stdout")
	width := flag.Uint("width", 0, "luma plane width")
	height := flag.Uint("height", 0, "luma plane height")
	interlaced := flag.Uint("interlaced", pipeline.Progressive, "0=progressive, 1=top-field-first, 2=bottom-field-first")
	purgeEvery := flag.Uint("purge-every", 1, "purge the engines every N frames")
	radius := flag.Uint("radius", 8, "luma motion-search radius")
	threshold := flag.Int("threshold", 8, "luma match threshold")
	zThreshold := flag.Int("z-threshold", 8, "luma zero-motion threshold")
	chromaAsync := flag.Bool("async-chroma", false, "run the chroma plane on its own goroutine")
	confPath := flag.String("conf", "", "JSON file of config overrides (only the purge cadence takes effect), hot-reloaded on change; empty disables")
	flag.Parse()

	log := logging.New(logVerbosity, os.Stderr, logSuppress)

	cfg := pipeline.Config{
		WidthY: *width, HeightY: *height,
		Interlaced: *interlaced,
		Frames:     *purgeEvery,
		RadiusY:    radius1(*radius),
		ThresholdY: *threshold, ZThresholdY: *zThreshold,
	}
	if *chromaAsync {
		cfg.Threads |= pipeline.ThreadChroma
	}

	in, err := openInput(*inPath)
	if err != nil {
		log.Fatal("could not open input", "error", err)
	}
	defer in.Close()

	out, err := openOutput(*outPath)
	if err != nil {
		log.Fatal("could not open output", "error", err)
	}
	defer out.Close()

	planeSizes := [3]int{int(*width * *height), 0, 0}
	src := stream.NewY4MSource(in, planeSizes, log)
	sink := stream.NewY4MSink(out, int(*width), int(*height), planeSizes, log)

	cfg.Threads |= pipeline.ThreadIO
	p, err := pipeline.Init(cfg, src, sink, engine.NewPassThrough(), nil, log)
	if err != nil {
		log.Fatal("pipeline init failed", "error", err)
	}
	defer p.Shutdown()

	if *confPath != "" {
		go watchConfig(*confPath, p, log)
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyReady); err != nil {
		log.Debug("systemd readiness notify skipped", "error", err)
	}

	runLoop(p, planeSizes, log)

	if err := sink.Flush(); err != nil {
		log.Error("final flush failed", "error", err)
	}
}

// radius1 guards against a zero radius silently disabling motion search.
func radius1(r uint) uint {
	if r == 0 {
		return 1
	}
	return r
}

// runLoop drives frames through the pipeline until the reader reports
// end of input (spec.md §7 category 1).
func runLoop(p *pipeline.Pipeline, planeSizes [3]int, log logging.Logger) {
	var in, out [3][]byte
	for i := range in {
		in[i] = make([]byte, planeSizes[i])
		out[i] = make([]byte, planeSizes[i])
	}

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
	}

	stats := p.Stats()
	log.Info("done", "processed", stats.FramesProcessed, "purged", stats.FramesPurged)
}

// watchConfig hot-reloads p's purge cadence from confPath whenever it
// changes on disk (pipeline.Pipeline.Update's field set).
func watchConfig(confPath string, p *pipeline.Pipeline, log logging.Logger) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("could not start config watcher", "error", err)
		return
	}
	defer w.Close()

	if err := w.Add(confPath); err != nil {
		log.Error("could not watch config file", "path", confPath, "error", err)
		return
	}

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := reloadConfig(confPath, p); err != nil {
				log.Warning("config reload failed", "error", err)
				continue
			}
			log.Info("config reloaded", "path", confPath)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Error("config watcher error", "error", err)
		}
	}
}

// reloadConfig reads confPath as a JSON object of Variables keys to
// string values and applies it to p via Pipeline.Update.
func reloadConfig(confPath string, p *pipeline.Pipeline) error {
	b, err := os.ReadFile(confPath)
	if err != nil {
		return err
	}
	var vars map[string]string
	if err := json.Unmarshal(b, &vars); err != nil {
		return err
	}
	p.Update(vars)
	return nil
}

func openInput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

func openOutput(path string) (*os.File, error) {
	if path == "" {
		return os.Stdout, nil
	}
	return os.Create(path)
}
