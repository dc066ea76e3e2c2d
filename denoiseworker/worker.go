/*
DESCRIPTION
  worker.go implements the per-plane denoise worker (spec.md §4.6): a
  3-state machine (WaitingForFrame/GivenFrame/FinishedFrame) that waits
  for a staged input frame, invokes the denoiser engine, and publishes
  the resulting reference frame and status.

  Grounded on e7canasta-orion-care-sensor's
  modules/framesupplier/internal/worker_slot.go: the same
  mutex+sync.Cond mailbox shape (publish overwrites/sets state, signal
  wakes the single waiter), generalised from a nil/non-nil single slot
  to the explicit 3-state machine spec.md requires.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package denoiseworker implements the per-plane-group denoise worker
// that the pipeline facade either runs on its own goroutine (chroma,
// when thread-bit 1 is set) or calls synchronously in-line (luma,
// always; chroma, when thread-bit 1 is clear).
package denoiseworker

import (
	"github.com/pkg/errors"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/y4mdenoise/engine"
	"github.com/ausocean/y4mdenoise/syncutil"
)

// Status is the worker's 3-state machine (spec.md §3, §4.6).
type Status int

const (
	WaitingForFrame Status = iota
	GivenFrame
	FinishedFrame
)

// job is a staged input plane awaiting submission to the engine.
type job struct {
	staging interface{}
}

// Worker drives one engine.Denoiser on behalf of one plane group.
type Worker struct {
	*syncutil.Shell

	eng    engine.Denoiser
	log    logging.Logger
	status Status
	job    *job
	ready  engine.ReferenceFrame
	flush  bool
	purge  bool
}

// New returns a Worker driving eng.
func New(eng engine.Denoiser, log logging.Logger) *Worker {
	return &Worker{Shell: syncutil.NewShell(), eng: eng, log: log}
}

// Start runs the worker's loop on its own goroutine (thread-bit 1 set
// for the chroma plane). Luma always runs synchronously via RunSync.
func (w *Worker) Start() {
	w.Shell.Start(w)
}

// ForceShutdown stops the worker goroutine, if running.
func (w *Worker) ForceShutdown(join bool) {
	w.Shell.ForceShutdown(join)
}

// AddFrame submits one staged frame (spec.md §4.6 client submit). flush
// indicates an end-of-input drain request (staging is ignored in that
// case): the worker calls RemainingFrames instead of AddFrame+FrameReady.
// purge requests a Purge call on the engine before it does anything
// else this cycle (spec.md §4.7 purge cadence) — the facade, not the
// worker, decides cadence, but the engine may only be touched from its
// assigned thread, so the purge travels with the job.
func (w *Worker) AddFrame(staging interface{}, flush, purge bool) {
	w.Lock()
	defer w.Unlock()
	if w.status != WaitingForFrame {
		panic("denoiseworker: AddFrame called while a frame is already outstanding")
	}
	w.job = &job{staging: staging}
	w.flush = flush
	w.purge = purge
	w.status = GivenFrame
	w.SignalInput()
}

// WaitForAddFrame blocks until the submitted frame has been processed,
// then returns the resulting reference frame (nil if none was ready)
// and the engine error, if any (spec.md §4.6 client wait).
func (w *Worker) WaitForAddFrame() (engine.ReferenceFrame, error) {
	w.Lock()
	defer w.Unlock()
	if w.status == WaitingForFrame {
		panic("denoiseworker: WaitForAddFrame called with no frame outstanding")
	}
	if w.status != FinishedFrame {
		w.WaitForOutput()
	}
	ref := w.ready
	err := w.FinalStatus()
	w.ready = nil
	w.job = nil
	w.status = WaitingForFrame
	return ref, err
}

// RunSync performs one AddFrame+Work+WaitForAddFrame cycle
// synchronously on the calling goroutine, bypassing the worker loop
// entirely — used for the luma plane, which the facade always runs in
// the caller thread, and for chroma when thread-bit 1 is clear.
func (w *Worker) RunSync(staging interface{}, flush, purge bool) (engine.ReferenceFrame, error) {
	w.AddFrame(staging, flush, purge)
	syncutil.RunOnce(w)
	return w.WaitForAddFrame()
}

// Work implements syncutil.Workable (spec.md §4.6 worker loop): while
// keepRunning, wait for a GivenFrame job, invoke the engine, publish
// FinishedFrame.
func (w *Worker) Work() error {
	w.Lock()
	if w.status != GivenFrame {
		if !w.KeepRunning() {
			w.Unlock()
			return nil
		}
		w.WaitForInput()
	}
	if w.status != GivenFrame {
		w.Unlock()
		return nil
	}
	j := w.job
	flush := w.flush
	purge := w.purge
	w.Unlock()

	if purge {
		w.eng.Purge()
	}

	var ref engine.ReferenceFrame
	var err error
	if flush {
		ref = w.eng.RemainingFrames()
	} else {
		// Fetch the result of the previously staged frame before
		// submitting this one (spec.md §4.7: one frame of engine
		// latency between AddFrame and FrameReady).
		ref = w.eng.FrameReady()
		if addErr := w.eng.AddFrame(j.staging); addErr != nil {
			err = errors.Wrap(addErr, "denoiseworker: engine AddFrame failed")
			ref = nil
		}
	}

	w.Lock()
	w.SetReadyAndFinish(ref, err)
	w.Unlock()
	return nil
}

// SetReadyAndFinish records the engine's result and transitions to
// FinishedFrame, signalling the output waiter. The caller must hold the
// Worker's mutex.
func (w *Worker) SetReadyAndFinish(ref engine.ReferenceFrame, err error) {
	w.MustBeLocked()
	w.ready = ref
	w.SetFinalStatusLocked(err)
	w.status = FinishedFrame
	w.SignalOutput()
}
