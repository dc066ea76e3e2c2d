/*
DESCRIPTION
  worker.go provides a reusable cooperative worker-thread shell: a
  goroutine that loops calling a caller-supplied Work method until told
  to stop or until Work returns a non-nil error, plus the input/output
  signal-wait pair every pool-backed stage needs (spec.md §4.2).

  This is the "basic worker" spec.md's inheritance-chain note (§9)
  describes; the frame pool, reader/writer stages and denoise workers
  each embed a Shell and provide their own Work().
*/

package syncutil

// Workable is implemented by anything that can be driven by a Shell.
// Work performs one unit of work and returns a terminal error (e.g.
// io.EOF) when there is nothing more to do.
type Workable interface {
	Work() error
}

// Drainer is optionally implemented by a Workable that must keep being
// driven past a ForceShutdown while it still has buffered work to flush
// (spec.md §4.5's writer drain requirement: keep_running ∨ valid_list ≠
// ∅). Shell's loop consults ShouldDrain whenever keepRunning has gone
// false, instead of exiting as soon as it sees the false state.
type Drainer interface {
	ShouldDrain() bool
}

// Shell runs a Workable's Work method in a loop on its own goroutine
// until ForceShutdown is called or Work returns an error, and supplies
// the signal/wait-for input/output pair that pool-backed stages use to
// block a producer on a full pool or a consumer on an empty one.
//
// Because each pool is single-producer/single-consumer, a single Signal
// per event is sufficient: every Wait is paired with a boolean
// predicate (waitingForInput/waitingForOutput) that the signaller
// clears before signalling, so a missed wakeup cannot occur even though
// sync.Cond itself makes no such guarantee.
type Shell struct {
	Mutex

	keepRunning bool
	started     bool
	done        chan struct{}
	finalErr    error
	work        Workable

	inputCond       *Cond
	waitingForInput bool

	outputCond       *Cond
	waitingForOutput bool
}

// NewShell returns a ready-to-use Shell.
func NewShell() *Shell {
	s := &Shell{}
	s.inputCond = NewCond(&s.Mutex)
	s.outputCond = NewCond(&s.Mutex)
	return s
}

// WaitForInput blocks until SignalInput is called. The caller must hold
// the Shell's mutex.
func (s *Shell) WaitForInput() {
	s.waitingForInput = true
	for s.waitingForInput {
		s.inputCond.Wait()
	}
}

// SignalInput clears the waiting-for-input predicate and wakes the
// input waiter, if any. The caller must hold the Shell's mutex.
func (s *Shell) SignalInput() {
	s.waitingForInput = false
	s.inputCond.Signal()
}

// WaitForOutput blocks until SignalOutput is called. The caller must
// hold the Shell's mutex.
func (s *Shell) WaitForOutput() {
	s.waitingForOutput = true
	for s.waitingForOutput {
		s.outputCond.Wait()
	}
}

// SignalOutput clears the waiting-for-output predicate and wakes the
// output waiter, if any. The caller must hold the Shell's mutex.
func (s *Shell) SignalOutput() {
	s.waitingForOutput = false
	s.outputCond.Signal()
}

// Start begins running w's Work method on a new goroutine. Start is a
// no-op if the shell has already been started.
func (s *Shell) Start(w Workable) {
	s.Lock()
	defer s.Unlock()
	if s.started {
		return
	}
	s.work = w
	s.keepRunning = true
	s.started = true
	s.done = make(chan struct{})
	go s.loop()
}

// KeepRunning reports whether the shell has not yet been asked to stop.
// Work implementations call this between blocking steps, while already
// holding the Shell's mutex, to decide whether to keep waiting or to
// treat a shutdown request as a terminal condition.
func (s *Shell) KeepRunning() bool {
	s.MustBeLocked()
	return s.keepRunning
}

func (s *Shell) loop() {
	defer close(s.done)
	for {
		s.Lock()
		keep := s.keepRunning
		s.Unlock()
		if !keep {
			d, ok := s.work.(Drainer)
			if !ok || !d.ShouldDrain() {
				return
			}
		}
		err := s.work.Work()
		if err != nil {
			s.Lock()
			s.keepRunning = false
			s.finalErr = err
			s.SignalInput()
			s.SignalOutput()
			s.Unlock()
			return
		}
	}
}

// ForceShutdown sets keepRunning false, wakes any input/output waiter so
// a paired client is released instead of blocking forever, then (if
// join is true and the shell was started) blocks until the worker
// goroutine has actually exited.
func (s *Shell) ForceShutdown(join bool) {
	s.Lock()
	wasStarted := s.started
	s.keepRunning = false
	s.SignalInput()
	s.SignalOutput()
	s.Unlock()
	if join && wasStarted {
		<-s.done
	}
}

// FinalStatus returns the last recorded status: the error that ended
// the loop, or the value last passed to SetFinalStatus or
// SetFinalStatusLocked; nil if none has been recorded. The caller must
// hold the Shell's mutex.
func (s *Shell) FinalStatus() error {
	s.MustBeLocked()
	return s.finalErr
}

// SetFinalStatus records a terminal status and stops the shell, without
// going through the loop's own error path, for code that runs Work
// synchronously (RunOnce) instead of via a Shell goroutine and then
// needs to publish a terminal condition. It acquires the Shell's mutex
// itself.
func (s *Shell) SetFinalStatus(err error) {
	s.Lock()
	s.finalErr = err
	s.keepRunning = false
	s.Unlock()
}

// SetFinalStatusLocked records the last operation's status without
// affecting keepRunning. Used by workers (e.g. denoiseworker.Worker)
// that report a per-job result on every cycle rather than a one-shot
// terminal condition. The caller must hold the Shell's mutex.
func (s *Shell) SetFinalStatusLocked(err error) {
	s.MustBeLocked()
	s.finalErr = err
}

// Started reports whether Start has been called. The caller must hold
// the Shell's mutex.
func (s *Shell) Started() bool {
	s.MustBeLocked()
	return s.started
}

// RunOnce is a convenience used by callers (e.g. the pipeline facade)
// that want to run a Workable's Work synchronously on the calling
// goroutine instead of spawning a Shell — used when a thread-bit is
// clear and a stage should execute in-line.
func RunOnce(w Workable) error {
	return w.Work()
}
