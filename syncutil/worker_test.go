package syncutil

import (
	"errors"
	"testing"
	"time"
)

type countingWork struct {
	shell *Shell
	n     int
	limit int
}

func (w *countingWork) Work() error {
	w.shell.Lock()
	w.n++
	n := w.n
	w.shell.Unlock()
	if n >= w.limit {
		return errors.New("done")
	}
	return nil
}

func TestShellStopsOnWorkError(t *testing.T) {
	s := NewShell()
	w := &countingWork{shell: s, limit: 5}
	s.Start(w)
	select {
	case <-s.done:
	case <-time.After(time.Second):
		t.Fatal("shell did not stop after Work returned an error")
	}
	s.ForceShutdown(true)

	if w.n < 5 {
		t.Fatalf("expected Work to run at least 5 times, ran %d", w.n)
	}
	s.Lock()
	err := s.FinalStatus()
	s.Unlock()
	if err == nil {
		t.Fatalf("expected a final status error")
	}
}

type blockingWork struct {
	shell   *Shell
	entered chan struct{}
}

func (w *blockingWork) Work() error {
	w.shell.Lock()
	defer w.shell.Unlock()
	select {
	case w.entered <- struct{}{}:
	default:
	}
	if !w.shell.KeepRunning() {
		return errors.New("stopping")
	}
	w.shell.WaitForInput()
	return nil
}

func TestShellForceShutdownWakesWaiter(t *testing.T) {
	s := NewShell()
	w := &blockingWork{shell: s, entered: make(chan struct{}, 1)}
	s.Start(w)

	select {
	case <-w.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never entered Work")
	}

	done := make(chan struct{})
	go func() {
		s.ForceShutdown(true)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ForceShutdown did not return; waiter was not woken")
	}
}

func TestSignalInputWaitForInput(t *testing.T) {
	s := NewShell()
	woke := make(chan struct{})

	s.Lock()
	go func() {
		s.Lock()
		s.WaitForInput()
		s.Unlock()
		close(woke)
	}()
	s.Unlock()

	// Give the goroutine a chance to reach WaitForInput.
	time.Sleep(20 * time.Millisecond)

	s.Lock()
	s.SignalInput()
	s.Unlock()

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("SignalInput did not wake WaitForInput")
	}
}
