package host

import (
	"context"
	"errors"
)

var ErrMainStopped = errors.New("main thread loop stopped")

type funcRun struct {
	f    func()
	done chan bool
}

// MainThread runs functions on the goroutine that called Loop, which
// should be the locked main thread.
type MainThread struct {
	queue   chan funcRun
	stopped chan struct{}
}

func NewMainThread() *MainThread {
	return &MainThread{queue: make(chan funcRun), stopped: make(chan struct{})}
}

// Call runs f on the main thread and waits for it to return.
func (m *MainThread) Call(f func()) error {
	done := make(chan bool)
	select {
	case m.queue <- funcRun{f: f, done: done}:
	case <-m.stopped:
		return ErrMainStopped
	}
	<-done
	return nil
}

// Loop runs queued functions until ctx is done.
func (m *MainThread) Loop(ctx context.Context) error {
	defer close(m.stopped)
	for {
		select {
		case fr := <-m.queue:
			fr.f()
			fr.done <- true
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
