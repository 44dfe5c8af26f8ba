package zephpost

import (
	"sync"
	"sync/atomic"
)

const (
	signalPending int32 = iota
	signalOpen
	signalClosed
)

// Signal is the server's accept/shutdown flag. It starts closed (pending),
// is opened once when serving begins and, once closed, never reopens.
// All methods are safe for concurrent use.
type Signal struct {
	state     atomic.Int32
	closeOnce sync.Once
	initOnce  sync.Once
	done      chan struct{}
}

// NewSignal returns a pending signal.
func NewSignal() *Signal {
	s := &Signal{}
	s.doneChan()
	return s
}

func (s *Signal) doneChan() chan struct{} {
	s.initOnce.Do(func() { s.done = make(chan struct{}) })
	return s.done
}

// Open marks the signal open. It reports false if the signal was already
// closed.
func (s *Signal) Open() bool {
	if s.state.CompareAndSwap(signalPending, signalOpen) {
		return true
	}
	return s.state.Load() == signalOpen
}

// Close marks the signal closed and wakes everything waiting on Done.
func (s *Signal) Close() {
	s.state.Store(signalClosed)
	done := s.doneChan()
	s.closeOnce.Do(func() { close(done) })
}

// Closed reports whether new work must be refused.
// A pending signal counts as closed.
func (s *Signal) Closed() bool {
	return s.state.Load() != signalOpen
}

// Done returns a channel that is closed by Close.
func (s *Signal) Done() <-chan struct{} {
	return s.doneChan()
}
