package host

import (
	"io"
	"sync"
)

// Streams holds a session's two output targets. A capture swaps itself in
// as both targets and restores the displaced pair when it stops; Swap is
// the atomic snapshot-and-install primitive that keeps the save/restore
// pair race-free under concurrent writers.
type Streams struct {
	mu  sync.RWMutex
	out io.Writer
	err io.Writer
}

// NewStreams creates a Streams with the given initial targets. Nil targets
// default to io.Discard.
func NewStreams(out, err io.Writer) *Streams {
	if out == nil {
		out = io.Discard
	}
	if err == nil {
		err = io.Discard
	}
	return &Streams{out: out, err: err}
}

// Stdout returns the currently installed primary target.
func (s *Streams) Stdout() io.Writer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.out
}

// Stderr returns the currently installed secondary target.
func (s *Streams) Stderr() io.Writer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Swap installs out and err as the session targets and returns the pair
// they displaced. Nil arguments install io.Discard.
func (s *Streams) Swap(out, err io.Writer) (io.Writer, io.Writer) {
	if out == nil {
		out = io.Discard
	}
	if err == nil {
		err = io.Discard
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prevOut, prevErr := s.out, s.err
	s.out, s.err = out, err
	return prevOut, prevErr
}

// Out returns a stable handle that writes through to whichever primary
// target is installed at write time. Printers hold this handle so their
// output follows any redirection in effect when they write.
func (s *Streams) Out() io.Writer {
	return outView{s}
}

// ErrOut returns the secondary counterpart of Out.
func (s *Streams) ErrOut() io.Writer {
	return errView{s}
}

type outView struct{ s *Streams }

func (v outView) Write(p []byte) (int, error) {
	return v.s.Stdout().Write(p)
}

type errView struct{ s *Streams }

func (v errView) Write(p []byte) (int, error) {
	return v.s.Stderr().Write(p)
}
