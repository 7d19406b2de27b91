// internal/logsink/logsink.go
package logsink

import (
	"io"
	"sync"
)

// Sink is the process-wide log output stream. It starts out pointing at
// stderr (borrowed from the process, never closed here) and may be redirected
// to a caller-owned stream such as a log file. Whoever tears the process down
// calls Close exactly once; closing is a no-op while the sink still points at
// stderr or was never redirected.
type Sink struct {
	mu     sync.Mutex
	stderr io.Writer
	w      io.WriteCloser
	closed bool
}

// New returns a Sink whose default identity is stderr.
func New(stderr io.Writer) *Sink {
	return &Sink{stderr: stderr}
}

// Set redirects the sink to w. Passing the stderr writer itself restores the
// default identity.
func (s *Sink) Set(w io.WriteCloser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

// Current returns the active log writer.
func (s *Sink) Current() io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isStderr() {
		return s.stderr
	}
	return s.w
}

// isStderr reports whether the sink currently is the stderr stream.
// Callers hold s.mu.
func (s *Sink) isStderr() bool {
	return s.w == nil || io.Writer(s.w) == s.stderr
}

// Close releases the redirected stream, once. Stderr identity and the
// never-redirected default are both left alone, and repeat calls return nil.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.isStderr() {
		return nil
	}
	s.closed = true
	return s.w.Close()
}
