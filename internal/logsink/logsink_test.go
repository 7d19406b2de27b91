package logsink

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type fakeStream struct {
	bytes.Buffer
	closes int
	fail   error
}

func (f *fakeStream) Close() error {
	f.closes++
	return f.fail
}

func TestDefaultIdentityIsStderr(t *testing.T) {
	var stderr bytes.Buffer
	s := New(&stderr)
	if s.Current() != &stderr {
		t.Fatalf("Current should return the stderr writer")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("closing an unredirected sink: %v", err)
	}
}

func TestCloseOnce(t *testing.T) {
	var stderr bytes.Buffer
	f := &fakeStream{}
	s := New(&stderr)
	s.Set(f)
	if s.Current() != io.Writer(f) {
		t.Fatalf("redirected sink should expose the new stream")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if f.closes != 1 {
		t.Fatalf("stream closed %d times, want 1", f.closes)
	}
}

func TestCloseErrorSurfaced(t *testing.T) {
	var stderr bytes.Buffer
	want := errors.New("disk full")
	f := &fakeStream{fail: want}
	s := New(&stderr)
	s.Set(f)
	if err := s.Close(); !errors.Is(err, want) {
		t.Fatalf("close err = %v, want %v", err, want)
	}
}
