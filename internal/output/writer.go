package output

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// StartRowWriter spins up a writer goroutine consuming result rows. Close the
// returned channel when done and read the error channel for the outcome.
func StartRowWriter(out io.Writer, bufSize int) (chan<- Row, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan Row, bufSize)
	errCh := make(chan error, 1)

	go func() {
		var err error
		for r := range in {
			if err != nil {
				continue // drain
			}
			_, err = fmt.Fprintln(out, FormatRowTSV(r))
		}
		errCh <- err
	}()

	return in, errCh
}

// IsBrokenPipe reports whether an error is a broken pipe / closed pipe.
// Useful when downstream consumers (like `head`) close early.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}
