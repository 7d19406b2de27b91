// internal/launcher/launcher.go
package launcher

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"idr/internal/logsink"
)

// ErrUnsupportedRuntime is returned when the running toolchain predates the
// oldest release idr supports. The gate runs before anything else, so a
// too-old runtime never reaches the application entry point.
var ErrUnsupportedRuntime = errors.New("unsupported runtime")

// Oldest supported Go release.
const (
	minMajor = 1
	minMinor = 21
)

// Launcher is the outermost control flow of the process: it gates on the
// runtime version, hands off to the application entry point, echoes the
// original invocation to stdout when that entry point fails, and guarantees
// the process-wide log sink is released exactly once on every exit path.
type Launcher struct {
	// Args is the full invocation record, program name included.
	Args   []string
	Stdout io.Writer
	Stderr io.Writer
	// Sink is the process-wide log stream; closed on exit unless it is
	// (still) the stderr stream, which this code never owns.
	Sink *logsink.Sink
	// RuntimeVersion overrides runtime.Version, for tests.
	RuntimeVersion func() string
}

// Run executes delegate behind the version gate. The delegate's error is
// returned unchanged; the only interventions are the one-line invocation
// echo on failure and the log sink release. A failure while releasing the
// sink is reported to stderr but never masks the original error.
func (l *Launcher) Run(delegate func() error) (err error) {
	defer func() {
		if l.Sink == nil {
			return
		}
		if cerr := l.Sink.Close(); cerr != nil {
			_, _ = fmt.Fprintf(l.Stderr, "idr: closing log output: %v\n", cerr)
		}
	}()

	probe := l.RuntimeVersion
	if probe == nil {
		probe = runtime.Version
	}
	if ver := probe(); !supported(ver) {
		return fmt.Errorf("%w: idr requires go%d.%d or newer (running %s)",
			ErrUnsupportedRuntime, minMajor, minMinor, ver)
	}

	if err = delegate(); err != nil {
		_, _ = fmt.Fprintln(l.Stdout, strings.Join(l.Args, " "))
	}
	return err
}

// supported reports whether a runtime.Version string meets the minimum
// release. Unparseable strings (devel builds, gccgo) are let through; the
// gate only rejects what it can positively identify as too old.
func supported(ver string) bool {
	major, minor, ok := parseGoVersion(ver)
	if !ok {
		return true
	}
	if major != minMajor {
		return major > minMajor
	}
	return minor >= minMinor
}

func parseGoVersion(ver string) (major, minor int, ok bool) {
	s, found := strings.CutPrefix(ver, "go")
	if !found {
		return 0, 0, false
	}
	parts := strings.SplitN(s, ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}
