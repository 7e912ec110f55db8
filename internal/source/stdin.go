package source

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// StdinTimeout bounds how long Resolve waits for piped input.
const StdinTimeout = 100 * time.Millisecond

// StdinProbe returns the data waiting on standard input, or nil when none
// arrives within timeout. Running out of time is not an error.
type StdinProbe func(timeout time.Duration) ([]byte, error)

// NewStdinProbe probes r. Files are polled so that an idle terminal or an
// open pipe nobody writes to does not block; any other reader is read in
// full.
func NewStdinProbe(r io.Reader) StdinProbe {
	if r == nil {
		return nil
	}
	f, ok := r.(*os.File)
	if !ok {
		return func(time.Duration) ([]byte, error) {
			return io.ReadAll(r)
		}
	}
	return func(timeout time.Duration) ([]byte, error) {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return nil, nil
		}
		return probeFile(f, timeout)
	}
}
