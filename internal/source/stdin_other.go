//go:build !unix

package source

import (
	"io"
	"os"
	"time"
)

type readResult struct {
	data []byte
	err  error
}

// probeFile has no poll primitive to rely on here, so the read runs in the
// background and is abandoned once the timeout passes.
func probeFile(f *os.File, timeout time.Duration) ([]byte, error) {
	done := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(f)
		done <- readResult{data: data, err: err}
	}()

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case res := <-done:
		return res.data, res.err
	case <-t.C:
		return nil, nil
	}
}
