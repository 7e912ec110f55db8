//go:build unix

package source

import (
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

func probeFile(f *os.File, timeout time.Duration) ([]byte, error) {
	fds := []unix.PollFd{{Fd: int32(f.Fd()), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(timeout.Milliseconds()))
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if n == 0 || fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
			return nil, nil
		}
		return io.ReadAll(f)
	}
}
