package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrFetch covers DNS, connection and HTTP status failures.
	ErrFetch = errors.New("fetch failed")
	// ErrTimeout is returned once the configured deadline has passed.
	ErrTimeout = errors.New("timed out")
)

// HTTPFetcher downloads documents without a browser.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	limited   bool
}

// NewHTTPFetcher creates a fetcher with no deadline. A nil client means
// http.DefaultClient.
func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: userAgent,
	}
}

// WithTimeout returns a copy of f that gives up after d. A zero d expires
// immediately.
func (f *HTTPFetcher) WithTimeout(d time.Duration) *HTTPFetcher {
	clone := *f
	clone.timeout = d
	clone.limited = true
	return &clone
}

// Fetch retrieves the body of url. Gzip responses are decompressed.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if f.limited {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrFetch, resp.StatusCode, url)
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" || strings.HasSuffix(url, ".gz") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: decompressing gzip response from %s: %w", ErrFetch, url, err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}
