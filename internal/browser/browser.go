package browser

import (
	"context"
	"errors"
	"time"

	"charlotte/internal/options"
)

// ErrTimeout is returned when navigation does not finish within the page
// load timeout.
var ErrTimeout = errors.New("page load timed out")

// Config describes the browser to start and how it should load pages.
type Config struct {
	Engine       string
	Headless     bool
	ProxyURL     string
	LoadStrategy options.LoadStrategy
	// PageLoadTimeout only applies when HasTimeout is set; zero then means
	// an already expired deadline.
	PageLoadTimeout time.Duration
	HasTimeout      bool
	// WebDriverURL is the server used by WebDriver engines.
	WebDriverURL string
}

// ConfigFrom derives the browser settings from the command-line configuration.
func ConfigFrom(cfg options.Config) Config {
	return Config{
		Engine:          string(cfg.Driver),
		Headless:        cfg.Headless,
		ProxyURL:        cfg.Proxy,
		LoadStrategy:    cfg.LoadStrategy,
		PageLoadTimeout: cfg.Timeout,
		HasTimeout:      cfg.HasTimeout,
		WebDriverURL:    cfg.WebDriverURL,
	}
}

// Session is a running browser. Close must be called on every path once
// the session was opened.
type Session interface {
	// Navigate loads url and returns once the configured load strategy is
	// satisfied.
	Navigate(ctx context.Context, url string) error
	// PageSource returns the current document markup.
	PageSource(ctx context.Context) (string, error)
	Close() error
}
