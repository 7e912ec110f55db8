package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charlotte/internal/browser"
	"charlotte/internal/options"

	"go.uber.org/zap"
)

// Renderer loads pages in a real browser and returns the rendered markup.
type Renderer struct {
	open   browser.Opener
	sleep  func(ctx context.Context, d time.Duration) error
	logger *zap.Logger
}

// NewRenderer creates a Renderer backed by the browser engine registry.
func NewRenderer(logger *zap.Logger) *Renderer {
	return &Renderer{
		open:   browser.Open,
		sleep:  sleepContext,
		logger: logger,
	}
}

// Render opens a browser session, navigates to url and returns the page
// source. The session is always closed before Render returns.
func (r *Renderer) Render(ctx context.Context, url string, cfg browser.Config) (string, error) {
	session, err := r.open(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("%w: starting %s: %w", ErrFetch, cfg.Engine, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			r.logger.Warn("failed to close browser", zap.String("driver", cfg.Engine), zap.Error(err))
		}
	}()

	startTime := time.Now()
	if err := session.Navigate(ctx, url); err != nil {
		return "", renderError(err)
	}

	// With no load strategy the browser returns before the page is ready,
	// so the timeout doubles as a fixed wait.
	if cfg.LoadStrategy == options.LoadNone {
		r.logger.Info("waiting for page", zap.Duration("wait", cfg.PageLoadTimeout))
		if err := r.sleep(ctx, cfg.PageLoadTimeout); err != nil {
			return "", err
		}
	}

	src, err := session.PageSource(ctx)
	if err != nil {
		return "", renderError(err)
	}
	r.logger.Info("rendered page",
		zap.String("url", url),
		zap.Duration("load_time", time.Since(startTime)),
		zap.Int("bytes", len(src)),
	)
	return src, nil
}

func renderError(err error) error {
	if errors.Is(err, browser.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrFetch, err)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
