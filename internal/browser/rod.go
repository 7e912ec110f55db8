package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"charlotte/internal/options"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

func init() {
	Register(string(options.DriverChrome), openRod(chromeBin))
	Register(string(options.DriverEdge), openRod(edgeBin))
}

// Browser wraps a rod.Browser instance and the page it renders.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	cfg      Config
}

func openRod(bin func() (string, error)) Opener {
	return func(ctx context.Context, cfg Config) (Session, error) {
		path, err := bin()
		if err != nil {
			return nil, err
		}
		return newBrowser(ctx, cfg, path)
	}
}

func newBrowser(ctx context.Context, cfg Config, bin string) (*Browser, error) {
	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if bin != "" {
		l = l.Bin(bin)
	}
	if cfg.ProxyURL != "" {
		l = l.Proxy(cfg.ProxyURL)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Browser{
		browser:  browser,
		launcher: l,
		cfg:      cfg,
	}, nil
}

// Navigate opens a page and loads url according to the load strategy.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	b.page = page

	p := page.Context(ctx)
	if b.cfg.HasTimeout {
		p = p.Timeout(b.cfg.PageLoadTimeout)
	}

	switch b.cfg.LoadStrategy {
	case options.LoadEager:
		wait := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := p.Navigate(url); err != nil {
			return navigateError(err)
		}
		wait()
		if err := p.GetContext().Err(); err != nil {
			return navigateError(err)
		}
	case options.LoadNone:
		if err := p.Navigate(url); err != nil {
			return navigateError(err)
		}
	default:
		if err := p.Navigate(url); err != nil {
			return navigateError(err)
		}
		if err := p.WaitLoad(); err != nil {
			return navigateError(err)
		}
	}
	return nil
}

// PageSource returns the serialized document, doctype included.
func (b *Browser) PageSource(ctx context.Context) (string, error) {
	if b.page == nil {
		return "", errors.New("no page has been loaded")
	}
	result, err := b.page.Context(ctx).Eval(`() => {
		const doctype = document.doctype ? new XMLSerializer().serializeToString(document.doctype) + "\n" : "";
		return doctype + document.documentElement.outerHTML;
	}`)
	if err != nil {
		return "", fmt.Errorf("failed to get page source: %w", err)
	}
	return result.Value.Str(), nil
}

// Close closes the page and browser and kills the launched process.
func (b *Browser) Close() error {
	var errs []error
	if b.page != nil {
		if err := b.page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if b.launcher != nil {
		b.launcher.Kill()
	}
	return errors.Join(errs...)
}

func navigateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("failed to navigate: %w", err)
}

// chromeBin prefers an installed Chrome or Chromium; an empty path lets the
// launcher download one.
func chromeBin() (string, error) {
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", nil
}

var edgeNames = []string{
	"msedge",
	"microsoft-edge",
	"microsoft-edge-stable",
	"microsoft-edge-beta",
	"microsoft-edge-dev",
}

var edgePaths = []string{
	"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
	`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
	`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
	"/opt/microsoft/msedge/msedge",
}

// edgeBin locates Microsoft Edge. CHARLOTTE_EDGE_BIN overrides the search.
func edgeBin() (string, error) {
	if path := os.Getenv(options.EnvPrefix + "_EDGE_BIN"); path != "" {
		return path, nil
	}
	for _, name := range edgeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	for _, path := range edgePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("microsoft edge executable not found, set %s_EDGE_BIN", options.EnvPrefix)
}
