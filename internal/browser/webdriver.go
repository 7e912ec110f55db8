package browser

import (
	"context"
	"errors"
	"fmt"

	"charlotte/internal/options"

	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/firefox"
)

func init() {
	Register(string(options.DriverFirefox), openWebDriver("firefox"))
	Register(string(options.DriverIE), openWebDriver("internet explorer"))
	Register(string(options.DriverSafari), openWebDriver("safari"))
}

// WebDriver drives a browser through a W3C WebDriver server such as
// geckodriver, IEDriverServer or safaridriver.
type WebDriver struct {
	wd selenium.WebDriver
}

func openWebDriver(browserName string) Opener {
	return func(ctx context.Context, cfg Config) (Session, error) {
		caps, err := capabilities(browserName, cfg)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		wd, err := selenium.NewRemote(caps, cfg.WebDriverURL)
		if err != nil {
			return nil, fmt.Errorf("failed to start %s session at %s: %w", browserName, cfg.WebDriverURL, err)
		}

		if cfg.HasTimeout {
			if err := wd.SetPageLoadTimeout(cfg.PageLoadTimeout); err != nil {
				_ = wd.Quit()
				return nil, fmt.Errorf("failed to set page load timeout: %w", err)
			}
		}
		return &WebDriver{wd: wd}, nil
	}
}

func capabilities(browserName string, cfg Config) (selenium.Capabilities, error) {
	caps := selenium.Capabilities{"browserName": browserName}
	if cfg.LoadStrategy != "" {
		caps["pageLoadStrategy"] = string(cfg.LoadStrategy)
	}
	if cfg.ProxyURL != "" {
		caps.AddProxy(selenium.Proxy{
			Type: selenium.Manual,
			HTTP: cfg.ProxyURL,
			SSL:  cfg.ProxyURL,
		})
	}
	if cfg.Headless {
		if browserName != "firefox" {
			return nil, fmt.Errorf("%s does not support headless mode", browserName)
		}
		caps.AddFirefox(firefox.Capabilities{Args: []string{"-headless"}})
	}
	return caps, nil
}

// Navigate loads url. The server applies the load strategy.
func (w *WebDriver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.wd.Get(url); err != nil {
		var serr *selenium.Error
		if errors.As(err, &serr) && serr.Err == "timeout" {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("failed to navigate: %w", err)
	}
	return nil
}

func (w *WebDriver) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := w.wd.PageSource()
	if err != nil {
		return "", fmt.Errorf("failed to get page source: %w", err)
	}
	return src, nil
}

// Close ends the WebDriver session, which quits the browser.
func (w *WebDriver) Close() error {
	return w.wd.Quit()
}
