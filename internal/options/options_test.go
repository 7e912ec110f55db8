package options

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func load(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("charlotte", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return Load(fs)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(t)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Driver != "" {
		t.Errorf("Driver = %q, want empty", cfg.Driver)
	}
	if cfg.LoadStrategy != LoadNormal {
		t.Errorf("LoadStrategy = %q, want %q", cfg.LoadStrategy, LoadNormal)
	}
	if cfg.HasTimeout {
		t.Errorf("HasTimeout = true without --timeout")
	}
	if cfg.WebDriverURL != DefaultWebDriverURL {
		t.Errorf("WebDriverURL = %q", cfg.WebDriverURL)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.HasQuery() {
		t.Errorf("HasQuery = true without selector or xpath")
	}
}

func TestLoad_ParsesFlags(t *testing.T) {
	cfg, err := load(t,
		"-v",
		"--file", "a.html,b.html",
		"-f", "c.html:d.html",
		"--url", "http://example.com",
		"--driver", "FireFox",
		"--headless",
		"--load-strategy", "EAGER",
		"--timeout", "7",
		"--proxy", "127.0.0.1:8080",
		"--selector", "p a",
		"--xpath", "//a",
		"--attrs", "href,title",
		"-a", "rel",
		"--body",
		"--text",
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Config{
		Verbose:      true,
		Files:        []string{"a.html", "b.html", "c.html", "d.html"},
		URL:          "http://example.com",
		Driver:       DriverFirefox,
		LoadStrategy: LoadEager,
		Timeout:      7 * time.Second,
		HasTimeout:   true,
		Headless:     true,
		Proxy:        "127.0.0.1:8080",
		WebDriverURL: DefaultWebDriverURL,
		UserAgent:    DefaultUserAgent,
		Selector:     "p a",
		XPath:        "//a",
		Attrs:        []string{"href", "title", "rel"},
		Body:         true,
		Text:         true,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Fatalf("config mismatch\n got: %+v\nwant: %+v", cfg, want)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{"unknown driver", []string{"--driver", "netscape"}, "invalid driver"},
		{"unknown load strategy", []string{"--load-strategy", "lazy", "--timeout", "1"}, "unknown page load strategy"},
		{"none without timeout", []string{"--driver", "firefox", "--load-strategy", "none"}, "requires --timeout"},
		{"none without driver or timeout", []string{"-l", "none"}, "requires --timeout"},
		{"negative timeout", []string{"--timeout", "-3"}, "non-negative"},
		{"text and markdown", []string{"-s", "p", "--text", "--markdown"}, "cannot be used together"},
		{"count without query", []string{"--count"}, "requires --selector or --xpath"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.args...)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("err = %q, want it to mention %q", err, tt.msg)
			}
		})
	}
}

func TestLoad_NoneWithTimeout(t *testing.T) {
	cfg, err := load(t, "--driver", "chrome", "--load-strategy", "none", "--timeout", "0")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.HasTimeout || cfg.Timeout != 0 {
		t.Fatalf("timeout = %v (set=%v), want 0 (set)", cfg.Timeout, cfg.HasTimeout)
	}
	if cfg.LoadStrategy != LoadNone {
		t.Fatalf("LoadStrategy = %q", cfg.LoadStrategy)
	}
}

func TestLoad_EnvironmentDefaults(t *testing.T) {
	t.Setenv("CHARLOTTE_PROXY", "10.0.0.1:3128")
	t.Setenv("CHARLOTTE_DRIVER", "Edge")
	t.Setenv("CHARLOTTE_TIMEOUT", "12")
	t.Setenv("CHARLOTTE_WEBDRIVER_URL", "http://grid:4444/wd/hub")

	cfg, err := load(t, "--proxy", "flag-wins:1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Proxy != "flag-wins:1" {
		t.Errorf("Proxy = %q, want command line value", cfg.Proxy)
	}
	if cfg.Driver != DriverEdge {
		t.Errorf("Driver = %q, want edge", cfg.Driver)
	}
	if !cfg.HasTimeout || cfg.Timeout != 12*time.Second {
		t.Errorf("Timeout = %v (set=%v), want 12s", cfg.Timeout, cfg.HasTimeout)
	}
	if cfg.WebDriverURL != "http://grid:4444/wd/hub" {
		t.Errorf("WebDriverURL = %q", cfg.WebDriverURL)
	}
}

func TestLoad_EnvironmentInvalid(t *testing.T) {
	t.Setenv("CHARLOTTE_DRIVER", "bogus")
	if _, err := load(t); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}

	t.Setenv("CHARLOTTE_DRIVER", "")
	t.Setenv("CHARLOTTE_TIMEOUT", "soon")
	if _, err := load(t); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestParseDriver(t *testing.T) {
	for _, name := range []string{"chrome", "EDGE", " Firefox ", "ie", "Safari"} {
		if _, err := ParseDriver(name); err != nil {
			t.Errorf("ParseDriver(%q): %v", name, err)
		}
	}
	if _, err := ParseDriver("opera"); !errors.Is(err, ErrInvalid) {
		t.Errorf("ParseDriver(opera) err = %v", err)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		seps string
		want []string
	}{
		{"a,b", ",:", []string{"a", "b"}},
		{"a:b,c", ",:", []string{"a", "b", "c"}},
		{" a , ,b ", ",", []string{"a", "b"}},
		{"", ",", []string{}},
	}
	for _, tt := range tests {
		if got := SplitList(tt.in, tt.seps); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitList(%q, %q) = %q, want %q", tt.in, tt.seps, got, tt.want)
		}
	}
}
