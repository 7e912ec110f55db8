package options

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrInvalid marks every configuration error. The entry point prints usage
// alongside it.
var ErrInvalid = errors.New("invalid configuration")

const (
	// EnvPrefix is prepended to flag names to form environment defaults,
	// e.g. CHARLOTTE_PROXY or CHARLOTTE_LOAD_STRATEGY.
	EnvPrefix = "CHARLOTTE"

	DefaultWebDriverURL = "http://127.0.0.1:4444"
	DefaultUserAgent    = "charlotte/1.0"
)

// Flags that may be defaulted from the environment.
var envKeys = []string{
	"driver",
	"headless",
	"load-strategy",
	"proxy",
	"timeout",
	"user-agent",
	"webdriver-url",
}

// Driver names a browser engine.
type Driver string

const (
	DriverChrome  Driver = "chrome"
	DriverEdge    Driver = "edge"
	DriverFirefox Driver = "firefox"
	DriverIE      Driver = "ie"
	DriverSafari  Driver = "safari"
)

// Drivers lists every supported engine in help order.
var Drivers = []Driver{DriverChrome, DriverEdge, DriverFirefox, DriverIE, DriverSafari}

// ParseDriver matches name case-insensitively against Drivers.
func ParseDriver(name string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(name)))
	for _, valid := range Drivers {
		if d == valid {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: invalid driver %q (valid drivers: %s)", ErrInvalid, name, joinDrivers())
}

func joinDrivers() string {
	names := make([]string, len(Drivers))
	for i, d := range Drivers {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// LoadStrategy decides when a browser considers navigation complete.
type LoadStrategy string

const (
	LoadNormal LoadStrategy = "normal" // wait for the load event
	LoadEager  LoadStrategy = "eager"  // wait for DOMContentLoaded
	LoadNone   LoadStrategy = "none"   // return as soon as navigation starts
)

// ParseLoadStrategy matches name case-insensitively.
func ParseLoadStrategy(name string) (LoadStrategy, error) {
	switch s := LoadStrategy(strings.ToLower(strings.TrimSpace(name))); s {
	case LoadNormal, LoadEager, LoadNone:
		return s, nil
	}
	return "", fmt.Errorf("%w: unknown page load strategy %q (valid: normal, eager, none)", ErrInvalid, name)
}

// Config is built once by Load and passed by value afterwards.
type Config struct {
	Verbose bool

	Files []string
	URL   string

	Driver       Driver // empty means plain HTTP
	LoadStrategy LoadStrategy
	Timeout      time.Duration
	HasTimeout   bool
	Headless     bool
	Proxy        string
	WebDriverURL string
	UserAgent    string

	Selector string
	XPath    string

	Attrs    []string
	Body     bool
	Text     bool
	Markdown bool
	Count    bool
}

// HasQuery reports whether a CSS selector or an XPath expression was given.
func (c Config) HasQuery() bool {
	return c.Selector != "" || c.XPath != ""
}

// Load reads the parsed flag set into a Config. Scalar browser and network
// settings fall back to CHARLOTTE_* environment variables when the flag was
// not given on the command line.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", key, err)
		}
	}

	var cfg Config
	var err error

	if cfg.Verbose, err = fs.GetBool("verbose"); err != nil {
		return Config{}, err
	}
	if cfg.URL, err = fs.GetString("url"); err != nil {
		return Config{}, err
	}
	if cfg.Selector, err = fs.GetString("selector"); err != nil {
		return Config{}, err
	}
	if cfg.XPath, err = fs.GetString("xpath"); err != nil {
		return Config{}, err
	}
	if cfg.Body, err = fs.GetBool("body"); err != nil {
		return Config{}, err
	}
	if cfg.Text, err = fs.GetBool("text"); err != nil {
		return Config{}, err
	}
	if cfg.Markdown, err = fs.GetBool("markdown"); err != nil {
		return Config{}, err
	}
	if cfg.Count, err = fs.GetBool("count"); err != nil {
		return Config{}, err
	}

	files, err := fs.GetStringArray("file")
	if err != nil {
		return Config{}, err
	}
	for _, f := range files {
		cfg.Files = append(cfg.Files, SplitList(f, ",:")...)
	}

	attrs, err := fs.GetStringSlice("attrs")
	if err != nil {
		return Config{}, err
	}
	for _, a := range attrs {
		cfg.Attrs = append(cfg.Attrs, SplitList(a, ",")...)
	}

	if name := v.GetString("driver"); name != "" {
		if cfg.Driver, err = ParseDriver(name); err != nil {
			return Config{}, err
		}
	}

	cfg.LoadStrategy = LoadNormal
	if name := v.GetString("load-strategy"); name != "" {
		if cfg.LoadStrategy, err = ParseLoadStrategy(name); err != nil {
			return Config{}, err
		}
	}

	if v.IsSet("timeout") {
		raw := strings.TrimSpace(v.GetString("timeout"))
		secs, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: timeout %q is not a whole number of seconds", ErrInvalid, raw)
		}
		if secs < 0 {
			return Config{}, fmt.Errorf("%w: timeout must be non-negative, got %d", ErrInvalid, secs)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
		cfg.HasTimeout = true
	}

	cfg.Headless = v.GetBool("headless")
	cfg.Proxy = v.GetString("proxy")
	cfg.WebDriverURL = v.GetString("webdriver-url")
	if cfg.WebDriverURL == "" {
		cfg.WebDriverURL = DefaultWebDriverURL
	}
	cfg.UserAgent = v.GetString("user-agent")
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks flag combinations that individual parsers cannot.
func (c Config) Validate() error {
	if c.LoadStrategy == LoadNone && !c.HasTimeout {
		return fmt.Errorf("%w: --load-strategy none requires --timeout", ErrInvalid)
	}
	if c.Text && c.Markdown {
		return fmt.Errorf("%w: --text and --markdown cannot be used together", ErrInvalid)
	}
	if c.Count && !c.HasQuery() {
		return fmt.Errorf("%w: --count requires --selector or --xpath", ErrInvalid)
	}
	return nil
}

// SplitList splits s on any of the separator characters, trimming blanks
// and dropping empty entries.
func SplitList(s, seps string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
