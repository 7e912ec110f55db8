package browser

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"charlotte/internal/options"

	"github.com/tebeka/selenium"
)

func TestNames_AllDriversRegistered(t *testing.T) {
	want := make([]string, 0, len(options.Drivers))
	for _, d := range options.Drivers {
		want = append(want, string(d))
	}
	got := Names()
	for _, name := range want {
		if _, ok := Get(name); !ok {
			t.Errorf("driver %q is not registered (have %v)", name, got)
		}
	}
	if len(got) != len(want) {
		t.Errorf("Names() = %v, want exactly %v", got, want)
	}
}

func TestGet_CaseInsensitive(t *testing.T) {
	if _, ok := Get("FireFox"); !ok {
		t.Fatal("Get(FireFox) not found")
	}
}

func TestOpen_UnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), Config{Engine: "netscape"})
	if err == nil || !strings.Contains(err.Error(), "unknown browser engine") {
		t.Fatalf("err = %v", err)
	}
}

func TestConfigFrom(t *testing.T) {
	got := ConfigFrom(options.Config{
		Driver:       options.DriverSafari,
		Headless:     true,
		Proxy:        "proxy:8080",
		LoadStrategy: options.LoadEager,
		Timeout:      9 * time.Second,
		HasTimeout:   true,
		WebDriverURL: "http://localhost:9515",
	})
	want := Config{
		Engine:          "safari",
		Headless:        true,
		ProxyURL:        "proxy:8080",
		LoadStrategy:    options.LoadEager,
		PageLoadTimeout: 9 * time.Second,
		HasTimeout:      true,
		WebDriverURL:    "http://localhost:9515",
	}
	if got != want {
		t.Fatalf("ConfigFrom = %+v, want %+v", got, want)
	}
}

func TestCapabilities(t *testing.T) {
	caps, err := capabilities("firefox", Config{
		Headless:     true,
		ProxyURL:     "proxy:3128",
		LoadStrategy: options.LoadNone,
	})
	if err != nil {
		t.Fatalf("capabilities: %v", err)
	}
	if caps["browserName"] != "firefox" {
		t.Errorf("browserName = %v", caps["browserName"])
	}
	if caps["pageLoadStrategy"] != "none" {
		t.Errorf("pageLoadStrategy = %v", caps["pageLoadStrategy"])
	}
	proxy, ok := caps["proxy"].(selenium.Proxy)
	if !ok {
		t.Fatalf("proxy capability = %#v", caps["proxy"])
	}
	if proxy.Type != selenium.Manual || proxy.HTTP != "proxy:3128" || proxy.SSL != "proxy:3128" {
		t.Errorf("proxy = %+v", proxy)
	}
	if _, ok := caps["moz:firefoxOptions"]; !ok {
		t.Errorf("headless firefox options missing: %v", caps)
	}
}

func TestCapabilities_HeadlessUnsupported(t *testing.T) {
	for _, name := range []string{"safari", "internet explorer"} {
		if _, err := capabilities(name, Config{Headless: true}); err == nil {
			t.Errorf("capabilities(%s, headless) succeeded", name)
		}
	}
	caps, err := capabilities("safari", Config{})
	if err != nil {
		t.Fatalf("capabilities(safari): %v", err)
	}
	if !reflect.DeepEqual(caps, selenium.Capabilities{"browserName": "safari"}) {
		t.Fatalf("caps = %v", caps)
	}
}
