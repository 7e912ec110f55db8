package browser

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Opener starts a browser and returns a session ready to navigate.
type Opener func(ctx context.Context, cfg Config) (Session, error)

var registry = map[string]Opener{}

func Register(name string, open Opener) {
	registry[strings.ToLower(name)] = open
}

func Get(name string) (Opener, bool) {
	open, ok := registry[strings.ToLower(name)]
	return open, ok
}

// Names returns the registered engine names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open starts the engine named by cfg.Engine.
func Open(ctx context.Context, cfg Config) (Session, error) {
	open, ok := Get(cfg.Engine)
	if !ok {
		return nil, fmt.Errorf("unknown browser engine: %s", cfg.Engine)
	}
	return open(ctx, cfg)
}
