package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"charlotte/internal/browser"
	"charlotte/internal/fetcher"
	"charlotte/internal/options"

	"go.uber.org/zap"
)

var (
	// ErrNothingToDo means no URL, file or stdin data produced a document.
	// It is not a failure.
	ErrNothingToDo  = errors.New("nothing to do")
	ErrFileNotFound = errors.New("file not found")
)

// Kind records where a Document came from.
type Kind int

const (
	KindURL Kind = iota
	KindFile
	KindStdin
)

func (k Kind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindFile:
		return "file"
	case KindStdin:
		return "stdin"
	default:
		return "unknown"
	}
}

// Document is raw markup tagged with its origin.
type Document struct {
	Kind   Kind
	Origin string
	Text   string
}

func (d Document) String() string {
	if d.Kind == KindStdin {
		return "stdin"
	}
	return d.Kind.String() + " " + d.Origin
}

// Resolver collects documents from the URL, the files and standard input,
// in that order.
type Resolver struct {
	cfg      options.Config
	http     *fetcher.HTTPFetcher
	renderer *fetcher.Renderer
	stdin    StdinProbe
	readFile func(name string) ([]byte, error)
	logger   *zap.Logger
}

// NewResolver wires a Resolver. stdin may be nil when standard input should
// not be consulted.
func NewResolver(cfg options.Config, http *fetcher.HTTPFetcher, renderer *fetcher.Renderer, stdin StdinProbe, logger *zap.Logger) *Resolver {
	if cfg.HasTimeout {
		http = http.WithTimeout(cfg.Timeout)
	}
	return &Resolver{
		cfg:      cfg,
		http:     http,
		renderer: renderer,
		stdin:    stdin,
		readFile: os.ReadFile,
		logger:   logger,
	}
}

// Resolve returns every available document. Any fetch or file error aborts
// the whole run; an empty result is reported as ErrNothingToDo.
func (r *Resolver) Resolve(ctx context.Context) ([]Document, error) {
	var docs []Document

	if r.cfg.URL != "" {
		text, err := r.fromURL(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Kind: KindURL, Origin: r.cfg.URL, Text: text})
	}

	for _, path := range r.cfg.Files {
		r.logger.Info("reading from file", zap.String("path", path))
		data, err := r.readFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %w", ErrFileNotFound, err)
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, Document{Kind: KindFile, Origin: path, Text: string(data)})
	}

	if r.stdin != nil {
		data, err := r.stdin(StdinTimeout)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if text := strings.TrimRightFunc(string(data), unicode.IsSpace); text != "" {
			r.logger.Info("found text from stdin", zap.Int("bytes", len(text)))
			docs = append(docs, Document{Kind: KindStdin, Origin: "stdin", Text: text})
		}
	}

	if len(docs) == 0 {
		return nil, ErrNothingToDo
	}
	r.logger.Info("found documents to parse", zap.Int("count", len(docs)))
	return docs, nil
}

func (r *Resolver) fromURL(ctx context.Context) (string, error) {
	if r.cfg.Driver == "" {
		r.logger.Info("downloading", zap.String("url", r.cfg.URL))
		body, err := r.http.Fetch(ctx, r.cfg.URL)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	r.logger.Info("rendering with browser",
		zap.String("url", r.cfg.URL),
		zap.String("driver", string(r.cfg.Driver)),
		zap.String("load_strategy", string(r.cfg.LoadStrategy)),
	)
	return r.renderer.Render(ctx, r.cfg.URL, browser.ConfigFrom(r.cfg))
}
