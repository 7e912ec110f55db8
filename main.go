package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"charlotte/internal/fetcher"
	"charlotte/internal/formatter"
	"charlotte/internal/logger"
	"charlotte/internal/options"
	"charlotte/internal/query"
	"charlotte/internal/source"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// execute runs the command and returns the process exit code: 0 on success,
// help or when there was nothing to do, 1 on any error.
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, source.ErrNothingToDo):
		fmt.Fprintf(stdout, "Nothing to do! Type `%s --help` for usage\n", cmd.Name())
		return 0
	}

	fmt.Fprintf(stderr, "ERROR! %v\n", err)
	if errors.Is(err, options.ErrInvalid) {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return 1
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "charlotte",
		Short:   "Query HTML/XML documents with CSS selectors or XPath",
		Version: version,
		Long: `charlotte is a little spider that reads HTML/XML from a URL, from files or
from standard input and prints the parts matched by a CSS selector or an XPath
expression. Pages that need JavaScript can be rendered in a real browser
first with --driver.`,
		Example: `  # Print every link target on a page
  charlotte --url http://www.example.com --selector 'p a' --attrs href

  # Query local files with XPath
  charlotte -f index.html,about.html -x '//h1'

  # Read from a pipe and print the text of each paragraph
  curl -s http://www.example.com | charlotte -s p --text

  # Render with headless Chrome and print the children of #results
  charlotte -u https://example.org/search -d chrome -H -s '#results' --body

  # Let Firefox load without blocking, then read the page after 5 seconds
  charlotte -u https://example.org -d firefox -l none -t 5 -s title`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: unexpected argument %q", options.ErrInvalid, args[0])
			}
			return nil
		},
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	options.RegisterFlags(cmd.Flags())
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", options.ErrInvalid, err)
	})
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := options.Load(cmd.Flags())
	if err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Verbose)
	defer log.Sync()
	log.Info("configuration", zap.Any("options", cfg))

	ctx := cmd.Context()
	resolver := source.NewResolver(
		cfg,
		fetcher.NewHTTPFetcher(http.DefaultClient, cfg.UserAgent),
		fetcher.NewRenderer(log),
		source.NewStdinProbe(cmd.InOrStdin()),
		log,
	)
	docs, err := resolver.Resolve(ctx)
	if err != nil {
		return err
	}

	out := formatter.New(cmd.OutOrStdout(), cfg)
	queries := query.FromConfig(cfg)
	for _, d := range docs {
		doc, err := query.Parse(d.Text)
		if err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}

		if len(queries) == 0 {
			if err := out.WriteDocument(doc); err != nil {
				return err
			}
			continue
		}

		nodes, err := doc.Evaluate(queries)
		if err != nil {
			return err
		}
		log.Info("matched", zap.Stringer("document", d), zap.Int("count", len(nodes)))
		if err := out.WriteMatches(nodes); err != nil {
			return err
		}
	}
	return nil
}
