package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/stylemanual"
	"github.com/fwojciec/stylemanual/crawl"
	"github.com/fwojciec/stylemanual/fs"
	"github.com/fwojciec/stylemanual/goldmark"
	"github.com/fwojciec/stylemanual/goquery"
	"github.com/fwojciec/stylemanual/htmltomarkdown"
	smhttp "github.com/fwojciec/stylemanual/http"
	smslog "github.com/fwojciec/stylemanual/slog"
	"github.com/fwojciec/stylemanual/yaml"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Fetcher replaces the HTTP fetcher. Set before calling Run().
	Fetcher stylemanual.Fetcher

	// Catalog replaces the embedded page catalog.
	Catalog *stylemanual.Catalog

	// RetryDelays replaces the default fetch retry schedule.
	RetryDelays []time.Duration

	// Now replaces the clock used to stamp fetched pages.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr before being returned.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("stylemanual"),
		kong.Description("Fetch, cache and search the Australian Government Style Manual"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Vars{"cache_dir": defaultCacheDir()},
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		err := fmt.Errorf("no command specified. Run 'stylemanual --help' to see available commands")
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", err)
		return err
	}

	logger, closer := newLogger(cli, stderr)
	defer closer.Close()
	deps.Logger = logger

	if err := m.wire(deps, cli); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", stylemanual.ErrorMessage(err))
		logger.Error("startup failed", "err", err)
		return err
	}

	if err := kongCtx.Run(deps); err != nil {
		fmt.Fprintf(stderr, "error: %s\n", stylemanual.ErrorMessage(err))
		logger.Error("command failed", "command", kongCtx.Command(), "err", err)
		return err
	}
	return nil
}

// wire builds the services shared by all commands.
func (m *Main) wire(deps *Dependencies, cli *CLI) error {
	catalog := m.Catalog
	if catalog == nil {
		c, err := yaml.DefaultCatalog()
		if err != nil {
			return err
		}
		catalog = c
	}

	var fetcher stylemanual.Fetcher = smhttp.NewFetcher(smhttp.WithTimeout(cli.Timeout))
	if m.Fetcher != nil {
		fetcher = m.Fetcher
	}

	cache := smslog.NewLoggingCache(fs.NewCache(fs.Config{Root: cli.CacheDir}), deps.Logger)
	parser := goldmark.NewParser()
	extractor := goquery.NewExtractor(goquery.WithConverter(htmltomarkdown.NewConverter()))

	deps.Catalog = catalog
	deps.Cache = cache
	deps.Crawler = &crawl.Crawler{
		Fetcher:     smslog.NewLoggingFetcher(fetcher, deps.Logger),
		Extractor:   smslog.NewLoggingExtractor(extractor, deps.Logger),
		Cache:       cache,
		Parser:      parser,
		RateLimiter: crawl.NewSiteLimiter(crawl.DefaultRequestInterval),
		Logger:      deps.Logger,
		RetryDelays: m.RetryDelays,
		Now:         m.Now,
	}
	deps.Searcher = &crawl.Searcher{
		Crawler: deps.Crawler,
		Cache:   cache,
		Parser:  parser,
		Catalog: catalog,
		Logger:  deps.Logger,
	}
	return nil
}

// Log file rotation limits.
const (
	logMaxSizeMB  = 10
	logMaxBackups = 3
	logMaxAgeDays = 28
)

// newLogger logs to a rotating file when --log-file is set and to stderr
// otherwise. Stderr only shows warnings unless --verbose is given.
func newLogger(cli *CLI, stderr io.Writer) (*slog.Logger, io.Closer) {
	level := slog.LevelWarn
	var w io.Writer = stderr
	var closer io.Closer = nopCloser{}

	if cli.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cli.LogFile,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
		}
		w, closer = lj, lj
		level = slog.LevelInfo
	}
	if cli.Verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".stylemanual", "cache")
	}
	return filepath.Join(home, ".stylemanual", "cache")
}
