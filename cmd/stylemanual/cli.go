package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/stylemanual"
	"github.com/fwojciec/stylemanual/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Catalog  *stylemanual.Catalog
	Cache    stylemanual.Cache
	Crawler  *crawl.Crawler
	Searcher *crawl.Searcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	CacheDir string        `name:"cache-dir" env:"STYLEMANUAL_CACHE" default:"${cache_dir}" help:"Cache directory"`
	Timeout  time.Duration `default:"10s" help:"HTTP request timeout"`
	LogFile  string        `name:"log-file" help:"Write logs to a rotating file"`
	Verbose  bool          `short:"v" help:"Enable debug logging"`

	Fetch    FetchCmd    `cmd:"" help:"Fetch a page and print it as markdown"`
	Search   SearchCmd   `cmd:"" help:"Search pages for a term"`
	Download DownloadCmd `cmd:"" help:"Download pages into the cache"`
	List     ListCmd     `cmd:"" help:"List cached pages"`
	Read     ReadCmd     `cmd:"" help:"Print a cached page"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL string `arg:"" help:"Style Manual page URL"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string   `arg:"" help:"Text to search for"`
	URLs  []string `short:"u" name:"url" help:"Search only this page (repeatable)"`
	Focus string   `short:"f" help:"Search only pages in this focus area"`
}

// DownloadCmd is the "download" subcommand.
type DownloadCmd struct {
	Focus     []string      `short:"f" name:"focus" help:"Download this focus area (repeatable)"`
	All       bool          `help:"Download every page in the catalog"`
	BatchSize int           `short:"b" default:"3" help:"Pages fetched concurrently"`
	Delay     time.Duration `default:"2s" help:"Pause between batches"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct{}

// ReadCmd is the "read" subcommand.
type ReadCmd struct {
	Filename string `arg:"" help:"Cached file name, with or without .md"`
}
