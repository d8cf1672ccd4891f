package crawl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/stylemanual"
	"golang.org/x/sync/errgroup"
)

// Batch defaults keep the load on the site polite.
const (
	DefaultBatchSize  = 3
	DefaultBatchDelay = 2 * time.Second
)

var discardLogger = slog.New(slog.DiscardHandler)

// WorkFunc processes a single URL.
type WorkFunc[T any] func(ctx context.Context, url string) (T, error)

// Outcome is the result of processing one URL. Exactly one of Value or Err
// is meaningful.
type Outcome[T any] struct {
	URL   string
	Value T
	Err   error
}

// BatchOptions configures RunBatches.
type BatchOptions struct {
	// BatchSize is the number of URLs processed concurrently. Zero or less
	// means DefaultBatchSize.
	BatchSize int

	// Delay is the pause between batches. Zero means DefaultBatchDelay and a
	// negative value disables the pause.
	Delay time.Duration

	// Pause waits between batches. Defaults to a context-aware sleep.
	Pause func(ctx context.Context, d time.Duration) error

	// Progress is called once per finished URL. Calls never overlap.
	Progress func(url string, err error)

	Logger *slog.Logger
}

func (o BatchOptions) withDefaults() BatchOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Delay == 0 {
		o.Delay = DefaultBatchDelay
	}
	if o.Pause == nil {
		o.Pause = sleep
	}
	if o.Logger == nil {
		o.Logger = discardLogger
	}
	return o
}

// RunBatches processes urls in consecutive batches of opts.BatchSize. Items
// in a batch run concurrently and the next batch starts only after the whole
// batch finished and the pause elapsed. A failing or panicking item is
// recorded in its Outcome and never affects its siblings. The returned slice
// has one Outcome per URL, in input order. Once ctx is done, batches that
// have not started are not run and their outcomes carry the context error.
func RunBatches[T any](ctx context.Context, urls []string, work WorkFunc[T], opts BatchOptions) []Outcome[T] {
	opts = opts.withDefaults()
	outcomes := make([]Outcome[T], len(urls))

	var mu sync.Mutex
	report := func(o Outcome[T]) {
		if opts.Progress == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		opts.Progress(o.URL, o.Err)
	}

	for start := 0; start < len(urls); start += opts.BatchSize {
		if start > 0 && opts.Delay > 0 {
			if err := opts.Pause(ctx, opts.Delay); err != nil {
				cancelRemaining(outcomes, urls, start, err, opts.Logger)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			cancelRemaining(outcomes, urls, start, err, opts.Logger)
			break
		}

		end := min(start+opts.BatchSize, len(urls))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				outcomes[i] = runOne(ctx, urls[i], work, opts.Logger)
				report(outcomes[i])
				return nil
			})
		}
		_ = g.Wait()
	}

	return outcomes
}

func runOne[T any](ctx context.Context, url string, work WorkFunc[T], logger *slog.Logger) (o Outcome[T]) {
	o.URL = url
	defer func() {
		if r := recover(); r != nil {
			o.Err = stylemanual.Errorf(stylemanual.EINTERNAL, "panic processing %s: %v", url, r)
		}
		if o.Err != nil {
			logger.Warn("batch item failed", "url", url, "err", o.Err)
		}
	}()

	o.Value, o.Err = work(ctx, url)
	return o
}

func cancelRemaining[T any](outcomes []Outcome[T], urls []string, start int, err error, logger *slog.Logger) {
	logger.Info("batch run stopped", "remaining", len(urls)-start, "err", err)
	for i := start; i < len(urls); i++ {
		outcomes[i] = Outcome[T]{URL: urls[i], Err: err}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
