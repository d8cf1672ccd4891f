package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/fwojciec/stylemanual"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url with the default delays.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger) (string, error) {
	return FetchWithRetryDelays(ctx, url, fetch, logger, DefaultRetryDelays())
}

// FetchWithRetryDelays makes one attempt plus one retry per delay, waiting
// delays[i] before retry i. Missing pages, invalid requests and context
// errors are returned immediately. Only the last error is returned.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, logger *slog.Logger, delays []time.Duration) (string, error) {
	if logger == nil {
		logger = discardLogger
	}

	return retry.DoWithData(
		func() (string, error) {
			return fetch(ctx, url)
		},
		retry.Context(ctx),
		retry.Attempts(uint(len(delays)+1)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// n counts from 1 on the first retry.
			if len(delays) == 0 || n == 0 {
				return 0
			}
			return delays[min(int(n)-1, len(delays)-1)]
		}),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			logger.Debug("fetch attempt failed", "url", url, "attempt", n+1, "err", err)
		}),
		retry.LastErrorOnly(true),
	)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch stylemanual.ErrorCode(err) {
	case stylemanual.ENOTFOUND, stylemanual.EINVALID:
		return false
	}
	return true
}
