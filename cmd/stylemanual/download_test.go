package main_test

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/stylemanual"
	main "github.com/fwojciec/stylemanual/cmd/stylemanual"
	"github.com/fwojciec/stylemanual/crawl"
	"github.com/fwojciec/stylemanual/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDeps returns dependencies whose fetcher records requested URLs
// and fails every request, so no cache write happens.
func recordingDeps(t *testing.T) (*main.Dependencies, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var fetched []string
	fetcher := &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			fetched = append(fetched, url)
			return "", stylemanual.Errorf(stylemanual.ENOTFOUND, "HTTP 404 for %s", url)
		},
	}
	cache := &mock.Cache{
		FilenameForFn: func(url string) string { return "page.md" },
	}

	deps := &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
		Catalog: testCatalog(),
		Cache:   cache,
		Crawler: &crawl.Crawler{
			Fetcher:     fetcher,
			Extractor:   &mock.Extractor{},
			Cache:       cache,
			RetryDelays: []time.Duration{},
		},
	}
	return deps, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), fetched...)
	}
}

func TestDownloadCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("downloads default focus areas without flags", func(t *testing.T) {
		t.Parallel()

		deps, fetched := recordingDeps(t)

		_ = (&main.DownloadCmd{BatchSize: 3}).Run(deps)

		assert.Equal(t, []string{commasURL}, fetched())
	})

	t.Run("downloads named focus areas", func(t *testing.T) {
		t.Parallel()

		deps, fetched := recordingDeps(t)

		_ = (&main.DownloadCmd{Focus: []string{"structure"}, BatchSize: 3}).Run(deps)

		assert.Equal(t, []string{listsURL}, fetched())
	})

	t.Run("downloads the whole catalog with --all", func(t *testing.T) {
		t.Parallel()

		deps, fetched := recordingDeps(t)

		_ = (&main.DownloadCmd{All: true, BatchSize: 1}).Run(deps)

		assert.Equal(t, []string{commasURL, listsURL}, fetched())
	})

	t.Run("zero delay disables the pause between batches", func(t *testing.T) {
		t.Parallel()

		deps, _ := recordingDeps(t)

		_ = (&main.DownloadCmd{All: true, BatchSize: 1}).Run(deps)

		assert.Equal(t, 1, deps.Crawler.BatchSize)
		assert.Less(t, deps.Crawler.BatchDelay, time.Duration(0))
	})

	t.Run("fails when every page fails", func(t *testing.T) {
		t.Parallel()

		deps, _ := recordingDeps(t)

		err := (&main.DownloadCmd{BatchSize: 3}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, stylemanual.EEXTRACT, stylemanual.ErrorCode(err))
		assert.Contains(t, deps.Stdout.(*bytes.Buffer).String(), "Failed: 1")
	})
}
