package mock

import (
	"context"

	"github.com/fwojciec/stylemanual"
)

var _ stylemanual.Cache = (*Cache)(nil)

// Cache is a mock implementation of stylemanual.Cache.
type Cache struct {
	FilenameForFn func(url string) string
	IsPopulatedFn func(ctx context.Context) bool
	ListEntriesFn func(ctx context.Context) []string
	ReadFn        func(ctx context.Context, filename string) (string, bool)
	WriteAllFn    func(ctx context.Context, entries []stylemanual.CacheEntry) (*stylemanual.WriteResult, error)
	InfoFn        func(ctx context.Context) (*stylemanual.CacheInfo, bool)
}

func (c *Cache) FilenameFor(url string) string {
	return c.FilenameForFn(url)
}

func (c *Cache) IsPopulated(ctx context.Context) bool {
	return c.IsPopulatedFn(ctx)
}

func (c *Cache) ListEntries(ctx context.Context) []string {
	return c.ListEntriesFn(ctx)
}

func (c *Cache) Read(ctx context.Context, filename string) (string, bool) {
	return c.ReadFn(ctx, filename)
}

func (c *Cache) WriteAll(ctx context.Context, entries []stylemanual.CacheEntry) (*stylemanual.WriteResult, error) {
	return c.WriteAllFn(ctx, entries)
}

func (c *Cache) Info(ctx context.Context) (*stylemanual.CacheInfo, bool) {
	return c.InfoFn(ctx)
}
