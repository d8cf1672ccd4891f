package crawl

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/stylemanual"
	"golang.org/x/time/rate"
)

var _ stylemanual.DomainLimiter = (*SiteLimiter)(nil)

// DefaultRequestInterval is the minimum gap between two requests to the site.
const DefaultRequestInterval = 500 * time.Millisecond

// SiteLimiter spaces out requests per site. The bare and www-prefixed forms
// of stylemanual.AllowedDomain are one site and share a single bucket, so
// mixing both spellings in a download does not double the request rate.
type SiteLimiter struct {
	interval time.Duration

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewSiteLimiter returns a SiteLimiter letting one request through per
// interval for each site. A non-positive interval disables limiting.
func NewSiteLimiter(interval time.Duration) *SiteLimiter {
	return &SiteLimiter{
		interval: interval,
		buckets:  make(map[string]*rate.Limiter),
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
func (l *SiteLimiter) Wait(ctx context.Context, host string) error {
	if l.interval <= 0 {
		return ctx.Err()
	}
	return l.bucket(siteKey(host)).Wait(ctx)
}

func (l *SiteLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(rate.Every(l.interval), 1)
		l.buckets[key] = b
	}
	return b
}

// siteKey folds host to the bucket it is limited under.
func siteKey(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "www."+stylemanual.AllowedDomain {
		return stylemanual.AllowedDomain
	}
	return host
}

// hostOf returns the host of rawURL, or rawURL itself if it does not parse.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
