// Package ratelimit provides keyed token-bucket rate limiting for capture traffic.
//
// Each key (normally "space:clientIP") owns an independent bucket from
// golang.org/x/time/rate. Buckets are created full on first use and refill
// lazily when checked. Buckets are never evicted, so the map grows with the
// number of distinct keys seen.
package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults for capture rate limiting.
const (
	DefaultCapacity      = 60
	DefaultRatePerMinute = 60
)

// Decision is the outcome of a Check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter tracks one token bucket per key.
type Limiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithCapacity sets the bucket capacity.
func WithCapacity(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.burst = n
		}
	}
}

// WithRatePerMinute sets the refill rate.
func WithRatePerMinute(n int) Option {
	return func(l *Limiter) {
		if n > 0 {
			l.limit = rate.Limit(float64(n) / 60)
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New creates a limiter with capacity 60 refilling at 60 tokens per minute
// unless overridden by options.
func New(opts ...Option) *Limiter {
	l := &Limiter{
		limit:   rate.Limit(float64(DefaultRatePerMinute) / 60),
		burst:   DefaultCapacity,
		now:     time.Now,
		buckets: make(map[string]*rate.Limiter),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Key builds the limiter key for a client within a space.
func Key(space, ip string) string {
	return space + ":" + ip
}

// Check consumes one token from the key's bucket if available.
// A rejected check does not consume anything.
func (l *Limiter) Check(key string) Decision {
	b := l.bucket(key)
	now := l.now()

	d := Decision{Limit: l.burst}
	if b.AllowN(now, 1) {
		d.Allowed = true
		d.Remaining = int(math.Max(0, math.Floor(b.TokensAt(now))))
		return d
	}

	missing := 1 - b.TokensAt(now)
	d.RetryAfter = time.Duration(missing / float64(l.limit) * float64(time.Second))
	return d
}

// Len returns the number of buckets held.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	// Double-check after acquiring write lock
	if b, ok = l.buckets[key]; ok {
		return b
	}
	b = rate.NewLimiter(l.limit, l.burst)
	l.buckets[key] = b
	return b
}

// SetHeaders writes the X-RateLimit-* headers for d, plus Retry-After when
// the request was rejected.
func SetHeaders(w http.ResponseWriter, d Decision) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if !d.Allowed {
		secs := int64(math.Ceil(d.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		h.Set("Retry-After", strconv.FormatInt(secs, 10))
	}
}
