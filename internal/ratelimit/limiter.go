package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter spends request weight from a global per-period budget and
// counts requests in named buckets, such as order placement.
type RateLimiter struct {
	global  *rate.Limiter
	budget  int
	period  time.Duration
	buckets sync.Map
	metrics *Metrics
}

// Metrics tracks statistics about rate limiter usage.
type Metrics struct {
	totalRequests   atomic.Int64
	allowedRequests atomic.Int64
	deniedRequests  atomic.Int64
	consumedWeight  atomic.Int64
	drainedWeight   atomic.Int64
	bucketCount     atomic.Int32
}

// New creates a limiter allowing budget weight per period, refilled evenly.
func New(budget int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		global:  newLimiter(budget, period),
		budget:  budget,
		period:  period,
		metrics: &Metrics{},
	}
}

func newLimiter(budget int, period time.Duration) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(float64(budget)/period.Seconds()), budget)
}

// WaitN blocks until weight n is available or ctx is done. A weight above
// the whole budget waits for the full budget.
func (r *RateLimiter) WaitN(ctx context.Context, n int) error {
	return r.wait(ctx, r.global, n)
}

// WaitBucket blocks until the named bucket admits one request. Unknown
// buckets get the global budget.
func (r *RateLimiter) WaitBucket(ctx context.Context, bucket string) error {
	return r.wait(ctx, r.bucket(bucket), 1)
}

func (r *RateLimiter) wait(ctx context.Context, limiter *rate.Limiter, n int) error {
	r.metrics.totalRequests.Add(1)
	n = max(1, min(n, limiter.Burst()))
	if err := limiter.WaitN(ctx, n); err != nil {
		r.metrics.deniedRequests.Add(1)
		return err
	}
	r.metrics.allowedRequests.Add(1)
	r.metrics.consumedWeight.Add(int64(n))
	return nil
}

// AllowN spends weight n if it is available now.
func (r *RateLimiter) AllowN(n int) bool {
	return r.allow(r.global, n)
}

func (r *RateLimiter) AllowBucket(bucket string) bool {
	return r.allow(r.bucket(bucket), 1)
}

func (r *RateLimiter) allow(limiter *rate.Limiter, n int) bool {
	r.metrics.totalRequests.Add(1)
	if !limiter.AllowN(time.Now(), n) {
		r.metrics.deniedRequests.Add(1)
		return false
	}
	r.metrics.allowedRequests.Add(1)
	r.metrics.consumedWeight.Add(int64(n))
	return true
}

// SyncUsedWeight aligns the global budget with the weight the server reports
// as used in the current window. The server counts every client sharing the
// IP, so only usage above the local estimate is drained; it never refills.
func (r *RateLimiter) SyncUsedWeight(used int) {
	if used <= 0 {
		return
	}
	now := time.Now()
	remaining := max(r.budget-used, 0)
	excess := int(r.global.TokensAt(now)) - remaining
	if excess > 0 && r.global.AllowN(now, excess) {
		r.metrics.drainedWeight.Add(int64(excess))
	}
}

// AddBucket registers a named bucket with its own budget, replacing any existing one.
func (r *RateLimiter) AddBucket(bucket string, budget int, period time.Duration) {
	if _, loaded := r.buckets.Swap(bucket, newLimiter(budget, period)); !loaded {
		r.metrics.bucketCount.Add(1)
	}
}

func (r *RateLimiter) bucket(name string) *rate.Limiter {
	if v, ok := r.buckets.Load(name); ok {
		return v.(*rate.Limiter)
	}
	actual, loaded := r.buckets.LoadOrStore(name, newLimiter(r.budget, r.period))
	if !loaded {
		r.metrics.bucketCount.Add(1)
	}
	return actual.(*rate.Limiter)
}

// Metrics returns a snapshot of the current rate limiter statistics.
func (r *RateLimiter) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:   r.metrics.totalRequests.Load(),
		AllowedRequests: r.metrics.allowedRequests.Load(),
		DeniedRequests:  r.metrics.deniedRequests.Load(),
		ConsumedWeight:  r.metrics.consumedWeight.Load(),
		DrainedWeight:   r.metrics.drainedWeight.Load(),
		BucketCount:     r.metrics.bucketCount.Load(),
	}
}

// MetricsSnapshot is a point-in-time capture of rate limiter statistics.
type MetricsSnapshot struct {
	TotalRequests   int64
	AllowedRequests int64
	DeniedRequests  int64
	// ConsumedWeight is the weight spent by this process.
	ConsumedWeight int64
	// DrainedWeight is the weight removed by SyncUsedWeight.
	DrainedWeight int64
	BucketCount   int32
}
