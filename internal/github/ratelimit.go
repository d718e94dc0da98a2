package github

import (
	"context"
	"sync"
	"time"

	goGithub "github.com/google/go-github/v72/github"
	"golang.org/x/time/rate"
)

const (
	// proactiveRate throttles outbound calls well under the authenticated
	// hourly quota so one busy chat room cannot exhaust it.
	proactiveRate = 1.2

	// minRemaining is the reserve below which calls wait for the quota reset.
	minRemaining = 20
)

// rateLimiter combines a proactive token bucket with reactive tracking of
// the quota headers GitHub returns on every response.
type rateLimiter struct {
	bucket *rate.Limiter

	mu        sync.Mutex
	remaining int
	resetTime time.Time
	known     bool
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		bucket: rate.NewLimiter(rate.Limit(proactiveRate), 1),
	}
}

// wait blocks until a request may be sent: first the token bucket, then a
// hold until reset when the reported remaining quota is nearly gone.
func (r *rateLimiter) wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	known, remaining, resetTime := r.known, r.remaining, r.resetTime
	r.mu.Unlock()

	if known && remaining < minRemaining && time.Now().Before(resetTime) {
		timer := time.NewTimer(time.Until(resetTime))
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// update records the quota state carried on an upstream response.
func (r *rateLimiter) update(resp *goGithub.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	r.mu.Lock()
	r.remaining = resp.Rate.Remaining
	r.resetTime = resp.Rate.Reset.Time
	r.known = true
	r.mu.Unlock()
}
