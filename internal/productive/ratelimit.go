package productive

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Productive enforces 100 requests per 10 seconds per organization.
// We track the same window locally and gate every outbound call so the
// upstream quota is never hit.
const (
	// RequestLimit is the maximum number of requests per window.
	RequestLimit = 100

	// WindowDuration is the length of one rate-limit window.
	WindowDuration = 10 * time.Second
)

// RateLimiter is a fixed-window counter shared by every tool call in the
// process. One limiter guards one upstream credential; there is no
// per-endpoint partitioning because Productive's quota isn't partitioned
// either.
//
// Admission and charging are one atomic step: Wait takes a slot under
// the lock before returning, so the counter can never exceed the limit
// within a window regardless of how many callers run concurrently.
//
// The window is reset lazily: nothing runs in the background, the check
// in Wait rolls the window over when enough time has passed. A fixed
// window can admit up to 2x the limit across a reset boundary; that
// matches the coarse per-window counting upstream, so exact fairness at
// the boundary is not a goal here.
type RateLimiter struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time

	limit  int
	window time.Duration

	// now and sleep are injectable for tests. sleep must honor the
	// context so a cancelled tool call doesn't sit out a full window.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	log *zap.Logger
}

// RateLimitStatus is a read-only snapshot of the current window.
type RateLimitStatus struct {
	Count     int           `json:"count"`
	Limit     int           `json:"limit"`
	Window    time.Duration `json:"window"`
	Remaining int           `json:"remaining"`
}

// NewRateLimiter creates a limiter with the Productive quota constants.
// The logger may be nil; diagnostics are then dropped.
func NewRateLimiter(log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{
		limit:       RequestLimit,
		window:      WindowDuration,
		windowStart: time.Now(),
		now:         time.Now,
		sleep:       sleepContext,
		log:         log,
	}
}

// Wait blocks until the current call is allowed to proceed, then
// charges it against the window before returning. Inspecting the
// window and taking a slot happen under one lock acquisition, so two
// concurrent callers can never both observe a free slot and both
// proceed; the quota holds no matter how calls interleave around the
// HTTP dispatch that follows. It returns nil in every case except
// context cancellation during the sleep: the limiter itself cannot
// fail, only delay.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		r.mu.Lock()

		// Roll the window over lazily once enough time has passed.
		if r.now().Sub(r.windowStart) >= r.window {
			r.count = 0
			r.windowStart = r.now()
		}

		// Slot available: take it and go.
		if r.count < r.limit {
			r.count++
			r.mu.Unlock()
			return nil
		}

		// Quota exhausted: sit out the remainder of the window. The
		// lock cannot be held across the sleep, so release it and
		// re-contend for a slot afterwards; another waiter may have
		// filled the fresh window first.
		wait := r.window - r.now().Sub(r.windowStart)
		r.mu.Unlock()

		r.logWait(wait)

		if err := r.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Status reports the current window without mutating it. If the window
// has elapsed it reports as if reset; the actual reset happens lazily
// inside Wait.
func (r *RateLimiter) Status() RateLimitStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.count
	if r.now().Sub(r.windowStart) >= r.window {
		count = 0
	}

	return RateLimitStatus{
		Count:     count,
		Limit:     r.limit,
		Window:    r.window,
		Remaining: r.limit - count,
	}
}

// logWait records a suspension notice. Best-effort like the gateway's
// request logging: a panic in the logging stack must never fail the
// call being paced.
func (r *RateLimiter) logWait(wait time.Duration) {
	defer func() { _ = recover() }()
	r.log.Warn("rate limit reached, waiting for window to roll over",
		zap.Int("limit", r.limit),
		zap.String("wait", humanSeconds(wait)),
	)
}

// humanSeconds formats a duration as whole seconds, rounding up so we
// never promise a shorter wait than the real one.
func humanSeconds(d time.Duration) string {
	return fmt.Sprintf("%ds", int(math.Ceil(d.Seconds())))
}

// sleepContext sleeps for d or until the context is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
