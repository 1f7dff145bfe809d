// Package enrich adds best-effort auxiliary metrics (release age, open PR
// age) to stale repository results. Every lookup is isolated: a failure or
// an absent value leaves the corresponding field unset and never affects
// classification.
package enrich

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
)

// MetricSource fetches auxiliary timestamps for a repository. A nil
// timestamp with a nil error means the signal does not exist (no releases,
// no open pull requests); that is a valid absent value, not a failure.
type MetricSource interface {
	LatestRelease(ctx context.Context, fullName string) (*time.Time, error)
	LatestOpenPR(ctx context.Context, fullName string) (*time.Time, error)
}

const (
	defaultWorkers  = 4
	defaultAttempts = 3
	defaultBackoff  = 500 * time.Millisecond
)

// Enricher runs metric lookups for stale candidates with a bounded
// concurrency ceiling.
type Enricher struct {
	source     MetricSource
	workers    int
	attempts   int
	backoff    time.Duration
	now        time.Time
	onProgress func(completed, total int)
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWorkers sets the concurrency ceiling.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithRetry sets the attempt budget and initial backoff delay used for
// transient lookup failures.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(e *Enricher) {
		if attempts > 0 {
			e.attempts = attempts
		}
		if backoff > 0 {
			e.backoff = backoff
		}
	}
}

// WithProgress registers a callback invoked as repositories finish. The
// callback must be safe for concurrent use.
func WithProgress(fn func(completed, total int)) Option {
	return func(e *Enricher) {
		e.onProgress = fn
	}
}

// WithNow pins the reference instant used for day calculations, keeping
// metric ages consistent with the classification pass.
func WithNow(now time.Time) Option {
	return func(e *Enricher) {
		e.now = now
	}
}

// New creates an Enricher backed by the given metric source.
func New(source MetricSource, opts ...Option) *Enricher {
	e := &Enricher{
		source:   source,
		workers:  defaultWorkers,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		now:      time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply fills the requested metric fields of each result in place. Each
// goroutine owns exactly one result slot, so no locking is needed beyond
// the errgroup join. Cancellation abandons in-flight lookups; results
// enriched so far are kept and the rest stay absent.
func (e *Enricher) Apply(ctx context.Context, results []model.StaleRepo, metrics model.MetricSet) {
	if !metrics.Any() || len(results) == 0 {
		return
	}

	total := len(results)
	var completed atomic.Int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i := range results {
		g.Go(func() error {
			e.enrichOne(gctx, &results[i], metrics)
			if e.onProgress != nil {
				e.onProgress(int(completed.Add(1)), total)
			}
			return nil
		})
	}

	// Workers never return errors; Wait only joins them.
	_ = g.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, result *model.StaleRepo, metrics model.MetricSet) {
	if metrics.Release {
		if ts := e.lookup(ctx, result.FullName, "release", e.source.LatestRelease); ts != nil {
			result.DaysSinceLastRelease = daysSince(e.now, *ts)
		}
	}
	if metrics.PR {
		if ts := e.lookup(ctx, result.FullName, "pr", e.source.LatestOpenPR); ts != nil {
			result.DaysSinceLastPR = daysSince(e.now, *ts)
		}
	}
}

// lookup retries transient failures with exponential backoff. Exhausting
// the attempt budget degrades to absent.
func (e *Enricher) lookup(
	ctx context.Context,
	fullName, metric string,
	fetch func(context.Context, string) (*time.Time, error),
) *time.Time {
	delay := e.backoff
	for attempt := 1; attempt <= e.attempts; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		ts, err := fetch(ctx, fullName)
		if err == nil {
			return ts
		}

		log.Debug("metric lookup failed",
			"repo", fullName,
			"metric", metric,
			"attempt", attempt,
			"error", err)

		if attempt == e.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
	}

	log.Warn("metric unavailable after retries", "repo", fullName, "metric", metric)
	return nil
}

func daysSince(now, ts time.Time) *int {
	days := int(now.Sub(ts).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return &days
}
