package scan

import (
	"context"
	"time"

	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
)

// RepoSource streams repository records. Implementations call fn once per
// repository; returning an error from fn stops the stream. The stream is
// finite but may be large, so sources should page lazily rather than
// materialize the whole list. A transport-level failure is fatal to the
// run and is returned as-is.
type RepoSource interface {
	Repos(ctx context.Context, fn func(model.Repo) error) error
}

// Options configures one classification run.
type Options struct {
	// Threshold is the number of inactive days at which a repository
	// becomes stale. A repository with DaysInactive >= Threshold is stale.
	Threshold int

	// Method selects the timestamp used as the recency signal.
	Method model.ActivityMethod

	// Rules exempt repositories from consideration entirely.
	Rules model.ExemptionRules

	// Now is the single reference instant for the whole run. All
	// repositories are measured against it so that concurrently processed
	// records compare consistently.
	Now time.Time
}

// Scanner folds a repository stream into the set of stale repositories.
type Scanner struct {
	opts       Options
	onProgress func(scanned, stale int)
}

// NewScanner creates a Scanner. onProgress may be nil (no-op); it is
// invoked after every record with running totals.
func NewScanner(opts Options, onProgress func(scanned, stale int)) *Scanner {
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Method == "" {
		opts.Method = model.MethodPushed
	}
	return &Scanner{opts: opts, onProgress: onProgress}
}

// Run consumes the repository stream and returns the stale results in
// stream order. Ordering for the report is established later by the
// aggregator. Archived repositories are dropped defensively even though
// the source is expected to exclude them.
//
// On error the results classified so far are returned alongside it:
// cancellation should still produce a partial report, while callers treat
// transport failures as fatal and discard the partial set.
func (s *Scanner) Run(ctx context.Context, source RepoSource) ([]model.StaleRepo, error) {
	var results []model.StaleRepo
	scanned := 0

	err := source.Repos(ctx, func(repo model.Repo) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		scanned++
		defer func() {
			if s.onProgress != nil {
				s.onProgress(scanned, len(results))
			}
		}()

		if repo.Archived {
			return nil
		}
		if IsExempt(repo, s.opts.Rules) {
			return nil
		}

		days, ts := Resolve(repo, s.opts.Method, s.opts.Now)
		if days < s.opts.Threshold {
			log.Debug("repo active", "repo", repo.HTMLURL, "daysInactive", days)
			return nil
		}

		result := model.StaleRepo{
			URL:          repo.HTMLURL,
			DaysInactive: days,
			Visibility:   repo.Visibility,
			FullName:     repo.FullName,
		}
		if ts != nil {
			result.LastActivityDate = ts.UTC().Format("2006-01-02")
		}

		log.Info("repo stale", "repo", repo.HTMLURL, "daysInactive", days)
		results = append(results, result)
		return nil
	})
	if err != nil {
		return results, err
	}

	log.Info("scan complete", "scanned", scanned, "stale", len(results))
	return results, nil
}
