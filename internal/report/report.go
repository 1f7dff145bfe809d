// Package report turns classified stale repositories into the two report
// artifacts: a Markdown table and a JSON array. Output ordering is a total
// order so that two runs over the same snapshot produce byte-identical
// reports.
package report

import (
	"errors"
	"sort"

	"github.com/stalewatch/stalewatch/internal/model"
)

// ErrEmpty is returned by Aggregate when the result set is empty and the
// skip-empty policy is in effect. It is a distinguishable no-op outcome,
// not a failure.
var ErrEmpty = errors.New("no stale repositories to report")

// Options configures aggregation.
type Options struct {
	// Threshold is echoed into the Markdown preamble.
	Threshold int

	// Metrics are the enrichment metrics that were requested. A metric
	// column is rendered only when it was requested and at least one row
	// carries a value for it.
	Metrics model.MetricSet

	// SkipEmpty suppresses artifact generation for an empty result set.
	SkipEmpty bool
}

// Report holds the two serialized artifacts.
type Report struct {
	Markdown string
	JSON     string
	Results  []model.StaleRepo // sorted copy backing the artifacts
}

// Aggregate sorts the results and renders both artifacts. The input slice
// is not mutated. With an empty input it either signals ErrEmpty (skip
// policy) or emits headers-only artifacts.
func Aggregate(results []model.StaleRepo, opts Options) (*Report, error) {
	if len(results) == 0 && opts.SkipEmpty {
		return nil, ErrEmpty
	}

	sorted := Sort(results)

	md := renderMarkdown(sorted, opts)
	js, err := renderJSON(sorted)
	if err != nil {
		return nil, err
	}

	return &Report{
		Markdown: md,
		JSON:     js,
		Results:  sorted,
	}, nil
}

// Sort returns a sorted copy: days inactive descending, repository URL
// ascending as the tiebreak.
func Sort(results []model.StaleRepo) []model.StaleRepo {
	sorted := make([]model.StaleRepo, len(results))
	copy(sorted, results)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DaysInactive != sorted[j].DaysInactive {
			return sorted[i].DaysInactive > sorted[j].DaysInactive
		}
		return sorted[i].URL < sorted[j].URL
	})
	return sorted
}

// columns reports which optional metric columns the rendered artifacts
// carry: requested metrics that have at least one non-absent value.
func columns(results []model.StaleRepo, metrics model.MetricSet) (release, pr bool) {
	if !metrics.Any() {
		return false, false
	}
	for _, r := range results {
		if metrics.Release && r.DaysSinceLastRelease != nil {
			release = true
		}
		if metrics.PR && r.DaysSinceLastPR != nil {
			pr = true
		}
	}
	return release, pr
}
