package github

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
)

// Client implements enrich.MetricSource: both lookups fetch only the most
// recent item and translate "nothing there" into a nil timestamp.

// LatestRelease returns the publish date of the repository's newest
// release, or nil when the repository has no releases.
func (c *Client) LatestRelease(ctx context.Context, fullName string) (*time.Time, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	releases, resp, err := c.gh.Repositories.ListReleases(ctx, owner, name,
		&github.ListOptions{PerPage: 1})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(releases) == 0 {
		return nil, nil
	}

	rel := releases[0]
	date := rel.GetPublishedAt()
	if date.IsZero() {
		// Draft releases carry no publish date; fall back to creation.
		date = rel.GetCreatedAt()
	}
	if date.IsZero() {
		return nil, nil
	}
	ts := date.Time
	return &ts, nil
}

// LatestOpenPR returns the creation date of the most recently opened pull
// request that is still open, or nil when there are none.
func (c *Client) LatestOpenPR(ctx context.Context, fullName string) (*time.Time, error) {
	owner, name, err := splitFullName(fullName)
	if err != nil {
		return nil, err
	}

	prs, resp, err := c.gh.PullRequests.List(ctx, owner, name, &github.PullRequestListOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(prs) == 0 {
		return nil, nil
	}

	date := prs[0].GetCreatedAt()
	if date.IsZero() {
		return nil, nil
	}
	ts := date.Time
	return &ts, nil
}
