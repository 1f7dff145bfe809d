package github

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
)

const reposPerPage = 100

// Source streams repository records for one organization (or, when Org is
// empty, the repositories owned by the authenticated user). It implements
// scan.RepoSource. Listing is page-by-page, so classification starts
// before the full repository list has been fetched.
type Source struct {
	client *Client

	// Org is the organization to scan; empty falls back to token-owner
	// repositories.
	Org string

	// Method controls whether the source resolves the default-branch
	// commit date for each repository. The extra per-repo lookup is only
	// made when the activity method actually needs it.
	Method model.ActivityMethod
}

// NewSource creates a repository source.
func NewSource(client *Client, org string, method model.ActivityMethod) *Source {
	return &Source{client: client, Org: org, Method: method}
}

// Repos streams repository records to fn, page by page. Archived
// repositories are dropped here, upstream of classification. A listing
// failure is fatal and propagates; a single repository whose metadata
// cannot be completed is logged and skipped.
func (s *Source) Repos(ctx context.Context, fn func(model.Repo) error) error {
	page := 1
	for {
		repos, nextPage, err := s.listPage(ctx, page)
		if err != nil {
			return fmt.Errorf("failed to list repositories: %w", err)
		}
		log.Debug("fetched repository page", "page", page, "count", len(repos))

		for _, r := range repos {
			if r.GetArchived() {
				log.Debug("skipping archived repo", "repo", r.GetFullName())
				continue
			}

			record, ok := s.toRecord(ctx, r)
			if !ok {
				continue
			}
			if err := fn(record); err != nil {
				return err
			}
		}

		if nextPage == 0 {
			return nil
		}
		page = nextPage
	}
}

func (s *Source) listPage(ctx context.Context, page int) ([]*github.Repository, int, error) {
	list := github.ListOptions{Page: page, PerPage: reposPerPage}

	if s.Org != "" {
		repos, resp, err := s.client.gh.Repositories.ListByOrg(ctx, s.Org,
			&github.RepositoryListByOrgOptions{Type: "all", ListOptions: list})
		if err != nil {
			return nil, 0, err
		}
		return repos, resp.NextPage, nil
	}

	repos, resp, err := s.client.gh.Repositories.List(ctx, "",
		&github.RepositoryListOptions{Type: "owner", ListOptions: list})
	if err != nil {
		return nil, 0, err
	}
	return repos, resp.NextPage, nil
}

// toRecord converts an API repository into a record. It returns ok=false
// when the repository should be skipped because its metadata could not be
// completed; one bad repo never aborts the run.
func (s *Source) toRecord(ctx context.Context, r *github.Repository) (model.Repo, bool) {
	record := model.Repo{
		Name:       r.GetName(),
		FullName:   r.GetFullName(),
		HTMLURL:    r.GetHTMLURL(),
		Topics:     r.Topics,
		Visibility: visibility(r),
		Archived:   r.GetArchived(),
		Fork:       r.GetFork(),
	}

	if r.PushedAt != nil {
		ts := r.PushedAt.Time
		record.PushedAt = &ts
	}

	if s.Method == model.MethodDefaultBranchUpdated {
		ts, err := s.branchUpdatedAt(ctx, r)
		if err != nil {
			log.Warn("could not resolve default branch activity, skipping repo",
				"repo", r.GetFullName(), "error", err)
			return model.Repo{}, false
		}
		record.BranchUpdatedAt = ts
	}

	return record, true
}

// branchUpdatedAt fetches the committer date at the tip of the default
// branch. A repository without a resolvable default branch (404) has never
// been active under this method and yields a nil timestamp.
func (s *Source) branchUpdatedAt(ctx context.Context, r *github.Repository) (*time.Time, error) {
	branch := r.GetDefaultBranch()
	if branch == "" {
		return nil, nil
	}

	owner, name, err := splitFullName(r.GetFullName())
	if err != nil {
		return nil, err
	}

	br, resp, err := s.client.gh.Repositories.GetBranch(ctx, owner, name, branch, 3)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	date := br.GetCommit().GetCommit().GetCommitter().GetDate()
	if date.IsZero() {
		return nil, nil
	}
	ts := date.Time
	return &ts, nil
}

func visibility(r *github.Repository) model.Visibility {
	switch r.GetVisibility() {
	case "private":
		return model.VisibilityPrivate
	case "internal":
		return model.VisibilityInternal
	case "public":
		return model.VisibilityPublic
	}
	// Older GHE versions omit the visibility field.
	if r.GetPrivate() {
		return model.VisibilityPrivate
	}
	return model.VisibilityPublic
}
