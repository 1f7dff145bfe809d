package model

import "time"

// Visibility is the access level of a repository.
type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
)

// ActivityMethod selects which timestamp is used as the recency signal
// when deciding whether a repository is stale.
type ActivityMethod string

const (
	// MethodPushed uses the repository's last push event.
	MethodPushed ActivityMethod = "pushed"
	// MethodDefaultBranchUpdated uses the commit date at the tip of the
	// default branch.
	MethodDefaultBranchUpdated ActivityMethod = "default_branch_updated"
)

// Valid reports whether m is a recognized activity method.
func (m ActivityMethod) Valid() bool {
	return m == MethodPushed || m == MethodDefaultBranchUpdated
}

// Repo is a single repository record as produced by the repository source.
// Timestamps are nil when the upstream API has no value for them (a repo
// with no pushes, or no default branch).
type Repo struct {
	Name            string
	FullName        string // owner/name
	HTMLURL         string
	PushedAt        *time.Time
	BranchUpdatedAt *time.Time
	Topics          []string
	Visibility      Visibility
	Archived        bool
	Fork            bool
}

// ExemptionRules removes repositories from staleness consideration.
// Topics match case-sensitively and exactly; RepoGlobs are shell-glob
// patterns that must match the repository name in full.
type ExemptionRules struct {
	Topics    []string
	RepoGlobs []string
}

// Empty reports whether the rules exempt nothing.
func (r ExemptionRules) Empty() bool {
	return len(r.Topics) == 0 && len(r.RepoGlobs) == 0
}

// MetricSet is the set of optional enrichment metrics requested for a run.
type MetricSet struct {
	Release bool
	PR      bool
}

// Any reports whether at least one metric is requested.
func (m MetricSet) Any() bool {
	return m.Release || m.PR
}

// StaleRepo is one row of the final report. The JSON field names match the
// published report format, so the struct marshals directly into the JSON
// artifact. Optional metric fields are omitted when absent rather than
// emitted as null.
type StaleRepo struct {
	URL                  string     `json:"url"`
	DaysInactive         int        `json:"daysInactive"`
	LastActivityDate     string     `json:"lastPushDate,omitempty"`
	Visibility           Visibility `json:"visibility"`
	DaysSinceLastRelease *int       `json:"daysSinceLastRelease,omitempty"`
	DaysSinceLastPR      *int       `json:"daysSinceLastPR,omitempty"`

	// FullName identifies the repository for enrichment lookups. It is
	// not part of the report.
	FullName string `json:"-"`
}
