package scan

import (
	"math"
	"time"

	"github.com/stalewatch/stalewatch/internal/model"
)

// InfiniteDays is the inactivity value assigned to repositories that have
// no activity timestamp at all. It exceeds any usable threshold, so such
// repositories are always classified stale.
const InfiniteDays = math.MaxInt32

// Resolve computes the number of whole days a repository has been inactive
// under the given activity method, measured against a single run-scoped
// now. It returns the reference timestamp that was used, or nil when the
// repository has never been active under that method.
//
// A nil reference timestamp yields InfiniteDays: a repository that was
// never pushed to is the strongest staleness signal, not an error. Future
// timestamps (clock skew) clamp to zero.
func Resolve(repo model.Repo, method model.ActivityMethod, now time.Time) (int, *time.Time) {
	var ts *time.Time
	switch method {
	case model.MethodDefaultBranchUpdated:
		ts = repo.BranchUpdatedAt
	default:
		ts = repo.PushedAt
	}

	if ts == nil {
		return InfiniteDays, nil
	}

	days := int(now.Sub(*ts).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days, ts
}
