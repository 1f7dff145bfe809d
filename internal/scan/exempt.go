package scan

import (
	"path"

	"github.com/stalewatch/stalewatch/internal/log"
	"github.com/stalewatch/stalewatch/internal/model"
)

// IsExempt reports whether a repository is excluded from staleness
// consideration. A repository is exempt when any of its topics appears in
// the exempt topic list, or when its name matches any of the exempt glob
// patterns. Empty rule sets exempt nothing.
func IsExempt(repo model.Repo, rules model.ExemptionRules) bool {
	if rules.Empty() {
		return false
	}

	for _, pattern := range rules.RepoGlobs {
		ok, err := path.Match(pattern, repo.Name)
		if err != nil {
			log.Warn("invalid exempt repo pattern", "pattern", pattern, "error", err)
			continue
		}
		if ok {
			log.Info("repo exempt by name pattern", "repo", repo.HTMLURL, "pattern", pattern)
			return true
		}
	}

	if len(rules.Topics) > 0 && len(repo.Topics) > 0 {
		exempt := make(map[string]bool, len(rules.Topics))
		for _, t := range rules.Topics {
			exempt[t] = true
		}
		for _, t := range repo.Topics {
			if exempt[t] {
				log.Info("repo exempt by topic", "repo", repo.HTMLURL, "topic", t)
				return true
			}
		}
	}

	return false
}
