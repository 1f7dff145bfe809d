package scan

import (
	"testing"

	"github.com/stalewatch/stalewatch/internal/model"
)

func makeRepo(name string, topics ...string) model.Repo {
	return model.Repo{
		Name:     name,
		FullName: "octo/" + name,
		HTMLURL:  "https://github.com/octo/" + name,
		Topics:   topics,
	}
}

func TestIsExempt(t *testing.T) {
	tests := []struct {
		name  string
		repo  model.Repo
		rules model.ExemptionRules
		want  bool
	}{
		{
			name:  "no rules exempts nothing",
			repo:  makeRepo("anything", "keep"),
			rules: model.ExemptionRules{},
			want:  false,
		},
		{
			name:  "topic exact match",
			repo:  makeRepo("templates", "template"),
			rules: model.ExemptionRules{Topics: []string{"keep", "template"}},
			want:  true,
		},
		{
			name:  "topic match is case sensitive",
			repo:  makeRepo("templates", "Template"),
			rules: model.ExemptionRules{Topics: []string{"template"}},
			want:  false,
		},
		{
			name:  "no topic intersection",
			repo:  makeRepo("service", "go", "api"),
			rules: model.ExemptionRules{Topics: []string{"keep"}},
			want:  false,
		},
		{
			name:  "glob prefix match",
			repo:  makeRepo("conf-2024"),
			rules: model.ExemptionRules{RepoGlobs: []string{"conf-*"}},
			want:  true,
		},
		{
			name:  "glob requires full-string match",
			repo:  makeRepo("myconf-2024"),
			rules: model.ExemptionRules{RepoGlobs: []string{"conf-*"}},
			want:  false,
		},
		{
			name:  "glob single character wildcard",
			repo:  makeRepo("repo1"),
			rules: model.ExemptionRules{RepoGlobs: []string{"repo?"}},
			want:  true,
		},
		{
			name:  "glob literal name",
			repo:  makeRepo("archive"),
			rules: model.ExemptionRules{RepoGlobs: []string{"archive"}},
			want:  true,
		},
		{
			name:  "second pattern in ordered list matches",
			repo:  makeRepo("sandbox-x"),
			rules: model.ExemptionRules{RepoGlobs: []string{"conf-*", "sandbox-*"}},
			want:  true,
		},
		{
			name:  "invalid pattern is skipped",
			repo:  makeRepo("conf-2024"),
			rules: model.ExemptionRules{RepoGlobs: []string{"[", "conf-*"}},
			want:  true,
		},
		{
			name: "either condition exempts",
			repo: makeRepo("service", "template"),
			rules: model.ExemptionRules{
				Topics:    []string{"template"},
				RepoGlobs: []string{"conf-*"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExempt(tt.repo, tt.rules); got != tt.want {
				t.Errorf("IsExempt() = %v, want %v", got, tt.want)
			}
		})
	}
}
