package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"

	"github.com/stalewatch/stalewatch/internal/model"
)

// newTestClient returns a Client pointed at a local test server.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatalf("parse test server URL: %v", err)
	}
	gh.BaseURL = base
	gh.UploadURL = base

	return &Client{gh: gh}
}

func collect(t *testing.T, src *Source) []model.Repo {
	t.Helper()

	var got []model.Repo
	err := src.Repos(context.Background(), func(r model.Repo) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatalf("Repos() error = %v", err)
	}
	return got
}

func TestSourceStreamsOrgPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link",
				fmt.Sprintf(`<http://%s/orgs/octo/repos?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[
				{"name":"a","full_name":"octo/a","html_url":"https://github.com/octo/a",
				 "pushed_at":"2023-01-25T12:00:00Z","topics":["go"],"visibility":"public"},
				{"name":"museum","full_name":"octo/museum","html_url":"https://github.com/octo/museum",
				 "archived":true,"visibility":"public"}
			]`)
		case "2":
			fmt.Fprint(w, `[
				{"name":"b","full_name":"octo/b","html_url":"https://github.com/octo/b",
				 "visibility":"private","fork":true}
			]`)
		}
	})

	src := NewSource(newTestClient(t, mux), "octo", model.MethodPushed)
	got := collect(t, src)

	if len(got) != 2 {
		t.Fatalf("streamed %d repos, want 2 (archived dropped)", len(got))
	}
	if got[0].Name != "a" || got[0].PushedAt == nil || got[0].Visibility != model.VisibilityPublic {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].Name != "b" || got[1].PushedAt != nil || !got[1].Fork {
		t.Errorf("unexpected second record: %+v", got[1])
	}
	if got[1].Visibility != model.VisibilityPrivate {
		t.Errorf("visibility = %s, want private", got[1].Visibility)
	}
}

func TestSourceOwnerFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "owner" {
			t.Errorf("type = %q, want owner", got)
		}
		fmt.Fprint(w, `[
			{"name":"mine","full_name":"me/mine","html_url":"https://github.com/me/mine",
			 "private":true}
		]`)
	})

	src := NewSource(newTestClient(t, mux), "", model.MethodPushed)
	got := collect(t, src)

	if len(got) != 1 || got[0].Name != "mine" {
		t.Fatalf("unexpected records: %+v", got)
	}
	// No visibility field: fall back to the private flag.
	if got[0].Visibility != model.VisibilityPrivate {
		t.Errorf("visibility = %s, want private", got[0].Visibility)
	}
}

func TestSourceListFailureIsFatal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"bad credentials"}`, http.StatusUnauthorized)
	})

	src := NewSource(newTestClient(t, mux), "octo", model.MethodPushed)
	err := src.Repos(context.Background(), func(model.Repo) error { return nil })
	if err == nil {
		t.Fatal("Repos() error = nil, want transport failure")
	}
}

func TestSourceBranchMethod(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/octo/repos", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name":"a","full_name":"octo/a","html_url":"https://github.com/octo/a",
			 "default_branch":"main","visibility":"public"},
			{"name":"broken","full_name":"octo/broken","html_url":"https://github.com/octo/broken",
			 "default_branch":"main","visibility":"public"},
			{"name":"empty","full_name":"octo/empty","html_url":"https://github.com/octo/empty",
			 "default_branch":"main","visibility":"public"}
		]`)
	})
	mux.HandleFunc("/repos/octo/a/branches/main", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"main","commit":{"sha":"abc","commit":{"committer":{"date":"2024-01-20T12:00:00Z"}}}}`)
	})
	mux.HandleFunc("/repos/octo/broken/branches/main", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"server error"}`, http.StatusInternalServerError)
	})
	mux.HandleFunc("/repos/octo/empty/branches/main", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"branch not found"}`, http.StatusNotFound)
	})

	src := NewSource(newTestClient(t, mux), "octo", model.MethodDefaultBranchUpdated)
	got := collect(t, src)

	// "broken" is skipped (recoverable per-repo failure); "empty" streams
	// with a nil timestamp (never active, not an error).
	if len(got) != 2 {
		t.Fatalf("streamed %d repos, want 2: %+v", len(got), got)
	}
	if got[0].Name != "a" || got[0].BranchUpdatedAt == nil {
		t.Errorf("unexpected first record: %+v", got[0])
	}
	if got[1].Name != "empty" || got[1].BranchUpdatedAt != nil {
		t.Errorf("unexpected second record: %+v", got[1])
	}
}
