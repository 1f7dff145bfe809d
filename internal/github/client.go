// Package github is the repository source collaborator: it authenticates
// against GitHub (or a GitHub Enterprise instance), streams repository
// metadata, and serves the auxiliary release/PR lookups.
package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Credentials selects how the client authenticates. Either Token or the
// full App triple (AppID, AppInstallationID, AppPrivateKey) must be set;
// App credentials win when both are present.
type Credentials struct {
	Token             string
	AppID             int64
	AppInstallationID int64
	AppPrivateKey     []byte

	// EnterpriseURL switches both auth and API calls to a GitHub
	// Enterprise instance. Empty means github.com.
	EnterpriseURL string

	// AppEnterpriseOnly routes App token exchange through the Enterprise
	// instance as well. Without it an App installation authenticates
	// against github.com even when EnterpriseURL is set.
	AppEnterpriseOnly bool
}

// Client wraps the GitHub API client.
type Client struct {
	gh *github.Client
}

// NewClient creates an authenticated GitHub client.
func NewClient(ctx context.Context, creds Credentials) (*Client, error) {
	if creds.AppID != 0 {
		return newAppClient(creds)
	}
	if creds.Token == "" {
		return nil, fmt.Errorf("no GitHub credentials: set GH_TOKEN or the GH_APP_* variables")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.Token})
	tc := oauth2.NewClient(ctx, ts)

	gh := github.NewClient(tc)
	if creds.EnterpriseURL != "" {
		var err error
		gh, err = gh.WithEnterpriseURLs(creds.EnterpriseURL, creds.EnterpriseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid enterprise URL %q: %w", creds.EnterpriseURL, err)
		}
	}

	return &Client{gh: gh}, nil
}

// newAppClient authenticates as a GitHub App installation.
func newAppClient(creds Credentials) (*Client, error) {
	if creds.AppInstallationID == 0 || len(creds.AppPrivateKey) == 0 {
		return nil, fmt.Errorf("GH_APP_ID set but GH_APP_INSTALLATION_ID or GH_APP_PRIVATE_KEY missing")
	}

	itr, err := ghinstallation.New(
		http.DefaultTransport, creds.AppID, creds.AppInstallationID, creds.AppPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create app installation transport: %w", err)
	}

	gh := github.NewClient(&http.Client{Transport: itr})
	if creds.EnterpriseURL != "" && creds.AppEnterpriseOnly {
		itr.BaseURL = strings.TrimSuffix(creds.EnterpriseURL, "/") + "/api/v3"
		gh, err = gh.WithEnterpriseURLs(creds.EnterpriseURL, creds.EnterpriseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid enterprise URL %q: %w", creds.EnterpriseURL, err)
		}
	}

	return &Client{gh: gh}, nil
}

// AuthenticatedUser returns the login of the token owner. App installations
// have no user identity; those return a descriptive placeholder.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// splitFullName splits "owner/name" into its parts.
func splitFullName(fullName string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(fullName, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("malformed repository name %q", fullName)
	}
	return owner, name, nil
}
