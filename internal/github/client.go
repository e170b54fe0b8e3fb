// Package github implements the hosting client the checker consumes,
// backed by the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client for a single organization
type Client struct {
	client *github.Client
	org    string
	token  string
}

// NewClient creates a new GitHub client with token authentication
func NewClient(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
		token:  token,
	}
}

// WithOrganization returns a client scoped to the given organization namespace
func (c *Client) WithOrganization(org string) *Client {
	c.org = org
	return c
}

// ResolveToken reads the authentication token from the environment.
// GH_TOKEN takes precedence over GITHUB_TOKEN.
func ResolveToken() (string, error) {
	for _, name := range []string{"GH_TOKEN", "GITHUB_TOKEN"} {
		if token := os.Getenv(name); token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("GH_TOKEN or GITHUB_TOKEN environment variable is required")
}

// CheckAuth verifies that a token is present and that the API accepts it.
// It is the global precondition for a run; a failure aborts everything.
func (c *Client) CheckAuth(ctx context.Context) error {
	if c.token == "" {
		return fmt.Errorf("authentication token is empty")
	}

	slog.Debug("GitHub API: Checking authentication")
	if _, _, err := c.client.Users.Get(ctx, ""); err != nil {
		return fmt.Errorf("authentication to GitHub failed: %w", err)
	}
	return nil
}

// paginatedList handles pagination for GitHub API list operations
func paginatedList[T any](fetch func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	page := 1

	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if resp.NextPage == 0 {
			return all, nil
		}
		page = resp.NextPage
	}
}
