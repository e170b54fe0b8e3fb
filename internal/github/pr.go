package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
	"github.com/phracek/auto-merger/cmd"
)

// ListOpenPullRequests fetches all open PRs for the given repository,
// including their labels and review records
func (c *Client) ListOpenPullRequests(ctx context.Context, repo string) ([]cmd.PullRequest, error) {
	prs, err := paginatedList(func(page int) ([]*github.PullRequest, *github.Response, error) {
		opts := &github.PullRequestListOptions{
			State: "open",
			ListOptions: github.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing pull requests", "org", c.org, "repo", repo, "state", "open", "page", page)
		return c.client.PullRequests.List(ctx, c.org, repo, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch open pull requests: %w", err)
	}

	var allPRs []cmd.PullRequest
	for _, pr := range prs {
		reviews, err := c.listReviews(ctx, repo, pr.GetNumber())
		if err != nil {
			return nil, err
		}
		allPRs = append(allPRs, mapPullRequest(pr, reviews))
	}

	return allPRs, nil
}

// listReviews fetches all review records for a single PR
func (c *Client) listReviews(ctx context.Context, repo string, number int) ([]*github.PullRequestReview, error) {
	reviews, err := paginatedList(func(page int) ([]*github.PullRequestReview, *github.Response, error) {
		opts := &github.ListOptions{
			PerPage: 100,
			Page:    page,
		}
		slog.Debug("GitHub API: Listing reviews", "org", c.org, "repo", repo, "pr", number, "page", page)
		return c.client.PullRequests.ListReviews(ctx, c.org, repo, number, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for PR #%d: %w", number, err)
	}
	return reviews, nil
}

// mapPullRequest converts an API pull request into the checker's model.
// Missing labels map to a nil slice, which the checker treats as empty.
// Reviews are always fetched for every listed PR, so they map to an empty,
// non-nil slice even when none were returned: a zero-review PR is still a
// merge candidate with 0 approvals.
func mapPullRequest(pr *github.PullRequest, reviews []*github.PullRequestReview) cmd.PullRequest {
	var labels []cmd.Label
	for _, label := range pr.Labels {
		labels = append(labels, cmd.Label{Name: label.GetName()})
	}

	reviewRecords := []cmd.Review{}
	for _, review := range reviews {
		reviewRecords = append(reviewRecords, cmd.Review{State: review.GetState()})
	}

	return cmd.PullRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Labels:    labels,
		Reviews:   reviewRecords,
		IsDraft:   cmd.FlexBool(pr.GetDraft()),
		CreatedAt: pr.GetCreatedAt().Time,
	}
}
