// Package checker implements the pull-request classification and
// aggregation engine: it decides, per repository, which open PRs are
// blocked by labels and which ones are candidates for merging, and folds
// the results into organization-wide maps.
package checker

import (
	"context"
	"log/slog"
	"time"

	"github.com/phracek/auto-merger/cmd"
)

// Host is the repository-hosting surface the checker needs
type Host interface {
	CheckAuth(ctx context.Context) error
	ListOpenPullRequests(ctx context.Context, repo string) ([]cmd.PullRequest, error)
}

// Workspace is an acquired repository clone
type Workspace interface {
	VerifyIdentity(ctx context.Context) error
	Release() error
}

// Cloner acquires a scoped working copy for one repository
type Cloner interface {
	Clone(ctx context.Context, namespace, repo string) (Workspace, error)
}

// Checker classifies open pull requests across the configured repositories.
// Blocked and ToMerge are scoped to a single run.
type Checker struct {
	config *cmd.Config
	host   Host
	cloner Cloner

	// Blocked maps repository name to the PRs blocked by labels
	Blocked map[string][]cmd.BlockedPR
	// ToMerge maps repository name to the merge candidates found
	ToMerge map[string][]cmd.MergeCandidate
}

// New creates a checker for one run
func New(config *cmd.Config, host Host, cloner Cloner) *Checker {
	return &Checker{
		config:  config,
		host:    host,
		cloner:  cloner,
		Blocked: make(map[string][]cmd.BlockedPR),
		ToMerge: make(map[string][]cmd.MergeCandidate),
	}
}

// CheckAllRepositories processes every configured repository in order.
// Authentication is verified once before the loop; a failure there returns 1
// without touching any repository. Per-repository failures are logged and
// skipped, so the returned status stays 0 no matter how many were skipped.
func (c *Checker) CheckAllRepositories(ctx context.Context) int {
	if err := c.host.CheckAuth(ctx); err != nil {
		slog.Error("Authentication to GitHub failed", "error", err)
		return 1
	}

	for _, repo := range c.config.Repos {
		slog.Info("Checking repository", "namespace", c.config.Namespace, "repo", repo)
		c.checkRepository(ctx, repo)
	}
	return 0
}

// checkRepository runs the per-repository state machine:
// clone, verify identity, list, classify, clean up. No error escapes;
// every failure path logs, releases the workspace and returns.
func (c *Checker) checkRepository(ctx context.Context, repo string) {
	ws, err := c.cloner.Clone(ctx, c.config.Namespace, repo)
	if err != nil {
		slog.Error("Failed to clone repository", "repo", repo, "error", err)
		return
	}
	defer func() {
		if err := ws.Release(); err != nil {
			slog.Error("Failed to clean up workspace", "repo", repo, "error", err)
		}
	}()

	if err := ws.VerifyIdentity(ctx); err != nil {
		slog.Error("This is not the correct repository", "repo", repo, "error", err)
		return
	}

	prs, err := c.host.ListOpenPullRequests(ctx, repo)
	if err != nil {
		slog.Error("Failed to list pull requests", "repo", repo, "error", err)
		return
	}

	working := FilterWorkingSet(prs)
	if len(working) == 0 {
		slog.Info("Nothing to check", "repo", repo)
		return
	}

	c.classifyBlocked(repo, working)
	c.classifyMergeCandidates(repo, working)
}

// InWorkingSet decides whether a raw pull request takes part in
// classification: drafts and PRs whose author was asked for changes do not.
func InWorkingSet(pr cmd.PullRequest) bool {
	if pr.IsDraft.Bool() {
		return false
	}
	if pr.HasLabel(cmd.ChangesRequestedLabel) {
		return false
	}
	return true
}

// FilterWorkingSet drops drafts and changes-requested PRs
func FilterWorkingSet(prs []cmd.PullRequest) []cmd.PullRequest {
	var working []cmd.PullRequest
	for _, pr := range prs {
		if InWorkingSet(pr) {
			working = append(working, pr)
		}
	}
	return working
}

// classifyBlocked adds every PR carrying a blocking label to the
// repository's blocked list. One matching label suffices; a PR is never
// reported twice.
func (c *Checker) classifyBlocked(repo string, prs []cmd.PullRequest) {
	for _, pr := range prs {
		slog.Debug("Checking PR for blocking labels", "repo", repo, "pr", pr.Number)
		for _, label := range pr.Labels {
			if !contains(c.config.BlockerLabels, label.Name) {
				continue
			}
			slog.Info("Adding PR to blocked PRs", "repo", repo, "pr", pr.Number, "label", label.Name)
			c.addBlocked(repo, pr)
			break
		}
	}
}

// addBlocked appends the PR to the repository's blocked list unless the
// PR number is already present
func (c *Checker) addBlocked(repo string, pr cmd.PullRequest) {
	for _, stored := range c.Blocked[repo] {
		if stored.Number == pr.Number {
			return
		}
	}
	c.Blocked[repo] = append(c.Blocked[repo], cmd.BlockedPR{
		Number: pr.Number,
		Title:  pr.Title,
		Labels: pr.Labels,
	})
}

// classifyMergeCandidates records every PR free of blocking labels together
// with its approval count. PRs without any review records contribute nothing.
func (c *Checker) classifyMergeCandidates(repo string, prs []cmd.PullRequest) {
	for _, pr := range prs {
		if c.hasBlockerLabel(pr) {
			continue
		}
		if pr.Reviews == nil {
			continue
		}
		slog.Debug("Adding PR to merge candidates", "repo", repo, "pr", pr.Number)
		c.ToMerge[repo] = append(c.ToMerge[repo], cmd.MergeCandidate{
			Number:    pr.Number,
			Approvals: CountApprovals(pr.Reviews),
			Title:     pr.Title,
			Labels:    pr.Labels,
			CreatedAt: pr.CreatedAt,
		})
	}
}

// hasBlockerLabel reports whether any of the PR's labels is a blocker
func (c *Checker) hasBlockerLabel(pr cmd.PullRequest) bool {
	for _, label := range pr.Labels {
		if contains(c.config.BlockerLabels, label.Name) {
			return true
		}
	}
	return false
}

// CountApprovals counts review records in state APPROVED. Repeated
// approvals from the same reviewer each count; the match is case-sensitive.
func CountApprovals(reviews []cmd.Review) int {
	count := 0
	for _, review := range reviews {
		if review.State == cmd.ReviewStateApproved {
			count++
		}
	}
	return count
}

// MergePullRequests logs the merge intent for every candidate that carries
// all configured approval labels and meets the approval threshold.
// Candidates opened less than prLifetime days ago are skipped; a prLifetime
// of 0 disables the age check. The merge action itself is not performed.
func (c *Checker) MergePullRequests(prLifetime int) {
	minAge := time.Duration(prLifetime) * 24 * time.Hour
	for _, repo := range c.config.Repos {
		for _, candidate := range c.ToMerge[repo] {
			if !c.hasApprovalLabels(candidate) {
				continue
			}
			if candidate.Approvals < c.config.Approvals {
				continue
			}
			if prLifetime > 0 && time.Since(candidate.CreatedAt) < minAge {
				slog.Info("PR is too young to merge", "repo", repo, "pr", candidate.Number, "lifetime_days", prLifetime)
				continue
			}
			slog.Info("PR to merge", "repo", repo, "pr", candidate.Number, "approvals", candidate.Approvals)
		}
	}
}

// hasApprovalLabels reports whether the candidate carries every configured
// approval label. An empty approval set places no requirement.
func (c *Checker) hasApprovalLabels(candidate cmd.MergeCandidate) bool {
	for _, name := range c.config.ApprovalLabels {
		if !candidate.HasLabel(name) {
			return false
		}
	}
	return true
}

func contains(haystack []string, needle string) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
