package checker

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/phracek/auto-merger/cmd"
)

// PullRequestURL builds the browser URL for a pull request
func PullRequestURL(namespace, repo string, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", namespace, repo, number)
}

// ApprovalStatus renders the approval verdict for a merge candidate
func ApprovalStatus(approvals, required int) string {
	if approvals >= required {
		return "CAN BE MERGED"
	}
	return fmt.Sprintf("Missing %d APPROVAL", required-approvals)
}

// RenderBlockedReport renders the blocked-PR summary as HTML body lines and
// logs a console line per PR. It returns nothing when every repository's
// blocked list is empty.
func (c *Checker) RenderBlockedReport() []string {
	if c.countBlocked() == 0 {
		return nil
	}

	labelSet := strings.Join(c.config.BlockerLabels, ", ")
	slog.Info("SUMMARY: pull requests blocked by labels", "labels", labelSet)

	var body []string
	body = append(body, fmt.Sprintf("Pull requests that are blocked by labels <b>[%s]</b><br><br>", labelSet))

	for _, repo := range c.config.Repos {
		blocked := c.Blocked[repo]
		if len(blocked) == 0 {
			continue
		}

		body = append(body, fmt.Sprintf("<b>%s</b>:", repo))
		body = append(body, "<table><tr><th>Pull request URL</th><th>Title</th><th>Missing labels</th></tr>")
		for _, pr := range blocked {
			url := PullRequestURL(c.config.Namespace, repo, pr.Number)
			labels := strings.Join(c.matchedBlockerLabels(pr), " ")
			slog.Info("Blocked pull request", "url", url, "labels", labels)
			body = append(body, fmt.Sprintf(
				"<tr><td>%s</td><td>%s</td><td><p style='color:red;'>%s</p></td></tr>",
				url, pr.Title, labels))
		}
		body = append(body, "</table><br><br>")
	}

	return body
}

// matchedBlockerLabels returns the PR's label names that are members of the
// configured blocker set
func (c *Checker) matchedBlockerLabels(pr cmd.BlockedPR) []string {
	var matched []string
	for _, label := range pr.Labels {
		if contains(c.config.BlockerLabels, label.Name) {
			matched = append(matched, label.Name)
		}
	}
	return matched
}

// RenderApprovalReport renders the merge-candidate summary as HTML body
// lines and logs a console line per PR. It returns nothing when no
// repository has a merge candidate.
func (c *Checker) RenderApprovalReport() []string {
	if c.countCandidates() == 0 {
		return nil
	}

	slog.Info("SUMMARY: pull requests that can be merged or are missing approvals", "required", c.config.Approvals)

	var body []string
	body = append(body, fmt.Sprintf("Pull requests that can be merged or missing %d approvals", c.config.Approvals))
	body = append(body, "<table><tr><th>Pull request URL</th><th>Title</th><th>Approval status</th></tr>")

	for _, repo := range c.config.Repos {
		for _, candidate := range c.ToMerge[repo] {
			url := PullRequestURL(c.config.Namespace, repo, candidate.Number)
			status := ApprovalStatus(candidate.Approvals, c.config.Approvals)
			slog.Info("Merge candidate", "url", url, "status", status)
			body = append(body, fmt.Sprintf(
				"<tr><td>%s</td><td>%s</td><td><p style='color:red;'>%s</p></td></tr>",
				url, candidate.Title, status))
		}
	}

	body = append(body, "</table><br>")
	return body
}

func (c *Checker) countBlocked() int {
	total := 0
	for _, blocked := range c.Blocked {
		total += len(blocked)
	}
	return total
}

func (c *Checker) countCandidates() int {
	total := 0
	for _, candidates := range c.ToMerge {
		total += len(candidates)
	}
	return total
}
