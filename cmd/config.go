// Package cmd defines core data structures shared by the auto-merger commands.
package cmd

import (
	"strings"
	"time"
)

// ChangesRequestedLabel marks a pull request whose author still has to
// address review feedback. PRs carrying it are never part of the working set.
const ChangesRequestedLabel = "pr/changes-requested"

// FlexBool is a bool that tolerates the boolean-like encodings the hosting
// client emits for draft status. JSON true, "true" and "True" all normalize
// to true; any other value, including absence of the field, means false.
type FlexBool bool

// UnmarshalJSON never fails: unrecognized values decode as false.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	*b = FlexBool(strings.EqualFold(value, "true"))
	return nil
}

// Bool returns the normalized boolean value.
func (b FlexBool) Bool() bool {
	return bool(b)
}

// Label is a label attached to a pull request
type Label struct {
	Name string `json:"name"`
}

// Review is a single review record on a pull request
type Review struct {
	State string `json:"state"`
}

// ReviewStateApproved is the only review state that counts toward approvals
const ReviewStateApproved = "APPROVED"

// PullRequest is the hosting-client view of an open pull request.
// Labels and Reviews may be nil when the corresponding fields were absent
// from the response; nil is treated as empty everywhere.
type PullRequest struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Labels    []Label   `json:"labels,omitempty"`
	Reviews   []Review  `json:"reviews,omitempty"`
	IsDraft   FlexBool  `json:"isDraft,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// HasLabel reports whether the pull request carries a label with the given name
func (pr PullRequest) HasLabel(name string) bool {
	for _, label := range pr.Labels {
		if label.Name == name {
			return true
		}
	}
	return false
}

// LabelNames returns the names of all labels on the pull request
func (pr PullRequest) LabelNames() []string {
	var names []string
	for _, label := range pr.Labels {
		names = append(names, label.Name)
	}
	return names
}

// BlockedPR is a pull request that matched a blocking label
type BlockedPR struct {
	Number int
	Title  string
	Labels []Label
}

// MergeCandidate is a pull request free of blocking labels together with
// its counted approvals
type MergeCandidate struct {
	Number    int
	Approvals int
	Title     string
	Labels    []Label
	CreatedAt time.Time
}

// HasLabel reports whether the candidate carries a label with the given name
func (mc MergeCandidate) HasLabel(name string) bool {
	for _, label := range mc.Labels {
		if label.Name == name {
			return true
		}
	}
	return false
}

// EmailConfig holds the SMTP settings used when a run is delivered by email
type EmailConfig struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	From     string `yaml:"from"`
}

// Config represents the structure of auto-merger.yaml
type Config struct {
	Namespace      string       `yaml:"namespace"`
	Repos          []string     `yaml:"repos"`
	ApprovalLabels []string     `yaml:"approval_labels,omitempty"`
	BlockerLabels  []string     `yaml:"blocker_labels,omitempty"`
	Approvals      int          `yaml:"approvals"`
	Email          *EmailConfig `yaml:"email,omitempty"`
}
