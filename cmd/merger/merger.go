// Package merger implements the merger command. It reuses the checker's
// classification to find mergeable pull requests and logs the merge intent;
// the merge action itself is deliberately not performed.
package merger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phracek/auto-merger/cmd"
	"github.com/phracek/auto-merger/internal/checker"
	"github.com/phracek/auto-merger/internal/github"
	"github.com/phracek/auto-merger/internal/notify"
	"github.com/phracek/auto-merger/internal/workspace"
	"github.com/spf13/cobra"
)

// NewMergerCmd creates the merger command
func NewMergerCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var printResults bool
	var mergerLabels []string
	var approvals int
	var prLifetime int
	var sendEmail []string

	mergerCmd := &cobra.Command{
		Use:   "merger",
		Short: "Find pull requests that meet the merge criteria",
		Long: `Find open pull requests that carry the given labels, have enough
approvals and have been open long enough, and log them as merge candidates.

Examples:
  auto-merger merger --merger-labels pr/approved
  auto-merger merger --merger-labels pr/approved --approvals 3 --pr-lifetime 0 --print-results`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runMerger(cobraCmd.Context(), *globalConfigFile, loadConfig, mergerOptions{
				printResults: printResults,
				mergerLabels: mergerLabels,
				approvals:    approvals,
				prLifetime:   prLifetime,
				sendEmail:    sendEmail,
			})
		},
	}

	mergerCmd.Flags().BoolVar(&printResults, "print-results", false, "Print a readable summary")
	mergerCmd.Flags().StringArrayVar(&mergerLabels, "merger-labels", nil, "GitHub labels a PR has to carry to meet the merge criteria (repeatable)")
	mergerCmd.Flags().IntVar(&approvals, "approvals", 2, "Number of approvals required to merge a PR")
	mergerCmd.Flags().IntVar(&prLifetime, "pr-lifetime", 1, "Days a PR has to be open before merging; 0 disables the check")
	mergerCmd.Flags().StringArrayVar(&sendEmail, "send-email", nil, "Email address to send the summary to (repeatable)")
	_ = mergerCmd.MarkFlagRequired("merger-labels")

	return mergerCmd
}

type mergerOptions struct {
	printResults bool
	mergerLabels []string
	approvals    int
	prLifetime   int
	sendEmail    []string
}

func runMerger(ctx context.Context, configFile string, loadConfig func(string) (*cmd.Config, error), opts mergerOptions) error {
	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command-line criteria override the configured ones for this run
	config.ApprovalLabels = opts.mergerLabels
	config.Approvals = opts.approvals

	token, err := github.ResolveToken()
	if err != nil {
		slog.Error("Authentication token is not available", "error", err)
		return err
	}

	host := github.NewClient(ctx, token).WithOrganization(config.Namespace)
	chk := checker.New(config, host, workspace.NewCloner())

	if status := chk.CheckAllRepositories(ctx); status != 0 {
		return fmt.Errorf("authentication to GitHub failed")
	}

	chk.MergePullRequests(opts.prLifetime)

	var body []string
	if opts.printResults || len(opts.sendEmail) > 0 {
		body = chk.RenderBlockedReport()
		body = append(body, chk.RenderApprovalReport()...)
	}

	if len(opts.sendEmail) > 0 {
		sender := notify.NewEmailSender(config.Email, opts.sendEmail)
		if err := sender.Send(notify.Subject(config.Namespace), body); err != nil {
			return fmt.Errorf("failed to send results: %w", err)
		}
		slog.Info("Summary sent", "recipients", opts.sendEmail)
	}

	return nil
}
