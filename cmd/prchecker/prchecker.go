// Package prchecker implements the pr-checker command that classifies open
// pull requests across the configured repositories and reports the results.
package prchecker

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

// NewPRCheckerCmd creates the pr-checker command
func NewPRCheckerCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	var sendEmail []string

	checkerCmd := &cobra.Command{
		Use:   "pr-checker",
		Short: "Check open pull requests across the configured repositories",
		Long: `Check every repository listed in the configuration: report open pull
requests blocked by labels and pull requests with enough approvals to be
merged. The summary is logged and can optionally be sent by email.

Examples:
  auto-merger pr-checker
  auto-merger pr-checker --send-email dev@example.com --send-email qa@example.com`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runPRChecker(cobraCmd.Context(), *globalConfigFile, loadConfig, sendEmail)
		},
	}

	checkerCmd.Flags().StringArrayVar(&sendEmail, "send-email", nil, "Email address to send the summary to (repeatable)")

	return checkerCmd
}

func runPRChecker(ctx context.Context, configFile string, loadConfig func(string) (*cmd.Config, error), recipients []string) error {
	config, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

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

	body := chk.RenderBlockedReport()
	body = append(body, chk.RenderApprovalReport()...)

	if len(recipients) > 0 {
		sender := notify.NewEmailSender(config.Email, recipients)
		if err := sender.Send(notify.Subject(config.Namespace), body); err != nil {
			return fmt.Errorf("failed to send results: %w", err)
		}
		slog.Info("Summary sent", "recipients", recipients)
	}

	return nil
}
