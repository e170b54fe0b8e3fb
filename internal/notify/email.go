// Package notify delivers rendered run reports by email.
package notify

import (
	"fmt"
	"strings"

	"github.com/phracek/auto-merger/cmd"
	"gopkg.in/gomail.v2"
)

// defaultSMTPPort is used when the configuration leaves the port unset
const defaultSMTPPort = 25

// EmailSender sends a report body to a fixed set of recipients
type EmailSender struct {
	config     *cmd.EmailConfig
	recipients []string
}

// NewEmailSender creates a sender for the given recipients
func NewEmailSender(config *cmd.EmailConfig, recipients []string) *EmailSender {
	return &EmailSender{
		config:     config,
		recipients: recipients,
	}
}

// Subject builds the fixed subject line for an organization's report
func Subject(namespace string) string {
	return fmt.Sprintf("Pull request statuses for organization https://github.com/%s", namespace)
}

// Send delivers the body lines as a single HTML message
func (s *EmailSender) Send(subject string, body []string) error {
	if len(s.recipients) == 0 {
		return fmt.Errorf("no recipients specified")
	}
	if s.config == nil || s.config.SMTPHost == "" {
		return fmt.Errorf("email is not configured: smtp_host is missing")
	}

	port := s.config.SMTPPort
	if port == 0 {
		port = defaultSMTPPort
	}

	message := gomail.NewMessage()
	message.SetHeader("From", s.config.From)
	message.SetHeader("To", s.recipients...)
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", strings.Join(body, "\n"))

	dialer := gomail.NewDialer(s.config.SMTPHost, port, "", "")
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
