package notify

import (
	"testing"

	"github.com/phracek/auto-merger/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	subject := Subject("sclorg")
	assert.Equal(t, "Pull request statuses for organization https://github.com/sclorg", subject)
}

func TestSend_NoRecipients(t *testing.T) {
	sender := NewEmailSender(&cmd.EmailConfig{SMTPHost: "smtp.example.com"}, nil)

	err := sender.Send("subject", []string{"body"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipients")
}

func TestSend_NotConfigured(t *testing.T) {
	tests := []struct {
		name   string
		config *cmd.EmailConfig
	}{
		{
			name:   "nil config",
			config: nil,
		},
		{
			name:   "missing host",
			config: &cmd.EmailConfig{From: "auto-merger@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := NewEmailSender(tt.config, []string{"dev@example.com"})
			err := sender.Send("subject", []string{"body"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "not configured")
		})
	}
}
