package prchecker

import (
	"context"
	"fmt"
	"testing"

	"github.com/phracek/auto-merger/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPRCheckerCmd(t *testing.T) {
	loadConfig := func(filename string) (*cmd.Config, error) {
		return nil, nil
	}

	configFile := "test-config.yaml"
	checkerCmd := NewPRCheckerCmd(&configFile, loadConfig)

	assert.Equal(t, "pr-checker", checkerCmd.Use)
	assert.Equal(t, "Check open pull requests across the configured repositories", checkerCmd.Short)

	flag := checkerCmd.Flags().Lookup("send-email")
	require.NotNil(t, flag, "pr-checker must accept --send-email")
	assert.Equal(t, "stringArray", flag.Value.Type(), "--send-email must be repeatable")
}

func TestRunPRChecker_ConfigLoadFailure(t *testing.T) {
	loadConfig := func(filename string) (*cmd.Config, error) {
		return nil, fmt.Errorf("config not found")
	}

	err := runPRChecker(context.Background(), "test-config.yaml", loadConfig, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRunPRChecker_MissingToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	loadConfig := func(filename string) (*cmd.Config, error) {
		return &cmd.Config{
			Namespace: "sclorg",
			Repos:     []string{"alpha"},
			Approvals: 2,
		}, nil
	}

	err := runPRChecker(context.Background(), "test-config.yaml", loadConfig, nil)

	require.Error(t, err, "a missing token must fail the run before any repository is processed")
	assert.Contains(t, err.Error(), "environment variable is required")
}
