package merger

import (
	"context"
	"fmt"
	"testing"

	"github.com/phracek/auto-merger/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMergerCmd(t *testing.T) {
	loadConfig := func(filename string) (*cmd.Config, error) {
		return nil, nil
	}

	configFile := "test-config.yaml"
	mergerCmd := NewMergerCmd(&configFile, loadConfig)

	assert.Equal(t, "merger", mergerCmd.Use)

	for _, name := range []string{"print-results", "merger-labels", "approvals", "pr-lifetime", "send-email"} {
		assert.NotNil(t, mergerCmd.Flags().Lookup(name), "merger must define --%s", name)
	}

	approvals, err := mergerCmd.Flags().GetInt("approvals")
	require.NoError(t, err)
	assert.Equal(t, 2, approvals, "default approvals is 2")

	lifetime, err := mergerCmd.Flags().GetInt("pr-lifetime")
	require.NoError(t, err)
	assert.Equal(t, 1, lifetime, "default pr-lifetime is 1 day")
}

func TestRunMerger_ConfigLoadFailure(t *testing.T) {
	loadConfig := func(filename string) (*cmd.Config, error) {
		return nil, fmt.Errorf("config not found")
	}

	err := runMerger(context.Background(), "test-config.yaml", loadConfig, mergerOptions{
		mergerLabels: []string{"pr/approved"},
		approvals:    2,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRunMerger_MissingToken(t *testing.T) {
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	loadConfig := func(filename string) (*cmd.Config, error) {
		return &cmd.Config{
			Namespace: "sclorg",
			Repos:     []string{"alpha"},
			Approvals: 2,
		}, nil
	}

	err := runMerger(context.Background(), "test-config.yaml", loadConfig, mergerOptions{
		mergerLabels: []string{"pr/approved"},
		approvals:    2,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "environment variable is required")
}
