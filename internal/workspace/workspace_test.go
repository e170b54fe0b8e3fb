package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneURL(t *testing.T) {
	url := CloneURL("sclorg", "s2i-python-container")
	assert.Equal(t, "https://github.com/sclorg/s2i-python-container", url)
}

func TestRepoNameFromURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			name:     "https URL",
			url:      "https://github.com/sclorg/s2i-python-container",
			expected: "s2i-python-container",
		},
		{
			name:     "https URL with .git suffix",
			url:      "https://github.com/sclorg/s2i-python-container.git",
			expected: "s2i-python-container",
		},
		{
			name:     "ssh style path",
			url:      "git@github.com:sclorg/s2i-python-container.git",
			expected: "s2i-python-container",
		},
		{
			name:     "local path",
			url:      "/tmp/fixtures/myrepo",
			expected: "myrepo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RepoNameFromURL(tt.url))
		})
	}
}

func TestNewCloner(t *testing.T) {
	cloner := NewCloner()
	require.NotNil(t, cloner)

	// A failed clone must surface the error through the adapter, not a
	// typed-nil workspace.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws, err := cloner.Clone(ctx, "sclorg", "no-such-repo")
	require.Error(t, err)
	assert.Nil(t, ws)
}

func TestWorkspaceRelease(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scratch")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "repo"), 0755))

	ws := &Workspace{Repo: "repo", Dir: filepath.Join(dir, "repo"), root: dir}

	require.NoError(t, ws.Release())
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "workspace directory must be removed")

	// Release is safe to call again
	require.NoError(t, ws.Release())
}

// initLocalRepo creates a bare-bones git repository to clone from
func initLocalRepo(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0755))

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	run("init", "--quiet")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("test\n"), 0600))
	run("add", "README.md")
	run("commit", "--quiet", "-m", "initial commit")

	return dir
}

func TestVerifyIdentity(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available")
	}

	source := initLocalRepo(t, "myrepo")
	dest := filepath.Join(t.TempDir(), "clone")

	out, err := exec.Command("git", "clone", "--quiet", source, dest).CombinedOutput()
	require.NoError(t, err, "git clone: %s", out)

	matching := &Workspace{Repo: "myrepo", Dir: dest}
	assert.NoError(t, matching.VerifyIdentity(context.Background()))

	mismatched := &Workspace{Repo: "otherrepo", Dir: dest}
	err = mismatched.VerifyIdentity(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected "otherrepo"`)
}
