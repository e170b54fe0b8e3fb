// Package workspace manages the isolated clone directory used while one
// repository is being checked. Exactly one workspace exists at a time and
// Release removes it on every exit path.
package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/phracek/auto-merger/internal/checker"
)

// Workspace is an active repository clone scoped to one check
type Workspace struct {
	Namespace string
	Repo      string
	Dir       string

	// root is the temporary directory the clone lives in; Release removes it
	root string
}

// GitCloner clones repositories with the system git binary
type GitCloner struct{}

// NewCloner returns a GitCloner adapted to the checker's Cloner interface
func NewCloner() checker.Cloner {
	return clonerAdapter{}
}

type clonerAdapter struct {
	cloner GitCloner
}

func (a clonerAdapter) Clone(ctx context.Context, namespace, repo string) (checker.Workspace, error) {
	ws, err := a.cloner.Clone(ctx, namespace, repo)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// Clone clones the repository into a fresh temporary directory
func (GitCloner) Clone(ctx context.Context, namespace, repo string) (*Workspace, error) {
	root, err := os.MkdirTemp("", "auto-merger-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}

	dest := filepath.Join(root, repo)
	source := CloneURL(namespace, repo)

	slog.Debug("Cloning repository", "source", source, "dest", dest)
	gitCmd := exec.CommandContext(ctx, "git", "clone", "--quiet", "--depth", "1", source, dest)
	if out, err := gitCmd.CombinedOutput(); err != nil {
		if removeErr := os.RemoveAll(root); removeErr != nil {
			slog.Error("Failed to remove clone directory", "dir", root, "error", removeErr)
		}
		return nil, fmt.Errorf("git clone of %s failed: %v, output: %s", source, err, string(out))
	}

	return &Workspace{
		Namespace: namespace,
		Repo:      repo,
		Dir:       dest,
		root:      root,
	}, nil
}

// CloneURL builds the HTTPS clone URL for a repository
func CloneURL(namespace, repo string) string {
	return fmt.Sprintf("https://github.com/%s/%s", namespace, repo)
}

// VerifyIdentity checks that the clone's origin remote points at the
// expected repository. A mismatch means the checkout must not be trusted.
func (w *Workspace) VerifyIdentity(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "git", "-C", w.Dir, "remote", "get-url", "origin").Output()
	if err != nil {
		return fmt.Errorf("failed to read origin remote of %s: %w", w.Dir, err)
	}

	name := RepoNameFromURL(strings.TrimSpace(string(out)))
	if name != w.Repo {
		return fmt.Errorf("clone reports repository %q, expected %q", name, w.Repo)
	}
	return nil
}

// RepoNameFromURL extracts the repository name from a clone URL,
// stripping any .git suffix
func RepoNameFromURL(url string) string {
	return strings.TrimSuffix(path.Base(url), ".git")
}

// Release removes the workspace directory. It is safe to call more than once.
func (w *Workspace) Release() error {
	if w.root == "" {
		return nil
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", w.root, err)
	}
	w.root = ""
	return nil
}
