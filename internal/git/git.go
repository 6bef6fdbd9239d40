// Package git wraps the few git operations the toolkit needs: finding a
// project's work tree root and checking the toolkit's remote URL.
package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/donygeorge/claude-toolkit/internal/errors"
)

// ToplevelTimeout bounds `git rev-parse --show-toplevel`.
const ToplevelTimeout = 5 * time.Second

var (
	allowedSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}
	scpLike        = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)
)

// IsURL returns true if s looks like a git repository URL.
// It checks for:
//   - URLs containing "://" (e.g., https://, git://)
//   - URLs ending with ".git"
//   - SSH-style URLs starting with "git@"
func IsURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasSuffix(s, ".git") || strings.HasPrefix(s, "git@")
}

// ValidateURL accepts remote URLs with a known transport scheme or in
// scp-like form (user@host:path.git). Values that git would read as an
// option or a remote helper are rejected.
func ValidateURL(s string) error {
	switch {
	case s == "":
		return errors.New("remote URL is empty")
	case strings.HasPrefix(s, "-"):
		return errors.Newf("remote URL %q looks like a command-line option", s)
	case strings.Contains(s, "::"):
		return errors.Newf("remote URL %q uses a remote helper", s)
	}
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(s, scheme) {
			return nil
		}
	}
	if scpLike.MatchString(s) {
		return nil
	}
	return errors.Newf("remote URL %q has no supported scheme", s)
}

// Toplevel returns the root of the work tree containing dir.
func Toplevel(ctx context.Context, dir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ToplevelTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrapf(err, "git rev-parse in %s", dir)
	}
	top := strings.TrimSpace(string(out))
	if top == "" {
		return "", errors.Newf("git rev-parse in %s printed no path", dir)
	}
	return top, nil
}

// ProjectRoot returns the work tree root containing dir, or dir itself
// when it is not inside a git repository.
func ProjectRoot(ctx context.Context, dir string) string {
	if top, err := Toplevel(ctx, dir); err == nil {
		return top
	}
	return dir
}

// ValidateRepo checks that repoPath has a .git directory.
func ValidateRepo(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}
