// Package gitops talks to the version-control staging area. The core
// engine consumes its output as plain (path, extension, content)
// candidates and contains no git logic of its own.
package gitops

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/scan"
)

// RepoRoot returns the repository top-level directory.
func RepoRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// StagedFiles returns paths staged for commit (added, copied, or
// modified), repository-relative and in git's order.
func StagedFiles() ([]string, error) {
	out, err := exec.Command("git", "diff", "--cached", "--name-only", "--diff-filter=ACM").Output()
	if err != nil {
		return nil, err
	}
	return splitList(out), nil
}

// TrackedFiles returns every path tracked by git.
func TrackedFiles() ([]string, error) {
	out, err := exec.Command("git", "ls-files").Output()
	if err != nil {
		return nil, err
	}
	return splitList(out), nil
}

// SetGlobalConfig sets a git configuration key for the current user.
func SetGlobalConfig(key, value string) error {
	cmd := exec.Command("git", "config", "--global", key, value)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// LoadCandidates reads working-tree content for each staged path under
// root. Unreadable files are skipped with a warning; they are not
// fatal and never reach the engine.
func LoadCandidates(root string, paths []string) []scan.Candidate {
	candidates := make([]scan.Candidate, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(filepath.Join(root, p))
		if err != nil {
			slog.Warn("skipping unreadable file", "file", p, "error", err)
			continue
		}
		candidates = append(candidates, scan.Candidate{
			Path:    p,
			Ext:     strings.ToLower(filepath.Ext(p)),
			Content: data,
		})
	}
	return candidates
}

func splitList(out []byte) []string {
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files
}
