// Package installer places the pre-commit hook script, either into a
// single repository or into the user's git template directory so every
// future git init picks it up. File placement only; no detection logic.
package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/gitops"
)

const hookScript = `#!/bin/sh
# Installed by securegit. Blocks commits that stage hardcoded secrets.
exec securegit scan
`

const starterConfig = `{
  "enabled": true,
  "scan_entire_repo": false,
  "valid_extensions": [],
  "prohibited_files": [],
  "prohibited_patterns": [],
  "patterns": [],
  "allowlist": {
    "files": [],
    "paths": [],
    "patterns": [],
    "lines": []
  }
}
`

// ErrHookExists reports that a pre-commit hook is already installed.
// Callers decide whether to confirm and retry with force.
var ErrHookExists = errors.New("pre-commit hook already exists")

// InstallLocal writes the hook into repoRoot's .git/hooks directory.
// With force, an existing hook is first copied to a timestamped backup
// whose path is returned.
func InstallLocal(repoRoot string, force bool) (backup string, err error) {
	hooksDir := filepath.Join(repoRoot, ".git", "hooks")
	if st, err := os.Stat(hooksDir); err != nil || !st.IsDir() {
		return "", fmt.Errorf("not a git repository: %s", repoRoot)
	}

	hookPath := filepath.Join(hooksDir, "pre-commit")
	if st, err := os.Stat(hookPath); err == nil {
		if !force {
			return "", ErrHookExists
		}
		backup = fmt.Sprintf("%s.bak.%s", hookPath, time.Now().Format("20060102150405"))
		existing, err := os.ReadFile(hookPath)
		if err != nil {
			return "", fmt.Errorf("back up existing hook: %w", err)
		}
		// Keep the original mode so a restored backup stays executable.
		if err := os.WriteFile(backup, existing, st.Mode().Perm()); err != nil {
			return "", fmt.Errorf("back up existing hook: %w", err)
		}
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0775); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}
	return backup, nil
}

// InstallGlobal writes the hook into templateDir/hooks (defaulting to
// ~/.git-templates) and points git's global init.templateDir at it, so
// the hook is auto-installed on every git init. Returns the hook path.
func InstallGlobal(templateDir string) (string, error) {
	if templateDir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		templateDir = filepath.Join(home, ".git-templates")
	}

	hooksDir := filepath.Join(templateDir, "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return "", fmt.Errorf("create template hooks directory: %w", err)
	}
	hookPath := filepath.Join(hooksDir, "pre-commit")
	if err := os.WriteFile(hookPath, []byte(hookScript), 0775); err != nil {
		return "", fmt.Errorf("write hook: %w", err)
	}

	if err := gitops.SetGlobalConfig("init.templateDir", templateDir); err != nil {
		return "", fmt.Errorf("set init.templateDir: %w", err)
	}
	return hookPath, nil
}

// WriteStarterConfig seeds an empty securegit.json in repoRoot.
// Idempotent: an existing file is never overwritten.
func WriteStarterConfig(repoRoot string) (created bool, err error) {
	path := filepath.Join(repoRoot, "securegit.json")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0644); err != nil {
		return false, err
	}
	return true, nil
}
