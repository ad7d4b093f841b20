package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/allowlist"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/config"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/gitops"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/logging"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/pattern"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/report"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan staged files and block the commit on findings",
	RunE:  runScan,
}

func init() { rootCmd.AddCommand(scanCmd) }

func runScan(cmd *cobra.Command, args []string) (err error) {
	root, err := gitops.RepoRoot()
	if err != nil {
		return fmt.Errorf("not inside a git repository: %w", err)
	}

	cfg, warnings := config.Resolve(root)
	closeLogger, err := logging.Configure(cfg.Logging)
	if err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	defer func() {
		if closeErr := closeLogger(); err == nil && closeErr != nil {
			err = closeErr
		}
	}()
	for _, w := range warnings {
		slog.Warn("configuration", "detail", w)
	}

	if !cfg.Enabled {
		fmt.Println("✅ SecureGit-Hook is disabled in configuration. Skipping checks.")
		return nil
	}

	set, patternWarnings, err := pattern.Compile(cfg)
	if err != nil {
		return err
	}
	for _, w := range patternWarnings {
		slog.Warn("pattern compilation", "detail", w)
	}
	matcher, allowWarnings := allowlist.Compile(cfg.Allowlist)
	for _, w := range allowWarnings {
		slog.Warn("allowlist compilation", "detail", w)
	}

	var paths []string
	if cfg.ScanEntireRepo {
		fmt.Println("🔍 Scanning entire repository as configured...")
		paths, err = gitops.TrackedFiles()
	} else {
		paths, err = gitops.StagedFiles()
	}
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}
	if len(paths) == 0 {
		fmt.Println("✅ No relevant files staged.")
		return nil
	}
	fmt.Printf("🔍 Scanning %d file(s)...\n", len(paths))

	res := scan.Run(cfg, set, matcher, gitops.LoadCandidates(root, paths))
	rep := report.Build(res)
	fmt.Println(rep.Text)
	if rep.Blocked {
		return errors.New("commit contains potential hardcoded secrets")
	}
	return nil
}
