package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/gitops"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/installer"
)

var (
	installGlobal bool
	installForce  bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the pre-commit hook",
	Long: `Install places the securegit pre-commit hook into the current
repository's .git/hooks directory. With --global it instead writes the
hook into the git template directory (~/.git-templates) and sets
init.templateDir, so every future git init picks it up automatically.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installGlobal, "global", false, "install into the git template directory for all future repositories")
	installCmd.Flags().BoolVar(&installForce, "force", false, "replace an existing pre-commit hook without prompting")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if installGlobal {
		hookPath, err := installer.InstallGlobal("")
		if err != nil {
			return err
		}
		fmt.Printf("✅ Pre-commit hook installed to %s\n", hookPath)
		fmt.Println("🚀 Every repository created with git init will now include it.")
		return nil
	}

	root, err := gitops.RepoRoot()
	if err != nil {
		return fmt.Errorf("not inside a git repository: %w", err)
	}

	backup, err := installer.InstallLocal(root, installForce)
	if errors.Is(err, installer.ErrHookExists) {
		fmt.Print("⚠️ Existing pre-commit hook found; installing replaces it (a backup is kept). Continue? (y/N): ")
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if strings.ToLower(strings.TrimSpace(line)) != "y" {
			fmt.Println("❌ Installation aborted.")
			return nil
		}
		backup, err = installer.InstallLocal(root, true)
	}
	if err != nil {
		return err
	}
	if backup != "" {
		fmt.Printf("⚠️ Existing hook backed up to %s\n", backup)
	}
	fmt.Println("✅ Pre-commit hook installed successfully!")
	return nil
}
