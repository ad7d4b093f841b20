package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/gitops"
	"github.com/ekremarmagankarakas/SecureGit-Hook/internal/installer"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter securegit.json into the repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := gitops.RepoRoot()
		if err != nil {
			return fmt.Errorf("not inside a git repository: %w", err)
		}
		created, err := installer.WriteStarterConfig(root)
		if err != nil {
			return err
		}
		if created {
			fmt.Println("✅ Created securegit.json.")
		} else {
			fmt.Println("securegit.json already exists; left unchanged.")
		}
		return nil
	},
}

func init() { rootCmd.AddCommand(initCmd) }
