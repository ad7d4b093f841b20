package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "securegit",
	Short: "Pre-commit hook that blocks commits containing hardcoded secrets",
	Long: `SecureGit-Hook inspects the files staged for a commit and aborts the
commit when a staged line matches a secret pattern or a staged file is
of a prohibited type (private keys, .env files, credential stores).

Detection is driven by layered configuration: builtin defaults, the
user-level ~/.securegit.json, and the repository's securegit.json, with
repository settings taking final precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
