package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ghnotion",
	Short: "Mirror GitHub issues and pull requests into Notion databases",
	Long: `ghnotion keeps two Notion databases in step with a GitHub repository.

Every pass reads all issues (or pull requests) in every state, indexes the
records already stored in the matching Notion database by number, then creates
a page for each new item and updates the State, Name and Labels of items that
are already mirrored. Nothing is ever deleted from Notion.

Configuration is read from ~/.ghnotion/config.yaml, a .env file in the working
directory and environment variables (GITHUB_TOKEN, NOTION_TOKEN,
GITHUB_REPO_OWNER, GITHUB_REPO_NAME, ISSUE_DATABASE_ID, PULL_DATABASE_ID).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file (default ~/.ghnotion/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to a .env file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: auto, text or json")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
}
