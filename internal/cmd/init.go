package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ghnotion/pkg/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ghnotion configuration",
	Long:  "Create a default configuration file for ghnotion",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	configPath := cfgFile
	if configPath == "" {
		var err error
		configPath, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", configPath)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		var response string
		_, _ = fmt.Fscanln(cmd.InOrStdin(), &response) // Ignore error for user input
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	defaultConfig := &config.Config{
		GitHub: config.GitHubConfig{
			Owner: "your-org",
			Repo:  "your-repo",
		},
		Notion: config.NotionConfig{
			Issues: config.TableConfig{DatabaseID: "your-issues-database-id"},
			Pulls:  config.TableConfig{DatabaseID: "your-pulls-database-id"},
		},
		Sync: config.SyncConfig{
			Interval: config.DefaultInterval.String(),
		},
		Log: config.LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}

	if err := defaultConfig.SaveConfigToPath(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", configPath)
	fmt.Fprintln(out, "📝 Please edit the file to set your repository and Notion database ids.")
	fmt.Fprintln(out, "🔑 Provide tokens through GITHUB_TOKEN and NOTION_TOKEN (or a .env file).")

	return nil
}
