package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ghnotion/pkg/config"
	"ghnotion/pkg/github"
	"ghnotion/pkg/mirror"
	"ghnotion/pkg/notion"
)

var validateOffline bool

// databaseDescriber checks a destination database against a table schema
type databaseDescriber interface {
	DescribeDatabase(ctx context.Context, databaseID string, schema mirror.Schema) (*notion.Database, error)
}

// Constructors used by validate; tests replace them with fakes.
var (
	newAccessValidator = func(token string) (github.AccessValidator, error) {
		am := github.NewAuthManager()
		if err := am.Authenticate(token); err != nil {
			return nil, err
		}
		return am, nil
	}
	newDatabaseDescriber = func(cfg *config.Config) databaseDescriber {
		return notion.NewClient(cfg.Notion.Token, nil)
	}
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and access to GitHub and Notion",
	Long: `Validate the ghnotion configuration before running a sync.

Offline checks (always performed):
• Required settings are present (repository, tokens, database ids)
• Sync interval and logging settings are valid
• Field names of each table are distinct

Online checks (skipped with --offline):
• The GitHub token is valid and the repository is readable
• Each Notion database is shared with the integration and has the
  State (select), number, Name (rich text) and Labels (multi-select) properties`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateOffline, "offline", false, "Only validate the configuration, without calling GitHub or Notion")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "🔍 Validating configuration")

	if err := cfg.Validate(); err != nil {
		var verrs config.ValidationErrors
		if errors.As(err, &verrs) {
			for _, verr := range verrs {
				fmt.Fprintf(out, "  ✗ %s: %s\n", verr.Field, verr.Message)
			}
		}
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	fmt.Fprintln(out, "✓ Configuration is valid")

	if validateOffline {
		fmt.Fprintln(out, "Skipping GitHub and Notion access checks (--offline)")
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	failed := false
	if err := validateGitHub(ctx, cmd, cfg); err != nil {
		fmt.Fprintf(out, "  ✗ GitHub: %v\n", err)
		failed = true
	}

	describer := newDatabaseDescriber(cfg)
	for _, kind := range mirror.Kinds() {
		table := cfg.Table(kind)
		db, err := describer.DescribeDatabase(ctx, table.DatabaseID, table.Schema)
		if err != nil {
			fmt.Fprintf(out, "  ✗ Notion %s database: %v\n", kind, err)
			failed = true
			continue
		}
		if len(db.Issues) > 0 {
			for _, issue := range db.Issues {
				fmt.Fprintf(out, "  ✗ Notion %s database %q: %s\n", kind, db.Title, issue)
			}
			failed = true
			continue
		}
		fmt.Fprintf(out, "✓ Notion %s database %q matches the expected schema\n", kind, db.Title)
	}

	if failed {
		return fmt.Errorf("validation failed")
	}

	fmt.Fprintln(out, "✅ Ready to sync")
	return nil
}

func validateGitHub(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()

	token, err := github.NewAuthManager().GetToken(cfg)
	if err != nil {
		fmt.Fprintln(out, "⚠️  No GitHub token configured; only public repositories can be read (60 requests/hour)")
		fmt.Fprintln(cmd.ErrOrStderr(), github.GetAuthInstructions())
		return nil
	}

	validator, err := newAccessValidator(token)
	if err != nil {
		return err
	}

	tokenInfo, err := validator.ValidateToken(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Authenticated as %s\n", tokenInfo.User)

	repo, err := validator.ValidateRepositoryAccess(ctx, cfg.GitHub.Owner, cfg.GitHub.Repo)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Repository %s is readable (private: %t)\n", repo.FullName, repo.Private)

	return nil
}
