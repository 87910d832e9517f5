package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	releaseflow "github.com/bcomnes/release-flow/pkg"
)

const longUsage = `Computes the next semantic version from the Conventional Commits made since
the latest release tag (e.g. v1.2.3) and publishes a GitHub release tagged
"v<version>" with a generated changelog.

  fix: ...            bumps the patch version
  feat: ...           bumps the minor version
  feat!: ... or a BREAKING CHANGE: footer bumps the major version

Examples:
  release-flow --dry-run
  GITHUB_TOKEN=... GITHUB_REPOSITORY=owner/repo release-flow
  release-flow --path ../service --repository acme/service --token "$TOKEN"`

func newRootCmd(stdout, stderr io.Writer) (*cobra.Command, error) {
	v, err := releaseflow.NewViper()
	if err != nil {
		return nil, err
	}
	var configFile string

	cmd := &cobra.Command{
		Use:           "release-flow [flags]",
		Short:         "Compute the next semantic version and publish a release",
		Long:          longUsage,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v, configFile, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("release-flow CLI version {{.Version}}\n")

	f := cmd.Flags()
	f.StringP(releaseflow.KeyPath, "p", ".", "Path to the git repository")
	f.String(releaseflow.KeyToken, "", "GitHub token, required to publish (env GITHUB_TOKEN)")
	f.String(releaseflow.KeyRepository, "", "Target repository as owner/repo (env GITHUB_REPOSITORY)")
	f.String(releaseflow.KeyAPIURL, "", "GitHub API base URL (env GITHUB_API_URL)")
	f.Bool(releaseflow.KeyDryRun, false, "Compute the version and print the changelog without creating a release")
	f.Bool(releaseflow.KeyPrerelease, false, "Mark the created release as a pre-release")
	f.String(releaseflow.KeyLogLevel, "info", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	f.StringVar(&configFile, "config", "", "YAML config file (default <path>/"+releaseflow.DefaultConfigFile+" when present)")

	if err := v.BindPFlags(f); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return cmd, nil
}

func run(ctx context.Context, v *viper.Viper, configFile string, stdout, stderr io.Writer) error {
	// .env is optional, and never overrides variables already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &releaseflow.ConfigError{Field: ".env", Err: err}
	}

	cfg, err := releaseflow.LoadConfig(v, configFile)
	if err != nil {
		return err
	}
	logger, err := releaseflow.NewLogger(stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.Info().Str("path", cfg.Path).Msg("Starting release-flow")

	opts := releaseflow.Options{Config: cfg, Logger: logger}

	if cfg.DryRun {
		meta, err := releaseflow.DryRun(ctx, opts)
		if err != nil {
			return err
		}
		if meta.NeedsRelease() {
			logger.Info().Msg("Dry run enabled, skipping release creation")
			fmt.Fprintf(stdout, "--- Changelog ---\n%s\n", meta.Changelog)
		}
		printSummary(stdout, meta)
		return nil
	}

	meta, err := releaseflow.Run(ctx, opts)
	if err != nil {
		return err
	}
	if !meta.NeedsRelease() {
		return nil
	}
	if err := releaseflow.WriteOutputs(stdout, meta); err != nil {
		return err
	}
	return releaseflow.AppendGitHubOutput(os.Getenv("GITHUB_OUTPUT"), meta)
}

func printSummary(w io.Writer, meta releaseflow.ReleaseMeta) {
	fmt.Fprintln(w, "Dry run complete, no release was created.")
	fmt.Fprintf(w, "Old Version: %s\n", meta.OldVersion)
	fmt.Fprintf(w, "New Version: %s\n", meta.NewVersion)
	fmt.Fprintf(w, "Bump Type:   %s\n", meta.Bump)
	fmt.Fprintf(w, "Commits:     %d\n", len(meta.Commits))
}
