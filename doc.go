// Package main implements the release-flow CLI tool.
//
// The release-flow tool is a command-line interface meant to run in CI pipelines. It
// finds the latest release tag of a git repository (a tag like "v1.2.3" or "1.2.3";
// other tags are ignored), reads every commit made since that tag, and classifies the
// commit messages as Conventional Commits. The most significant change decides the
// next version:
//
//	feat!: ... or a BREAKING CHANGE: footer  -> major (1.2.3 → 2.0.0)
//	feat: ...                                -> minor (1.2.3 → 1.3.0)
//	fix: ...                                 -> patch (1.2.3 → 1.2.4)
//	anything else                            -> no release
//
// When a release is needed, a GitHub release tagged "v<version>" is created with a
// changelog listing the summary line of every commit. Without a prior tag the
// repository starts at 0.0.0.
//
// Command Usage:
//
//	release-flow [flags]
//
// Flags:
//
//	-p, --path:     Path to the git repository (default ".").
//	--token:        GitHub token used to create the release. Falls back to GITHUB_TOKEN.
//	--repository:   Target repository as owner/repo. Falls back to GITHUB_REPOSITORY.
//	--api-url:      GitHub API base URL for GitHub Enterprise. Falls back to GITHUB_API_URL.
//	--dry-run:      Compute the version and print the changelog without creating a release.
//	--prerelease:   Mark the created release as a pre-release.
//	--log-level:    debug, info, warn or error. Falls back to LOG_LEVEL.
//	--config:       YAML file holding any of the settings above, keyed by flag name.
//	                Defaults to <path>/.release-flow.yaml when that file exists.
//	--version:      Displays the version of the release-flow CLI tool and exits.
//
// A .env file in the working directory is loaded first; it never overrides variables
// that are already set.
//
// On a successful release the tool prints "version=<x.y.z>" and "tag=v<x.y.z>" lines on
// standard output and appends them to the file named by GITHUB_OUTPUT, so later workflow
// steps can read them. Runs with no new commits, or with no commits that call for a
// bump, exit successfully without creating anything.
//
// Examples:
//
//	# Preview the next version and changelog
//	release-flow --dry-run
//
//	# Publish from a GitHub Actions job
//	GITHUB_TOKEN=${{ secrets.GITHUB_TOKEN }} release-flow
//
//	# Publish a repository checked out elsewhere
//	release-flow --path ../service --repository acme/service --token "$TOKEN"
//
// For the library API see the "pkg" package.
package main
