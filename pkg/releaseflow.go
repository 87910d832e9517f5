package releaseflow

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ReleaseMeta holds metadata about a planned or published release.
type ReleaseMeta struct {
	Baseline   *Tag            // Latest release tag, nil when the repository has none.
	OldVersion SemanticVersion // Version of Baseline, or ZeroVersion.
	NewVersion SemanticVersion // OldVersion with Bump applied.
	Bump       BumpLevel
	Tag        string   // Tag for NewVersion, set only when a release is needed.
	Commits    []string // Messages since Baseline, children before parents.
	Changelog  string
	ReleaseURL string // Set once the release has been published.
}

// NeedsRelease reports whether the commits justify a new version.
func (m ReleaseMeta) NeedsRelease() bool {
	return m.Bump != BumpNone
}

// Options configure a run.
type Options struct {
	Config Config
	Logger zerolog.Logger

	// History defaults to the git repository at Config.Path.
	History History
	// Publisher defaults to a GitHubPublisher built from Config.
	Publisher Publisher
}

// DryRun computes the next version and changelog without publishing anything.
func DryRun(ctx context.Context, opts Options) (ReleaseMeta, error) {
	return plan(ctx, opts)
}

// Run computes the next version and, when the commits call for one,
// publishes a release tagged "v<version>" with the rendered changelog.
// If publishing fails nothing is returned besides the error.
func Run(ctx context.Context, opts Options) (ReleaseMeta, error) {
	meta, err := plan(ctx, opts)
	if err != nil || !meta.NeedsRelease() {
		return meta, err
	}
	log := opts.Logger

	if err := opts.Config.ValidateForPublish(); err != nil {
		return ReleaseMeta{}, err
	}
	publisher := opts.Publisher
	if publisher == nil {
		var popts []PublisherOption
		if opts.Config.APIURL != "" {
			popts = append(popts, WithAPIURL(opts.Config.APIURL))
		}
		gh, err := NewGitHubPublisher(opts.Config.Token, opts.Config.Repository, popts...)
		if err != nil {
			return ReleaseMeta{}, err
		}
		publisher = gh
	}

	log.Info().Str("repository", opts.Config.Repository).Str("tag", meta.Tag).Msg("Creating release")
	url, err := publisher.CreateRelease(ctx, meta.Tag, meta.Changelog, opts.Config.Prerelease)
	if err != nil {
		return ReleaseMeta{}, err
	}
	meta.ReleaseURL = url
	log.Info().Str("url", url).Msg("Release created")
	return meta, nil
}

func plan(ctx context.Context, opts Options) (ReleaseMeta, error) {
	var meta ReleaseMeta
	log := opts.Logger

	if err := ctx.Err(); err != nil {
		return meta, err
	}

	history := opts.History
	if history == nil {
		path := opts.Config.Path
		if path == "" {
			path = "."
		}
		gh, err := OpenHistory(path)
		if err != nil {
			return meta, err
		}
		history = gh
	}

	baseline, err := history.LatestReleaseTag()
	if err != nil {
		return meta, err
	}
	meta.Baseline = baseline
	meta.OldVersion = ZeroVersion
	if baseline != nil {
		meta.OldVersion = baseline.Version
		log.Info().Str("version", meta.OldVersion.String()).Str("tag", baseline.Name).Msg("Current version")
	} else {
		log.Info().Str("version", meta.OldVersion.String()).Msg("No release tag found, starting from zero")
	}

	commits, err := history.CommitsSince(baseline)
	if err != nil {
		return meta, err
	}
	meta.Commits = commits
	meta.NewVersion = meta.OldVersion
	if len(commits) == 0 {
		log.Info().Msg("No new commits found")
		return meta, nil
	}
	log.Info().Int("count", len(commits)).Msg("Found new commits")

	meta.NewVersion, meta.Bump = NextVersion(meta.OldVersion, commits)
	if !meta.NeedsRelease() {
		log.Info().Msg("No changes requiring a version bump")
		return meta, nil
	}
	if !meta.OldVersion.Less(meta.NewVersion) {
		return meta, fmt.Errorf("computed version %s does not advance %s", meta.NewVersion, meta.OldVersion)
	}

	meta.Tag = meta.NewVersion.TagName()
	meta.Changelog = RenderChangelog(commits)
	log.Info().Str("version", meta.NewVersion.String()).Str("bump", meta.Bump.String()).Msg("Next version")
	return meta, nil
}
