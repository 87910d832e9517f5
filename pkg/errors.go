package releaseflow

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingToken is returned when publishing without an access token.
	ErrMissingToken = errors.New("access token is required to publish a release (set GITHUB_TOKEN or --token)")
	// ErrInvalidRepositorySlug is returned for repository identifiers that are not "owner/repo".
	ErrInvalidRepositorySlug = errors.New("repository must be in the form owner/repo")
	// ErrEmptyRepository is returned when HEAD does not point at any commit.
	ErrEmptyRepository = errors.New("repository has no commits")
)

// ConfigError reports invalid or missing configuration.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// RepositoryError reports a failure to open or read the git history.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// PublishError reports a failed release creation.
type PublishError struct {
	Tag string
	Err error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing release %s: %v", e.Tag, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
