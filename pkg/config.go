package releaseflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys shared by flags, environment variables and the config file.
const (
	KeyPath       = "path"
	KeyToken      = "token"
	KeyRepository = "repository"
	KeyAPIURL     = "api-url"
	KeyDryRun     = "dry-run"
	KeyPrerelease = "prerelease"
	KeyLogLevel   = "log-level"
)

// DefaultConfigFile is looked up in the repository path when no config file is given.
const DefaultConfigFile = ".release-flow.yaml"

// envBindings maps configuration keys to the environment variables CI
// systems already provide.
var envBindings = map[string]string{
	KeyToken:      "GITHUB_TOKEN",
	KeyRepository: "GITHUB_REPOSITORY",
	KeyAPIURL:     "GITHUB_API_URL",
	KeyLogLevel:   "LOG_LEVEL",
}

// Config holds everything a run needs besides the repository itself.
type Config struct {
	Path       string
	Token      string
	Repository string
	APIURL     string
	DryRun     bool
	Prerelease bool
	LogLevel   string
}

// NewViper returns a viper instance with defaults and environment bindings set.
func NewViper() (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyPath, ".")
	v.SetDefault(KeyLogLevel, "info")
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s to %s: %w", key, env, err)
		}
	}
	return v, nil
}

// LoadConfig reads the optional config file and resolves the final Config.
// An explicit configFile must exist; otherwise DefaultConfigFile inside the
// repository path is read when present.
func LoadConfig(v *viper.Viper, configFile string) (Config, error) {
	file := configFile
	if file == "" {
		candidate := filepath.Join(v.GetString(KeyPath), DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			file = candidate
		}
	}
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, &ConfigError{Field: "config file " + file, Err: err}
		}
	}

	return Config{
		Path:       v.GetString(KeyPath),
		Token:      strings.TrimSpace(v.GetString(KeyToken)),
		Repository: strings.TrimSpace(v.GetString(KeyRepository)),
		APIURL:     strings.TrimSpace(v.GetString(KeyAPIURL)),
		DryRun:     v.GetBool(KeyDryRun),
		Prerelease: v.GetBool(KeyPrerelease),
		LogLevel:   v.GetString(KeyLogLevel),
	}, nil
}

// ValidateForPublish checks the settings only a publishing run needs.
func (c Config) ValidateForPublish() error {
	if c.Token == "" {
		return &ConfigError{Field: KeyToken, Err: ErrMissingToken}
	}
	if _, _, err := ParseRepositorySlug(c.Repository); err != nil {
		return err
	}
	return nil
}

// ParseRepositorySlug splits "owner/repo". Anything other than exactly two
// non-empty slash-separated segments is rejected.
func ParseRepositorySlug(slug string) (owner, repo string, err error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		if slug == "" {
			return "", "", &ConfigError{Field: KeyRepository, Err: fmt.Errorf("%w: not set (GITHUB_REPOSITORY)", ErrInvalidRepositorySlug)}
		}
		return "", "", &ConfigError{Field: KeyRepository, Err: fmt.Errorf("%w: got %q", ErrInvalidRepositorySlug, slug)}
	}
	return parts[0], parts[1], nil
}

// IsConfigError reports whether err stems from configuration.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
