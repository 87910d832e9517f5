package releaseflow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
)

// Publisher creates a published release on a hosting service.
type Publisher interface {
	// CreateRelease publishes tagName with body as release notes and returns
	// a reference to the created release.
	CreateRelease(ctx context.Context, tagName, body string, prerelease bool) (string, error)
}

// GitHubPublisher creates releases through the GitHub REST API.
type GitHubPublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// PublisherOption customizes a GitHubPublisher.
type PublisherOption func(*publisherOptions)

type publisherOptions struct {
	baseURL    string
	httpClient *http.Client
}

// WithAPIURL points the publisher at a different API root, such as a
// GitHub Enterprise server ("https://ghe.example.com/api/v3").
func WithAPIURL(apiURL string) PublisherOption {
	return func(o *publisherOptions) { o.baseURL = apiURL }
}

// WithHTTPClient sets the transport used for API calls.
func WithHTTPClient(c *http.Client) PublisherOption {
	return func(o *publisherOptions) { o.httpClient = c }
}

// NewGitHubPublisher builds a publisher for the "owner/repo" slug.
func NewGitHubPublisher(token, slug string, opts ...PublisherOption) (*GitHubPublisher, error) {
	if strings.TrimSpace(token) == "" {
		return nil, &ConfigError{Field: "token", Err: ErrMissingToken}
	}
	owner, repo, err := ParseRepositorySlug(slug)
	if err != nil {
		return nil, err
	}

	var o publisherOptions
	for _, opt := range opts {
		opt(&o)
	}

	client := github.NewClient(o.httpClient).WithAuthToken(token)
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, &ConfigError{Field: "api-url", Err: err}
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		client.BaseURL = u
	}

	return &GitHubPublisher{client: client, owner: owner, repo: repo}, nil
}

// CreateRelease creates a release named after its tag and returns its HTML URL.
// A single request is made; failures are not retried.
func (p *GitHubPublisher) CreateRelease(ctx context.Context, tagName, body string, prerelease bool) (string, error) {
	release, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName:    github.String(tagName),
		Name:       github.String(tagName),
		Body:       github.String(body),
		Prerelease: github.Bool(prerelease),
	})
	if err != nil {
		return "", &PublishError{Tag: tagName, Err: err}
	}
	if release.GetHTMLURL() == "" {
		return "", &PublishError{Tag: tagName, Err: fmt.Errorf("response for %s/%s carried no release URL", p.owner, p.repo)}
	}
	return release.GetHTMLURL(), nil
}
