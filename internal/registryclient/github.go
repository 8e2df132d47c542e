package registryclient

import (
	"errors"
	"fmt"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// GitHubClient implements spec.md §4.4's GitHub Releases fetcher and
// SPEC_FULL.md's tag→commit-SHA lookup for code actions, both through
// cli/go-gh/v2's REST client rather than a second bespoke HTTP stack: it
// already threads Accept/User-Agent headers and surfaces HTTP status as a
// typed *api.HTTPError.
type GitHubClient struct {
	rest *api.RESTClient
}

func NewGitHubClient(host, token string) (*GitHubClient, error) {
	opts := api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Headers: map[string]string{
			"Accept":     "application/vnd.github+json",
			"User-Agent": userAgent,
		},
	}
	rest, err := api.NewRESTClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create github rest client: %w", err)
	}
	return &GitHubClient{rest: rest}, nil
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

// FetchAll returns each release's tag_name in the order the Releases
// endpoint returns them; spec.md §4.3's GitHub Actions resolver treats the
// last element as "latest".
func (c *GitHubClient) FetchAll(name string) (domain.VersionSet, error) {
	var releases []ghRelease
	err := c.rest.Get(fmt.Sprintf("repos/%s/releases", name), &releases)
	if err != nil {
		return domain.VersionSet{}, mapGitHubError(err, name)
	}

	versions := make([]string, 0, len(releases))
	for _, r := range releases {
		if r.TagName != "" {
			versions = append(versions, r.TagName)
		}
	}
	return domain.VersionSet{Versions: versions, DistTags: map[string]string{}}, nil
}

// ResolveTagSHA dereferences "refs/tags/{tag}" to its target commit SHA,
// following one level of annotated-tag indirection, for the code-action
// SHA rewrite in spec.md §4.8.
func (c *GitHubClient) ResolveTagSHA(repo, tag string) (string, error) {
	var ref struct {
		Object struct {
			Type string `json:"type"`
			SHA  string `json:"sha"`
			URL  string `json:"url"`
		} `json:"object"`
	}
	err := c.rest.Get(fmt.Sprintf("repos/%s/git/ref/tags/%s", repo, tag), &ref)
	if err != nil {
		return "", mapGitHubError(err, repo)
	}
	if ref.Object.Type != "tag" {
		return ref.Object.SHA, nil
	}

	// Annotated tag: the ref's "object" points at the tag object itself,
	// not the commit. Dereference once more.
	var tagObj struct {
		Object struct {
			SHA string `json:"sha"`
		} `json:"object"`
	}
	if err := c.rest.Get(fmt.Sprintf("repos/%s/git/tags/%s", repo, ref.Object.SHA), &tagObj); err != nil {
		return "", mapGitHubError(err, repo)
	}
	return tagObj.Object.SHA, nil
}

func mapGitHubError(err error, name string) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case 404:
			return &RegistryError{Kind: NotFound, Registry: domain.GitHubActions, Package: name, Cause: err}
		case 429:
			return &RegistryError{Kind: RateLimited, Registry: domain.GitHubActions, Package: name, Cause: err, RetryAfterSecond: retryAfterSecondsFromHeader(httpErr.Headers)}
		default:
			return &RegistryError{Kind: InvalidResponse, Registry: domain.GitHubActions, Package: name, Cause: err}
		}
	}
	return &RegistryError{Kind: Network, Registry: domain.GitHubActions, Package: name, Cause: err}
}
