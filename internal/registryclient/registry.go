package registryclient

import "github.com/version-lsp/version-lsp/internal/domain"

// Set bundles one Client per registry kind the server supports, built
// once at startup from configuration (base URLs, GitHub token) and shared
// by the refresh loop and the on-demand fetcher.
type Set struct {
	clients map[domain.RegistryKind]Client
}

// NewSet wires the default, publicly-reachable client for every registry
// kind. baseURLOverrides lets configuration replace any registry's
// canonical endpoint, per spec.md §6 ("Base URLs default to the canonical
// public endpoint ... and are configurable").
func NewSet(baseURLOverrides map[domain.RegistryKind]string, githubHost, githubToken string) (*Set, error) {
	gh, err := NewGitHubClient(githubHost, githubToken)
	if err != nil {
		return nil, err
	}
	return &Set{clients: map[domain.RegistryKind]Client{
		domain.Npm:           NewNpmClient(baseURLOverrides[domain.Npm]),
		domain.PnpmCatalog:   NewNpmClient(baseURLOverrides[domain.PnpmCatalog]),
		domain.CratesIo:      NewCratesClient(baseURLOverrides[domain.CratesIo]),
		domain.GoProxy:       NewGoProxyClient(baseURLOverrides[domain.GoProxy]),
		domain.Jsr:           NewJsrClient(baseURLOverrides[domain.Jsr]),
		domain.PyPI:          NewPyPIClient(baseURLOverrides[domain.PyPI]),
		domain.GitHubActions: gh,
	}}, nil
}

// Get returns the client bound to kind, or (nil, false) if the kind is
// unrecognized.
func (s *Set) Get(kind domain.RegistryKind) (Client, bool) {
	c, ok := s.clients[kind]
	return c, ok
}

// GitHub returns the GitHub-specific client so callers (code actions) can
// reach ResolveTagSHA, which isn't part of the generic Client interface.
func (s *Set) GitHub() *GitHubClient {
	c, _ := s.clients[domain.GitHubActions]
	gh, _ := c.(*GitHubClient)
	return gh
}
