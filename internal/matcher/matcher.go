// Package matcher implements spec.md §4.2's per-registry constraint
// grammars: does a concrete version satisfy a declared spec, and how does
// the spec compare against the registry's "latest". One Matcher per
// domain.RegistryKind, selected through a closed table rather than a type
// hierarchy, in the same style domain.RegistryKind itself is used as a
// lookup key throughout the codebase (see SPEC_FULL.md's "Cross-component
// polymorphism" note).
package matcher

import "github.com/version-lsp/version-lsp/internal/domain"

// Matcher decides whether a version set satisfies a declared constraint
// spec, and how that spec compares against a single "latest" version.
type Matcher interface {
	// Exists reports whether any entry in versions satisfies spec.
	Exists(spec string, versions []string) bool
	// Compare reports how spec relates to latest: domain.Latest if latest
	// satisfies spec, domain.Outdated/domain.Newer if spec's base version
	// lies below/above latest, or domain.Invalid if either side fails to
	// parse under this registry's grammar.
	Compare(spec, latest string) domain.VerdictStatus
}

// ForRegistry returns the Matcher bound to kind. PnpmCatalog and Jsr share
// the Npm matcher: spec.md §4.2 groups them under "full npm semver-range
// grammar".
func ForRegistry(kind domain.RegistryKind) Matcher {
	switch kind {
	case domain.GitHubActions:
		return githubActionsMatcher{}
	case domain.Npm, domain.PnpmCatalog, domain.Jsr:
		return npmMatcher{}
	case domain.CratesIo:
		return cratesMatcher{}
	case domain.GoProxy:
		return goMatcher{}
	case domain.PyPI:
		return pypiMatcher{}
	default:
		return unknownMatcher{}
	}
}

type unknownMatcher struct{}

func (unknownMatcher) Exists(string, []string) bool               { return false }
func (unknownMatcher) Compare(string, string) domain.VerdictStatus { return domain.Invalid }
