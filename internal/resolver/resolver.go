// Package resolver implements spec.md §4.3's per-registry "pick the
// latest" rule over a (versions, dist_tags) pair.
package resolver

import (
	"github.com/Masterminds/semver/v3"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// Resolver picks the "latest" version string out of a version set, or
// ("", false) if none qualifies (e.g. an empty list, or one with no
// semver-parseable entry for a semantic-max resolver).
type Resolver interface {
	Latest(versions []string, distTags map[string]string) (string, bool)
}

// ForRegistry returns the Resolver bound to kind.
func ForRegistry(kind domain.RegistryKind) Resolver {
	switch kind {
	case domain.Npm, domain.PnpmCatalog:
		return distTagResolver{}
	case domain.GitHubActions:
		return lastElementResolver{}
	default:
		// CratesIo, GoProxy, Jsr, PyPI: semantic-maximum. PyPI's client
		// synthesizes dist_tags["latest"] itself (SPEC_FULL.md's PyPI
		// note) so by the time it reaches here it's already equivalent to
		// a plain version list; the resolver doesn't need a PyPI special
		// case.
		return semanticMaxResolver{}
	}
}

// semanticMaxResolver picks the semantic-maximum entry across versions,
// ignoring anything that doesn't parse as semver, per spec.md §4.3's
// "Default" rule.
type semanticMaxResolver struct{}

func (semanticMaxResolver) Latest(versions []string, _ map[string]string) (string, bool) {
	var best *semver.Version
	var bestRaw string
	for _, v := range versions {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if best == nil || parsed.GreaterThan(best) {
			best = parsed
			bestRaw = v
		}
	}
	if best == nil {
		return "", false
	}
	return bestRaw, true
}

// distTagResolver uses dist_tags["latest"] when present, falling back to
// the semantic maximum otherwise, per spec.md §4.3's Npm/PnpmCatalog rule.
type distTagResolver struct{}

func (distTagResolver) Latest(versions []string, distTags map[string]string) (string, bool) {
	if v, ok := distTags["latest"]; ok && v != "" {
		return v, true
	}
	return semanticMaxResolver{}.Latest(versions, distTags)
}

// lastElementResolver takes the last element of versions as returned by
// the fetcher (publication order), preserving non-semver tags, per
// spec.md §4.3's GitHub Actions rule.
type lastElementResolver struct{}

func (lastElementResolver) Latest(versions []string, _ map[string]string) (string, bool) {
	if len(versions) == 0 {
		return "", false
	}
	return versions[len(versions)-1], true
}
