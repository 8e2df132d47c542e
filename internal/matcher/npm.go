package matcher

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// npmMatcher implements spec.md §4.2's "full npm semver-range grammar" —
// shared by Npm, PnpmCatalog, and Jsr. Masterminds/semver/v3's Constraints
// already speak this grammar natively (caret with the 0.x/0.0.z special
// cases, tilde, comparisons, x/X/* wildcards, hyphen ranges, space-AND,
// "||"-OR), so this type is a thin adapter rather than a reimplementation.
type npmMatcher struct{}

func (npmMatcher) Exists(spec string, versions []string) bool {
	c, err := semver.NewConstraint(spec)
	if err != nil {
		return false
	}
	for _, v := range versions {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			continue
		}
		if c.Check(parsed) {
			return true
		}
	}
	return false
}

func (npmMatcher) Compare(spec, latest string) domain.VerdictStatus {
	c, err := semver.NewConstraint(spec)
	if err != nil {
		return domain.Invalid
	}
	latestVersion, err := semver.NewVersion(latest)
	if err != nil {
		return domain.Invalid
	}
	if c.Check(latestVersion) {
		return domain.Latest
	}
	return compareAgainstBase(spec, latestVersion)
}

// firstVersionToken extracts the leftmost dotted-numeric run in a
// constraint string, used as the constraint's "base version" for
// Outdated/Newer tie-breaking once Check() has already said no.
var firstVersionToken = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// compareAgainstBase locates spec's base version and compares it against
// latest: spec.md §4.2 says "the constraint's base version lies below
// latest -> Outdated, above -> Newer".
func compareAgainstBase(spec string, latest *semver.Version) domain.VerdictStatus {
	tok := firstVersionToken.FindString(spec)
	if tok == "" {
		return domain.Invalid
	}
	base, err := semver.NewVersion(tok)
	if err != nil {
		return domain.Invalid
	}
	switch latest.Compare(base) {
	case 0:
		return domain.Latest
	case 1:
		return domain.Outdated
	default:
		return domain.Newer
	}
}

// stripVPrefix is used by registries (Crates.io) that translate a bare
// default-caret version before handing it to Masterminds' constraint
// parser.
func stripVPrefix(s string) string {
	return strings.TrimPrefix(strings.TrimPrefix(s, "v"), "V")
}
