package matcher

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// goMatcher implements spec.md §4.2's Go grammar: exact equality modulo
// "v" / "+incompatible" normalization, with pseudo-versions treated as
// always existing (no list lookup needed) and tie-broken by their
// embedded timestamp when two pseudo-versions are otherwise semver-equal.
type goMatcher struct{}

// pseudoVersionPattern matches both shapes spec.md §4.2 names:
// v0.0.0-YYYYMMDDHHMMSS-hash (no preceding tag) and
// vX.Y.Z-0.YYYYMMDDHHMMSS-hash (built on a prior release).
var pseudoVersionPattern = regexp.MustCompile(`^v(?:0\.0\.0-(\d{14})-[0-9a-f]+|\d+\.\d+\.\d+-0\.(\d{14})-[0-9a-f]+)$`)

// normalizeGoVersion strips "+incompatible" and gives a bare version its
// "v" prefix, so "1.2.3" and "v1.2.3" compare equal.
func normalizeGoVersion(v string) string {
	v = strings.TrimSuffix(v, "+incompatible")
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func isPseudoVersion(normalized string) bool {
	return pseudoVersionPattern.MatchString(normalized)
}

// pseudoTimestamp extracts the 14-digit timestamp from a pseudo-version,
// whichever of the two capture groups matched.
func pseudoTimestamp(normalized string) (string, bool) {
	m := pseudoVersionPattern.FindStringSubmatch(normalized)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

func (goMatcher) Exists(spec string, versions []string) bool {
	norm := normalizeGoVersion(spec)
	if isPseudoVersion(norm) {
		return true
	}
	for _, v := range versions {
		if normalizeGoVersion(v) == norm {
			return true
		}
	}
	return false
}

func (goMatcher) Compare(spec, latest string) domain.VerdictStatus {
	s := normalizeGoVersion(spec)
	l := normalizeGoVersion(latest)
	if !semver.IsValid(s) || !semver.IsValid(l) {
		return domain.Invalid
	}

	switch cmp := semver.Compare(s, l); {
	case cmp < 0:
		return domain.Outdated
	case cmp > 0:
		return domain.Newer
	default:
		// semver-equal: break the tie by pseudo-version timestamp if both
		// sides carry one, per spec.md §4.2.
		st, sok := pseudoTimestamp(s)
		lt, lok := pseudoTimestamp(l)
		if sok && lok {
			switch {
			case st < lt:
				return domain.Outdated
			case st > lt:
				return domain.Newer
			}
		}
		return domain.Latest
	}
}
