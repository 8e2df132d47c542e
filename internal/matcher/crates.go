package matcher

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// cratesMatcher implements spec.md §4.2's Cargo grammar: same constructs as
// npm except commas (not "||") separate AND requirements, no hyphen
// ranges, and a bare version ("1.2.3") defaults to caret rather than exact
// equality. Masterminds/semver/v3 already applies Cargo's own caret rules
// (including the 0.x / 0.0.x special cases) once the default-caret
// rewrite below has run, so the matcher itself stays a thin translation
// layer, the same division of labor as the npm matcher.
type cratesMatcher struct{}

func (cratesMatcher) Exists(spec string, versions []string) bool {
	c, err := semver.NewConstraint(cratesTranslate(spec))
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

func (cratesMatcher) Compare(spec, latest string) domain.VerdictStatus {
	translated := cratesTranslate(spec)
	c, err := semver.NewConstraint(translated)
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
	return compareAgainstBase(translated, latestVersion)
}

// cratesTranslate rewrites Cargo's comma-AND, default-caret grammar into
// Masterminds' constraint syntax (which also reads ", " as AND), prefixing any bare numeric
// term with "^" (Cargo's default) and leaving explicit operators and
// wildcard terms (which don't take a caret) untouched.
func cratesTranslate(spec string) string {
	parts := strings.Split(spec, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if hasLeadingOperator(p) || strings.ContainsAny(p, "*xX") {
			out = append(out, p)
			continue
		}
		out = append(out, "^"+stripVPrefix(p))
	}
	return strings.Join(out, ", ")
}

func hasLeadingOperator(p string) bool {
	for _, op := range [...]string{"^", "~", ">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(p, op) {
			return true
		}
	}
	return false
}
