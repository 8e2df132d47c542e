package matcher

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// pypiMatcher implements spec.md §4.2's PyPI grammar: PEP 440 version
// specifiers, comma-separated AND, parsed and checked by
// aquasecurity/go-pep440-version rather than hand-rolling PEP 440's
// epoch/pre-release/post-release/local-version comparison rules.
type pypiMatcher struct{}

func (pypiMatcher) Exists(spec string, versions []string) bool {
	if strings.TrimSpace(spec) == "" {
		return len(versions) > 0
	}
	specs, err := pep440.NewSpecifiers(spec)
	if err != nil {
		return false
	}
	for _, v := range versions {
		parsed, err := pep440.Parse(v)
		if err != nil {
			continue
		}
		if specs.Check(parsed) {
			return true
		}
	}
	return false
}

func (pypiMatcher) Compare(spec, latest string) domain.VerdictStatus {
	latestVersion, err := pep440.Parse(latest)
	if err != nil {
		return domain.Invalid
	}
	if strings.TrimSpace(spec) == "" {
		return domain.Latest
	}
	specs, err := pep440.NewSpecifiers(spec)
	if err != nil {
		return domain.Invalid
	}
	if specs.Check(latestVersion) {
		return domain.Latest
	}

	tok := firstVersionToken.FindString(spec)
	if tok == "" {
		return domain.Invalid
	}
	base, err := pep440.Parse(tok)
	if err != nil {
		return domain.Invalid
	}
	switch latestVersion.Compare(base) {
	case 0:
		return domain.Latest
	case 1:
		return domain.Outdated
	default:
		return domain.Newer
	}
}
