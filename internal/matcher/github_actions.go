package matcher

import (
	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/semvercore"
)

// githubActionsMatcher implements the partial-version equality grammar:
// "v4" matches any major==4, "v4.1" matches major.minor==4.1, "v4.1.0"
// requires an exact match. semvercore carries this logic; this type only
// maps its results onto domain.VerdictStatus.
type githubActionsMatcher struct{}

func (githubActionsMatcher) Exists(spec string, versions []string) bool {
	return semvercore.VersionMatchesAny(spec, versions)
}

func (githubActionsMatcher) Compare(spec, latest string) domain.VerdictStatus {
	switch semvercore.Compare(spec, latest) {
	case semvercore.ResultLatest:
		return domain.Latest
	case semvercore.ResultOutdated:
		return domain.Outdated
	case semvercore.ResultNewer:
		return domain.Newer
	default:
		return domain.Invalid
	}
}
