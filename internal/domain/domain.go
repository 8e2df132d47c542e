// Package domain holds the data model shared by every layer of version-lsp:
// the registries it understands, the records a manifest parser yields, the
// version sets a registry client returns, and the verdicts the resolution
// engine produces.
package domain

// RegistryKind is the closed set of package registries version-lsp
// understands. The string value doubles as the cache key namespace.
type RegistryKind string

const (
	GitHubActions RegistryKind = "github-actions"
	Npm           RegistryKind = "npm"
	CratesIo      RegistryKind = "crates-io"
	GoProxy       RegistryKind = "go-proxy"
	PnpmCatalog   RegistryKind = "pnpm-catalog"
	Jsr           RegistryKind = "jsr"
	PyPI          RegistryKind = "pypi"
)

// String implements fmt.Stringer so RegistryKind prints cleanly in logs.
func (r RegistryKind) String() string { return string(r) }

// GitHubActionsComment holds the byte range of a trailing "# vX.Y.Z" comment
// on a SHA-pinned "uses:" line, so a code action can rewrite the SHA and the
// comment atomically.
type GitHubActionsComment struct {
	CommentText        string
	CommentStartOffset int
	CommentEndOffset   int
}

// Extras is a tagged, optional payload attached to a PackageRecord. The only
// case defined today is GitHubActionsComment; it is nil for every other
// record.
type Extras struct {
	GitHubActionsComment *GitHubActionsComment
}

// PackageRecord is one occurrence of a dependency inside a manifest buffer.
//
// Invariants: StartOffset <= EndOffset; Line/Column address StartOffset in
// the buffer. EndOffset-StartOffset equals the byte length of VersionText,
// with two exceptions: a SHA-pinned GitHub Actions record with a trailing
// comment (the range covers the SHA, VersionText is the comment's tag), and
// a synthetic "latest" record for a specifier with no version (empty range).
type PackageRecord struct {
	Name         string
	VersionText  string
	CommitHash   string
	RegistryKind RegistryKind
	StartOffset  int
	EndOffset    int
	Line         int
	Column       int
	Extras       *Extras
}

// VersionSet is the normalized result of fetching a package's versions from
// a registry. Ordering is the registry's natural order; DistTags is empty
// for registries without the concept.
type VersionSet struct {
	Versions []string
	DistTags map[string]string
}

// CachedPackage is the persisted row for one (RegistryKind, Name) pair.
type CachedPackage struct {
	RegistryKind  RegistryKind
	Name          string
	Versions      []string
	DistTags      map[string]string
	UpdatedAtMS   int64
	FetchingSince *int64 // nil when no fetch is in flight
}

// VerdictStatus is the closed set of outcomes the resolution engine can
// produce for a single PackageRecord.
type VerdictStatus string

const (
	Latest     VerdictStatus = "Latest"
	Outdated   VerdictStatus = "Outdated"
	Newer      VerdictStatus = "Newer"
	Invalid    VerdictStatus = "Invalid"
	NotFound   VerdictStatus = "NotFound"
	NotInCache VerdictStatus = "NotInCache"
)

// Verdict is the result of evaluating one PackageRecord against the cache.
type Verdict struct {
	CurrentVersion string
	LatestVersion  string // empty when Status == NotInCache
	Status         VerdictStatus
}
