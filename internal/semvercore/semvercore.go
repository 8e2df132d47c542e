// Package semvercore holds the version-normalization and partial-match
// primitives used by the GitHub Actions matcher. It is a thin layer over golang.org/x/mod/semver
// (which already implements correct prerelease-aware comparison) plus the
// part-counting logic the original Rust implementation used for partial
// version matching (see _examples/original_source/src/version/semver.rs).
package semvercore

import (
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// CompareResult is the outcome of comparing a (possibly partial) version
// spec against a concrete "latest" version.
type CompareResult int

const (
	ResultLatest CompareResult = iota
	ResultOutdated
	ResultNewer
	ResultInvalid
)

// Normalize strips an optional v/V prefix and zero-pads a partial version
// (major, or major.minor) out to major.minor.patch, preserving any
// prerelease suffix. It returns ("", false) if version cannot be parsed as
// 1, 2, or 3 dot-separated numeric components.
func Normalize(version string) (string, bool) {
	v := strings.TrimPrefix(strings.TrimPrefix(version, "v"), "V")
	if v == "" {
		return "", false
	}

	base := v
	prerelease := ""
	if i := strings.IndexByte(v, '-'); i >= 0 {
		base, prerelease = v[:i], v[i:]
	}

	parts := strings.Split(base, ".")
	var major, minor, patch string
	switch len(parts) {
	case 1:
		major, minor, patch = parts[0], "0", "0"
	case 2:
		major, minor, patch = parts[0], parts[1], "0"
	case 3:
		major, minor, patch = parts[0], parts[1], parts[2]
	default:
		return "", false
	}
	for _, p := range [3]string{major, minor, patch} {
		if !isDigits(p) {
			return "", false
		}
	}
	return major + "." + minor + "." + patch + prerelease, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PartCount reports how many dot-separated components the caller supplied
// before any prerelease suffix: 1 for major only, 2 for major.minor, 3 (or
// more, clamped to 3) for a full version.
func PartCount(version string) int {
	v := strings.TrimPrefix(strings.TrimPrefix(version, "v"), "V")
	base := v
	if i := strings.IndexByte(v, '-'); i >= 0 {
		base = v[:i]
	}
	n := len(strings.Split(base, "."))
	if n > 3 {
		n = 3
	}
	return n
}

func majorMinorPatch(normalized string) (int, int, int, string) {
	base := normalized
	prerelease := ""
	if i := strings.IndexByte(normalized, '-'); i >= 0 {
		base, prerelease = normalized[:i], normalized[i:]
	}
	parts := strings.Split(base, ".")
	maj, _ := strconv.Atoi(parts[0])
	min, _ := strconv.Atoi(parts[1])
	pat, _ := strconv.Atoi(parts[2])
	return maj, min, pat, prerelease
}

// VersionMatchesAny reports whether any of availableVersions satisfies
// current under partial-version equality: "v4" matches any major==4, "v4.1"
// matches major.minor==4.1, "v4.1.0" requires exact match.
func VersionMatchesAny(current string, availableVersions []string) bool {
	currentNorm, ok := Normalize(current)
	if !ok {
		return false
	}
	parts := PartCount(current)
	cMaj, cMin, cPat, _ := majorMinorPatch(currentNorm)

	for _, avail := range availableVersions {
		availNorm, ok := Normalize(avail)
		if !ok {
			continue
		}
		aMaj, aMin, aPat, _ := majorMinorPatch(availNorm)
		switch parts {
		case 1:
			if cMaj == aMaj {
				return true
			}
		case 2:
			if cMaj == aMaj && cMin == aMin {
				return true
			}
		default:
			if cMaj == aMaj && cMin == aMin && cPat == aPat && equalPrerelease(currentNorm, availNorm) {
				return true
			}
		}
	}
	return false
}

func equalPrerelease(a, b string) bool {
	pa := ""
	if i := strings.IndexByte(a, '-'); i >= 0 {
		pa = a[i:]
	}
	pb := ""
	if i := strings.IndexByte(b, '-'); i >= 0 {
		pb = b[i:]
	}
	return pa == pb
}

// Compare implements spec.md §4.2's GitHub Actions matcher:
// partial-version equality against latest, depth determined by how many
// components current specified.
func Compare(current, latest string) CompareResult {
	currentNorm, ok := Normalize(current)
	if !ok {
		return ResultInvalid
	}
	latestNorm, ok := Normalize(latest)
	if !ok {
		return ResultInvalid
	}

	parts := PartCount(current)
	cMaj, cMin, _, _ := majorMinorPatch(currentNorm)
	lMaj, lMin, _, _ := majorMinorPatch(latestNorm)

	switch parts {
	case 1:
		return cmpInt(cMaj, lMaj)
	case 2:
		if cMaj != lMaj {
			return cmpInt(cMaj, lMaj)
		}
		return cmpInt(cMin, lMin)
	default:
		switch semver.Compare("v"+currentNorm, "v"+latestNorm) {
		case 0:
			return ResultLatest
		case -1:
			return ResultOutdated
		default:
			return ResultNewer
		}
	}
}

func cmpInt(a, b int) CompareResult {
	switch {
	case a == b:
		return ResultLatest
	case a < b:
		return ResultOutdated
	default:
		return ResultNewer
	}
}
