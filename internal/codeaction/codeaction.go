// Package codeaction implements spec.md §4.8's "bump to latest
// patch/minor/major" code actions and the GitHub Actions commit-SHA
// rewrite variant.
package codeaction

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// BumpKind is one of the three distinct bump targets spec.md §4.8 names.
type BumpKind int

const (
	Patch BumpKind = iota
	Minor
	Major
)

func (k BumpKind) String() string {
	switch k {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	default:
		return "major"
	}
}

// Edit is one candidate code action: a TextEdit over [StartOffset,
// EndOffset) plus the title the editor shows in its lightbulb menu.
type Edit struct {
	Kind        BumpKind
	Title       string
	StartOffset int
	EndOffset   int
	NewText     string
}

// prefixes are tried longest-match-first so "<=" isn't shadowed by "<".
var prefixes = []string{">=", "<=", "^", "~", ">", "<", "=", "v"}

// splitPrefix finds the longest of spec.md §4.8's recognized prefixes at
// the start of current, returning it and the remaining numeric body.
func splitPrefix(current string) (prefix, rest string) {
	best := ""
	for _, p := range prefixes {
		if strings.HasPrefix(current, p) && len(p) > len(best) {
			best = p
		}
	}
	return best, current[len(best):]
}

type candidate struct {
	version *semver.Version
	raw     string
}

func (c *candidate) consider(v *semver.Version, raw string) {
	if c.version == nil || v.GreaterThan(c.version) {
		c.version = v
		c.raw = raw
	}
}

// Compute implements spec.md §4.8's three bump rules over the available
// versions, preserving current's prefix on each replacement. Results with
// an identical NewText are deduplicated; a rule with no qualifying
// version is dropped entirely.
func Compute(current string, versions []string, startOffset, endOffset int) []Edit {
	prefix, rest := splitPrefix(current)
	curVersion, err := semver.NewVersion(rest)
	if err != nil {
		return nil
	}

	var patch, minor, major candidate
	for _, raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		switch {
		case v.Major() == curVersion.Major() && v.Minor() == curVersion.Minor() && v.Patch() > curVersion.Patch():
			patch.consider(v, raw)
		case v.Major() == curVersion.Major() && v.Minor() > curVersion.Minor():
			minor.consider(v, raw)
		case v.Major() > curVersion.Major():
			major.consider(v, raw)
		}
	}

	var edits []Edit
	seen := map[string]bool{}
	for _, c := range []struct {
		kind BumpKind
		cand candidate
	}{{Patch, patch}, {Minor, minor}, {Major, major}} {
		if c.cand.version == nil {
			continue
		}
		newText := prefix + c.cand.raw
		if prefix == "v" {
			// raw tags like "v4.1.2" already carry the "v".
			newText = prefix + strings.TrimPrefix(c.cand.raw, "v")
		}
		if seen[newText] {
			continue
		}
		seen[newText] = true
		edits = append(edits, Edit{
			Kind:        c.kind,
			Title:       fmt.Sprintf("Bump to latest %s: %s", c.kind, newText),
			StartOffset: startOffset,
			EndOffset:   endOffset,
			NewText:     newText,
		})
	}
	return edits
}

// ComputeForRecord is a convenience wrapper reading the version-range
// fields straight off a domain.PackageRecord.
func ComputeForRecord(rec domain.PackageRecord, versions []string) []Edit {
	return Compute(rec.VersionText, versions, rec.StartOffset, rec.EndOffset)
}
