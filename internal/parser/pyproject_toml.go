package parser

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// PyprojectToml parses pyproject.toml's PEP 508 requirement lists, per
// spec.md §4.1. BurntSushi/toml decodes the document into the shape below;
// a regex pass over the raw bytes then locates each requirement string's
// literal occurrence to recover its byte offset, since the decoder itself
// discards position information.
type PyprojectToml struct{}

type pyprojectDoc struct {
	Project struct {
		Dependencies         []string            `toml:"dependencies"`
		OptionalDependencies map[string][]string `toml:"optional-dependencies"`
	} `toml:"project"`
	BuildSystem struct {
		Requires []string `toml:"requires"`
	} `toml:"build-system"`
}

var pep508NamePattern = regexp.MustCompile(`^\s*([A-Za-z0-9_.-]+)\s*(?:\[[^\]]*\])?\s*(.*)$`)
var pep440SpecifierPattern = regexp.MustCompile(`(?:[><=!~^]=?\s*[^\s,;]+)(?:\s*,\s*[><=!~^]=?\s*[^\s,;]+)*`)

func (PyprojectToml) Parse(content []byte) ([]domain.PackageRecord, error) {
	var doc pyprojectDoc
	if _, err := toml.Decode(string(content), &doc); err != nil {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "pyproject.toml", Cause: err}
	}

	var records []domain.PackageRecord
	records = append(records, requirementRecords(content, doc.Project.Dependencies, sectionSpan(content, "project"))...)
	records = append(records, requirementRecords(content, doc.BuildSystem.Requires, sectionSpan(content, "build-system"))...)
	// Every extras group is a key inside the single [project.optional-
	// dependencies] table (TOML has no per-group sub-header for an array
	// value), so all groups share one span. requirementRecords still
	// starts each group's search fresh at the span's beginning, so
	// iterating the (unordered) map in any order locates each group's own
	// literals correctly.
	optionalSpan := sectionSpan(content, "project.optional-dependencies")
	for _, extra := range doc.Project.OptionalDependencies {
		records = append(records, requirementRecords(content, extra, optionalSpan)...)
	}
	return records, nil
}

// byteSpan is a [start, end) byte range within content, or {-1, -1} when
// its section header couldn't be located.
type byteSpan struct {
	start, end int
}

var topLevelHeaderPattern = regexp.MustCompile(`(?m)^\s*\[`)

// sectionSpan locates the "[name]" table header and returns the byte range
// of its body, up to the next top-level header or end of content. Each
// TOML table gets its own span so requirement literals are located within
// the section that actually declared them, rather than against a single
// cursor shared across the whole document.
func sectionSpan(content []byte, name string) byteSpan {
	headerPattern := regexp.MustCompile(`(?m)^\s*\[` + regexp.QuoteMeta(name) + `\]\s*$`)
	loc := headerPattern.FindIndex(content)
	if loc == nil {
		return byteSpan{-1, -1}
	}
	bodyStart := loc[1]
	end := len(content)
	if next := topLevelHeaderPattern.FindIndex(content[bodyStart:]); next != nil {
		end = bodyStart + next[0]
	}
	return byteSpan{bodyStart, end}
}

// requirementRecords locates each requirement string's byte offset within
// span, falling back to the whole buffer when span's header wasn't found.
// The search cursor is local to this one list so duplicate entries within
// it still resolve to successive occurrences, without leaking position
// state into any other list.
func requirementRecords(content []byte, reqs []string, span byteSpan) []domain.PackageRecord {
	from, limit := 0, len(content)
	if span.start >= 0 {
		from, limit = span.start, span.end
	}
	var records []domain.PackageRecord
	for _, req := range reqs {
		rec, newFrom, ok := pyprojectRecord(content, req, from, limit)
		if ok {
			records = append(records, rec)
			from = newFrom
		}
	}
	return records
}

func pyprojectRecord(content []byte, req string, searchFrom, limit int) (domain.PackageRecord, int, bool) {
	quoted := []byte(`"` + req + `"`)
	idx := indexFrom(content[:limit], quoted, searchFrom)
	if idx < 0 {
		idx = indexFrom(content[:limit], []byte(req), searchFrom)
		if idx < 0 {
			return domain.PackageRecord{}, searchFrom, false
		}
	} else {
		idx++ // skip the opening quote
	}
	reqStart := idx

	if strings.Contains(req, "@") && !strings.ContainsAny(req[:strings.IndexByte(req, '@')], "><=!~") {
		// PEP 508 URL form "name @ url": skipped entirely, per spec.md.
		return domain.PackageRecord{}, reqStart + len(req), false
	}

	m := pep508NamePattern.FindStringSubmatch(req)
	if m == nil {
		return domain.PackageRecord{}, reqStart + len(req), false
	}
	name := m[1]
	rest := m[2]

	specMatch := pep440SpecifierPattern.FindStringIndex(rest)
	var start, end int
	var versionText string
	if specMatch == nil {
		// No specifier (e.g. a bare "requests"): spec.md §4.2 treats an
		// empty specifier as satisfied by any non-empty version set, so
		// version_text must be empty, not the package name, or the PyPI
		// matcher tries to parse "requests" as a PEP 440 specifier and
		// reports it Invalid. Anchor the empty range right after the name,
		// where a real specifier would be inserted by a code action.
		nameOffset := strings.Index(req, name)
		pos := reqStart + nameOffset + len(name)
		start, end = pos, pos
		versionText = ""
	} else {
		restOffsetInReq := strings.Index(req, rest)
		start = reqStart + restOffsetInReq + specMatch[0]
		end = reqStart + restOffsetInReq + specMatch[1]
		versionText = req[restOffsetInReq+specMatch[0] : restOffsetInReq+specMatch[1]]
	}

	return buildRecord(content, name, versionText, start, end, domain.PyPI), reqStart + len(req), true
}

func indexFrom(content, sub []byte, from int) int {
	if from > len(content) {
		return -1
	}
	i := strings.Index(string(content[from:]), string(sub))
	if i < 0 {
		return -1
	}
	return from + i
}
