package parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// PackageJSON parses npm's package.json, per spec.md §4.1. Byte offsets come
// from gjson.Result.Index, which tracks the position of each value inside
// the original buffer as it walks the document — the same "parse once,
// offsets for free" approach the teacher's JSON-consuming call sites rely on
// gjson for.
type PackageJSON struct{}

var packageJSONSections = [...]string{"dependencies", "devDependencies", "peerDependencies"}

func (PackageJSON) Parse(content []byte) ([]domain.PackageRecord, error) {
	if !gjson.ValidBytes(content) {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "package.json"}
	}
	root := gjson.ParseBytes(content)

	var records []domain.PackageRecord
	for _, section := range packageJSONSections {
		deps := root.Get(section)
		if !deps.IsObject() {
			continue
		}
		deps.ForEach(func(key, value gjson.Result) bool {
			rec, ok := packageJSONRecord(content, key.String(), value)
			if ok {
				records = append(records, rec)
			}
			return true
		})
	}
	return records, nil
}

func packageJSONRecord(content []byte, name string, value gjson.Result) (domain.PackageRecord, bool) {
	raw := value.Raw
	if value.Index == 0 || len(raw) < 2 {
		return domain.PackageRecord{}, false
	}
	// value.Index is the offset of the opening quote; the string body
	// starts one byte later and ends one byte before the closing quote.
	bodyStart := value.Index + 1
	body := raw[1 : len(raw)-1]

	versionText := body
	startOffset := bodyStart

	if strings.HasPrefix(body, "npm:") {
		alias := body[len("npm:"):]
		aliasOffset := bodyStart + len("npm:")
		at := strings.LastIndexByte(alias, '@')
		if at <= 0 {
			// No "@VERSION": alias name only, version defaults to "latest"
			// with no corresponding source range to point at — anchor at
			// the end of the alias text (empty range).
			name = alias
			versionText = "latest"
			startOffset = aliasOffset + len(alias)
			return buildRecord(content, name, versionText, startOffset, startOffset, domain.Npm), true
		}
		name = alias[:at]
		versionText = alias[at+1:]
		startOffset = aliasOffset + at + 1
	}

	endOffset := startOffset + len(versionText)
	return buildRecord(content, name, versionText, startOffset, endOffset, domain.Npm), true
}

func buildRecord(content []byte, name, versionText string, start, end int, kind domain.RegistryKind) domain.PackageRecord {
	line, col := lineColumn(content, start)
	return domain.PackageRecord{
		Name:         name,
		VersionText:  versionText,
		RegistryKind: kind,
		StartOffset:  start,
		EndOffset:    end,
		Line:         line,
		Column:       col,
	}
}
