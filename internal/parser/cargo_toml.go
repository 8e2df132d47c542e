package parser

import (
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// CargoToml parses Cargo.toml. BurntSushi/toml validates structure (a
// malformed file fails fast as ParseError before the regex pass ever runs,
// per SPEC_FULL.md's manifest-parser note); the regex pass over the raw
// bytes then recovers exact byte offsets, which the TOML decoder itself
// does not expose.
type CargoToml struct{}

var cargoSections = [...]string{
	"dependencies", "dev-dependencies", "build-dependencies", "workspace.dependencies",
}

// The three entry patterns below each match one spelling of a Cargo
// dependency entry, anchored at line start within a recognized table:
//
//	name = "X"
//	name = { version = "X", ... }
//	name.version = "X"
var cargoSimpleEntry = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_-]+)\s*=\s*"([^"]*)"\s*$`)
var cargoInlineTableEntry = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_-]+)\s*=\s*\{([^}]*)\}\s*$`)
var cargoDottedVersionEntry = regexp.MustCompile(`(?m)^\s*([A-Za-z0-9_-]+)\.version\s*=\s*"([^"]*)"\s*$`)
var cargoInlineVersionField = regexp.MustCompile(`version\s*=\s*"([^"]*)"`)
var cargoTableHeader = regexp.MustCompile(`(?m)^\s*\[([^\]]+)\]\s*$`)

func (CargoToml) Parse(content []byte) ([]domain.PackageRecord, error) {
	var dummy any
	if _, err := toml.Decode(string(content), &dummy); err != nil {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "Cargo.toml", Cause: err}
	}

	sections := cargoTableRanges(content)
	var records []domain.PackageRecord
	for _, name := range cargoSections {
		rng, ok := sections[name]
		if !ok {
			continue
		}
		records = append(records, cargoParseSimple(content, rng)...)
		records = append(records, cargoParseInlineTable(content, rng)...)
		records = append(records, cargoParseDotted(content, rng)...)
	}
	return records, nil
}

type byteRange struct{ start, end int }

// cargoTableRanges finds the byte range spanned by each named top-level
// table, so entries are only attributed to a recognized section.
func cargoTableRanges(content []byte) map[string]byteRange {
	headers := cargoTableHeader.FindAllSubmatchIndex(content, -1)
	out := map[string]byteRange{}
	for i, h := range headers {
		name := strings.TrimSpace(string(content[h[2]:h[3]]))
		bodyStart := h[1]
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		out[name] = byteRange{bodyStart, bodyEnd}
	}
	return out
}

func cargoParseSimple(content []byte, rng byteRange) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, m := range cargoSimpleEntry.FindAllSubmatchIndex(content[rng.start:rng.end], -1) {
		offset := rng.start
		name := string(content[offset+m[2] : offset+m[3]])
		start, end := offset+m[4], offset+m[5]
		records = append(records, buildRecord(content, name, string(content[start:end]), start, end, domain.CratesIo))
	}
	return records
}

func cargoParseDotted(content []byte, rng byteRange) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, m := range cargoDottedVersionEntry.FindAllSubmatchIndex(content[rng.start:rng.end], -1) {
		offset := rng.start
		name := string(content[offset+m[2] : offset+m[3]])
		start, end := offset+m[4], offset+m[5]
		records = append(records, buildRecord(content, name, string(content[start:end]), start, end, domain.CratesIo))
	}
	return records
}

func cargoParseInlineTable(content []byte, rng byteRange) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, m := range cargoInlineTableEntry.FindAllSubmatchIndex(content[rng.start:rng.end], -1) {
		offset := rng.start
		name := string(content[offset+m[2] : offset+m[3]])
		body := string(content[offset+m[4] : offset+m[5]])
		if cargoHasSkipKey(body) {
			continue
		}
		vm := cargoInlineVersionField.FindStringSubmatchIndex(body)
		if vm == nil {
			continue
		}
		start := offset + m[4] + vm[2]
		end := offset + m[4] + vm[3]
		records = append(records, buildRecord(content, name, string(content[start:end]), start, end, domain.CratesIo))
	}
	return records
}

func cargoHasSkipKey(inlineBody string) bool {
	for _, key := range [...]string{"path", "workspace", "registry"} {
		if regexp.MustCompile(`\b` + key + `\s*=`).MatchString(inlineBody) {
			return true
		}
	}
	return false
}
