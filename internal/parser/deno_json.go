package parser

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// DenoJSON parses deno.json/deno.jsonc's "imports" map, keeping only
// jsr: specifiers, per spec.md §4.1.
type DenoJSON struct{}

func (DenoJSON) Parse(content []byte) ([]domain.PackageRecord, error) {
	if !gjson.ValidBytes(content) {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "deno.json"}
	}
	root := gjson.ParseBytes(content)
	imports := root.Get("imports")
	if !imports.IsObject() {
		return nil, nil
	}

	var records []domain.PackageRecord
	imports.ForEach(func(_, value gjson.Result) bool {
		rec, ok := denoJSRRecord(content, value)
		if ok {
			records = append(records, rec)
		}
		return true
	})
	return records, nil
}

func denoJSRRecord(content []byte, value gjson.Result) (domain.PackageRecord, bool) {
	raw := value.Raw
	if value.Index == 0 || len(raw) < 2 {
		return domain.PackageRecord{}, false
	}
	bodyStart := value.Index + 1
	body := raw[1 : len(raw)-1]
	if !strings.HasPrefix(body, "jsr:") {
		return domain.PackageRecord{}, false
	}
	spec := body[len("jsr:"):]
	specOffset := bodyStart + len("jsr:")

	// spec is "@scope/pkg@VERSION" or "@scope/pkg" (version defaults to
	// "latest"). Find the '@' that separates name from version: skip the
	// leading '@' of the scope.
	rest := spec
	if strings.HasPrefix(rest, "@") {
		rest = rest[1:]
	}
	at := strings.IndexByte(rest, '@')
	if at < 0 {
		name := spec
		versionText := "latest"
		// No "@VERSION" in the specifier: nothing in the buffer backs this
		// synthetic "latest" text, so anchor an empty range at the end of
		// the real spec instead of reading past it.
		start := specOffset + len(spec)
		return buildRecord(content, name, versionText, start, start, domain.Jsr), true
	}
	nameLen := at
	if strings.HasPrefix(spec, "@") {
		nameLen++ // account for the stripped leading '@'
	}
	name := spec[:nameLen]
	versionText := spec[nameLen+1:]
	start := specOffset + nameLen + 1
	end := start + len(versionText)
	return buildRecord(content, name, versionText, start, end, domain.Jsr), true
}
