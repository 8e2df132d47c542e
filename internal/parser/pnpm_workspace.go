package parser

import (
	"regexp"

	"github.com/goccy/go-yaml"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// PnpmWorkspace parses pnpm-workspace.yaml's catalog/catalogs sections, per
// spec.md §4.1. goccy/go-yaml validates the document; byte offsets are
// recovered with a regex pass, the same division of labor as Cargo.toml.
type PnpmWorkspace struct{}

var pnpmSectionHeader = regexp.MustCompile(`(?m)^(catalog|catalogs):\s*$`)
var pnpmEntry = regexp.MustCompile(`(?m)^\s+["']?([A-Za-z0-9_@/.-]+)["']?:\s*["']?([^"'\s#]+)["']?\s*$`)

func (PnpmWorkspace) Parse(content []byte) ([]domain.PackageRecord, error) {
	var dummy any
	if err := yaml.Unmarshal(content, &dummy); err != nil {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "pnpm-workspace.yaml", Cause: err}
	}

	headers := pnpmSectionHeader.FindAllSubmatchIndex(content, -1)
	var records []domain.PackageRecord
	for i, h := range headers {
		bodyStart := h[1]
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}
		records = append(records, pnpmParseEntries(content, bodyStart, bodyEnd)...)
	}
	return records, nil
}

func pnpmParseEntries(content []byte, start, end int) []domain.PackageRecord {
	var records []domain.PackageRecord
	for _, m := range pnpmEntry.FindAllSubmatchIndex(content[start:end], -1) {
		offset := start
		name := string(content[offset+m[2] : offset+m[3]])
		vStart, vEnd := offset+m[4], offset+m[5]
		records = append(records, buildRecord(content, name, string(content[vStart:vEnd]), vStart, vEnd, domain.PnpmCatalog))
	}
	return records
}
