package lsp

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// diagnosticsFor maps verdicts to diagnostics. Its messages are the exact
// strings spec.md §6 requires for test parity; do not reword them.
func diagnosticsFor(content []byte, records []domain.PackageRecord, verdicts []domain.Verdict, source string) []protocol.Diagnostic {
	diags := make([]protocol.Diagnostic, 0, len(verdicts))
	for i, v := range verdicts {
		rec := records[i]
		switch v.Status {
		case domain.Outdated:
			diags = append(diags, diagnostic(content, rec, protocol.DiagnosticSeverityWarning,
				fmt.Sprintf("Update available: %s -> %s", v.CurrentVersion, v.LatestVersion), source))
		case domain.Invalid:
			diags = append(diags, diagnostic(content, rec, protocol.DiagnosticSeverityError,
				fmt.Sprintf("Invalid version format: %s", v.CurrentVersion), source))
		case domain.NotFound:
			diags = append(diags, diagnostic(content, rec, protocol.DiagnosticSeverityError,
				fmt.Sprintf("Version %s not found in registry", v.CurrentVersion), source))
		}
		// Latest, Newer, NotInCache: no diagnostic, per spec.md §4.6.
	}
	return diags
}

func diagnostic(content []byte, rec domain.PackageRecord, severity protocol.DiagnosticSeverity, message, source string) protocol.Diagnostic {
	sev := severity
	src := source
	return protocol.Diagnostic{
		Range:    rangeForOffsets(content, rec.StartOffset, rec.EndOffset),
		Severity: &sev,
		Message:  message,
		Source:   &src,
	}
}
