package parser

import (
	"golang.org/x/mod/modfile"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// GoMod parses go.mod using golang.org/x/mod/modfile, which already tracks
// byte/line/column positions for every token — no regex pass needed here,
// unlike the other formats.
type GoMod struct{}

func (GoMod) Parse(content []byte) ([]domain.PackageRecord, error) {
	f, err := modfile.Parse("go.mod", content, nil)
	if err != nil {
		return nil, &ParseError{Kind: InvalidSyntax, Format: "go.mod", Cause: err}
	}

	var records []domain.PackageRecord
	for _, req := range f.Require {
		if req.Syntax == nil {
			continue
		}
		// The version token is the last element on the require line:
		// "MODULE vX.Y.Z" (+ optional "// indirect" comment, which
		// modfile.Syntax.Token does not include).
		tokens := req.Syntax.Token
		if len(tokens) < 2 {
			continue
		}
		versionTok := tokens[len(tokens)-1]
		start := req.Syntax.End.Byte - len(versionTok)
		end := req.Syntax.End.Byte
		records = append(records, buildRecord(content, req.Mod.Path, versionTok, start, end, domain.GoProxy))
	}
	return records, nil
}
