package lsp

import (
	"strings"

	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/parser"
)

// route implements spec.md §6's URI routing table: a path-suffix match,
// case-sensitive, over a closed set of filename/path patterns.
func route(uri string) (domain.RegistryKind, parser.Parser, bool) {
	path := strings.TrimPrefix(strings.TrimPrefix(uri, "file://"), "untitled:")

	switch {
	case strings.HasSuffix(path, "package.json"):
		return domain.Npm, parser.PackageJSON{}, true
	case strings.HasSuffix(path, "Cargo.toml"):
		return domain.CratesIo, parser.CargoToml{}, true
	case strings.HasSuffix(path, "go.mod"):
		return domain.GoProxy, parser.GoMod{}, true
	case strings.HasSuffix(path, "pnpm-workspace.yaml"):
		return domain.PnpmCatalog, parser.PnpmWorkspace{}, true
	case strings.HasSuffix(path, "deno.json"), strings.HasSuffix(path, "deno.jsonc"):
		return domain.Jsr, parser.DenoJSON{}, true
	case strings.HasSuffix(path, "pyproject.toml"):
		return domain.PyPI, parser.PyprojectToml{}, true
	case isGithubWorkflowPath(path):
		return domain.GitHubActions, parser.GitHubActionsWorkflow{}, true
	}
	return "", nil, false
}

func isGithubWorkflowPath(path string) bool {
	if !strings.Contains(path, ".github/workflows/") {
		return false
	}
	return strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml")
}
