package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/version-lsp/version-lsp/internal/domain"
	"github.com/version-lsp/version-lsp/internal/parser"
)

func TestRouteMatchesKnownManifests(t *testing.T) {
	cases := map[string]domain.RegistryKind{
		"file:///repo/package.json":                 domain.Npm,
		"file:///repo/Cargo.toml":                    domain.CratesIo,
		"file:///repo/go.mod":                        domain.GoProxy,
		"file:///repo/pnpm-workspace.yaml":           domain.PnpmCatalog,
		"file:///repo/deno.json":                     domain.Jsr,
		"file:///repo/pyproject.toml":                domain.PyPI,
		"file:///repo/.github/workflows/ci.yml":      domain.GitHubActions,
		"file:///repo/.github/workflows/ci.yaml":     domain.GitHubActions,
	}
	for uri, want := range cases {
		kind, p, ok := route(uri)
		require.True(t, ok, uri)
		require.Equal(t, want, kind, uri)
		require.NotNil(t, p, uri)
	}
}

func TestRouteRejectsUnrelatedFiles(t *testing.T) {
	_, _, ok := route("file:///repo/README.md")
	require.False(t, ok)

	_, _, ok = route("file:///repo/workflows/ci.yml")
	require.False(t, ok)
}

func TestRouteReturnsWorkingParser(t *testing.T) {
	_, p, ok := route("file:///repo/package.json")
	require.True(t, ok)
	require.IsType(t, parser.PackageJSON{}, p)
}

func TestRangeForOffsetsMultiline(t *testing.T) {
	content := []byte("line one\nline two\nline three")
	rng := rangeForOffsets(content, 9, 13)
	require.Equal(t, protocol.Position{Line: 1, Character: 0}, rng.Start)
	require.Equal(t, protocol.Position{Line: 1, Character: 4}, rng.End)
}

func TestOffsetForPositionRoundTrips(t *testing.T) {
	content := []byte("line one\nline two\nline three")
	offset := offsetForPosition(content, protocol.Position{Line: 1, Character: 5})
	require.Equal(t, 14, offset)
}

func TestOffsetForPositionPastLineEnd(t *testing.T) {
	content := []byte("abc\ndef")
	offset := offsetForPosition(content, protocol.Position{Line: 0, Character: 99})
	require.Equal(t, 3, offset)
}
