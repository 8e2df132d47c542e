package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/version-lsp/version-lsp/internal/domain"
)

func TestForRegistryDispatch(t *testing.T) {
	require.IsType(t, distTagResolver{}, ForRegistry(domain.Npm))
	require.IsType(t, distTagResolver{}, ForRegistry(domain.PnpmCatalog))
	require.IsType(t, lastElementResolver{}, ForRegistry(domain.GitHubActions))
	require.IsType(t, semanticMaxResolver{}, ForRegistry(domain.CratesIo))
	require.IsType(t, semanticMaxResolver{}, ForRegistry(domain.GoProxy))
	require.IsType(t, semanticMaxResolver{}, ForRegistry(domain.Jsr))
	require.IsType(t, semanticMaxResolver{}, ForRegistry(domain.PyPI))
}

func TestSemanticMaxResolver(t *testing.T) {
	r := semanticMaxResolver{}
	v, ok := r.Latest([]string{"1.2.0", "1.10.0", "1.9.0"}, nil)
	require.True(t, ok)
	require.Equal(t, "1.10.0", v)

	_, ok = r.Latest([]string{"not-semver"}, nil)
	require.False(t, ok)

	_, ok = r.Latest(nil, nil)
	require.False(t, ok)
}

func TestDistTagResolverPrefersLatestTag(t *testing.T) {
	r := distTagResolver{}
	v, ok := r.Latest([]string{"1.0.0", "2.0.0-beta"}, map[string]string{"latest": "1.0.0"})
	require.True(t, ok)
	require.Equal(t, "1.0.0", v)
}

func TestDistTagResolverFallsBackToSemanticMax(t *testing.T) {
	r := distTagResolver{}
	v, ok := r.Latest([]string{"1.0.0", "1.5.0"}, nil)
	require.True(t, ok)
	require.Equal(t, "1.5.0", v)
}

func TestLastElementResolver(t *testing.T) {
	r := lastElementResolver{}
	v, ok := r.Latest([]string{"v3", "v4"}, nil)
	require.True(t, ok)
	require.Equal(t, "v4", v)

	_, ok = r.Latest(nil, nil)
	require.False(t, ok)
}
