package lspconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/version-lsp/version-lsp/internal/domain"
)

func TestDefaultEnablesEveryRegistry(t *testing.T) {
	cfg := Default()
	for _, kind := range []domain.RegistryKind{
		domain.GitHubActions, domain.Npm, domain.CratesIo, domain.GoProxy,
		domain.PnpmCatalog, domain.Jsr, domain.PyPI,
	} {
		require.True(t, cfg.Enabled(kind))
	}
	require.Equal(t, DefaultRefreshInterval, cfg.RefreshInterval())
}

func TestEnabledDefaultsTrueForUnknownKind(t *testing.T) {
	cfg := Config{}
	require.True(t, cfg.Enabled(domain.Npm))
}

func TestRefreshIntervalFloored(t *testing.T) {
	cfg := Config{}
	cfg.Cache.RefreshIntervalMS = (1 * time.Minute).Milliseconds()
	require.Equal(t, MinRefreshInterval, cfg.RefreshInterval())
}

func TestMergePreservesUnmentionedRegistries(t *testing.T) {
	override := Config{
		Registries: map[domain.RegistryKind]RegistryConfig{
			domain.Npm: {Enabled: false},
		},
	}
	merged := Merge(override)
	require.False(t, merged.Enabled(domain.Npm))
	require.True(t, merged.Enabled(domain.CratesIo))
	require.Equal(t, DefaultRefreshInterval, merged.RefreshInterval())
}

func TestMergeOverridesRefreshInterval(t *testing.T) {
	override := Config{}
	override.Cache.RefreshIntervalMS = (2 * time.Hour).Milliseconds()
	merged := Merge(override)
	require.Equal(t, 2*time.Hour, merged.RefreshInterval())
}
