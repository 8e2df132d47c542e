// Package lspconfig defines the typed "version-lsp" workspace/configuration
// section and its defaults, per spec.md §4.9. There is deliberately no
// on-disk config file loader — spec.md §1 names configuration-file loading
// as out of scope; this is exactly the client round trip and nothing more.
package lspconfig

import (
	"time"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// DefaultRefreshInterval is used when the client's configuration reply is
// absent, unreadable, or omits cache.refresh_interval.
const DefaultRefreshInterval = 24 * time.Hour

// MinRefreshInterval floors a configured refresh interval so a
// misconfigured client can't hammer registries, per SPEC_FULL.md's
// refresh supplement.
const MinRefreshInterval = 5 * time.Minute

// RegistryConfig is the per-registry toggle in the "version-lsp" section.
type RegistryConfig struct {
	Enabled bool `json:"enabled"`
}

// Config is the "version-lsp" workspace/configuration section, per
// spec.md §4.9. Unknown keys are ignored by the JSON decoder automatically
// (encoding/json already does this); missing keys are defaulted by
// Merge, which overlays the decoded reply onto Default().
type Config struct {
	Cache struct {
		RefreshIntervalMS int64 `json:"refresh_interval"`
	} `json:"cache"`
	Registries map[domain.RegistryKind]RegistryConfig `json:"registries"`
}

// Default returns every registry enabled with the default refresh
// interval, per spec.md §4.9: "missing keys take defaults (all registries
// enabled; default refresh interval)".
func Default() Config {
	cfg := Config{
		Registries: map[domain.RegistryKind]RegistryConfig{
			domain.GitHubActions: {Enabled: true},
			domain.Npm:           {Enabled: true},
			domain.CratesIo:      {Enabled: true},
			domain.GoProxy:       {Enabled: true},
			domain.PnpmCatalog:   {Enabled: true},
			domain.Jsr:           {Enabled: true},
			domain.PyPI:          {Enabled: true},
		},
	}
	cfg.Cache.RefreshIntervalMS = DefaultRefreshInterval.Milliseconds()
	return cfg
}

// RefreshInterval returns the configured refresh interval, floored at
// MinRefreshInterval.
func (c Config) RefreshInterval() time.Duration {
	d := time.Duration(c.Cache.RefreshIntervalMS) * time.Millisecond
	if d < MinRefreshInterval {
		return MinRefreshInterval
	}
	return d
}

// Enabled reports whether kind is enabled, defaulting to true for a kind
// missing from the map entirely (a partially-specified config shouldn't
// silently disable registries it never mentions).
func (c Config) Enabled(kind domain.RegistryKind) bool {
	rc, ok := c.Registries[kind]
	if !ok {
		return true
	}
	return rc.Enabled
}

// Merge overlays non-zero fields from override onto a copy of Default(),
// so a client reply that only sets cache.refresh_interval still carries
// every registry's default enabled=true.
func Merge(override Config) Config {
	merged := Default()
	if override.Cache.RefreshIntervalMS > 0 {
		merged.Cache.RefreshIntervalMS = override.Cache.RefreshIntervalMS
	}
	for kind, rc := range override.Registries {
		merged.Registries[kind] = rc
	}
	return merged
}
