package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/version-lsp/version-lsp/internal/domain"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestReplaceVersionsAndGetVersions(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.ReplaceVersions(domain.Npm, "lodash", []string{"4.17.0", "4.17.19"}, map[string]string{"latest": "4.17.19"}))

	versions, err := c.GetVersions(domain.Npm, "lodash")
	require.NoError(t, err)
	require.Equal(t, []string{"4.17.0", "4.17.19"}, versions)

	value, ok, err := c.GetDistTag(domain.Npm, "lodash", "latest")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "4.17.19", value)
}

func TestGetVersionsUncachedIsEmpty(t *testing.T) {
	c := openTestCache(t)
	versions, err := c.GetVersions(domain.Npm, "missing")
	require.NoError(t, err)
	require.Empty(t, versions)
}

func TestGetLatestVersionUsesResolver(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.ReplaceVersions(domain.GoProxy, "example.com/mod", []string{"v1.0.0", "v1.2.0"}, nil))

	latest, ok, err := c.GetLatestVersion(domain.GoProxy, "example.com/mod")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1.2.0", latest)
}

func TestGetLatestVersionUncached(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.GetLatestVersion(domain.Npm, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReplaceVersionsOverwrites(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.ReplaceVersions(domain.Npm, "pkg", []string{"1.0.0"}, nil))
	require.NoError(t, c.ReplaceVersions(domain.Npm, "pkg", []string{"2.0.0"}, nil))

	versions, err := c.GetVersions(domain.Npm, "pkg")
	require.NoError(t, err)
	require.Equal(t, []string{"2.0.0"}, versions)
}

func TestTryStartFetchSingleFlight(t *testing.T) {
	c := openTestCache(t)
	ok, err := c.TryStartFetch(domain.Npm, "pkg")
	require.NoError(t, err)
	require.True(t, ok)

	// A second claim while the first is in flight must fail.
	ok, err = c.TryStartFetch(domain.Npm, "pkg")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.FinishFetch(domain.Npm, "pkg"))

	ok, err = c.TryStartFetch(domain.Npm, "pkg")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestGetPackagesNeedingRefresh(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.ReplaceVersions(domain.Npm, "stale", []string{"1.0.0"}, nil))

	keys, err := c.GetPackagesNeedingRefresh(-time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, keys)

	keys, err = c.GetPackagesNeedingRefresh(time.Hour)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestMarkNotFound(t *testing.T) {
	c := openTestCache(t)
	require.NoError(t, c.MarkNotFound(domain.Npm, "ghost"))

	versions, err := c.GetVersions(domain.Npm, "ghost")
	require.NoError(t, err)
	require.Empty(t, versions)

	keys, err := c.GetPackagesNeedingRefresh(time.Hour)
	require.NoError(t, err)
	require.Empty(t, keys)
}
