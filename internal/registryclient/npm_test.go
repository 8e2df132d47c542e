package registryclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/version-lsp/version-lsp/internal/domain"
)

func TestNpmClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/@scope%2Fpkg", r.URL.EscapedPath())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"versions": {"1.0.0": {}, "1.2.0": {}, "0.9.0": {}},
			"dist-tags": {"latest": "1.2.0"}
		}`))
	}))
	defer srv.Close()

	c := NewNpmClient(srv.URL)
	set, err := c.FetchAll("@scope/pkg")
	require.NoError(t, err)
	require.Equal(t, []string{"0.9.0", "1.0.0", "1.2.0"}, set.Versions)
	require.Equal(t, "1.2.0", set.DistTags["latest"])
}

func TestNpmClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewNpmClient(srv.URL)
	_, err := c.FetchAll("missing")
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, NotFound, regErr.Kind)
	require.Equal(t, domain.Npm, regErr.Registry)
}

func TestNpmClientRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewNpmClient(srv.URL)
	_, err := c.FetchAll("throttled")
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, RateLimited, regErr.Kind)
	require.Equal(t, 30, regErr.RetryAfterSecond)
}
