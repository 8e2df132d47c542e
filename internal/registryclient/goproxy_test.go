package registryclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoProxyClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/github.com/!burnt!sushi/toml/@v/list", r.URL.Path)
		_, _ = w.Write([]byte("v0.3.1\nv1.0.0\n\n"))
	}))
	defer srv.Close()

	c := NewGoProxyClient(srv.URL)
	set, err := c.FetchAll("github.com/BurntSushi/toml")
	require.NoError(t, err)
	require.Equal(t, []string{"v0.3.1", "v1.0.0"}, set.Versions)
}

func TestGoProxyClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	c := NewGoProxyClient(srv.URL)
	_, err := c.FetchAll("example.com/gone")
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, NotFound, regErr.Kind)
}
