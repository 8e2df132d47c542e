package registryclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCratesClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/crates/serde", r.URL.Path)
		_, _ = w.Write([]byte(`{"versions": [{"num": "1.0.0"}, {"num": "1.0.1"}]}`))
	}))
	defer srv.Close()

	c := NewCratesClient(srv.URL)
	set, err := c.FetchAll("serde")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0", "1.0.1"}, set.Versions)
}

func TestCratesClientInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewCratesClient(srv.URL)
	_, err := c.FetchAll("broken")
	var regErr *RegistryError
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, InvalidResponse, regErr.Kind)
}
