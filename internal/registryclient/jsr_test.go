package registryclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJsrClientDropsYankedAndSortsByCreatedAt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/@std/fs/meta.json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"versions": {
				"1.1.0": {"createdAt": "2024-02-01T00:00:00Z"},
				"1.0.0": {"createdAt": "2024-01-01T00:00:00Z"},
				"0.9.0": {"createdAt": "2023-12-01T00:00:00Z", "yanked": true}
			}
		}`))
	}))
	defer srv.Close()

	c := NewJsrClient(srv.URL)
	set, err := c.FetchAll("@std/fs")
	require.NoError(t, err)
	require.Equal(t, []string{"1.0.0", "1.1.0"}, set.Versions)
}
