package registryclient

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPyPIClientSynthesizesLatestDistTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pypi/requests/json", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"info": {"version": "2.32.0"},
			"releases": {"2.27.0": [], "2.28.0": [], "2.32.0": []}
		}`))
	}))
	defer srv.Close()

	c := NewPyPIClient(srv.URL)
	set, err := c.FetchAll("requests")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"2.27.0", "2.28.0", "2.32.0"}, set.Versions)
	require.Equal(t, "2.32.0", set.DistTags["latest"])
}
