package registryclient

import (
	"io"
	"net/http"
	"strings"

	"golang.org/x/mod/module"

	"github.com/version-lsp/version-lsp/internal/domain"
)

const goProxyDefaultBase = "https://proxy.golang.org"

// GoProxyClient implements spec.md §4.4's Go module proxy fetcher:
// GET BASE/{MODULE}/@v/list with the Go module proxy's own escaping
// (each uppercase letter X becomes "!x"). golang.org/x/mod/module already
// implements this escaping — EscapePath — so the client doesn't
// reimplement it.
type GoProxyClient struct {
	BaseURL string
}

func NewGoProxyClient(baseURL string) *GoProxyClient {
	if baseURL == "" {
		baseURL = goProxyDefaultBase
	}
	return &GoProxyClient{BaseURL: baseURL}
}

func (c *GoProxyClient) FetchAll(name string) (domain.VersionSet, error) {
	escaped, err := module.EscapePath(name)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.GoProxy, Package: name, Cause: err}
	}

	reqURL := c.BaseURL + "/" + escaped + "/@v/list"
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.GoProxy, Package: name, Cause: err}
	}
	setCommonHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.GoProxy, Package: name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
		return domain.VersionSet{}, &RegistryError{Kind: NotFound, Registry: domain.GoProxy, Package: name}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VersionSet{}, &RegistryError{Kind: RateLimited, Registry: domain.GoProxy, Package: name, RetryAfterSecond: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.GoProxy, Package: name}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.GoProxy, Package: name, Cause: err}
	}

	var versions []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			versions = append(versions, line)
		}
	}

	return domain.VersionSet{Versions: versions, DistTags: map[string]string{}}, nil
}
