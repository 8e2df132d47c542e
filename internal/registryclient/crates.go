package registryclient

import (
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

const cratesDefaultBase = "https://crates.io"

// CratesClient implements spec.md §4.4's Crates.io fetcher:
// GET BASE/api/v1/crates/{name}, versions from versions[].num. Crates.io
// has no dist-tag concept.
type CratesClient struct {
	BaseURL string
}

func NewCratesClient(baseURL string) *CratesClient {
	if baseURL == "" {
		baseURL = cratesDefaultBase
	}
	return &CratesClient{BaseURL: baseURL}
}

func (c *CratesClient) FetchAll(name string) (domain.VersionSet, error) {
	reqURL := c.BaseURL + "/api/v1/crates/" + name
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.CratesIo, Package: name, Cause: err}
	}
	setCommonHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.CratesIo, Package: name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.VersionSet{}, &RegistryError{Kind: NotFound, Registry: domain.CratesIo, Package: name}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VersionSet{}, &RegistryError{Kind: RateLimited, Registry: domain.CratesIo, Package: name, RetryAfterSecond: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.CratesIo, Package: name}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.CratesIo, Package: name, Cause: err}
	}
	root := gjson.ParseBytes(body)
	versionsArr := root.Get("versions")
	if !versionsArr.IsArray() {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.CratesIo, Package: name}
	}

	var versions []string
	versionsArr.ForEach(func(_, v gjson.Result) bool {
		versions = append(versions, v.Get("num").String())
		return true
	})

	return domain.VersionSet{Versions: versions, DistTags: map[string]string{}}, nil
}
