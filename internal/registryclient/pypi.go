package registryclient

import (
	"io"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

const pypiDefaultBase = "https://pypi.org"

// PyPIClient implements spec.md §4.4's PyPI fetcher: GET BASE/pypi/{name}/json,
// versions from the keys of "releases". info.version is stored as
// dist_tags["latest"] here in the client. The PyPI resolver is the
// semantic-maximum rule and does not read dist_tags, so the cached "latest"
// comes from the versions list; the tag is available through GetDistTag.
type PyPIClient struct {
	BaseURL string
}

func NewPyPIClient(baseURL string) *PyPIClient {
	if baseURL == "" {
		baseURL = pypiDefaultBase
	}
	return &PyPIClient{BaseURL: baseURL}
}

func (c *PyPIClient) FetchAll(name string) (domain.VersionSet, error) {
	reqURL := c.BaseURL + "/pypi/" + name + "/json"
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.PyPI, Package: name, Cause: err}
	}
	setCommonHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.PyPI, Package: name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.VersionSet{}, &RegistryError{Kind: NotFound, Registry: domain.PyPI, Package: name}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VersionSet{}, &RegistryError{Kind: RateLimited, Registry: domain.PyPI, Package: name, RetryAfterSecond: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.PyPI, Package: name}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.PyPI, Package: name, Cause: err}
	}
	root := gjson.ParseBytes(body)
	releases := root.Get("releases")
	if !releases.IsObject() {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.PyPI, Package: name}
	}

	var versions []string
	releases.ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})

	latest := root.Get("info.version").String()
	distTags := map[string]string{}
	if latest != "" {
		distTags["latest"] = latest
	}

	return domain.VersionSet{Versions: versions, DistTags: distTags}, nil
}
