package registryclient

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

const npmDefaultBase = "https://registry.npmjs.org"

// NpmClient implements spec.md §4.4's npm fetcher: GET BASE/{name}
// (scoped names URL-encode "/" as "%2F"), versions derived from the
// "versions" object's keys sorted ascending by semver, dist_tags copied
// from "dist-tags". gjson parses the body, per SPEC_FULL.md's domain
// stack table.
type NpmClient struct {
	BaseURL string
}

func NewNpmClient(baseURL string) *NpmClient {
	if baseURL == "" {
		baseURL = npmDefaultBase
	}
	return &NpmClient{BaseURL: baseURL}
}

func (c *NpmClient) FetchAll(name string) (domain.VersionSet, error) {
	// Scoped names like "@scope/pkg" need their "/" escaped as "%2F";
	// everything else in an npm package name is already URL-safe.
	escaped := strings.ReplaceAll(name, "/", "%2F")
	reqURL := c.BaseURL + "/" + escaped

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.Npm, Package: name, Cause: err}
	}
	setCommonHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.Npm, Package: name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.VersionSet{}, &RegistryError{Kind: NotFound, Registry: domain.Npm, Package: name}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VersionSet{}, &RegistryError{Kind: RateLimited, Registry: domain.Npm, Package: name, RetryAfterSecond: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Npm, Package: name}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Npm, Package: name, Cause: err}
	}
	root := gjson.ParseBytes(body)

	versionsObj := root.Get("versions")
	if !versionsObj.IsObject() {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Npm, Package: name}
	}
	var versions []string
	versionsObj.ForEach(func(key, _ gjson.Result) bool {
		versions = append(versions, key.String())
		return true
	})
	sortBySemver(versions)

	distTags := map[string]string{}
	root.Get("dist-tags").ForEach(func(key, value gjson.Result) bool {
		distTags[key.String()] = value.String()
		return true
	})

	return domain.VersionSet{Versions: versions, DistTags: distTags}, nil
}

func sortBySemver(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri != nil || errj != nil {
			return versions[i] < versions[j]
		}
		return vi.LessThan(vj)
	})
}

func retryAfterSeconds(resp *http.Response) int {
	return retryAfterSecondsFromHeader(resp.Header)
}
