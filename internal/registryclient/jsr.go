package registryclient

import (
	"io"
	"net/http"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/version-lsp/version-lsp/internal/domain"
)

const jsrDefaultBase = "https://jsr.io"

// JsrClient implements spec.md §4.4's JSR fetcher: GET BASE/{@scope/pkg}/meta.json,
// dropping yanked entries and ordering the rest by createdAt ascending.
type JsrClient struct {
	BaseURL string
}

func NewJsrClient(baseURL string) *JsrClient {
	if baseURL == "" {
		baseURL = jsrDefaultBase
	}
	return &JsrClient{BaseURL: baseURL}
}

func (c *JsrClient) FetchAll(name string) (domain.VersionSet, error) {
	reqURL := c.BaseURL + "/" + name + "/meta.json"
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.Jsr, Package: name, Cause: err}
	}
	setCommonHeaders(req)

	resp, err := sharedHTTPClient.Do(req)
	if err != nil {
		return domain.VersionSet{}, &RegistryError{Kind: Network, Registry: domain.Jsr, Package: name, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.VersionSet{}, &RegistryError{Kind: NotFound, Registry: domain.Jsr, Package: name}
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VersionSet{}, &RegistryError{Kind: RateLimited, Registry: domain.Jsr, Package: name, RetryAfterSecond: retryAfterSeconds(resp)}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Jsr, Package: name}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil || !gjson.ValidBytes(body) {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Jsr, Package: name, Cause: err}
	}
	root := gjson.ParseBytes(body)
	versionsObj := root.Get("versions")
	if !versionsObj.IsObject() {
		return domain.VersionSet{}, &RegistryError{Kind: InvalidResponse, Registry: domain.Jsr, Package: name}
	}

	type entry struct {
		version   string
		createdAt string
	}
	var entries []entry
	versionsObj.ForEach(func(key, value gjson.Result) bool {
		if value.Get("yanked").Bool() {
			return true
		}
		entries = append(entries, entry{version: key.String(), createdAt: value.Get("createdAt").String()})
		return true
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].createdAt < entries[j].createdAt })

	versions := make([]string, len(entries))
	for i, e := range entries {
		versions[i] = e.version
	}

	return domain.VersionSet{Versions: versions, DistTags: map[string]string{}}, nil
}
