// Package registryclient implements spec.md §4.4's registry fetchers: one
// HTTP client per domain.RegistryKind, each normalizing its registry's
// wire format into a domain.VersionSet.
package registryclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/version-lsp/version-lsp/internal/domain"
)

// userAgent is sent by every client, per SPEC_FULL.md's registry-client
// supplement.
const userAgent = "version-lsp/0.1"

// sharedHTTPClient is reused across every non-GitHub client: one
// connection pool, one fixed 10s timeout, per SPEC_FULL.md.
var sharedHTTPClient = &http.Client{Timeout: 10 * time.Second}

// ErrorKind classifies a RegistryError, per spec.md §4.4.
type ErrorKind int

const (
	Network ErrorKind = iota
	RateLimited
	NotFound
	InvalidResponse
)

func (k ErrorKind) String() string {
	switch k {
	case Network:
		return "Network"
	case RateLimited:
		return "RateLimited"
	case NotFound:
		return "NotFound"
	default:
		return "InvalidResponse"
	}
}

// RegistryError is returned by every Client.FetchAll implementation.
type RegistryError struct {
	Kind             ErrorKind
	Registry         domain.RegistryKind
	Package          string
	RetryAfterSecond int // only meaningful when Kind == RateLimited; 0 if absent
	Cause            error
}

func (e *RegistryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s/%s: %v", e.Kind, e.Registry, e.Package, e.Cause)
	}
	return fmt.Sprintf("%s: %s/%s", e.Kind, e.Registry, e.Package)
}

func (e *RegistryError) Unwrap() error { return e.Cause }

// Client fetches the full version set for one package from one registry.
type Client interface {
	FetchAll(name string) (domain.VersionSet, error)
}

// setCommonHeaders applies the shared User-Agent every client sends.
func setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
}

// retryAfterSecondsFromHeader parses a "Retry-After" header's delay-seconds
// form (RFC 9110 doesn't define HTTP-date parsing here since none of these
// registries send one), shared by every client that fills RetryAfterSecond
// on a RateLimited error.
func retryAfterSecondsFromHeader(h http.Header) int {
	raw := h.Get("Retry-After")
	if raw == "" {
		return 0
	}
	n := 0
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
