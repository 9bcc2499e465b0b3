// Package backend provides the HTTP client used to call the external event backend and normalizes its failures
package backend

import (
	"github.com/skybi/portal-gateway/internal/api/portal/session"
	"github.com/skybi/portal-gateway/internal/metrics"
	"net/http"
	"strings"
	"time"
)

// DefaultServerTimeout is the request timeout of clients built by a server factory
const DefaultServerTimeout = 20 * time.Second

// Factory builds pre-configured backend clients.
// A factory is safe for concurrent use; the clients it builds are meant to be used for a single call.
type Factory struct {
	BaseURL    string
	HTTPClient *http.Client
	Metrics    *metrics.Registry
	UserAgent  string
}

// NewServerFactory creates a factory for code running in the server's request/response cycle.
// Its clients time out after the given duration (DefaultServerTimeout if it is not positive).
func NewServerFactory(baseURL string, timeout time.Duration, metrics *metrics.Registry) *Factory {
	if timeout <= 0 {
		timeout = DefaultServerTimeout
	}
	return &Factory{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Metrics:    metrics,
		UserAgent:  "portal-gateway",
	}
}

// NewBrowserFactory creates a factory for code running on the user's side (i.e. portalctl).
// Its clients have no client-side timeout; they are bounded by the caller's context only.
func NewBrowserFactory(baseURL string) *Factory {
	return &Factory{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{},
		UserAgent:  "portalctl",
	}
}

// New builds a client whose calls carry the bearer token the given resolver yields, if any
func (factory *Factory) New(resolver session.Resolver) *Client {
	return &Client{
		factory:  factory,
		resolver: resolver,
	}
}
