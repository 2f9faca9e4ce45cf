package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/sethgrid/pester"
)

// Doer is the minimal HTTP client interface used across packages.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultUA identifies bibdoi to resolver and metadata services.
const DefaultUA = "bibdoi/1.0 (+https://doi.org)"

// SetUA sets the User-Agent header on the request, falling back to
// DefaultUA when ua is blank.
func SetUA(req *http.Request, ua string) {
	if req == nil {
		return
	}
	if strings.TrimSpace(ua) == "" {
		ua = DefaultUA
	}
	req.Header.Set("User-Agent", ua)
}

// NewRetryingClient returns a client that retries failed requests and 429
// responses with exponential backoff.
func NewRetryingClient(timeout time.Duration, maxRetries int) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.RetryOnHTTP429 = true
	if timeout > 0 {
		client.Timeout = timeout
	}
	return client
}
