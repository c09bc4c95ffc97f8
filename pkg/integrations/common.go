package integrations

import (
	"net/http"
	"time"

	"github.com/matzehuels/plugdeps/pkg/errors"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a plugin doesn't exist in the registry.
	// It carries [errors.ErrCodeNotFound].
	ErrNotFound = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	// It carries [errors.ErrCodeNetwork].
	ErrNetwork = errors.New(errors.ErrCodeNetwork, "network error")
)

// NewHTTPClient creates an HTTP client with a standard timeout for registry requests.
// Callers usually bound each request more tightly through its context.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}
