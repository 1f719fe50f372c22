package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/erraggy/stacschema"
	"github.com/erraggy/stacschema/stacerrors"
)

const (
	// MaxSchemaSize is the default maximum size (in bytes) allowed for a
	// fetched schema document. STAC schema files are small; this guards
	// against resource exhaustion from misconfigured URIs.
	MaxSchemaSize = 10 * 1024 * 1024 // 10MB

	// defaultFetchTimeout bounds a single schema fetch when the caller does
	// not supply its own http.Client or context deadline.
	defaultFetchTimeout = 30 * time.Second
)

// Fetcher retrieves raw schema bytes for a URI. It is the sole I/O seam of
// the engine: implementations perform exactly one request per call and never
// retry. Retry policy, if any, belongs to the caller.
//
// Errors returned by Fetch should be *stacerrors.FetchError so callers can
// classify the failure.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// HTTPFetcher fetches schemas over HTTP/HTTPS using net/http.
type HTTPFetcher struct {
	// Client is the HTTP client to use. If nil, a default client with a
	// 30 second timeout is used.
	Client *http.Client
	// UserAgent overrides the User-Agent header. Defaults to the library
	// user agent.
	UserAgent string
	// MaxBodySize limits the response body size. Zero means MaxSchemaSize.
	MaxBodySize int64
}

// NewHTTPFetcher creates an HTTPFetcher with default settings.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{}
}

// Fetch performs a single GET request for the schema at uri.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &stacerrors.FetchError{URI: uri, Kind: stacerrors.FetchTransportFailure, Cause: err}
	}
	ua := f.UserAgent
	if ua == "" {
		ua = stacschema.UserAgent()
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &stacerrors.FetchError{URI: uri, Kind: classifyTransportError(err), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, &stacerrors.FetchError{URI: uri, Kind: stacerrors.FetchNotFound, StatusCode: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &stacerrors.FetchError{URI: uri, Kind: stacerrors.FetchNonSuccessStatus, StatusCode: resp.StatusCode}
	}

	limit := f.MaxBodySize
	if limit <= 0 {
		limit = MaxSchemaSize
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &stacerrors.FetchError{URI: uri, Kind: classifyTransportError(err), Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &stacerrors.ResourceLimitError{
			ResourceType: "schema_size",
			Limit:        limit,
			Message:      fmt.Sprintf("response from %s exceeds size limit", uri),
		}
	}
	return data, nil
}

// classifyTransportError maps low-level request failures onto fetch kinds.
func classifyTransportError(err error) stacerrors.FetchKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return stacerrors.FetchTimeout
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return stacerrors.FetchTimeout
	}
	return stacerrors.FetchTransportFailure
}

// ReplayFetcher serves recorded URI→response pairs, keyed by exact URI match.
// It is the deterministic test double for the Fetcher boundary and counts
// calls per URI so tests can assert cache memoization.
type ReplayFetcher struct {
	mu        sync.Mutex
	responses map[string][]byte
	calls     map[string]int
}

// NewReplayFetcher creates a ReplayFetcher from a map of recorded responses.
// The map is copied; later mutation of the argument does not affect the fetcher.
func NewReplayFetcher(responses map[string][]byte) *ReplayFetcher {
	copied := make(map[string][]byte, len(responses))
	for uri, body := range responses {
		copied[uri] = body
	}
	return &ReplayFetcher{
		responses: copied,
		calls:     make(map[string]int),
	}
}

// Record adds or replaces a recorded response.
func (f *ReplayFetcher) Record(uri string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[uri] = body
}

// Fetch returns the recorded response for uri, or a not-found FetchError when
// no recording exists. Every call is counted, hits and misses alike.
func (f *ReplayFetcher) Fetch(_ context.Context, uri string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[uri]++
	body, ok := f.responses[uri]
	if !ok {
		return nil, &stacerrors.FetchError{URI: uri, Kind: stacerrors.FetchNotFound}
	}
	return body, nil
}

// Calls returns how many times uri has been fetched.
func (f *ReplayFetcher) Calls(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[uri]
}

// TotalCalls returns the total number of Fetch invocations across all URIs.
func (f *ReplayFetcher) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Compile-time interface verification
var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = (*ReplayFetcher)(nil)
)
