package mcpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	json "github.com/goccy/go-json"
	yaml "go.yaml.in/yaml/v4"

	"github.com/erraggy/stacschema/schema"
)

// instanceInput represents the three ways a STAC document can be provided to
// a tool. Exactly one of File, URL, or Content must be set.
type instanceInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a STAC document on disk"`
	URL     string `json:"url,omitempty"     jsonschema:"URL to fetch a STAC document from"`
	Content string `json:"content,omitempty" jsonschema:"Inline STAC document content (JSON or YAML)"`
}

// resolve returns the raw document bytes from whichever input was provided.
func (s instanceInput) resolve(ctx context.Context) ([]byte, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.URL != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file, url, or content must be provided (got %d)", count)
	}

	switch {
	case s.File != "":
		data, err := os.ReadFile(s.File)
		if err != nil {
			return nil, err
		}
		return data, nil

	case s.URL != "":
		return fetchInstance(ctx, s.URL)

	default:
		if int64(len(s.Content)) > cfg.MaxInlineSize {
			return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set STACSCHEMA_MAX_INLINE_SIZE to increase",
				len(s.Content), cfg.MaxInlineSize)
		}
		return []byte(s.Content), nil
	}
}

// decode parses the resolved bytes into a JSON value tree, sniffing JSON vs
// YAML by the first significant byte.
func decodeDocument(data []byte) (any, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("malformed JSON document: %w", err)
		}
		return v, nil
	}
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("malformed YAML document: %w", err)
	}
	return v, nil
}

// fetchInstance retrieves a document over HTTP using the SSRF-safe client
// unless private IPs are explicitly allowed.
func fetchInstance(ctx context.Context, url string) ([]byte, error) {
	client := http.DefaultClient
	if !cfg.AllowPrivateIPs {
		client = newSafeHTTPClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, cfg.MaxInlineSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("document at %s exceeds size limit %d bytes", url, cfg.MaxInlineSize)
	}
	return data, nil
}

// sharedSession is the server-wide resolution session. Compiled schema
// documents are cached here for the lifetime of the server process, so
// repeated tool calls against the same schema version refetch nothing.
var (
	sessionMu     sync.Mutex
	sharedSession *schema.Session
)

// session returns the shared resolution session, creating it on first use.
func session() (*schema.Session, error) {
	sessionMu.Lock()
	defer sessionMu.Unlock()
	if sharedSession != nil {
		return sharedSession, nil
	}

	s, err := newSession()
	if err != nil {
		return nil, err
	}
	sharedSession = s
	return s, nil
}

// newSession builds a session honoring the server's network policy and
// resolution limits.
func newSession() (*schema.Session, error) {
	fetcher := schema.NewHTTPFetcher()
	if !cfg.AllowPrivateIPs {
		fetcher.Client = newSafeHTTPClient()
	}
	return schema.NewSession(
		schema.WithFetcher(fetcher),
		schema.WithMaxRefDepth(cfg.MaxRefDepth),
	)
}

// setSessionForTest swaps the shared session and returns a restore func.
func setSessionForTest(s *schema.Session) func() {
	sessionMu.Lock()
	prev := sharedSession
	sharedSession = s
	sessionMu.Unlock()
	return func() {
		sessionMu.Lock()
		sharedSession = prev
		sessionMu.Unlock()
	}
}
