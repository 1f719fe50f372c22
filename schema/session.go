package schema

import (
	"sync"

	"github.com/erraggy/stacschema/stacerrors"
)

const (
	// MaxRefDepth is the default maximum depth allowed for nested $ref
	// resolution. This prevents stack overflow from deeply nested (but
	// non-circular) reference chains.
	MaxRefDepth = 100
)

// Session owns the shared state of schema resolution: the document cache,
// the fetcher, and the arena of compiled nodes. Sessions are explicit values
// passed by the caller rather than hidden globals, so independent validation
// runs never leak state into each other.
//
// A session may be reused across many Compile calls; previously fetched
// documents and compiled reference targets are shared. Compile calls are
// serialized internally; the document cache additionally tolerates being
// shared between sessions.
type Session struct {
	cache   *Cache
	fetcher Fetcher
	logger  Logger

	maxRefDepth int

	// compileMu serializes Compile calls; an arena with in-progress nodes is
	// only safe to grow from one compiler at a time.
	compileMu sync.Mutex

	mu    sync.Mutex
	nodes map[string]*Node // arena of $ref targets keyed by canonical URI
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// NewSession creates a Session. With no options it fetches schemas over
// HTTPS with default settings.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		cache:       NewCache(),
		fetcher:     NewHTTPFetcher(),
		logger:      NopLogger{},
		maxRefDepth: MaxRefDepth,
		nodes:       make(map[string]*Node),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithFetcher sets the fetcher used to retrieve schema bytes.
// Use a [ReplayFetcher] for deterministic offline resolution.
func WithFetcher(f Fetcher) SessionOption {
	return func(s *Session) error {
		if f == nil {
			return &stacerrors.ConfigError{Option: "WithFetcher", Message: "fetcher must not be nil"}
		}
		s.fetcher = f
		return nil
	}
}

// WithCache sets a shared document cache, allowing multiple sessions to
// reuse fetched documents.
func WithCache(c *Cache) SessionOption {
	return func(s *Session) error {
		if c == nil {
			return &stacerrors.ConfigError{Option: "WithCache", Message: "cache must not be nil"}
		}
		s.cache = c
		return nil
	}
}

// WithLogger sets the logger used during resolution.
func WithLogger(l Logger) SessionOption {
	return func(s *Session) error {
		if l == nil {
			return &stacerrors.ConfigError{Option: "WithLogger", Message: "logger must not be nil"}
		}
		s.logger = l
		return nil
	}
}

// WithMaxRefDepth overrides the maximum $ref nesting depth.
func WithMaxRefDepth(depth int) SessionOption {
	return func(s *Session) error {
		if depth <= 0 {
			return &stacerrors.ConfigError{Option: "WithMaxRefDepth", Value: depth, Message: "must be positive"}
		}
		s.maxRefDepth = depth
		return nil
	}
}

// Cache returns the session's document cache.
func (s *Session) Cache() *Cache {
	return s.cache
}

// DocumentCount returns the number of schema documents loaded so far,
// including negatively cached failures.
func (s *Session) DocumentCount() int {
	return s.cache.Len()
}

// node returns the arena entry for key, or nil.
func (s *Session) node(key string) *Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nodes[key]
}

// setNode registers a (possibly still compiling) reference target.
func (s *Session) setNode(key string, n *Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes[key] = n
}

// dropNode removes a partially compiled target after a failed build so a
// reused session never exposes torn nodes.
func (s *Session) dropNode(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.nodes, key)
}
