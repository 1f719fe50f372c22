package schema

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Document is the parsed content of one fetched schema file. Documents are
// immutable once cached and are shared by reference across all consumers of
// a session; callers must not mutate Root.
type Document struct {
	// FetchURI is the normalized URI the document was fetched from; it is
	// also the cache key
	FetchURI string
	// BaseURI is the canonical base for resolving references within the
	// document: the document's absolute $id when present, otherwise FetchURI
	BaseURI URI
	// Root is the decoded JSON value tree of the schema file
	Root any
}

// cacheEntry memoizes one load outcome, success or failure. Failed loads are
// cached too (negative caching) so repeated references to a missing or
// malformed schema fail fast without re-fetching. Alias entries map a
// document's declared $id base to the document fetched elsewhere; they are
// excluded from document counts.
type cacheEntry struct {
	doc   *Document
	err   error
	alias bool
}

// Cache is a session-scoped store of loaded schema documents keyed by
// normalized document URI. It guarantees at most one in-flight load per URI
// even under concurrent resolution: a second concurrent requester for the
// same URI awaits the first load's result rather than re-fetching.
//
// The cache never evicts and entries are never mutated after insertion. A
// Cache may outlive a single compile session and be shared across sessions;
// distinct schema versions never collide because keys carry the full URI.
type Cache struct {
	mu      sync.Mutex
	group   singleflight.Group
	entries map[string]*cacheEntry
}

// NewCache creates an empty document cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// GetOrLoad returns the cached document for uri, loading it with loader on
// first use. Concurrent callers for the same uri share a single loader
// invocation via singleflight. Loader errors are cached and returned to all
// subsequent callers.
func (c *Cache) GetOrLoad(uri string, loader func() (*Document, error)) (*Document, error) {
	c.mu.Lock()
	if e, ok := c.entries[uri]; ok {
		c.mu.Unlock()
		return e.doc, e.err
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(uri, func() (any, error) {
		// Re-check under the lock: a previous flight may have completed
		// between the miss above and this call.
		c.mu.Lock()
		if e, ok := c.entries[uri]; ok {
			c.mu.Unlock()
			return e.doc, e.err
		}
		c.mu.Unlock()

		doc, loadErr := loader()
		c.mu.Lock()
		c.entries[uri] = &cacheEntry{doc: doc, err: loadErr}
		c.mu.Unlock()
		return doc, loadErr
	})
	if err != nil {
		return nil, err
	}
	doc, _ := v.(*Document)
	return doc, nil
}

// alias registers doc under an additional URI, so references addressed to a
// document's declared $id resolve to the already-loaded document instead of
// triggering a fetch of a URI that may not be served. An existing entry for
// uri is never clobbered.
func (c *Cache) alias(uri string, doc *Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[uri]; !ok {
		c.entries[uri] = &cacheEntry{doc: doc, alias: true}
	}
}

// Len returns the number of loaded documents, including negative entries.
// Alias entries do not add to the count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.entries {
		if !e.alias {
			n++
		}
	}
	return n
}

// Has reports whether uri has a cached outcome (success or failure).
func (c *Cache) Has(uri string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[uri]
	return ok
}

// URIs returns the sorted URIs of all successfully loaded documents.
// Negative and alias entries are excluded.
func (c *Cache) URIs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	uris := make([]string, 0, len(c.entries))
	for uri, e := range c.entries {
		if e.err == nil && !e.alias {
			uris = append(uris, uri)
		}
	}
	sort.Strings(uris)
	return uris
}
