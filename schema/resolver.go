package schema

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/erraggy/stacschema/internal/jsonpointer"
	"github.com/erraggy/stacschema/stacerrors"
)

// Compile resolves the full reference closure of the schema at rootURI and
// returns its fully expanded root Node. It is the public entry point of the
// resolution engine and the only place a fresh cycle-guard is started.
//
// Any fetch or parse failure anywhere in the closure aborts the build with a
// *stacerrors.BuildError carrying the reference chain that led to the
// offending URI. An unresolvable $ref cycle aborts with a
// *stacerrors.CycleError. Fetches are issued through the session cache, so a
// document referenced from many places is fetched exactly once.
func (s *Session) Compile(ctx context.Context, rootURI string) (*Node, error) {
	u, err := ParseURI(rootURI)
	if err != nil {
		return nil, err
	}

	s.compileMu.Lock()
	defer s.compileMu.Unlock()

	s.logger.Debug("compiling schema graph", "root", u.String())
	c := &compiler{session: s, ctx: ctx}
	node, err := c.resolveURI(u, 0, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("schema graph compiled", "root", u.String(), "documents", s.cache.Len())
	return node, nil
}

// compiler holds the per-build state driving one Compile call.
//
// trail records every $ref hop followed so far, root included, and exists
// purely for diagnostics: BuildError.Chain is a snapshot of it. It is
// distinct from the cycle-guard chain threaded through resolveURI, which
// resets at structural keywords to keep recursive shapes legal.
type compiler struct {
	session *Session
	ctx     context.Context
	trail   []string
}

// resolveURI dereferences the schema at canonical URI u: loads its document
// through the cache, applies the pointer fragment, and compiles the subschema
// into a Node registered in the session arena.
//
// chain carries the $ref hops followed without encountering any structural
// keyword. If u is already on that chain the schema is a pure reference
// cycle with no terminal keywords and cannot be satisfied; structural
// recursion instead re-enters through the arena and shares the existing
// (possibly still compiling) node pointer.
func (c *compiler) resolveURI(u URI, depth int, chain []string) (*Node, error) {
	key := u.String()

	if depth > c.session.maxRefDepth {
		return nil, c.buildErr(key, &stacerrors.ResourceLimitError{
			ResourceType: "ref_depth",
			Limit:        int64(c.session.maxRefDepth),
			Actual:       int64(depth),
			Message:      "references too deeply nested",
		})
	}

	if slices.Contains(chain, key) {
		return nil, &stacerrors.CycleError{Chain: append(slices.Clone(chain), key)}
	}

	if n := c.session.node(key); n != nil {
		return n, nil
	}

	c.trail = append(c.trail, key)
	defer func() { c.trail = c.trail[:len(c.trail)-1] }()

	doc, err := c.loadDocument(u.Base)
	if err != nil {
		return nil, c.buildErr(u.Base, err)
	}

	raw, err := jsonpointer.Eval(doc.Root, u.Fragment)
	if err != nil {
		return nil, c.buildErr(key, &stacerrors.ParseError{
			URI:     u.Base,
			Pointer: u.Fragment,
			Message: "reference target not found",
			Cause:   err,
		})
	}

	// Register before compiling children so recursive shapes resolve to this
	// same node instead of inlining forever.
	n := &Node{URI: key, Schema: raw}
	c.session.setNode(key, n)

	if err := c.compile(n, doc, u, depth, append(slices.Clone(chain), key)); err != nil {
		c.session.dropNode(key)
		return nil, err
	}
	return n, nil
}

// compile fills in the resolved children of n, whose raw subschema sits at
// location loc within doc.
func (c *compiler) compile(n *Node, doc *Document, loc URI, depth int, chain []string) error {
	m, ok := n.Schema.(map[string]any)
	if !ok {
		if _, isBool := n.Schema.(bool); isBool {
			return nil
		}
		return c.buildErr(loc.String(), &stacerrors.ParseError{
			URI:     doc.FetchURI,
			Pointer: loc.Fragment,
			Message: fmt.Sprintf("schema must be an object or boolean, got %T", n.Schema),
		})
	}

	// Draft-07: $ref replaces all sibling keywords.
	if rawRef, present := m["$ref"]; present {
		refStr, ok := rawRef.(string)
		if !ok {
			return c.buildErr(loc.String(), &stacerrors.ParseError{
				URI:     doc.FetchURI,
				Pointer: loc.Fragment,
				Message: fmt.Sprintf("$ref must be a string, got %T", rawRef),
			})
		}
		// Nested relative refs resolve against the immediate containing
		// document's base, which is its $id when one is declared.
		target, err := doc.BaseURI.Resolve(refStr)
		if err != nil {
			return c.buildErr(loc.String(), err)
		}
		c.session.logger.Debug("resolving reference", "ref", refStr, "target", target.String(), "depth", depth)
		child, err := c.resolveURI(target, depth+1, chain)
		if err != nil {
			return err
		}
		n.Ref = child
		return nil
	}

	var err error

	// Combinators hold ordered child sequences.
	if n.AllOf, err = c.compileList(m, "allOf", doc, loc, depth); err != nil {
		return err
	}
	if n.AnyOf, err = c.compileList(m, "anyOf", doc, loc, depth); err != nil {
		return err
	}
	if n.OneOf, err = c.compileList(m, "oneOf", doc, loc, depth); err != nil {
		return err
	}

	// Conditionals and negation.
	if n.If, err = c.compileChild(m, "if", doc, loc, depth); err != nil {
		return err
	}
	if n.Then, err = c.compileChild(m, "then", doc, loc, depth); err != nil {
		return err
	}
	if n.Else, err = c.compileChild(m, "else", doc, loc, depth); err != nil {
		return err
	}
	if n.Not, err = c.compileChild(m, "not", doc, loc, depth); err != nil {
		return err
	}

	// Object keywords.
	if raw, present := m["properties"]; present {
		props, ok := raw.(map[string]any)
		if !ok {
			return c.badKeyword(doc, loc, "properties", "must be an object", raw)
		}
		n.Properties = make(map[string]*Node, len(props))
		propLoc := loc.WithFragment(jsonpointer.Append(loc.Fragment, "properties"))
		for name, sub := range props {
			child, err := c.compileValue(sub, doc, propLoc.WithFragment(jsonpointer.Append(propLoc.Fragment, name)), depth+1)
			if err != nil {
				return err
			}
			n.Properties[name] = child
		}
	}
	if raw, present := m["patternProperties"]; present {
		props, ok := raw.(map[string]any)
		if !ok {
			return c.badKeyword(doc, loc, "patternProperties", "must be an object", raw)
		}
		// Sorted for deterministic evaluation order.
		patterns := make([]string, 0, len(props))
		for p := range props {
			patterns = append(patterns, p)
		}
		sort.Strings(patterns)
		ppLoc := loc.WithFragment(jsonpointer.Append(loc.Fragment, "patternProperties"))
		for _, p := range patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return c.badKeyword(doc, loc, "patternProperties", "invalid pattern "+p, err.Error())
			}
			child, err := c.compileValue(props[p], doc, ppLoc.WithFragment(jsonpointer.Append(ppLoc.Fragment, p)), depth+1)
			if err != nil {
				return err
			}
			n.PatternProperties = append(n.PatternProperties, PatternSchema{Source: p, Regexp: re, Node: child})
		}
	}
	if n.AdditionalProperties, err = c.compileChild(m, "additionalProperties", doc, loc, depth); err != nil {
		return err
	}

	// Array keywords. items is either a single schema or a tuple of schemas.
	if raw, present := m["items"]; present {
		if tuple, isTuple := raw.([]any); isTuple {
			itemsLoc := loc.WithFragment(jsonpointer.Append(loc.Fragment, "items"))
			n.TupleItems = make([]*Node, len(tuple))
			for i, sub := range tuple {
				child, err := c.compileValue(sub, doc, itemsLoc.WithFragment(fmt.Sprintf("%s/%d", itemsLoc.Fragment, i)), depth+1)
				if err != nil {
					return err
				}
				n.TupleItems[i] = child
			}
		} else {
			if n.Items, err = c.compileChild(m, "items", doc, loc, depth); err != nil {
				return err
			}
		}
	}
	if n.AdditionalItems, err = c.compileChild(m, "additionalItems", doc, loc, depth); err != nil {
		return err
	}
	if n.Contains, err = c.compileChild(m, "contains", doc, loc, depth); err != nil {
		return err
	}

	// String keywords with compile-time cost.
	if raw, present := m["pattern"]; present {
		p, ok := raw.(string)
		if !ok {
			return c.badKeyword(doc, loc, "pattern", "must be a string", raw)
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return c.badKeyword(doc, loc, "pattern", "invalid pattern "+p, err.Error())
		}
		n.Pattern = re
	}

	return nil
}

// compileList compiles an ordered keyword of subschemas (allOf/anyOf/oneOf).
func (c *compiler) compileList(m map[string]any, keyword string, doc *Document, loc URI, depth int) ([]*Node, error) {
	raw, present := m[keyword]
	if !present {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, c.badKeyword(doc, loc, keyword, "must be an array", raw)
	}
	listLoc := loc.WithFragment(jsonpointer.Append(loc.Fragment, keyword))
	nodes := make([]*Node, len(list))
	for i, sub := range list {
		child, err := c.compileValue(sub, doc, listLoc.WithFragment(fmt.Sprintf("%s/%d", listLoc.Fragment, i)), depth+1)
		if err != nil {
			return nil, err
		}
		nodes[i] = child
	}
	return nodes, nil
}

// compileChild compiles a single-subschema keyword when present.
func (c *compiler) compileChild(m map[string]any, keyword string, doc *Document, loc URI, depth int) (*Node, error) {
	raw, present := m[keyword]
	if !present {
		return nil, nil
	}
	return c.compileValue(raw, doc, loc.WithFragment(jsonpointer.Append(loc.Fragment, keyword)), depth+1)
}

// compileValue compiles an inline subschema at location loc. Inline nodes are
// not arena entries; descending into a structural keyword starts a fresh $ref
// chain, which is what makes legitimate recursive shapes legal.
func (c *compiler) compileValue(raw any, doc *Document, loc URI, depth int) (*Node, error) {
	if depth > c.session.maxRefDepth {
		return nil, c.buildErr(loc.String(), &stacerrors.ResourceLimitError{
			ResourceType: "nesting_depth",
			Limit:        int64(c.session.maxRefDepth),
			Actual:       int64(depth),
			Message:      "schema too deeply nested",
		})
	}
	n := &Node{URI: loc.String(), Schema: raw}
	if err := c.compile(n, doc, loc, depth, nil); err != nil {
		return nil, err
	}
	return n, nil
}

// loadDocument fetches and parses the schema document at base, memoized
// through the session cache. A document's own absolute $id, when present,
// becomes its canonical base for resolving the references it contains, and
// the document is additionally registered under that $id so fragments
// addressed to it resolve in-document rather than fetching the $id URI.
func (c *compiler) loadDocument(base string) (*Document, error) {
	doc, err := c.session.cache.GetOrLoad(base, func() (*Document, error) {
		c.session.logger.Debug("fetching schema document", "uri", base)
		data, err := c.session.fetcher.Fetch(c.ctx, base)
		if err != nil {
			return nil, err
		}

		var root any
		if err := json.Unmarshal(data, &root); err != nil {
			return nil, &stacerrors.ParseError{URI: base, Message: "malformed schema JSON", Cause: err}
		}

		doc := &Document{FetchURI: base, BaseURI: URI{Base: base}, Root: root}
		if m, ok := root.(map[string]any); ok {
			if id, ok := m["$id"].(string); ok && id != "" {
				if idURI, err := ParseURI(id); err == nil {
					doc.BaseURI = idURI.WithFragment("")
				}
				// A relative or malformed $id keeps the fetch URI as base;
				// the published STAC families ship both styles.
			}
		}
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	if doc.BaseURI.Base != base {
		c.session.cache.alias(doc.BaseURI.Base, doc)
	}
	return doc, nil
}

// badKeyword reports a structurally invalid keyword value as a build failure.
func (c *compiler) badKeyword(doc *Document, loc URI, keyword, msg string, value any) error {
	return c.buildErr(loc.String(), &stacerrors.ParseError{
		URI:     doc.FetchURI,
		Pointer: jsonpointer.Append(loc.Fragment, keyword),
		Message: fmt.Sprintf("%s %s (got %v)", keyword, msg, value),
	})
}

// buildErr wraps a fetch/parse/limit failure with the $ref trail followed to
// reach it. Cycle errors and already-wrapped build errors pass through.
func (c *compiler) buildErr(uri string, err error) error {
	var buildErr *stacerrors.BuildError
	var cycleErr *stacerrors.CycleError
	if errors.As(err, &buildErr) || errors.As(err, &cycleErr) {
		return err
	}
	return &stacerrors.BuildError{URI: uri, Chain: slices.Clone(c.trail), Cause: err}
}
