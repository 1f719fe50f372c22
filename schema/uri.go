package schema

import (
	"net/url"
	"strings"

	"github.com/erraggy/stacschema/stacerrors"
)

// URI identifies a schema document plus an optional JSON pointer fragment
// into it. The document part is always an absolute, normalized URI; two URIs
// are equal iff their normalized String forms are byte-equal.
//
// URIs serve double duty as cache keys (Base alone) and as node identity in
// the compiled schema graph (Base plus Fragment).
type URI struct {
	// Base is the normalized absolute document URI with no fragment
	Base string
	// Fragment is the JSON pointer into the document, without the leading
	// '#' (empty means the document root)
	Fragment string
}

// ParseURI parses and normalizes an absolute schema URI, splitting off any
// JSON pointer fragment. Relative URI references are rejected; resolve them
// against a base with [URI.Resolve] first.
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return URI{}, &stacerrors.ParseError{URI: raw, Message: "invalid URI", Cause: err}
	}
	if !u.IsAbs() {
		return URI{}, &stacerrors.ConfigError{
			Option:  "uri",
			Value:   raw,
			Message: "schema URI must be absolute",
		}
	}
	return fromURL(u), nil
}

// Resolve resolves a $ref string against this URI's document base using
// standard RFC 3986 URI-reference resolution. The reference may be absolute,
// relative (including directory traversal), a bare fragment, or a relative
// path with a fragment pointing into a different document.
func (u URI) Resolve(ref string) (URI, error) {
	r, err := url.Parse(ref)
	if err != nil {
		return URI{}, &stacerrors.ReferenceError{Ref: ref, Base: u.Base, Message: "invalid reference", Cause: err}
	}
	base, err := url.Parse(u.Base)
	if err != nil {
		return URI{}, &stacerrors.ReferenceError{Ref: ref, Base: u.Base, Message: "invalid base URI", Cause: err}
	}
	return fromURL(base.ResolveReference(r)), nil
}

// String returns the canonical form: the document base, plus "#" and the
// fragment when a fragment is present.
func (u URI) String() string {
	if u.Fragment == "" {
		return u.Base
	}
	return u.Base + "#" + u.Fragment
}

// WithFragment returns a copy of u addressing the given JSON pointer within
// the same document.
func (u URI) WithFragment(pointer string) URI {
	return URI{Base: u.Base, Fragment: pointer}
}

// fromURL normalizes a parsed URL into a URI. Scheme and host are
// case-insensitive per RFC 3986 and are lowered; an empty or lone-"#"
// fragment normalizes to no fragment.
func fromURL(u *url.URL) URI {
	frag := u.Fragment
	clone := *u
	clone.Fragment = ""
	clone.RawFragment = ""
	clone.Scheme = strings.ToLower(clone.Scheme)
	clone.Host = strings.ToLower(clone.Host)
	return URI{Base: clone.String(), Fragment: frag}
}
