// Package jsonpointer provides a minimal RFC 6901 JSON Pointer implementation.
//
// JSON Schema $ref fragments address subschemas with JSON pointers
// (e.g. "#/definitions/core"). This package parses, escapes, and evaluates
// those pointers against decoded JSON value trees (map[string]any, []any).
package jsonpointer

import (
	"fmt"
	"strconv"
	"strings"
)

// Escape escapes a single reference token per RFC 6901.
// ~ becomes ~0 and / becomes ~1, in that order.
func Escape(token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return token
}

// Unescape unescapes a single reference token per RFC 6901.
// ~1 represents / and ~0 represents ~; ~1 must be replaced first.
func Unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// Parse splits a JSON pointer into its unescaped reference tokens.
// The empty pointer ("" or "/"-less fragment root) yields no tokens.
// A pointer must be empty or start with "/".
func Parse(pointer string) ([]string, error) {
	if pointer == "" {
		return nil, nil
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, fmt.Errorf("invalid JSON pointer %q: must start with '/'", pointer)
	}
	raw := strings.Split(pointer[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		tokens[i] = Unescape(t)
	}
	return tokens, nil
}

// Append extends a pointer string with one escaped token.
func Append(pointer, token string) string {
	return pointer + "/" + Escape(token)
}

// Eval locates the node addressed by pointer within a decoded JSON document.
// Maps are traversed by key, arrays by non-negative integer index.
func Eval(doc any, pointer string) (any, error) {
	tokens, err := Parse(pointer)
	if err != nil {
		return nil, err
	}

	current := doc
	for i, token := range tokens {
		switch v := current.(type) {
		case map[string]any:
			next, ok := v[token]
			if !ok {
				return nil, fmt.Errorf("pointer target not found: /%s (missing key: %s)",
					strings.Join(tokens[:i+1], "/"), token)
			}
			current = next

		case []any:
			index, err := strconv.Atoi(token)
			if err != nil {
				return nil, fmt.Errorf("invalid array index %q in pointer: /%s (must be a non-negative integer)",
					token, strings.Join(tokens[:i+1], "/"))
			}
			if index < 0 || index >= len(v) {
				return nil, fmt.Errorf("array index %d out of bounds (length %d) in pointer: /%s",
					index, len(v), strings.Join(tokens[:i+1], "/"))
			}
			current = v[index]

		default:
			return nil, fmt.Errorf("cannot traverse into type %T at /%s", v, strings.Join(tokens[:i], "/"))
		}
	}

	return current, nil
}
