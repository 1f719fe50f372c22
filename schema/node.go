package schema

import "regexp"

// Node is a schema subtree after reference expansion. Every keyword whose
// value is itself a schema has been resolved into a child Node; $ref targets
// are shared by pointer, never deep-copied, so recursive schema shapes stay
// finite in memory.
//
// Scalar constraint keywords (type, const, enum, required, numeric bounds,
// string lengths, ...) are read directly from Schema by the validator; only
// subschema-valued keywords and compiled regular expressions are lifted onto
// the Node.
type Node struct {
	// URI is the canonical identity of this node: the containing document's
	// base URI plus the JSON pointer to the subschema. Reference targets are
	// registered under this identity in the session arena; inline subschemas
	// carry it for diagnostics only.
	URI string

	// Schema is the raw decoded subschema: a map[string]any, or a bool for
	// the boolean schema forms true/false.
	Schema any

	// Ref is the resolved $ref target. Per draft-07, when Ref is set all
	// sibling keywords are ignored.
	Ref *Node

	// Combinators, in source order.
	AllOf []*Node
	AnyOf []*Node
	OneOf []*Node

	// Conditional subschemas. Then and Else are only consulted when If is set.
	If   *Node
	Then *Node
	Else *Node

	// Not is the negated subschema.
	Not *Node

	// Object keywords.
	Properties           map[string]*Node
	PatternProperties    []PatternSchema
	AdditionalProperties *Node // includes the boolean forms

	// Array keywords.
	Items           *Node   // single-schema form
	TupleItems      []*Node // tuple form; mutually exclusive with Items
	AdditionalItems *Node
	Contains        *Node

	// Pattern is the compiled "pattern" keyword, when present.
	Pattern *regexp.Regexp
}

// PatternSchema pairs one compiled patternProperties entry with its subschema.
// Entries preserve the order they were compiled in for deterministic output.
type PatternSchema struct {
	// Source is the original regex text, used in schema paths
	Source string
	// Regexp is the compiled pattern
	Regexp *regexp.Regexp
	// Node is the subschema applied to matching property values
	Node *Node
}

// Map returns the schema as a keyword map, or nil for boolean schemas.
func (n *Node) Map() map[string]any {
	m, _ := n.Schema.(map[string]any)
	return m
}

// IsBool reports whether this is a boolean schema, returning its value.
func (n *Node) IsBool() (value, ok bool) {
	value, ok = n.Schema.(bool)
	return value, ok
}

// Deref follows the $ref chain to the first node carrying actual keywords.
// Compilation guarantees the chain is finite.
func (n *Node) Deref() *Node {
	for n.Ref != nil {
		n = n.Ref
	}
	return n
}
