package validator

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"github.com/erraggy/stacschema/internal/issues"
	"github.com/erraggy/stacschema/internal/jsonpointer"
	"github.com/erraggy/stacschema/internal/severity"
	"github.com/erraggy/stacschema/schema"
)

// evaluator walks a compiled schema node and an instance value in parallel,
// collecting issues. It carries no mutable state besides the format registry,
// so a single evaluator may be shared across goroutines.
type evaluator struct {
	formats map[string]formatEntry
}

func newEvaluator() *evaluator {
	e := &evaluator{formats: make(map[string]formatEntry, len(defaultFormats))}
	for name, entry := range defaultFormats {
		e.formats[name] = entry
	}
	return e
}

// eval returns all issues for instance v against node n. instPath is the
// JSON pointer to v within the top-level document.
func (e *evaluator) eval(n *schema.Node, v any, instPath string, depth int) []issues.Issue {
	if depth > maxSchemaNestingDepth {
		return []issues.Issue{{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, ""),
			Keyword:      "schema",
			Message:      "schema nesting depth exceeded; schema is degenerately recursive",
			Severity:     severity.SeverityError,
		}}
	}

	n = n.Deref()

	if value, ok := n.IsBool(); ok {
		if value {
			return nil
		}
		return []issues.Issue{{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, ""),
			Keyword:      "schema",
			Message:      "no values are valid against the false schema",
			Severity:     severity.SeverityError,
			Value:        v,
		}}
	}

	m := n.Map()
	if m == nil {
		return nil
	}

	var out []issues.Issue
	out = append(out, e.evalGeneric(n, m, v, instPath)...)
	out = append(out, e.evalCombinators(n, v, instPath, depth)...)

	switch value := v.(type) {
	case string:
		out = append(out, e.evalString(n, m, value, instPath)...)
	case map[string]any:
		out = append(out, e.evalObject(n, m, value, instPath, depth)...)
	case []any:
		out = append(out, e.evalArray(n, m, value, instPath, depth)...)
	default:
		if f, ok := toFloat(v); ok {
			out = append(out, e.evalNumber(n, m, f, instPath)...)
		}
	}
	return out
}

// evalGeneric applies the type-independent keywords: type, const, enum.
func (e *evaluator) evalGeneric(n *schema.Node, m map[string]any, v any, instPath string) []issues.Issue {
	var out []issues.Issue

	if raw, present := m["type"]; present && !typeMatches(raw, v) {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "type"),
			Keyword:      "type",
			Message:      fmt.Sprintf("expected %s, got %s", typeName(raw), jsonType(v)),
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}

	if raw, present := m["const"]; present && !jsonEqual(raw, v) {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "const"),
			Keyword:      "const",
			Message:      fmt.Sprintf("value must equal %v", raw),
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}

	if raw, present := m["enum"]; present {
		if options, ok := raw.([]any); ok {
			found := false
			for _, option := range options {
				if jsonEqual(option, v) {
					found = true
					break
				}
			}
			if !found {
				out = append(out, issues.Issue{
					InstancePath: instPath,
					SchemaPath:   schemaPath(n, "enum"),
					Keyword:      "enum",
					Message:      fmt.Sprintf("value is not one of the %d allowed values", len(options)),
					Severity:     severity.SeverityError,
					Value:        v,
				})
			}
		}
	}

	return out
}

// evalCombinators applies allOf, anyOf, oneOf, not, and if/then/else.
func (e *evaluator) evalCombinators(n *schema.Node, v any, instPath string, depth int) []issues.Issue {
	var out []issues.Issue

	// allOf: every child must hold; all children's errors are reported, not
	// just the first failing child's.
	for _, child := range n.AllOf {
		out = append(out, e.eval(child, v, instPath, depth+1)...)
	}

	// anyOf: at least one child must hold. On failure the best candidate's
	// errors (fewest failing keywords) are reported as the diagnostic.
	// Advisory warnings neither match a branch nor count against it.
	if len(n.AnyOf) > 0 {
		var best []issues.Issue
		bestErrs := 0
		matched := false
		for _, child := range n.AnyOf {
			found := e.eval(child, v, instPath, depth+1)
			errs := errorCount(found)
			if errs == 0 {
				matched = true
				break
			}
			if best == nil || errs < bestErrs {
				best, bestErrs = found, errs
			}
		}
		if !matched {
			out = append(out, best...)
		}
	}

	// oneOf: exactly one child must hold. Zero or multiple matches yield a
	// single synthesized error; child errors are never flattened upward.
	if len(n.OneOf) > 0 {
		matches := 0
		for _, child := range n.OneOf {
			if !hasErrors(e.eval(child, v, instPath, depth+1)) {
				matches++
			}
		}
		if matches != 1 {
			out = append(out, issues.Issue{
				InstancePath: instPath,
				SchemaPath:   schemaPath(n, "oneOf"),
				Keyword:      "oneOf",
				Message:      fmt.Sprintf("expected exactly one subschema to match, got %d", matches),
				Severity:     severity.SeverityError,
				Value:        v,
			})
		}
	}

	if n.Not != nil {
		if !hasErrors(e.eval(n.Not, v, instPath, depth+1)) {
			out = append(out, issues.Issue{
				InstancePath: instPath,
				SchemaPath:   schemaPath(n, "not"),
				Keyword:      "not",
				Message:      "value must not be valid against the \"not\" subschema",
				Severity:     severity.SeverityError,
				Value:        v,
			})
		}
	}

	// if/then/else: the if subschema is consulted for validity only; its
	// errors are discarded. An absent selected branch adds no constraint.
	if n.If != nil {
		if !hasErrors(e.eval(n.If, v, instPath, depth+1)) {
			if n.Then != nil {
				out = append(out, e.eval(n.Then, v, instPath, depth+1)...)
			}
		} else if n.Else != nil {
			out = append(out, e.eval(n.Else, v, instPath, depth+1)...)
		}
	}

	return out
}

// evalString applies pattern, length bounds, and format to a string instance.
func (e *evaluator) evalString(n *schema.Node, m map[string]any, v string, instPath string) []issues.Issue {
	var out []issues.Issue

	if n.Pattern != nil && !n.Pattern.MatchString(v) {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "pattern"),
			Keyword:      "pattern",
			Message:      fmt.Sprintf("%q does not match pattern %q", v, n.Pattern.String()),
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}

	length := utf8.RuneCountInString(v)
	if bound, present := intKeyword(m, "minLength"); present && length < bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "minLength"),
			Keyword:      "minLength",
			Message:      fmt.Sprintf("string length %d is less than minimum %d", length, bound),
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}
	if bound, present := intKeyword(m, "maxLength"); present && length > bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "maxLength"),
			Keyword:      "maxLength",
			Message:      fmt.Sprintf("string length %d exceeds maximum %d", length, bound),
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}

	if name, present := m["format"].(string); present {
		if entry, registered := e.formats[name]; registered {
			if err := entry.validate(v); err != nil {
				sev := severity.SeverityError
				if entry.advisory {
					sev = severity.SeverityWarning
				}
				out = append(out, issues.Issue{
					InstancePath: instPath,
					SchemaPath:   schemaPath(n, "format"),
					Keyword:      "format",
					Message:      fmt.Sprintf("%q is not a valid %s: %v", v, name, err),
					Severity:     sev,
					Value:        v,
				})
			}
		}
		// Unregistered format names are annotations only.
	}

	return out
}

// evalNumber applies the numeric bound keywords.
func (e *evaluator) evalNumber(n *schema.Node, m map[string]any, v float64, instPath string) []issues.Issue {
	var out []issues.Issue

	report := func(keyword, msg string) {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, keyword),
			Keyword:      keyword,
			Message:      msg,
			Severity:     severity.SeverityError,
			Value:        v,
		})
	}

	if bound, present := floatKeyword(m, "minimum"); present && v < bound {
		report("minimum", fmt.Sprintf("%v is less than minimum %v", v, bound))
	}
	if bound, present := floatKeyword(m, "maximum"); present && v > bound {
		report("maximum", fmt.Sprintf("%v exceeds maximum %v", v, bound))
	}
	if bound, present := floatKeyword(m, "exclusiveMinimum"); present && v <= bound {
		report("exclusiveMinimum", fmt.Sprintf("%v is not greater than exclusive minimum %v", v, bound))
	}
	if bound, present := floatKeyword(m, "exclusiveMaximum"); present && v >= bound {
		report("exclusiveMaximum", fmt.Sprintf("%v is not less than exclusive maximum %v", v, bound))
	}
	if divisor, present := floatKeyword(m, "multipleOf"); present && divisor > 0 {
		if remainder := math.Mod(v, divisor); remainder != 0 {
			report("multipleOf", fmt.Sprintf("%v is not a multiple of %v", v, divisor))
		}
	}

	return out
}

// evalObject applies the object-shape keywords.
func (e *evaluator) evalObject(n *schema.Node, m map[string]any, v map[string]any, instPath string, depth int) []issues.Issue {
	var out []issues.Issue

	if raw, present := m["required"]; present {
		if names, ok := raw.([]any); ok {
			for _, rawName := range names {
				name, ok := rawName.(string)
				if !ok {
					continue
				}
				if _, found := v[name]; !found {
					out = append(out, issues.Issue{
						InstancePath: instPath,
						SchemaPath:   schemaPath(n, "required"),
						Keyword:      "required",
						Message:      fmt.Sprintf("missing required property %q", name),
						Severity:     severity.SeverityError,
					})
				}
			}
		}
	}

	if bound, present := intKeyword(m, "minProperties"); present && len(v) < bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "minProperties"),
			Keyword:      "minProperties",
			Message:      fmt.Sprintf("object has %d properties, fewer than minimum %d", len(v), bound),
			Severity:     severity.SeverityError,
		})
	}
	if bound, present := intKeyword(m, "maxProperties"); present && len(v) > bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "maxProperties"),
			Keyword:      "maxProperties",
			Message:      fmt.Sprintf("object has %d properties, more than maximum %d", len(v), bound),
			Severity:     severity.SeverityError,
		})
	}

	for name, value := range v {
		childPath := jsonpointer.Append(instPath, name)
		covered := false

		if child, declared := n.Properties[name]; declared {
			covered = true
			out = append(out, e.eval(child, value, childPath, depth+1)...)
		}
		for _, ps := range n.PatternProperties {
			if ps.Regexp.MatchString(name) {
				covered = true
				out = append(out, e.eval(ps.Node, value, childPath, depth+1)...)
			}
		}

		if covered || n.AdditionalProperties == nil {
			continue
		}
		if allowed, isBool := n.AdditionalProperties.IsBool(); isBool {
			if !allowed {
				out = append(out, issues.Issue{
					InstancePath: childPath,
					SchemaPath:   schemaPath(n, "additionalProperties"),
					Keyword:      "additionalProperties",
					Message:      fmt.Sprintf("additional property %q is not allowed", name),
					Severity:     severity.SeverityError,
					Value:        value,
				})
			}
			continue
		}
		out = append(out, e.eval(n.AdditionalProperties, value, childPath, depth+1)...)
	}

	return out
}

// evalArray applies the array-shape keywords.
func (e *evaluator) evalArray(n *schema.Node, m map[string]any, v []any, instPath string, depth int) []issues.Issue {
	var out []issues.Issue

	if bound, present := intKeyword(m, "minItems"); present && len(v) < bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "minItems"),
			Keyword:      "minItems",
			Message:      fmt.Sprintf("array has %d items, fewer than minimum %d", len(v), bound),
			Severity:     severity.SeverityError,
		})
	}
	if bound, present := intKeyword(m, "maxItems"); present && len(v) > bound {
		out = append(out, issues.Issue{
			InstancePath: instPath,
			SchemaPath:   schemaPath(n, "maxItems"),
			Keyword:      "maxItems",
			Message:      fmt.Sprintf("array has %d items, more than maximum %d", len(v), bound),
			Severity:     severity.SeverityError,
		})
	}

	if unique, _ := m["uniqueItems"].(bool); unique {
		for i := 1; i < len(v); i++ {
			for j := 0; j < i; j++ {
				if jsonEqual(v[i], v[j]) {
					out = append(out, issues.Issue{
						InstancePath: fmt.Sprintf("%s/%d", instPath, i),
						SchemaPath:   schemaPath(n, "uniqueItems"),
						Keyword:      "uniqueItems",
						Message:      fmt.Sprintf("items at indexes %d and %d are equal", j, i),
						Severity:     severity.SeverityError,
						Value:        v[i],
					})
				}
			}
		}
	}

	switch {
	case n.Items != nil:
		for i, item := range v {
			out = append(out, e.eval(n.Items, item, fmt.Sprintf("%s/%d", instPath, i), depth+1)...)
		}
	case n.TupleItems != nil:
		for i, item := range v {
			itemPath := fmt.Sprintf("%s/%d", instPath, i)
			if i < len(n.TupleItems) {
				out = append(out, e.eval(n.TupleItems[i], item, itemPath, depth+1)...)
				continue
			}
			if n.AdditionalItems == nil {
				continue
			}
			if allowed, isBool := n.AdditionalItems.IsBool(); isBool {
				if !allowed {
					out = append(out, issues.Issue{
						InstancePath: itemPath,
						SchemaPath:   schemaPath(n, "additionalItems"),
						Keyword:      "additionalItems",
						Message:      fmt.Sprintf("array item %d exceeds the declared tuple length %d", i, len(n.TupleItems)),
						Severity:     severity.SeverityError,
						Value:        item,
					})
				}
				continue
			}
			out = append(out, e.eval(n.AdditionalItems, item, itemPath, depth+1)...)
		}
	}

	if n.Contains != nil {
		found := false
		for i, item := range v {
			if !hasErrors(e.eval(n.Contains, item, fmt.Sprintf("%s/%d", instPath, i), depth+1)) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, issues.Issue{
				InstancePath: instPath,
				SchemaPath:   schemaPath(n, "contains"),
				Keyword:      "contains",
				Message:      "no array item matches the \"contains\" subschema",
				Severity:     severity.SeverityError,
			})
		}
	}

	return out
}

// errorCount counts the error-severity issues in found.
func errorCount(found []issues.Issue) int {
	n := 0
	for _, issue := range found {
		if issue.Severity == severity.SeverityError {
			n++
		}
	}
	return n
}

// hasErrors reports whether found contains any error-severity issue.
// Advisory warnings do not fail combinator branches.
func hasErrors(found []issues.Issue) bool {
	return errorCount(found) > 0
}

// schemaPath joins a node's canonical URI with a keyword into a full schema
// location (e.g. ".../datetime.json#/anyOf/0/required").
func schemaPath(n *schema.Node, keyword string) string {
	base := n.URI
	if !strings.Contains(base, "#") {
		base += "#"
	}
	if keyword == "" {
		return base
	}
	return base + "/" + keyword
}

// jsonType names the draft-07 primitive type of a decoded value.
func jsonType(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	default:
		if f, ok := toFloat(value); ok {
			if f == math.Trunc(f) {
				return "integer"
			}
			return "number"
		}
		return fmt.Sprintf("%T", v)
	}
}

// typeMatches checks an instance value against the "type" keyword, which may
// be a single type name or a list of alternatives.
func typeMatches(want any, v any) bool {
	switch w := want.(type) {
	case string:
		return singleTypeMatches(w, v)
	case []any:
		for _, alternative := range w {
			if name, ok := alternative.(string); ok && singleTypeMatches(name, v) {
				return true
			}
		}
		return false
	default:
		// Malformed type keyword places no constraint.
		return true
	}
}

func singleTypeMatches(want string, v any) bool {
	actual := jsonType(v)
	switch want {
	case "number":
		return actual == "number" || actual == "integer"
	case "integer":
		return actual == "integer"
	default:
		return actual == want
	}
}

// typeName renders the "type" keyword value for messages.
func typeName(want any) string {
	switch w := want.(type) {
	case string:
		return w
	case []any:
		names := make([]string, 0, len(w))
		for _, alternative := range w {
			if name, ok := alternative.(string); ok {
				names = append(names, name)
			}
		}
		return strings.Join(names, " or ")
	default:
		return fmt.Sprintf("%v", want)
	}
}

// jsonEqual compares two decoded JSON values with deep structural equality,
// treating numerically equal numbers as equal regardless of Go type.
func jsonEqual(a, b any) bool {
	fa, aIsNum := toFloat(a)
	fb, bIsNum := toFloat(b)
	if aIsNum || bIsNum {
		return aIsNum && bIsNum && fa == fb
	}
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, found := bv[k]
			if !found || !jsonEqual(v, other) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !jsonEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return reflect.DeepEqual(a, b)
	}
}

// toFloat widens any Go numeric representation a decoder may produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// intKeyword reads a non-negative integer-valued keyword.
func intKeyword(m map[string]any, keyword string) (int, bool) {
	f, ok := floatKeyword(m, keyword)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// floatKeyword reads a numeric keyword.
func floatKeyword(m map[string]any, keyword string) (float64, bool) {
	raw, present := m[keyword]
	if !present {
		return 0, false
	}
	return toFloat(raw)
}
