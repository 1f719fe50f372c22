// Package validator evaluates STAC document instances against compiled
// schema graphs.
//
// The validator is a pure tree walk over a [schema.Node] and a decoded JSON
// instance; it performs no I/O. Constraint violations are collected as
// [ValidationError] values and returned in full — validation never stops at
// the first mismatch, and instance-level failures are data, not Go errors.
// Build-time failures (fetch, parse, cycle) are Go errors and abort
// validation entirely, so non-conformant documents are always
// distinguishable from broken schema graphs.
//
// # Keyword Support
//
// The validator implements the draft-07 subset exercised by the published
// STAC schema families:
//
//   - type, const, enum, pattern, minLength/maxLength
//   - minimum/maximum, exclusiveMinimum/exclusiveMaximum, multipleOf
//   - required, properties, patternProperties, additionalProperties,
//     minProperties/maxProperties
//   - items (single and tuple forms), additionalItems, minItems/maxItems,
//     uniqueItems, contains
//   - allOf, anyOf, oneOf, not, if/then/else
//   - format (see below)
//
// # Formats
//
// Per draft-07, format is an annotation unless a validator is registered for
// the name. "date-time" is registered strictly (RFC 3339) out of the box
// because STAC schemas lean on it; the URI-family formats (uri, iri,
// uri-reference, iri-reference, url) are registered as advisory checks whose
// failures surface as warnings, not errors. Other names are ignored. Use
// [WithFormat] or [WithAdvisoryFormat] to extend or tighten this set.
//
// # Usage
//
// One-shot validation:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithSchemaURI("https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"),
//	    validator.WithInstanceFile("item.json"),
//	)
//
// Reusing a compiled schema across many instances:
//
//	node, err := session.Compile(ctx, rootURI)
//	for _, instance := range instances {
//	    for _, issue := range validator.Validate(node, instance) {
//	        fmt.Println(issue)
//	    }
//	}
package validator
