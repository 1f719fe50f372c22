// Package issues provides a unified issue type for instance validation problems.
package issues

import (
	"fmt"

	"github.com/erraggy/stacschema/internal/severity"
)

// Issue represents a single constraint violation found while validating a
// document instance against a schema. Issues are data, not errors: validation
// always runs to completion and returns the full set.
type Issue struct {
	// InstancePath is the JSON pointer into the validated document
	// (e.g., "/properties/datetime")
	InstancePath string
	// SchemaPath is the JSON pointer into the originating schema, prefixed
	// with the schema document's canonical URI
	// (e.g., "https://schemas.stacspec.org/.../datetime.json#/anyOf/0/required")
	SchemaPath string
	// Keyword is the JSON Schema keyword that failed (e.g., "required", "oneOf")
	Keyword string
	// Message is a human-readable description of the violation
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Value is the offending instance value (optional)
	Value any
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	instance := i.InstancePath
	if instance == "" {
		instance = "/"
	}

	result := fmt.Sprintf("%s %s [%s]: %s", symbol, instance, i.Keyword, i.Message)
	if i.SchemaPath != "" {
		result += fmt.Sprintf("\n    Schema: %s", i.SchemaPath)
	}
	return result
}
