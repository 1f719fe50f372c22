package validator

import (
	"time"

	"github.com/erraggy/stacschema/internal/issues"
	"github.com/erraggy/stacschema/internal/severity"
	"github.com/erraggy/stacschema/schema"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a constraint violation that makes the instance invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates an advisory finding (e.g. a failed advisory format check)
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

const (
	// maxSchemaNestingDepth bounds validation recursion so degenerate
	// self-referential combinators terminate instead of overflowing the stack.
	maxSchemaNestingDepth = 500
)

// ValidationError represents a single constraint violation found in an instance
type ValidationError = issues.Issue

// Result contains the outcome of validating one instance against a schema.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool
	// SchemaURI is the root schema the instance was validated against
	SchemaURI string
	// Errors contains all constraint violations
	Errors []ValidationError
	// Warnings contains advisory findings that do not affect conformance
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// SchemaDocuments is the number of schema files in the resolved closure
	SchemaDocuments int
	// CompileTime is the time spent resolving and compiling the schema graph
	CompileTime time.Duration
	// ValidateTime is the time spent walking the instance
	ValidateTime time.Duration
}

// Validate evaluates instance against a compiled schema node using the
// default format registry. It returns every constraint violation found, in
// document order; an empty slice means the instance conforms.
//
// Validate is a pure function of its inputs, performs no network access, and
// is safe to call concurrently with any other Validate call.
func Validate(node *schema.Node, instance any) []ValidationError {
	return ValidateWithFormats(node, instance, nil)
}

// ValidateWithFormats is Validate with additional format validators layered
// over the default registry.
func ValidateWithFormats(node *schema.Node, instance any, formats map[string]FormatValidator) []ValidationError {
	e := newEvaluator()
	for name, fn := range formats {
		e.formats[name] = formatEntry{validate: fn}
	}
	return e.eval(node, instance, "", 0)
}

// split partitions raw issues into errors and warnings on a Result.
func (r *Result) split(found []ValidationError) {
	for _, issue := range found {
		if issue.Severity == severity.SeverityWarning {
			r.Warnings = append(r.Warnings, issue)
		} else {
			r.Errors = append(r.Errors, issue)
		}
	}
	r.ErrorCount = len(r.Errors)
	r.WarningCount = len(r.Warnings)
	r.Valid = r.ErrorCount == 0
}
