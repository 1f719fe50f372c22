// Package severity provides severity level constants for issues reported
// by the validator package.
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error
package severity

// Severity indicates the severity level of an issue found during instance
// validation.
type Severity int

const (
	// SeverityError indicates a constraint violation that makes the instance
	// non-conformant with its schema.
	SeverityError Severity = iota

	// SeverityWarning indicates an advisory finding that does not affect
	// conformance, such as a failed advisory format check.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}
