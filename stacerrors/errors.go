// Package stacerrors provides structured error types for stacschema.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
package stacerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrFetch indicates a schema retrieval failure.
	ErrFetch = errors.New("fetch error")

	// ErrNotFound indicates a schema URI that does not exist.
	ErrNotFound = errors.New("schema not found")

	// ErrParse indicates a schema parsing failure.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrCycle indicates an unresolvable $ref cycle was detected.
	ErrCycle = errors.New("reference cycle")

	// ErrBuild indicates a schema graph compilation failure.
	ErrBuild = errors.New("schema build error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// FetchKind classifies the failure modes of a schema fetch.
type FetchKind int

const (
	// FetchTransportFailure indicates a network-level failure (DNS, connection reset, TLS).
	FetchTransportFailure FetchKind = iota
	// FetchNotFound indicates the URI does not exist (HTTP 404, or no replay entry).
	FetchNotFound
	// FetchTimeout indicates the request exceeded its deadline.
	FetchTimeout
	// FetchNonSuccessStatus indicates a non-2xx HTTP status other than 404.
	FetchNonSuccessStatus
)

// String returns the string representation of the fetch failure kind.
func (k FetchKind) String() string {
	switch k {
	case FetchTransportFailure:
		return "transport failure"
	case FetchNotFound:
		return "not found"
	case FetchTimeout:
		return "timeout"
	case FetchNonSuccessStatus:
		return "non-success status"
	default:
		return "unknown"
	}
}

// FetchError represents a failure to retrieve schema bytes for a URI.
// The core never retries fetches; retry policy belongs to the caller.
type FetchError struct {
	// URI is the schema URI that failed to fetch
	URI string
	// Kind classifies the failure
	Kind FetchKind
	// StatusCode is the HTTP status code, when Kind is FetchNonSuccessStatus
	// or FetchNotFound via HTTP (0 if not applicable)
	StatusCode int
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *FetchError) Error() string {
	msg := "fetch error"
	if e.URI != "" {
		msg += " for " + e.URI
	}
	msg += ": " + e.Kind.String()
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
// Matches ErrFetch, and also ErrNotFound when Kind is FetchNotFound.
func (e *FetchError) Is(target error) bool {
	if target == ErrFetch {
		return true
	}
	if target == ErrNotFound && e.Kind == FetchNotFound {
		return true
	}
	return false
}

// ParseError represents a failure to parse a schema document.
// This includes malformed JSON and JSON pointers addressing nodes that do not exist.
type ParseError struct {
	// URI is the schema URI or source identifier
	URI string
	// Pointer is the JSON pointer that failed to resolve, if applicable
	Pointer string
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.URI != "" {
		msg += " in " + e.URI
	}
	if e.Pointer != "" {
		msg += " at " + e.Pointer
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ReferenceError represents a failure to resolve a $ref.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Base is the URI of the document containing the reference
	Base string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Ref != "" {
		msg += ": " + e.Ref
	}
	if e.Base != "" {
		msg += " (from " + e.Base + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// CycleError represents a $ref chain that returns to a URI already being
// resolved before reaching any terminal keywords. Such a schema places no
// constraints and cannot be represented even as a lazy shared node.
type CycleError struct {
	// Chain is the sequence of URIs forming the cycle, ending at the repeat
	Chain []string
}

// Error returns a human-readable error message.
func (e *CycleError) Error() string {
	msg := "reference cycle"
	if len(e.Chain) > 0 {
		msg += ": " + strings.Join(e.Chain, " -> ")
	}
	return msg
}

// Unwrap returns nil as CycleError has no underlying cause.
func (e *CycleError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}

// BuildError represents a schema graph compilation failure.
// Any fetch, parse, or cycle error anywhere in the reference closure aborts
// the whole build and surfaces as a BuildError identifying the offending URI
// and the reference chain that led to it.
type BuildError struct {
	// URI is the schema URI that could not be resolved
	URI string
	// Chain is the sequence of references followed from the root to URI
	Chain []string
	// Cause is the underlying fetch/parse/cycle error
	Cause error
}

// Error returns a human-readable error message.
func (e *BuildError) Error() string {
	msg := "schema build error"
	if e.URI != "" {
		msg += " at " + e.URI
	}
	if len(e.Chain) > 0 {
		msg += " (via " + strings.Join(e.Chain, " -> ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *BuildError) Is(target error) bool {
	return target == ErrBuild
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when resolution or validation exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "ref_depth", "schema_size", "nesting_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
