// Package stacerrors provides structured error types for the stacschema library.
//
// Import path: github.com/erraggy/stacschema/stacerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides six core error types:
//
//   - [FetchError]: schema retrieval failures (not found, timeout, transport, HTTP status)
//   - [ParseError]: malformed schema JSON or missing JSON pointer targets
//   - [ReferenceError]: $ref resolution failures
//   - [CycleError]: unresolvable $ref cycles
//   - [BuildError]: schema graph compilation failures, with the reference chain
//   - [ResourceLimitError]: resource exhaustion (depth, size, count limits)
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrFetch]: matches any [FetchError]
//   - [ErrNotFound]: matches [FetchError] with Kind=FetchNotFound
//   - [ErrParse]: matches any [ParseError]
//   - [ErrReference]: matches any [ReferenceError]
//   - [ErrCycle]: matches any [CycleError]
//   - [ErrBuild]: matches any [BuildError]
//   - [ErrResourceLimit]: matches any [ResourceLimitError]
//   - [ErrConfig]: matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	node, err := session.Compile(ctx, rootURI)
//	if errors.Is(err, stacerrors.ErrCycle) {
//	    // Unresolvable reference cycle in the schema family
//	}
//
// Extract error details with errors.As():
//
//	var buildErr *stacerrors.BuildError
//	if errors.As(err, &buildErr) {
//	    fmt.Printf("failed at %s via %v\n", buildErr.URI, buildErr.Chain)
//	}
//
// # Error Chaining
//
// All error types support error chaining via the Cause field and Unwrap() method.
// This allows finding root causes through the standard error chain:
//
//	var buildErr *stacerrors.BuildError
//	if errors.As(err, &buildErr) {
//	    if errors.Is(buildErr.Cause, stacerrors.ErrNotFound) {
//	        // A referenced schema file does not exist
//	    }
//	}
package stacerrors
