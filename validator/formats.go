package validator

import (
	"fmt"
	"net/url"
	"time"
)

// FormatValidator checks a string instance against a named format.
// A nil error means the value conforms.
type FormatValidator func(value string) error

// formatEntry binds a validator to its reporting mode. Advisory entries
// surface failures as warnings rather than errors, matching the draft-07
// stance that format is an annotation unless strict checking is opted into.
type formatEntry struct {
	validate FormatValidator
	advisory bool
}

// defaultFormats is the registry applied when no overrides are given.
// date-time is strict because the STAC item schemas are load-bearing on it;
// the URI family is advisory because the published schema corpus is
// inconsistent about url/uri/iri usage.
var defaultFormats = map[string]formatEntry{
	"date-time":     {validate: validateDateTime},
	"uri":           {validate: validateAbsoluteURI, advisory: true},
	"iri":           {validate: validateAbsoluteURI, advisory: true},
	"url":           {validate: validateAbsoluteURI, advisory: true},
	"uri-reference": {validate: validateURIReference, advisory: true},
	"iri-reference": {validate: validateURIReference, advisory: true},
}

// validateDateTime checks RFC 3339 date-time syntax, the exact grammar the
// STAC datetime fields require.
func validateDateTime(value string) error {
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return fmt.Errorf("not an RFC 3339 date-time")
	}
	return nil
}

// validateAbsoluteURI checks that the value parses as a URI with a scheme.
func validateAbsoluteURI(value string) error {
	u, err := url.Parse(value)
	if err != nil {
		return err
	}
	if !u.IsAbs() {
		return fmt.Errorf("missing scheme")
	}
	return nil
}

// validateURIReference checks that the value parses as a URI reference;
// relative references are allowed.
func validateURIReference(value string) error {
	_, err := url.Parse(value)
	return err
}
