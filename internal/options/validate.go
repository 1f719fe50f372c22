// Package options provides shared helpers for functional-option validation.
package options

import "fmt"

// RequireExactlyOne ensures exactly one of a set of mutually exclusive
// sources is set. sources is a variadic list of booleans indicating whether
// each source is present. noneMsg is returned as an error when no source is
// set, manyMsg when more than one is.
func RequireExactlyOne(noneMsg, manyMsg string, sources ...bool) error {
	count := 0
	for _, present := range sources {
		if present {
			count++
		}
	}
	if count == 0 {
		return fmt.Errorf("%s", noneMsg)
	}
	if count > 1 {
		return fmt.Errorf("%s", manyMsg)
	}
	return nil
}

// RequireAtMostOne ensures no more than one of a set of mutually exclusive
// sources is set; zero is allowed.
func RequireAtMostOne(manyMsg string, sources ...bool) error {
	count := 0
	for _, present := range sources {
		if present {
			count++
		}
	}
	if count > 1 {
		return fmt.Errorf("%s", manyMsg)
	}
	return nil
}
