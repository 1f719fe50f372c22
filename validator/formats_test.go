package validator

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDateTime(t *testing.T) {
	valid := []string{
		"2016-05-03T13:22:30.040Z",
		"2016-05-03T13:22:30Z",
		"2016-05-03T13:22:30+02:00",
		"2016-05-03T13:22:30.040-07:00",
	}
	for _, value := range valid {
		assert.NoError(t, validateDateTime(value), "expected %q to be a valid date-time", value)
	}

	invalid := []string{
		"2016-05-03",              // date only
		"13:22:30Z",               // time only
		"2016-13-45T13:22:30Z",    // impossible month and day
		"2016-05-03 13:22:30Z",    // space separator
		"May 3rd 2016 at 1:22 PM", // prose
		"",
	}
	for _, value := range invalid {
		assert.Error(t, validateDateTime(value), "expected %q to be rejected", value)
	}
}

func TestValidateAbsoluteURI(t *testing.T) {
	assert.NoError(t, validateAbsoluteURI("https://example.com/catalog.json"))
	assert.NoError(t, validateAbsoluteURI("s3://bucket/key"))
	assert.Error(t, validateAbsoluteURI("./relative/item.json"), "relative references lack a scheme")
	assert.Error(t, validateAbsoluteURI("://missing-scheme"))
}

func TestValidateURIReference(t *testing.T) {
	assert.NoError(t, validateURIReference("https://example.com/catalog.json"))
	assert.NoError(t, validateURIReference("./relative/item.json"))
	assert.Error(t, validateURIReference("http://host/%zz"), "invalid percent-encoding")
}

func TestDefaultFormatAdvisoriness(t *testing.T) {
	// date-time is the only strict default; the URI family is advisory.
	require.Contains(t, defaultFormats, "date-time")
	assert.False(t, defaultFormats["date-time"].advisory)
	for _, name := range []string{"uri", "iri", "url", "uri-reference", "iri-reference"} {
		require.Contains(t, defaultFormats, name)
		assert.True(t, defaultFormats[name].advisory, "%s should be advisory", name)
	}
}

func TestValidateWithFormatsOverride(t *testing.T) {
	node := compileSchema(t, `{"properties": {"license": {"format": "spdx"}}}`)
	instance := mustDecode(t, `{"license": "not-spdx"}`)

	// Unregistered formats are annotations only.
	assert.Empty(t, Validate(node, instance))

	// A caller-registered format is strict: failures are errors.
	spdx := func(value string) error {
		if !strings.HasPrefix(value, "PDDL") {
			return fmt.Errorf("unknown license identifier")
		}
		return nil
	}
	found := ValidateWithFormats(node, instance, map[string]FormatValidator{"spdx": spdx})
	require.Len(t, found, 1)
	assert.Equal(t, "format", found[0].Keyword)
	assert.Equal(t, SeverityError, found[0].Severity)
}
