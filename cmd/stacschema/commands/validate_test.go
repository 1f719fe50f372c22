package commands

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stacschema/validator"
)

func TestSetupValidateFlags_Defaults(t *testing.T) {
	fs, flags := SetupValidateFlags()
	require.NoError(t, fs.Parse([]string{"item.json"}))

	assert.Empty(t, flags.SchemaURI)
	assert.False(t, flags.NoWarnings)
	assert.False(t, flags.Quiet)
	assert.Equal(t, FormatText, flags.Format)
	assert.Equal(t, "item.json", fs.Arg(0))
}

func TestSetupValidateFlags_AllFlags(t *testing.T) {
	fs, flags := SetupValidateFlags()
	require.NoError(t, fs.Parse([]string{
		"--schema", "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json",
		"--no-warnings", "-q", "--format", "json",
		"item.json",
	}))

	assert.Equal(t, "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json", flags.SchemaURI)
	assert.True(t, flags.NoWarnings)
	assert.True(t, flags.Quiet)
	assert.Equal(t, "json", flags.Format)
}

func TestHandleValidate_ArgErrors(t *testing.T) {
	assert.Error(t, HandleValidate(nil), "missing document argument")
	assert.Error(t, HandleValidate([]string{"a.json", "b.json"}), "too many arguments")
	assert.Error(t, HandleValidate([]string{"--format", "xml", "a.json"}), "invalid format")
	assert.Error(t, HandleValidate([]string{"does-not-exist.json"}), "unreadable document")
}

func sampleResult() *validator.Result {
	return &validator.Result{
		Valid:     false,
		SchemaURI: "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json",
		Errors: []validator.ValidationError{
			{
				InstancePath: "/properties",
				SchemaPath:   "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/datetime.json#/anyOf/0/required",
				Keyword:      "required",
				Message:      `missing required property "datetime"`,
			},
		},
		Warnings: []validator.ValidationError{
			{
				InstancePath: "/links/0/href",
				SchemaPath:   "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json#/definitions/link/properties/href/format",
				Keyword:      "format",
				Message:      `"not a uri" is not a valid uri-reference`,
			},
		},
		ErrorCount:      1,
		WarningCount:    1,
		SchemaDocuments: 7,
		CompileTime:     12 * time.Millisecond,
		ValidateTime:    300 * time.Microsecond,
	}
}

func TestBuildValidateReport(t *testing.T) {
	report := buildValidateReport("item.json", sampleResult(), false)

	assert.Equal(t, "item.json", report.Document)
	assert.False(t, report.Valid)
	assert.Equal(t, 1, report.ErrorCount)
	assert.Equal(t, 1, report.WarningCount)
	assert.Equal(t, 7, report.SchemaDocuments)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "required", report.Errors[0].Keyword)
	require.Len(t, report.Warnings, 1)
}

func TestBuildValidateReport_NoWarnings(t *testing.T) {
	report := buildValidateReport("item.json", sampleResult(), true)

	assert.Zero(t, report.WarningCount)
	assert.Empty(t, report.Warnings)
	assert.Len(t, report.Errors, 1, "errors are never suppressed")
}

func TestRenderValidateText(t *testing.T) {
	report := buildValidateReport("item.json", sampleResult(), false)

	var buf bytes.Buffer
	renderValidateText(&buf, report, false)
	out := buf.String()

	assert.Contains(t, out, "Document: item.json")
	assert.Contains(t, out, "Schema Documents: 7")
	assert.Contains(t, out, "Errors (1):")
	assert.Contains(t, out, `missing required property "datetime"`)
	assert.Contains(t, out, "Warnings (1):")
	assert.Contains(t, out, "✗ Validation failed: 1 error(s), 1 warning(s)")
}

func TestRenderValidateText_QuietValid(t *testing.T) {
	result := sampleResult()
	result.Valid = true
	result.Errors = nil
	result.ErrorCount = 0
	report := buildValidateReport("item.json", result, true)

	var buf bytes.Buffer
	renderValidateText(&buf, report, true)
	out := buf.String()

	assert.NotContains(t, out, "Document:", "quiet mode omits the header")
	assert.Contains(t, out, "✓ Validation passed")
}
