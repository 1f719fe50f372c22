package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/stacschema/validator"
)

type validateInput struct {
	Instance   instanceInput `json:"instance"              jsonschema:"The STAC document to validate"`
	SchemaURI  string        `json:"schema_uri,omitempty"  jsonschema:"Validate against this schema instead of deriving one from stac_version and type"`
	NoWarnings *bool         `json:"no_warnings,omitempty" jsonschema:"Suppress advisory warnings from output"`
	Offset     int           `json:"offset,omitempty"      jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit      int           `json:"limit,omitempty"       jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	InstancePath string `json:"instance_path"`
	SchemaPath   string `json:"schema_path"`
	Keyword      string `json:"keyword"`
	Message      string `json:"message"`
}

type validateOutput struct {
	Valid           bool            `json:"valid"`
	SchemaURI       string          `json:"schema_uri"`
	SchemaDocuments int             `json:"schema_documents"`
	ErrorCount      int             `json:"error_count"`
	WarningCount    int             `json:"warning_count"`
	Returned        int             `json:"returned"`
	Errors          []validateIssue `json:"errors,omitempty"`
	Warnings        []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(ctx context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	noWarnings := cfg.NoWarnings
	if input.NoWarnings != nil {
		noWarnings = *input.NoWarnings
	}

	data, err := input.Instance.resolve(ctx)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	sess, err := session()
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	opts := []validator.Option{
		validator.WithContext(ctx),
		validator.WithSession(sess),
		validator.WithInstanceBytes(data),
	}
	if input.SchemaURI != "" {
		opts = append(opts, validator.WithSchemaURI(input.SchemaURI))
	}

	result, err := validator.ValidateWithOptions(opts...)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:           result.Valid,
		SchemaURI:       result.SchemaURI,
		SchemaDocuments: result.SchemaDocuments,
		ErrorCount:      result.ErrorCount,
	}

	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, toIssue(e))
	}
	if !noWarnings {
		output.WarningCount = result.WarningCount
		output.Warnings = makeSlice[validateIssue](len(result.Warnings))
		for _, w := range result.Warnings {
			output.Warnings = append(output.Warnings, toIssue(w))
		}
	}

	// Paginate errors and warnings.
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	if !noWarnings {
		output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	}
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}

func toIssue(v validator.ValidationError) validateIssue {
	return validateIssue{
		InstancePath: v.InstancePath,
		SchemaPath:   v.SchemaPath,
		Keyword:      v.Keyword,
		Message:      v.Message,
	}
}
