package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/stacschema/validator"
)

type detectSchemaInput struct {
	Instance instanceInput `json:"instance" jsonschema:"The STAC document to inspect"`
}

type detectSchemaOutput struct {
	SchemaURI   string `json:"schema_uri"`
	STACVersion string `json:"stac_version"`
	Type        string `json:"type,omitempty"`
}

func handleDetectSchema(ctx context.Context, _ *mcp.CallToolRequest, input detectSchemaInput) (*mcp.CallToolResult, detectSchemaOutput, error) {
	data, err := input.Instance.resolve(ctx)
	if err != nil {
		return errResult(err), detectSchemaOutput{}, nil
	}

	instance, err := decodeDocument(data)
	if err != nil {
		return errResult(err), detectSchemaOutput{}, nil
	}

	uri, err := validator.SchemaURIFor(instance)
	if err != nil {
		return errResult(err), detectSchemaOutput{}, nil
	}

	output := detectSchemaOutput{SchemaURI: uri}
	if m, ok := instance.(map[string]any); ok {
		output.STACVersion, _ = m["stac_version"].(string)
		output.Type, _ = m["type"].(string)
	}
	return nil, output, nil
}
