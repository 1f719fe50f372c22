package mcpserver

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// newDescribeSession builds the isolated session used per describe call.
// Swapped in tests to inject a replay fetcher.
var newDescribeSession = newSession

type describeSchemaInput struct {
	SchemaURI string `json:"schema_uri" jsonschema:"Absolute URI of the root schema to resolve"`
}

type describeSchemaOutput struct {
	SchemaURI string   `json:"schema_uri"`
	Documents int      `json:"documents"`
	URIs      []string `json:"uris"`
	CompileMS int64    `json:"compile_ms"`
}

func handleDescribeSchema(ctx context.Context, _ *mcp.CallToolRequest, input describeSchemaInput) (*mcp.CallToolResult, describeSchemaOutput, error) {
	// An isolated session so the reported closure is exactly this schema's
	// own reachable set, not whatever the shared session has accumulated.
	sess, err := newDescribeSession()
	if err != nil {
		return errResult(err), describeSchemaOutput{}, nil
	}

	started := time.Now()
	if _, err := sess.Compile(ctx, input.SchemaURI); err != nil {
		return errResult(err), describeSchemaOutput{}, nil
	}

	output := describeSchemaOutput{
		SchemaURI: input.SchemaURI,
		Documents: sess.DocumentCount(),
		URIs:      sess.Cache().URIs(),
		CompileMS: time.Since(started).Milliseconds(),
	}
	return nil, output, nil
}
