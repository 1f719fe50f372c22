// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes STAC schema validation capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/stacschema"
)

const serverInstructions = `stacschema MCP server — validates STAC items, catalogs, and collections against the published JSON Schema for their declared stac_version.

Configuration: All defaults are configurable via STACSCHEMA_* environment variables set in your MCP client config. The Go MCP SDK does not support initializationOptions; use env vars instead.

Key settings:
- STACSCHEMA_FETCH_TIMEOUT (default: 30s) — HTTP timeout for schema and document fetches
- STACSCHEMA_MAX_REF_DEPTH (default: 100) — maximum $ref chain depth during resolution
- STACSCHEMA_ISSUE_LIMIT (default: 100) — default result limit for validation issues
- STACSCHEMA_MAX_INLINE_SIZE (default: 10MB) — maximum inline/fetched document size
- STACSCHEMA_NO_WARNINGS (default: false) — suppress advisory warnings by default
- STACSCHEMA_ALLOW_PRIVATE_IPS (default: false) — allow fetches from private/loopback addresses

Caching: Resolved schema documents are cached for the lifetime of the server. Validating many items against the same stac_version fetches each schema file exactly once.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "stacschema", Version: stacschema.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate",
		Description: "Validate a STAC document (item, catalog, or collection) against its JSON Schema. The schema is derived from the document's stac_version and type unless schema_uri overrides it. Returns errors and advisory warnings with JSON pointer locations in both the document and the schema. Use no_warnings to focus on errors; use offset/limit to paginate through results.",
	}, handleValidate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_schema",
		Description: "Detect which published STAC schema a document should be validated against, from its stac_version and type fields. Returns the schema URI without performing any validation or network access.",
	}, handleDetectSchema)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_schema",
		Description: "Resolve a JSON Schema and report its reference closure: every schema file reachable through $ref from the root, fetched and compiled. Useful for inspecting what a validation run will download and for diagnosing broken or cyclic references.",
	}, handleDescribeSchema)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.IssueLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.IssueLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
