package validator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stacschema/internal/testutil"
	"github.com/erraggy/stacschema/schema"
)

// compileItemSchema resolves the recorded v1.0.0-beta.2 item schema family
// and returns the compiled root along with the session and replay fetcher.
func compileItemSchema(t *testing.T) (*schema.Node, *schema.Session, *schema.ReplayFetcher) {
	t.Helper()

	fetcher := schema.NewReplayFetcher(testutil.ItemCorpus())
	session, err := schema.NewSession(schema.WithFetcher(fetcher))
	require.NoError(t, err)

	node, err := session.Compile(context.Background(), testutil.ItemSchemaURI)
	require.NoError(t, err)
	return node, session, fetcher
}

func TestValidateConformingItem(t *testing.T) {
	node, session, fetcher := compileItemSchema(t)

	found := Validate(node, testutil.SampleItem(t))
	assert.Empty(t, found, "conforming item must produce no issues")

	// The full closure is seven documents, each fetched exactly once.
	assert.Equal(t, 7, session.DocumentCount())
	assert.Equal(t, 7, fetcher.TotalCalls())
	assert.Equal(t, 1, fetcher.Calls(testutil.DatetimeSchemaURI))
}

func TestValidateMissingDatetime(t *testing.T) {
	node, _, _ := compileItemSchema(t)

	item := testutil.SampleItem(t)
	properties := item["properties"].(map[string]any)
	delete(properties, "datetime")

	found := Validate(node, item)
	require.Len(t, found, 1, "expected exactly one issue, got: %v", found)

	issue := found[0]
	assert.Equal(t, "required", issue.Keyword)
	assert.Equal(t, "/properties", issue.InstancePath)
	assert.Contains(t, issue.Message, "datetime")
	assert.Contains(t, issue.SchemaPath, "datetime.json#")
	assert.Contains(t, issue.SchemaPath, "anyOf")
}

func TestValidateItemViolations(t *testing.T) {
	node, _, _ := compileItemSchema(t)

	tests := []struct {
		name         string
		mutate       func(item map[string]any)
		wantKeywords []string
	}{
		{
			name: "wrong stac_version",
			mutate: func(item map[string]any) {
				item["stac_version"] = "0.9.0"
			},
			wantKeywords: []string{"const"},
		},
		{
			name: "missing top-level required fields",
			mutate: func(item map[string]any) {
				delete(item, "links")
				delete(item, "assets")
			},
			wantKeywords: []string{"required", "required"},
		},
		{
			name: "malformed datetime string",
			mutate: func(item map[string]any) {
				item["properties"].(map[string]any)["datetime"] = "2020-13-45"
			},
			// Once via the require_any anyOf branch, once via common_metadata.
			wantKeywords: []string{"format", "format"},
		},
		{
			name: "null datetime is allowed",
			mutate: func(item map[string]any) {
				item["properties"].(map[string]any)["datetime"] = nil
			},
		},
		{
			name: "geometry with unknown type",
			mutate: func(item map[string]any) {
				item["geometry"] = map[string]any{"type": "Hexagon", "coordinates": []any{}}
			},
			wantKeywords: []string{"oneOf"},
		},
		{
			name: "bbox too short",
			mutate: func(item map[string]any) {
				item["bbox"] = []any{1.0, 2.0}
			},
			wantKeywords: []string{"minItems"},
		},
		{
			name: "asset without href",
			mutate: func(item map[string]any) {
				item["assets"].(map[string]any)["broken"] = map[string]any{"title": "no href"}
			},
			wantKeywords: []string{"required"},
		},
		{
			name: "provider role outside the enum",
			mutate: func(item map[string]any) {
				providers := item["properties"].(map[string]any)["providers"].([]any)
				providers[0].(map[string]any)["roles"] = []any{"producer", "reseller"}
			},
			wantKeywords: []string{"enum"},
		},
		{
			name: "collection present and valid",
			mutate: func(item map[string]any) {
				item["collection"] = "cs3"
			},
		},
		{
			name: "empty collection id",
			mutate: func(item map[string]any) {
				item["collection"] = ""
			},
			wantKeywords: []string{"oneOf"},
		},
		{
			name: "undeclared top-level properties are allowed",
			mutate: func(item map[string]any) {
				item["vendor:custom"] = map[string]any{"anything": true}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := testutil.SampleItem(t)
			tt.mutate(item)
			found := Validate(node, item)
			assert.ElementsMatch(t, tt.wantKeywords, errorKeywords(found),
				"issues: %v", found)
		})
	}
}

func TestValidateAdvisoryFormatWarning(t *testing.T) {
	node, _, _ := compileItemSchema(t)

	item := testutil.SampleItem(t)
	providers := item["properties"].(map[string]any)["providers"].([]any)
	providers[0].(map[string]any)["url"] = "remotedata.io"

	found := Validate(node, item)
	require.Len(t, found, 1)
	assert.Equal(t, SeverityWarning, found[0].Severity)
	assert.Equal(t, "format", found[0].Keyword)
	assert.Equal(t, "/properties/providers/0/url", found[0].InstancePath)

	var result Result
	result.split(found)
	assert.True(t, result.Valid, "warnings alone must not fail conformance")
	assert.Zero(t, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
}

func TestValidateSharedNodesAcrossDocuments(t *testing.T) {
	// datetime.json is referenced both directly and through common_metadata;
	// the compiled graph shares one node, and repeated validation runs over
	// the shared structure stay deterministic.
	node, _, _ := compileItemSchema(t)

	item := testutil.SampleItem(t)
	first := Validate(node, item)
	second := Validate(node, item)
	assert.Equal(t, first, second)
}
