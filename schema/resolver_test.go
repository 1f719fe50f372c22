package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stacschema/stacerrors"
)

// newReplaySession builds a session over a recorded URI→schema corpus.
func newReplaySession(t *testing.T, corpus map[string]string) (*Session, *ReplayFetcher) {
	t.Helper()
	responses := make(map[string][]byte, len(corpus))
	for uri, body := range corpus {
		responses[uri] = []byte(body)
	}
	fetcher := NewReplayFetcher(responses)
	session, err := NewSession(WithFetcher(fetcher))
	require.NoError(t, err)
	return session, fetcher
}

func TestCompileCrossFileGraph(t *testing.T) {
	const root = "https://schemas.example.org/v1.0.0/item-spec/json-schema/item.json"
	session, fetcher := newReplaySession(t, map[string]string{
		root: `{
			"type": "object",
			"allOf": [
				{"$ref": "#/definitions/core"},
				{"$ref": "basics.json"}
			],
			"definitions": {
				"core": {
					"required": ["id"],
					"properties": {
						"properties": {"$ref": "datetime.json#/definitions/datetime"}
					}
				}
			}
		}`,
		"https://schemas.example.org/v1.0.0/item-spec/json-schema/basics.json": `{
			"type": "object",
			"properties": {"title": {"type": "string"}}
		}`,
		"https://schemas.example.org/v1.0.0/item-spec/json-schema/datetime.json": `{
			"definitions": {
				"datetime": {
					"type": "object",
					"required": ["datetime"]
				}
			}
		}`,
	})

	node, err := session.Compile(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, node.AllOf, 2)

	core := node.AllOf[0].Deref()
	assert.Equal(t, root+"#/definitions/core", core.URI)
	require.Contains(t, core.Properties, "properties")

	datetime := core.Properties["properties"].Deref()
	assert.Equal(t,
		"https://schemas.example.org/v1.0.0/item-spec/json-schema/datetime.json#/definitions/datetime",
		datetime.URI)
	assert.Equal(t, []any{"datetime"}, datetime.Map()["required"])

	basics := node.AllOf[1].Deref()
	require.Contains(t, basics.Properties, "title")

	assert.Equal(t, 3, session.DocumentCount())
	assert.Equal(t, 1, fetcher.Calls(root))
	assert.Equal(t, 1, fetcher.Calls("https://schemas.example.org/v1.0.0/item-spec/json-schema/basics.json"))
}

func TestCompileFetchesSharedDocumentOnce(t *testing.T) {
	const (
		root   = "https://schemas.example.org/item.json"
		shared = "https://schemas.example.org/datetime.json"
	)
	session, fetcher := newReplaySession(t, map[string]string{
		root: `{
			"allOf": [
				{"$ref": "datetime.json#/definitions/created"},
				{"$ref": "datetime.json#/definitions/updated"}
			]
		}`,
		shared: `{
			"definitions": {
				"created": {"type": "string"},
				"updated": {"type": "string"}
			}
		}`,
	})

	_, err := session.Compile(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.Calls(shared), "shared document should be fetched exactly once")
}

func TestCompileHonorsDocumentID(t *testing.T) {
	// The document is served from one URI but declares a different absolute
	// $id; relative refs inside it must resolve against the $id.
	const (
		fetchURI  = "https://mirror.example.com/schemas/item.json"
		canonical = "https://schemas.example.org/v1.0.0/item.json"
	)
	session, fetcher := newReplaySession(t, map[string]string{
		fetchURI: `{
			"$id": "` + canonical + `",
			"allOf": [{"$ref": "common.json"}]
		}`,
		"https://schemas.example.org/v1.0.0/common.json": `{"type": "object"}`,
	})

	node, err := session.Compile(context.Background(), fetchURI)
	require.NoError(t, err)
	common := node.AllOf[0].Deref()
	assert.Equal(t, "https://schemas.example.org/v1.0.0/common.json", common.URI)
	assert.Equal(t, 1, fetcher.Calls("https://schemas.example.org/v1.0.0/common.json"))
	assert.Equal(t, 0, fetcher.Calls("https://mirror.example.com/schemas/common.json"))
}

func TestCompileIDInternalFragment(t *testing.T) {
	// An internal fragment inside a document whose $id differs from its
	// fetch URI resolves within the loaded document; the $id URI is an
	// identity, not an address, and must never be fetched.
	const (
		fetchURI  = "https://mirror.example.com/schemas/item.json"
		canonical = "https://schemas.example.org/v1.0.0/item.json"
	)
	session, fetcher := newReplaySession(t, map[string]string{
		fetchURI: `{
			"$id": "` + canonical + `",
			"allOf": [{"$ref": "#/definitions/core"}],
			"definitions": {
				"core": {"type": "object", "required": ["id"]}
			}
		}`,
	})

	node, err := session.Compile(context.Background(), fetchURI)
	require.NoError(t, err)
	core := node.AllOf[0].Deref()
	assert.Equal(t, canonical+"#/definitions/core", core.URI)
	assert.Equal(t, 1, fetcher.TotalCalls(), "fragment must resolve in the fetched document")
	assert.Equal(t, 0, fetcher.Calls(canonical))
	assert.Equal(t, 1, session.DocumentCount(), "an aliased $id is not a second document")
}

func TestCompileRecursiveShapeSharesNode(t *testing.T) {
	const root = "https://schemas.example.org/node.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{
			"type": "object",
			"properties": {
				"child": {"$ref": "node.json"}
			}
		}`,
	})

	node, err := session.Compile(context.Background(), root)
	require.NoError(t, err)
	require.Contains(t, node.Properties, "child")
	assert.Same(t, node, node.Properties["child"].Deref(),
		"recursive reference should share the root node, not inline it")
}

func TestCompilePureRefCycle(t *testing.T) {
	session, _ := newReplaySession(t, map[string]string{
		"https://schemas.example.org/a.json": `{"$ref": "b.json"}`,
		"https://schemas.example.org/b.json": `{"$ref": "a.json"}`,
	})

	_, err := session.Compile(context.Background(), "https://schemas.example.org/a.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrCycle)

	var cycleErr *stacerrors.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.GreaterOrEqual(t, len(cycleErr.Chain), 3)
	assert.Equal(t, cycleErr.Chain[0], cycleErr.Chain[len(cycleErr.Chain)-1])
}

func TestCompileSelfRefCycle(t *testing.T) {
	session, _ := newReplaySession(t, map[string]string{
		"https://schemas.example.org/self.json": `{"$ref": "#"}`,
	})

	_, err := session.Compile(context.Background(), "https://schemas.example.org/self.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrCycle)
}

func TestCompileMissingDocument(t *testing.T) {
	const root = "https://schemas.example.org/item.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{"allOf": [{"$ref": "missing.json"}]}`,
	})

	_, err := session.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrBuild)
	assert.ErrorIs(t, err, stacerrors.ErrNotFound)

	var buildErr *stacerrors.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "https://schemas.example.org/missing.json", buildErr.URI)
	assert.Contains(t, buildErr.Chain, root)
}

func TestCompileBuildErrorChain(t *testing.T) {
	// Every $ref hop appears in the chain, including hops taken from under
	// structural keywords.
	const (
		root = "https://schemas.example.org/item.json"
		mid  = "https://schemas.example.org/common.json"
	)
	session, _ := newReplaySession(t, map[string]string{
		root: `{"properties": {"common": {"$ref": "common.json"}}}`,
		mid:  `{"items": {"$ref": "missing.json"}}`,
	})

	_, err := session.Compile(context.Background(), root)
	require.Error(t, err)

	var buildErr *stacerrors.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "https://schemas.example.org/missing.json", buildErr.URI)
	assert.Equal(t, []string{root, mid, "https://schemas.example.org/missing.json"}, buildErr.Chain)
}

func TestCompileMalformedDocumentCachedNegatively(t *testing.T) {
	const root = "https://schemas.example.org/broken.json"
	session, fetcher := newReplaySession(t, map[string]string{
		root: `{"type": "object",`,
	})

	_, err := session.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrParse)

	// Repeated attempts fail identically without re-fetching.
	_, err = session.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrParse)
	assert.Equal(t, 1, fetcher.Calls(root))
}

func TestCompileMissingFragment(t *testing.T) {
	const root = "https://schemas.example.org/item.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{"allOf": [{"$ref": "#/definitions/nope"}], "definitions": {}}`,
	})

	_, err := session.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrParse)

	var buildErr *stacerrors.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, root+"#/definitions/nope", buildErr.URI)
}

func TestCompileVersionIsolation(t *testing.T) {
	// Two spec versions sharing a filename must never reuse each other's
	// cached document.
	const (
		v081 = "https://schemas.example.org/v0.8.1/item-spec/json-schema/item.json"
		v100 = "https://schemas.example.org/v1.0.0/item-spec/json-schema/item.json"
	)
	session, fetcher := newReplaySession(t, map[string]string{
		v081: `{"type": "object", "required": ["id"]}`,
		v100: `{"type": "object", "required": ["id", "stac_version"]}`,
	})

	a, err := session.Compile(context.Background(), v081)
	require.NoError(t, err)
	b, err := session.Compile(context.Background(), v100)
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, []any{"id"}, a.Map()["required"])
	assert.Equal(t, []any{"id", "stac_version"}, b.Map()["required"])
	assert.Equal(t, 1, fetcher.Calls(v081))
	assert.Equal(t, 1, fetcher.Calls(v100))
}

func TestCompileRefDepthLimit(t *testing.T) {
	const root = "https://schemas.example.org/deep.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{"properties": {"a": {"properties": {"b": {"properties": {"c": {"type": "string"}}}}}}}`,
	})
	// A tiny depth budget trips on legitimate nesting.
	shallow, err := NewSession(WithFetcher(session.fetcher), WithMaxRefDepth(2))
	require.NoError(t, err)

	_, err = shallow.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrResourceLimit)
}

func TestCompileInvalidPattern(t *testing.T) {
	const root = "https://schemas.example.org/bad-pattern.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{"pattern": "([unclosed"}`,
	})

	_, err := session.Compile(context.Background(), root)
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrParse)
}

func TestCompileRejectsRelativeRoot(t *testing.T) {
	session, _ := newReplaySession(t, nil)
	_, err := session.Compile(context.Background(), "item-spec/json-schema/item.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, stacerrors.ErrConfig)
}

func TestCompileBooleanSchemas(t *testing.T) {
	const root = "https://schemas.example.org/strict.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{
			"type": "object",
			"properties": {"id": {"type": "string"}},
			"additionalProperties": false
		}`,
	})

	node, err := session.Compile(context.Background(), root)
	require.NoError(t, err)
	require.NotNil(t, node.AdditionalProperties)
	value, ok := node.AdditionalProperties.IsBool()
	require.True(t, ok)
	assert.False(t, value)
}

func TestCompileTupleItems(t *testing.T) {
	const root = "https://schemas.example.org/bbox.json"
	session, _ := newReplaySession(t, map[string]string{
		root: `{
			"type": "array",
			"items": [{"type": "number"}, {"type": "number"}],
			"additionalItems": {"type": "number"}
		}`,
	})

	node, err := session.Compile(context.Background(), root)
	require.NoError(t, err)
	assert.Nil(t, node.Items)
	assert.Len(t, node.TupleItems, 2)
	require.NotNil(t, node.AdditionalItems)
}
