package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/stacschema/stacerrors"
)

func TestSchemaURIFor(t *testing.T) {
	tests := []struct {
		name     string
		instance map[string]any
		want     string
	}{
		{
			name: "item via GeoJSON Feature type",
			instance: map[string]any{
				"stac_version": "1.0.0-beta.2",
				"type":         "Feature",
			},
			want: "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/item.json",
		},
		{
			name: "collection via type discriminator",
			instance: map[string]any{
				"stac_version": "1.0.0",
				"type":         "Collection",
			},
			want: "https://schemas.stacspec.org/v1.0.0/collection-spec/json-schema/collection.json",
		},
		{
			name: "catalog via type discriminator",
			instance: map[string]any{
				"stac_version": "1.0.0",
				"type":         "Catalog",
			},
			want: "https://schemas.stacspec.org/v1.0.0/catalog-spec/json-schema/catalog.json",
		},
		{
			name: "legacy collection detected by extent",
			instance: map[string]any{
				"stac_version": "0.8.1",
				"extent":       map[string]any{},
				"description":  "a legacy collection",
			},
			want: "https://schemas.stacspec.org/v0.8.1/collection-spec/json-schema/collection.json",
		},
		{
			name: "legacy catalog detected by description",
			instance: map[string]any{
				"stac_version": "0.8.1",
				"description":  "a legacy catalog",
			},
			want: "https://schemas.stacspec.org/v0.8.1/catalog-spec/json-schema/catalog.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SchemaURIFor(tt.instance)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchemaURIForErrors(t *testing.T) {
	tests := []struct {
		name     string
		instance any
		wantMsg  string
	}{
		{
			name:     "not an object",
			instance: []any{"not", "a", "record"},
			wantMsg:  "not an object",
		},
		{
			name:     "missing stac_version",
			instance: map[string]any{"type": "Feature"},
			wantMsg:  "missing stac_version",
		},
		{
			name: "unrecognizable record",
			instance: map[string]any{
				"stac_version": "1.0.0",
				"id":           "mystery",
			},
			wantMsg: "not recognizable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SchemaURIFor(tt.instance)
			require.Error(t, err)
			assert.ErrorIs(t, err, stacerrors.ErrConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
