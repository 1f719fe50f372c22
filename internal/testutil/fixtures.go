// Package testutil provides recorded schema corpora and fixture helpers for
// unit tests. The corpus mirrors the published STAC v1.0.0-beta.2 item schema
// family (trimmed to the keywords the engine exercises) so tests resolve and
// validate offline through a replay fetcher.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
)

// Schema URIs of the recorded v1.0.0-beta.2 item family.
const (
	ItemSchemaURI       = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/item.json"
	BasicsSchemaURI     = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/basics.json"
	DatetimeSchemaURI   = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/datetime.json"
	InstrumentSchemaURI = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/instrument.json"
	LicensingSchemaURI  = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/licensing.json"
	ProviderSchemaURI   = "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/provider.json"
	GeoJSONFeatureURI   = "https://geojson.org/schema/Feature.json"
)

// ItemCorpus returns the recorded URI→bytes responses for the v1.0.0-beta.2
// item schema family, suitable for schema.NewReplayFetcher.
func ItemCorpus() map[string][]byte {
	return map[string][]byte{
		ItemSchemaURI:       []byte(itemSchema),
		BasicsSchemaURI:     []byte(basicsSchema),
		DatetimeSchemaURI:   []byte(datetimeSchema),
		InstrumentSchemaURI: []byte(instrumentSchema),
		LicensingSchemaURI:  []byte(licensingSchema),
		ProviderSchemaURI:   []byte(providerSchema),
		GeoJSONFeatureURI:   []byte(geojsonFeatureSchema),
	}
}

// SampleItem returns a decoded STAC item that conforms to the v1.0.0-beta.2
// item schema. Callers may mutate the returned map freely; each call decodes
// a fresh copy.
func SampleItem(t *testing.T) map[string]any {
	t.Helper()
	var item map[string]any
	if err := json.Unmarshal([]byte(SampleItemJSON), &item); err != nil {
		t.Fatalf("failed to decode sample item: %v", err)
	}
	return item
}

// WriteTempJSON marshals a document to JSON and writes it to a temporary
// file, returning the path. The file is cleaned up when the test completes.
func WriteTempJSON(t *testing.T, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal document to JSON: %v", err)
	}
	tmpFile := filepath.Join(t.TempDir(), "test.json")
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		t.Fatalf("failed to write temporary JSON file: %v", err)
	}
	return tmpFile
}

// SampleItemJSON is the raw conforming instance used across packages.
const SampleItemJSON = `{
  "type": "Feature",
  "stac_version": "1.0.0-beta.2",
  "id": "CS3-20160503_132131_05",
  "geometry": {
    "type": "Point",
    "coordinates": [-122.59750209, 37.48803556]
  },
  "bbox": [-122.59750209, 37.48803556, -122.59750209, 37.48803556],
  "properties": {
    "datetime": "2016-05-03T13:22:30.040Z",
    "title": "A CS3 item",
    "license": "PDDL-1.0",
    "providers": [
      {
        "name": "Remote Data, Inc",
        "roles": ["producer", "processor"],
        "url": "http://remotedata.io"
      }
    ],
    "platform": "coolsat3",
    "instruments": ["cooler"],
    "gsd": 0.512
  },
  "links": [
    {
      "rel": "self",
      "href": "https://example.com/collections/cs3/items/CS3-20160503_132131_05"
    }
  ],
  "assets": {
    "analytic": {
      "href": "https://example.com/analytic.tif",
      "title": "4-Band Analytic",
      "type": "image/tiff"
    },
    "thumbnail": {
      "href": "https://example.com/thumbnail.png",
      "title": "Thumbnail",
      "roles": ["thumbnail"]
    }
  }
}`

const itemSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/item.json#",
  "title": "STAC Item",
  "type": "object",
  "description": "This object represents the metadata for an item in a SpatioTemporal Asset Catalog.",
  "allOf": [
    {
      "$ref": "#/definitions/core"
    }
  ],
  "definitions": {
    "common_metadata": {
      "allOf": [
        {
          "$ref": "basics.json"
        },
        {
          "$ref": "datetime.json"
        },
        {
          "$ref": "instrument.json"
        },
        {
          "$ref": "licensing.json"
        },
        {
          "$ref": "provider.json"
        }
      ]
    },
    "core": {
      "allOf": [
        {
          "$ref": "https://geojson.org/schema/Feature.json"
        },
        {
          "oneOf": [
            {
              "type": "object",
              "required": ["collection"],
              "properties": {
                "collection": {
                  "title": "Collection ID",
                  "description": "The ID of the STAC Collection this Item references to.",
                  "type": "string",
                  "minLength": 1
                }
              }
            },
            {
              "type": "object",
              "not": {
                "required": ["collection"]
              }
            }
          ]
        },
        {
          "type": "object",
          "required": [
            "stac_version",
            "id",
            "links",
            "assets",
            "bbox",
            "properties"
          ],
          "properties": {
            "stac_version": {
              "title": "STAC version",
              "type": "string",
              "const": "1.0.0-beta.2"
            },
            "stac_extensions": {
              "title": "STAC extensions",
              "type": "array",
              "uniqueItems": true,
              "items": {
                "anyOf": [
                  {
                    "title": "Reference to a JSON Schema",
                    "type": "string",
                    "format": "uri"
                  },
                  {
                    "title": "Reference to a core extension",
                    "type": "string"
                  }
                ]
              }
            },
            "id": {
              "title": "Provider ID",
              "description": "Provider item ID",
              "type": "string",
              "minLength": 1
            },
            "links": {
              "title": "Item links",
              "description": "Links to item relations",
              "type": "array",
              "items": {
                "$ref": "#/definitions/link"
              }
            },
            "assets": {
              "$ref": "#/definitions/assets"
            },
            "properties": {
              "allOf": [
                {
                  "$ref": "datetime.json#/definitions/require_any"
                },
                {
                  "$ref": "#/definitions/common_metadata"
                }
              ]
            }
          }
        }
      ]
    },
    "link": {
      "type": "object",
      "required": ["rel", "href"],
      "properties": {
        "href": {
          "title": "Link reference",
          "type": "string",
          "format": "uri-reference"
        },
        "rel": {
          "title": "Link relation type",
          "type": "string"
        },
        "type": {
          "title": "Link type",
          "type": "string"
        },
        "title": {
          "title": "Link title",
          "type": "string"
        }
      }
    },
    "assets": {
      "title": "Asset links",
      "description": "Links to assets",
      "type": "object",
      "additionalProperties": {
        "$ref": "#/definitions/asset"
      }
    },
    "asset": {
      "type": "object",
      "required": ["href"],
      "properties": {
        "href": {
          "title": "Asset reference",
          "type": "string",
          "format": "uri-reference"
        },
        "title": {
          "title": "Asset title",
          "type": "string"
        },
        "description": {
          "title": "Asset description",
          "type": "string"
        },
        "type": {
          "title": "Asset type",
          "type": "string"
        },
        "roles": {
          "title": "Asset roles",
          "type": "array",
          "items": {
            "type": "string"
          }
        }
      }
    }
  }
}`

const basicsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/basics.json#",
  "title": "Basic Descriptive Fields",
  "type": "object",
  "properties": {
    "title": {
      "title": "Item Title",
      "description": "A human-readable title describing the item.",
      "type": "string"
    },
    "description": {
      "title": "Item Description",
      "description": "Detailed multi-line description to fully explain the item.",
      "type": "string"
    }
  }
}`

const datetimeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/datetime.json#",
  "title": "Date and Time Fields",
  "type": "object",
  "definitions": {
    "require_any": {
      "anyOf": [
        {
          "required": ["datetime"],
          "properties": {
            "datetime": {
              "$ref": "#/definitions/datetime"
            }
          }
        },
        {
          "required": ["start_datetime", "end_datetime"]
        }
      ]
    },
    "datetime": {
      "title": "Date and Time",
      "description": "The searchable date/time of the assets, in UTC (Formatted in RFC 3339)",
      "type": ["string", "null"],
      "format": "date-time"
    }
  },
  "properties": {
    "datetime": {
      "$ref": "#/definitions/datetime"
    },
    "created": {
      "title": "Creation Time",
      "type": "string",
      "format": "date-time"
    },
    "updated": {
      "title": "Last Update Time",
      "type": "string",
      "format": "date-time"
    },
    "start_datetime": {
      "title": "Start Date and Time",
      "type": "string",
      "format": "date-time"
    },
    "end_datetime": {
      "title": "End Date and Time",
      "type": "string",
      "format": "date-time"
    }
  }
}`

const instrumentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/instrument.json#",
  "title": "Instrument Fields",
  "type": "object",
  "properties": {
    "platform": {
      "title": "Platform",
      "type": "string"
    },
    "instruments": {
      "title": "Instruments",
      "type": "array",
      "items": {
        "type": "string"
      }
    },
    "constellation": {
      "title": "Constellation",
      "type": "string"
    },
    "mission": {
      "title": "Mission",
      "type": "string"
    },
    "gsd": {
      "title": "Ground Sample Distance",
      "type": "number",
      "exclusiveMinimum": 0
    }
  }
}`

const licensingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/licensing.json#",
  "title": "Licensing Fields",
  "type": "object",
  "properties": {
    "license": {
      "title": "Item Licenses",
      "type": "string",
      "pattern": "^[\\w\\-\\.\\+]+$"
    }
  }
}`

const providerSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://schemas.stacspec.org/v1.0.0-beta.2/item-spec/json-schema/provider.json#",
  "title": "Provider Fields",
  "type": "object",
  "properties": {
    "providers": {
      "title": "Providers",
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {
            "title": "Organization name",
            "type": "string"
          },
          "description": {
            "title": "Organization description",
            "type": "string"
          },
          "roles": {
            "title": "Organization roles",
            "type": "array",
            "items": {
              "type": "string",
              "enum": ["producer", "licensor", "processor", "host"]
            }
          },
          "url": {
            "title": "Organization homepage",
            "type": "string",
            "format": "url"
          }
        }
      }
    }
  }
}`

const geojsonFeatureSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "$id": "https://geojson.org/schema/Feature.json",
  "title": "GeoJSON Feature",
  "type": "object",
  "required": ["type", "properties", "geometry"],
  "properties": {
    "type": {
      "type": "string",
      "enum": ["Feature"]
    },
    "id": {
      "oneOf": [
        {
          "type": "number"
        },
        {
          "type": "string"
        }
      ]
    },
    "properties": {
      "oneOf": [
        {
          "type": "null"
        },
        {
          "type": "object"
        }
      ]
    },
    "geometry": {
      "oneOf": [
        {
          "type": "null"
        },
        {
          "title": "GeoJSON Geometry",
          "type": "object",
          "required": ["type", "coordinates"],
          "properties": {
            "type": {
              "type": "string",
              "enum": [
                "Point",
                "MultiPoint",
                "LineString",
                "MultiLineString",
                "Polygon",
                "MultiPolygon"
              ]
            },
            "coordinates": {
              "type": "array"
            }
          }
        }
      ]
    },
    "bbox": {
      "type": "array",
      "minItems": 4,
      "items": {
        "type": "number"
      }
    }
  }
}`
