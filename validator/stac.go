package validator

import (
	"fmt"

	"github.com/erraggy/stacschema/stacerrors"
)

// schemaURIPattern is where the official STAC schema families are published,
// one root document per version and record kind.
const schemaURIPattern = "https://schemas.stacspec.org/v%s/%s-spec/json-schema/%s.json"

// SchemaURIFor derives the official schema URI for a decoded STAC document
// from its stac_version and record kind.
//
// Items declare "type": "Feature" (they are GeoJSON Features); catalogs and
// collections declare "type": "Catalog"/"Collection" from v1.0.0-rc.1 on.
// Older collection and catalog records are told apart structurally: only
// collections carry an extent.
func SchemaURIFor(instance any) (string, error) {
	m, ok := instance.(map[string]any)
	if !ok {
		return "", &stacerrors.ConfigError{
			Option:  "instance",
			Message: fmt.Sprintf("cannot detect schema: instance is %T, not an object", instance),
		}
	}

	version, _ := m["stac_version"].(string)
	if version == "" {
		return "", &stacerrors.ConfigError{
			Option:  "instance",
			Message: "cannot detect schema: missing stac_version; use WithSchemaURI",
		}
	}

	kind, err := recordKind(m)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(schemaURIPattern, version, kind, kind), nil
}

func recordKind(m map[string]any) (string, error) {
	switch m["type"] {
	case "Feature":
		return "item", nil
	case "Collection":
		return "collection", nil
	case "Catalog":
		return "catalog", nil
	}

	// Pre-1.0.0-rc.1 catalogs and collections have no type discriminator.
	if _, hasExtent := m["extent"]; hasExtent {
		return "collection", nil
	}
	if _, hasDescription := m["description"]; hasDescription {
		return "catalog", nil
	}
	return "", &stacerrors.ConfigError{
		Option:  "instance",
		Message: "cannot detect schema: not recognizable as a STAC item, catalog, or collection; use WithSchemaURI",
	}
}
