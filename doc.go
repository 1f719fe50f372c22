// Package stacschema provides tools for validating SpatioTemporal Asset
// Catalog (STAC) metadata documents against their official JSON Schema
// definitions.
//
// STAC schemas are published as many small draft-07 JSON Schema files that
// reference each other across files and versions via $ref. stacschema
// resolves those reference graphs, composes them into a single in-memory
// schema, and evaluates catalog, collection, and item documents against the
// result.
//
// # Overview
//
// The library consists of two primary packages:
//
//   - schema: fetch, cache, and compile remote schema reference graphs
//   - validator: evaluate document instances against compiled schemas
//
// Supporting packages:
//
//   - stacerrors: structured error types for programmatic handling
//
// # Installation
//
// Install the library using go get:
//
//	go get github.com/erraggy/stacschema
//
// # Quick Start
//
// Validate a STAC item in one call:
//
//	import "github.com/erraggy/stacschema/validator"
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithSchemaURI("https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json"),
//	    validator.WithInstanceFile("item.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Valid {
//	    fmt.Printf("Found %d errors\n", result.ErrorCount)
//	}
//
// Or compile once and validate many documents:
//
//	import "github.com/erraggy/stacschema/schema"
//
//	session := schema.NewSession()
//	node, err := session.Compile(ctx, "https://schemas.stacspec.org/v1.0.0/item-spec/json-schema/item.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	issues := validator.Validate(node, instance)
//
// # Command Line Tool
//
// A CLI is available in cmd/stacschema:
//
//	go install github.com/erraggy/stacschema/cmd/stacschema@latest
//	stacschema validate item.json
package stacschema
