// Package schema fetches, caches, and compiles STAC JSON Schema reference
// graphs into validatable in-memory trees.
//
// STAC publishes each schema version as a family of small draft-07 files
// that reference one another with $ref: same-directory relative paths,
// directory-traversing relative paths, absolute URIs (e.g. the GeoJSON
// schemas), and internal #/definitions pointers — often combined, as in
// "datetime.json#/definitions/created". This package resolves that graph:
//
//   - [Fetcher] is the sole I/O seam; [HTTPFetcher] talks to the network and
//     [ReplayFetcher] serves recorded responses for deterministic runs.
//   - [Cache] memoizes parsed documents per normalized URI, with negative
//     caching and singleflight deduplication of concurrent loads.
//   - [Session.Compile] drives reference resolution from a root URI and
//     produces a fully expanded [Node] tree. Reference targets are shared by
//     pointer, so mutually recursive schemas stay finite; pure $ref cycles
//     with no terminal keywords are rejected with a
//     [stacerrors.CycleError].
//
// Compiled nodes are consumed by the validator package. A [Session] may be
// reused to compile several roots (for example item, catalog, and collection
// schemas of one STAC version) against one shared document cache.
package schema
