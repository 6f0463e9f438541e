// Package services defines shared utilities consumed by the catalog clients,
// the HTTP API and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and the catalog
//     source being queried for logging.
//   - Structured error markers plus the Wrap helper, with HTTPStatus and
//     Outcome translating failures into response codes and metric labels.
//
// Subpackages hold one client per upstream API (TMDB, OMDb, TVMaze, RAWG,
// Steam, exchange rates, and the LLM used for playtime estimates).
package services
