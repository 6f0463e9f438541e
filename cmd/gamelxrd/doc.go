// Package main hosts the gamelxrd CLI entrypoint and command graph.
//
// The Cobra-based command tree prices movies, series and games from the
// terminal, runs catalog searches, exposes the keyword tables and the tier
// classifier for inspection, manages the descriptor cache, and starts the
// HTTP API. It centralizes configuration resolution, logger setup and
// catalog wiring so subcommands only deal with flags and rendering.
//
// Keep this package lean: pricing rules live in internal/pricing and catalog
// normalization in internal/catalog. Commands here only translate flags into
// calls and results into tables or JSON.
package main
