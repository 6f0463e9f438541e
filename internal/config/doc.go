// Package config loads, normalizes, and validates gamelxrd configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY and RAWG_API_KEY. The Config type centralizes every knob the
// API server and CLI need, so catalog endpoints, credentials and cache
// locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
