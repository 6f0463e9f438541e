// Package tmdb provides the minimal TMDB API client the catalog uses to
// describe movies and series.
//
// It authenticates requests with an API key and exposes movie and TV search
// plus movie and TV detail retrieval (TV details include external IDs so the
// catalog can reach TVMaze and OMDb). Responses are strongly typed. Options
// allow tests to supply custom HTTP clients without modifying production code.
package tmdb
