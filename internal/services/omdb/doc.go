// Package omdb looks up IMDb ratings through the OMDb API. The catalog
// prefers these over TMDB vote averages when a key is configured.
package omdb
