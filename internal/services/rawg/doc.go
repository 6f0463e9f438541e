// Package rawg is a client for the RAWG video game database.
//
// The catalog uses it for game search, full game details (genres, tags,
// developers, publishers, metacritic) and store links, from which the
// Steam app ID is taken.
package rawg
