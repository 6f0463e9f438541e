// Package tvmaze resolves series by IMDb identifier on TVMaze, whose
// scheduled runtime is more reliable than TMDB's per-episode averages.
package tvmaze
