// Package llm provides an OpenAI-compatible chat client (Groq by default)
// used to estimate game playtime.
//
// # Playtime estimation
//
// EstimatePlaytime asks the model for the HowLongToBeat "Main Story" time of
// a game and expects a JSON object {"hours": n}. Endless, multiplayer-only
// games come back as 0, which the catalog treats as unknown.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON reply.
// Client.EstimatePlaytime: main-story hours for a title and release year.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx, empty replies and network timeouts
// with exponential backoff (base 1s, max 10s, up to 3 attempts by default),
// honouring Retry-After. Context cancellation aborts retries immediately.
// Callers own the overall deadline; the catalog gives playtime lookups a
// short auxiliary timeout and treats any failure as "unknown".
package llm
