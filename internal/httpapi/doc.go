// Package httpapi serves catalog lookups and quotes over HTTP.
//
// Routes live under /api: search, descriptor lookups per media kind, quote
// pricing for posted descriptors or catalog ids, and a status endpoint.
// Prometheus metrics are exposed at /metrics. Every response carries an
// X-Request-ID header whose value is also attached to the request's log
// lines, and CORS headers allow a browser front end on another origin.
package httpapi
