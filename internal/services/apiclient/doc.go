// Package apiclient holds the HTTP plumbing shared by the catalog clients:
// a bounded-retry transport for idempotent requests and a JSON GET helper
// that classifies failures with the services error markers.
package apiclient
