// Package wire holds the JSON schema of the punchkeeper REST API.
//
// Field names are snake_case as the remote system emits them. The client
// converts these to its domain models in exactly one adapter per entity
// (internal/client/client/adapters.go); the server does the same in its
// handlers. Nothing else should touch these types.
//
// Dates travel as YYYY-MM-DD strings and instants as RFC 3339 timestamps.
package wire
