// Package client talks to the PunchKeeper backend and opens the local store.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     punches, adjustment requests, leave requests and balances, expense
//     claims and presigned uploads, all scoped by tenant and user.
//  2. An HTTP/JSON implementation (see HTTPClient) that sends a bearer
//     token, unwraps the response envelope and maps status codes to
//     sentinel errors.
//  3. One adapter per entity (adapters.go) converting the snake_case wire
//     records of package wire into client models.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     SQLite file and the repositories.
//
// # Error Handling
//
// Callers match sentinels with errors.Is: ErrUnavailable (network failure or
// 5xx, worth retrying), ErrUnauthorized, ErrNotFound, ErrConflict and
// ErrRejected.
package client
