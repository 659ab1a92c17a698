// Package cli is the interactive PunchKeeper client.
//
// It wires configuration, the local SQLite queues and the services, then
// serves a line-oriented REPL. A background watcher pings the server; on
// every offline to online transition the queued punches, adjustments,
// leave requests and expense claims are drained in that order. While
// online a scheduler job refreshes the caches that back the offline views.
//
// The REPL is started via App.Root, which blocks until the user exits.
package cli
