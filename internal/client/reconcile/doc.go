// Package reconcile merges server-confirmed records with records still
// queued on this device, and reads remote lists through the local cache.
//
// Records are matched by a business key, never by a provisional id: a
// record minted offline only meets its remote twin through the key (for
// adjustment requests the calendar date plus status). When both sides
// carry the same key the local copy wins.
package reconcile
