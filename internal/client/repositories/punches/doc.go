// Package punches is the local durable queue of clock punches.
//
// A punch is saved here before any network call. The sync pass lists the
// unsynced punches of a tenant in the order they were recorded, confirms
// each one remotely, then marks it synced and deletes it. A failed punch
// simply stays queued for the next pass.
//
// Typical Usage
//
//	repo := punches.NewSQLiteRepository(db)
//	_ = repo.Save(ctx, &entry)
//	queued, _ := repo.ListUnsynced(ctx, tenantID)
//	_ = repo.MarkSynced(ctx, entry.ID)
//	_ = repo.Delete(ctx, entry.ID)
package punches
