// Package history persists a user's translation history and the tombstone
// set of deleted record ids.
//
// Keys:
//
//	{user}_history        JSON array of models.Record, newest first
//	{user}_deletedHistory JSON array of record ids, append-only
//
// A tombstoned id never shows up in Load and can never be appended again.
// Load never fails: a storage read error is logged and yields an empty slice.
// Mutations read the stored collection first and return an error instead of
// writing when that read fails, so a transient failure cannot wipe history.
package history
