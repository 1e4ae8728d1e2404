// Package database provides SQLite-based storage for seoscan.
//
// This package implements the ResearchDB, which stores:
//   - Research run reports for historical review (the history command)
//   - The trigger latch: the last value seen per watched cell, used to
//     suppress duplicate dispatches
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// The latch in particular was a hidden script-global in the source
// system; persisting it as a single keyed row makes the duplicate
// suppression explicit and survivable across process restarts.
package database
