// Package trigger implements the spreadsheet-side trigger: cell-edit
// events arrive over HTTP, pass through a duplicate-suppression latch,
// and fire one remote-dispatch request per distinct value.
//
// The state machine is deliberately tiny: idle -> dispatched, once per
// distinct value written to the watched cell. The latch that enforces
// "once" is a persisted single row per cell (see the database package),
// so suppression survives process restarts instead of living in a
// hidden process-wide variable.
//
// Outcomes are written back to the spreadsheet as short status strings:
// a 204 response is success, any other status is a warning, and a
// transport error is recorded in the error cells.
package trigger
