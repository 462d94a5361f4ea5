// Package database provides SQLite-based scan history for dehashscan.
//
// HistoryDB stores one row per scan with the counts needed for listing and
// the full scan summary as JSON. Breach records themselves are never stored;
// they live only in the workspace.
//
// The database is a single file in the XDG data directory, opened through
// the CGO-free modernc.org/sqlite driver.
package database
