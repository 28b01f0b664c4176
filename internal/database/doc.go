// Package database provides SQLite-based storage for vistoria.
//
// The SnapshotDB stores datasets fetched from a data source so that the
// listing, the dashboard and the HTTP server can reuse a recent fetch
// instead of hitting the remote spreadsheet on every request.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the cache
// is a single file in the XDG cache directory and the CGO-free driver keeps
// cross-compilation simple.
package database
