// Package source loads inspection datasets and the column mapping.
//
// A Source reads one place: a local spreadsheet (XLSXSource), a CSV file
// (CSVSource) or the CSV export of a remote spreadsheet (RemoteSource).
// A Chain tries its sources in order and falls back silently when one fails
// or returns no rows, and Cached keeps recent fetches in the snapshot
// database. Every dataset leaving a Chain has been normalized: the
// submission timestamp column is parsed and rows are ordered newest first.
package source
