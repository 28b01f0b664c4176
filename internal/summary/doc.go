// Package summary extracts the identification fields of inspection
// records: bus prefix, city, inspector, submission time, odometer and
// Wi-Fi status.
//
// Column names vary between form revisions, so fields are located by
// case-insensitive substring rules. The rules are evaluated once per
// dataset by NewIndex, and the resulting Index is reused for every row.
package summary
