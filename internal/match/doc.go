// Package match provides the case-insensitive substring matching used to
// locate columns in loosely structured inspection spreadsheets.
//
// Column names arrive from form exports and hand-edited workbooks, so they
// carry diacritics, brackets and arbitrary prefixes. Nothing in this package
// relies on exact key lookup: names are folded once with Unicode case folding
// and compared by substring.
package match
