// Package format turns raw spreadsheet cells into the display strings used
// in inspection reports.
//
// Value runs a fixed chain of strategies. Each strategy either produces a
// result or declines, and the first result wins:
//
//  1. timestamp cells
//  2. date-like text found by regular expression
//  3. whole-text date parsing over a fixed layout list
//  4. spreadsheet serial days in fire-extinguisher expiry columns
//  5. numbers
//  6. free text (number lists, "48.0" clean-up, numeric text)
//  7. verbatim coercion
//
// Design decision: Strategies return (string, bool) instead of an error.
// A failed parse is an expected outcome on dirty spreadsheet data, and the
// formatter must always produce a string.
package format
