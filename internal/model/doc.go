// Package model defines the core data structures shared by the inspection
// report packages.
//
// This package contains the following main types:
//   - CellValue: a loosely typed spreadsheet cell (empty, text, number, timestamp)
//   - Row and Dataset: ordered inspection records as read from a spreadsheet
//   - Area: the physical vehicle zones used to group a report
//   - ColumnMapping: original column name -> display name and area
//   - Document: the ordered, renderer-agnostic body of a compliance report
//   - RecordSummary: identification fields used as report header and list row
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The formatter, classifier, assembler, writers and the HTTP
// layer all share these types.
package model
