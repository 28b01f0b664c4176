// Package report renders inspection reports and dataset listings.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text for terminals and printing
//   - MarkdownWriter: Markdown for sharing and archiving
//   - JSONWriter: structured JSON for tool integration
//
// Design decision: Writers render model.Report values and never compute
// anything themselves. The document structure, including the spacing
// hint, is decided during assembly; writers only translate it into their
// format. Paginated PDF output is left to external renderers, which
// consume the JSON form.
package report
