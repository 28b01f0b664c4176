package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/vistoria/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is meant for tool integration and external renderers.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because every model type already implements the
// encoding interfaces it needs.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the wire form of a report. It adds the rendered title and
// the item lines so that renderers need no formatting logic of their own.
type JSONReport struct {
	Title string `json:"title"`

	*model.Report

	// Lines holds every body line as plain text, in document order.
	Lines []string `json:"lines"`
}

// NewJSONReport wraps a report for JSON output.
func NewJSONReport(report *model.Report) *JSONReport {
	var lines []string
	doc := report.Document
	if doc.Placeholder != "" {
		lines = append(lines, doc.Placeholder)
	}
	for _, s := range doc.AllSections() {
		lines = append(lines, s.Heading)
		for _, item := range s.Items {
			lines = append(lines, item.Text())
		}
	}
	return &JSONReport{
		Title:  report.Title(),
		Report: report,
		Lines:  lines,
	}
}

// Write outputs one report in JSON format.
func (w *JSONWriter) Write(report *model.Report) (int, error) {
	return w.writeJSON(NewJSONReport(report))
}

// WriteListing outputs the listing in JSON format.
func (w *JSONWriter) WriteListing(listing *model.Listing) (int, error) {
	return w.writeJSON(listing)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
