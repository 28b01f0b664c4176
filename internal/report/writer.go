package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs one inspection report.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.Report) (int, error)

	// WriteListing outputs the dataset overview.
	WriteListing(listing *model.Listing) (int, error)
}

// Format is an output format name.
type Format string

const (
	// FormatText is plain text.
	FormatText Format = "text"
	// FormatMarkdown is GitHub-flavored Markdown.
	FormatMarkdown Format = "markdown"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatText, FormatMarkdown, FormatJSON}
}

// ParseFormat converts a user-supplied name into a Format.
// "md" and "txt" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Ext returns the file extension of the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	default:
		return "txt"
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// New creates a Writer for a format.
func New(f Format, output io.Writer) (Writer, error) {
	switch f {
	case FormatText:
		return NewSimpleWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// MultiWriter writes to multiple Writers in turn.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface writes reports, not
// raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteListing outputs the listing to all configured Writers.
func (m *MultiWriter) WriteListing(listing *model.Listing) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteListing(listing)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// infoField is one labeled value of the report header.
type infoField struct {
	label string
	value string
}

// infoLines returns the header lines shown under the title: city and
// inspector first, then submission time with the optional odometer and
// Wi-Fi fields.
func infoLines(s model.RecordSummary) [][]infoField {
	second := []infoField{{"Data da Vistoria", s.Timestamp}}
	if s.HasOdometer() {
		second = append(second, infoField{"Km", strings.TrimSpace(s.Odometer)})
	}
	if s.HasWiFi() {
		second = append(second, infoField{"Wifi", strings.TrimSpace(s.WiFi)})
	}
	return [][]infoField{
		{{"Cidade", s.City}, {"Vistoriador", s.Inspector}},
		second,
	}
}

// listingHeader is the column header of record listings.
var listingHeader = []string{"DATA", "HORA", "PREFIXO", "CIDADE", "VISTORIADOR", "ÍNDICE"}
