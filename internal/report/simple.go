package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

// ruleWidth is the width of horizontal rules in text output.
const ruleWidth = 70

// SimpleWriter outputs plain-text reports, suitable for terminals and
// printing.
type SimpleWriter struct {
	baseWriter

	// showColumns appends the source column to every item.
	showColumns bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSourceColumns configures the writer to show the source column of
// every item, which helps when maintaining the column mapping.
func WithSourceColumns(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showColumns = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one report in plain text.
func (w *SimpleWriter) Write(report *model.Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeBody(&sb, report.Document)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the title and the identification lines.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.Report) {
	title := report.Title()
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", max(len([]rune(title)), 1)))
	sb.WriteString("\n")

	for _, line := range infoLines(report.Summary) {
		parts := make([]string, len(line))
		for i, f := range line {
			parts[i] = f.label + ": " + f.value
		}
		sb.WriteString(strings.Join(parts, " | "))
		sb.WriteString("\n")
	}

	if report.Error != "" {
		fmt.Fprintf(sb, "Erro: %s\n", report.Error)
	}
	sb.WriteString("\n")
}

// gaps returns the blank lines written after each item and after each
// section for a layout.
func gaps(l model.Layout) (item, section int) {
	switch l.Density {
	case model.DensityTight:
		return 0, 1
	case model.DensityMedium:
		return 0, 2
	default:
		return 1, 2
	}
}

// writeBody writes the sections, the general remarks or the placeholder.
func (w *SimpleWriter) writeBody(sb *strings.Builder, doc model.Document) {
	if doc.Placeholder != "" {
		sb.WriteString(doc.Placeholder)
		sb.WriteString("\n")
		return
	}

	itemGap, sectionGap := gaps(doc.Layout)
	sections := doc.AllSections()
	for i, section := range sections {
		sb.WriteString(section.Heading)
		sb.WriteString("\n")

		for j, item := range section.Items {
			sb.WriteString(item.Text())
			if w.showColumns && item.Column != "" {
				fmt.Fprintf(sb, "  [%s]", item.Column)
			}
			sb.WriteString("\n")
			if j < len(section.Items)-1 {
				sb.WriteString(strings.Repeat("\n", itemGap))
			}
		}

		if i < len(sections)-1 {
			sb.WriteString(strings.Repeat("\n", sectionGap))
		}
	}
}

// WriteListing outputs the dashboard and the record table in plain text.
func (w *SimpleWriter) WriteListing(listing *model.Listing) (int, error) {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("PAINEL GERENCIAL\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	d := listing.Dashboard
	fmt.Fprintf(&sb, "  Total de Vistorias: %d\n", d.TotalRecords)
	fmt.Fprintf(&sb, "  Cidades:            %d\n", d.Cities)
	fmt.Fprintf(&sb, "  Vistoriadores:      %d\n", d.Inspectors)
	fmt.Fprintf(&sb, "  Última Vistoria:    %s\n", d.LastInspection)
	if listing.Source != "" {
		fmt.Fprintf(&sb, "  Fonte:              %s\n", listing.Source)
	}
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("REGISTROS DE VISTORIA\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")

	if len(listing.Records) == 0 {
		sb.WriteString("  Nenhum dado encontrado na planilha.\n")
		return io.WriteString(w.output, sb.String())
	}

	const rowFormat = "%-10s  %-5s  %-10s  %-16s  %-16s  %s\n"
	h := listingHeader
	fmt.Fprintf(&sb, rowFormat, h[0], h[1], h[2], h[3], h[4], h[5])
	for _, r := range listing.Records {
		fmt.Fprintf(&sb, rowFormat, r.Date, r.Time, r.Prefix, r.City, r.Inspector, fmt.Sprint(r.Index))
	}

	return io.WriteString(w.output, sb.String())
}
