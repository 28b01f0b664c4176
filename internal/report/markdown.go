package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/vistoria/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation, which gives us tables, lists and GitHub alerts
// without hand-written escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one report in Markdown format.
func (w *MarkdownWriter) Write(report *model.Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeBody(md, report.Document)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the identification table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.Report) {
	md.H1(report.Title())
	md.PlainText("")

	var rows [][]string
	for _, line := range infoLines(report.Summary) {
		for _, f := range line {
			rows = append(rows, []string{f.label, f.value})
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Campo", "Valor"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.Error != "" {
		md.Warningf("Erro ao gerar o relatório: %s", report.Error)
		md.PlainText("")
	}
}

// writeBody writes one H2 per section with its items as a bullet list.
func (w *MarkdownWriter) writeBody(md *markdown.Markdown, doc model.Document) {
	if doc.Placeholder != "" {
		md.Tip(doc.Placeholder)
		md.PlainText("")
		return
	}

	for _, section := range doc.AllSections() {
		md.H2(section.Heading)
		md.PlainText("")

		var bullets []string
		for _, item := range section.Items {
			if item.Block {
				bullets = append(bullets, "**"+item.Label+":**")
				bullets = append(bullets, item.Lines...)
				continue
			}
			bullets = append(bullets, "**"+item.Label+":** "+strings.Join(item.Lines, "<br>"))
		}
		md.BulletList(bullets...)
		md.PlainText("")
	}
}

// WriteListing outputs the dashboard and the record table.
func (w *MarkdownWriter) WriteListing(listing *model.Listing) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Painel Gerencial")
	md.PlainText("")

	d := listing.Dashboard
	md.Table(markdown.TableSet{
		Header: []string{"Indicador", "Valor"},
		Rows: [][]string{
			{"Total de Vistorias", strconv.Itoa(d.TotalRecords)},
			{"Cidades", strconv.Itoa(d.Cities)},
			{"Vistoriadores", strconv.Itoa(d.Inspectors)},
			{"Última Vistoria", d.LastInspection},
		},
	})
	md.PlainText("")

	if listing.Source != "" {
		md.Note("Fonte dos dados: " + listing.Source)
		md.PlainText("")
	}

	md.H2("Registros de Vistoria")
	md.PlainText("")

	if len(listing.Records) == 0 {
		md.PlainText("Nenhum dado encontrado na planilha.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(listing.Records))
		for i, r := range listing.Records {
			rows[i] = []string{r.Date, r.Time, r.Prefix, r.City, r.Inspector, strconv.Itoa(r.Index)}
		}
		md.Table(markdown.TableSet{
			Header: listingHeader,
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Relatório gerado por vistoria*")
}
