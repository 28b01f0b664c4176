// Package assemble builds the body of an inspection report from one
// dataset row.
//
// Assembly walks the row's columns in order, skips identification
// metadata, photos and the general remarks column, keeps every
// non-conforming cell of a known area and groups the kept cells into
// sections in the fixed area order. General remarks form a trailing
// section. A row with nothing to report yields a placeholder line.
package assemble

import (
	"strings"

	"github.com/nao1215/vistoria/internal/classify"
	"github.com/nao1215/vistoria/internal/conformity"
	"github.com/nao1215/vistoria/internal/format"
	"github.com/nao1215/vistoria/internal/match"
	"github.com/nao1215/vistoria/internal/model"
)

// GeneralRemarksName is the item name of the general remarks when the
// mapping does not provide one.
const GeneralRemarksName = "Observações Gerais"

var (
	// metadataKeywords mark identification columns. They feed the report
	// header and never appear in the body.
	metadataKeywords = match.NewKeywords(
		"carimbo", "endereço", "e-mail", "email", "prefixo",
		"data da vistoria", "cidade", "vistoriador", "wi-fi", "wifi",
		"quilometragem",
	)

	// photoKeywords mark photo attachment columns.
	photoKeywords = match.NewKeywords("fotografia")

	// generalRemarksKeywords mark the general remarks column.
	generalRemarksKeywords = match.NewKeywords("observações gerais", "observacoes gerais")

	// remarksKeywords mark items whose lines are listed one per bullet.
	remarksKeywords = match.NewKeywords("observações", "observacoes")
)

// isMetadata reports whether a folded column name is identification
// metadata.
func isMetadata(folded string) bool {
	return metadataKeywords.AnyIn(folded)
}

// isPhoto reports whether a folded column name holds photo attachments.
func isPhoto(folded string) bool {
	return photoKeywords.AnyIn(folded)
}

// IsGeneralRemarks reports whether a column holds the general remarks.
func IsGeneralRemarks(column string) bool {
	return generalRemarksKeywords.AnyIn(match.Fold(column))
}

// excluded reports whether a folded column name stays out of area grouping.
func excluded(folded string) bool {
	return isMetadata(folded) || isPhoto(folded) || generalRemarksKeywords.AnyIn(folded)
}

// Collect returns the non-conforming cells of a row grouped by area, in
// column order. With a non-empty mapping only mapped columns of a known
// area are kept; without one the keyword heuristic classifies columns.
func Collect(row model.Row, mapping *model.ColumnMapping) map[model.Area][]model.NonConformityItem {
	buckets := make(map[model.Area][]model.NonConformityItem)
	useHeuristic := mapping.Len() == 0

	for _, col := range row.Columns() {
		if excluded(match.Fold(col)) {
			continue
		}

		value := row.Get(col)
		if !conformity.IsNonConforming(value) {
			continue
		}

		var (
			area model.Area
			name string
		)
		if entry, ok := classify.Lookup(col, mapping); ok {
			area, name = entry.Area, entry.DisplayName
		} else if useHeuristic {
			area = classify.Heuristic(col)
		}
		if !area.Known() {
			continue
		}
		if name == "" {
			name = format.ItemName(col)
		}

		buckets[area] = append(buckets[area], model.NonConformityItem{
			DisplayName: name,
			Value:       value,
			Column:      col,
		})
	}
	return buckets
}

// Assemble builds the document body for a row.
func Assemble(row model.Row, mapping *model.ColumnMapping) model.Document {
	buckets := Collect(row, mapping)

	var doc model.Document
	for _, area := range model.Areas() {
		items := buckets[area]
		if len(items) == 0 {
			continue
		}

		section := model.Section{
			Area:    area,
			Heading: area.DisplayName(),
			Items:   make([]model.Item, 0, len(items)),
		}
		for _, nc := range items {
			section.Items = append(section.Items, newItem(nc))
		}
		doc.Sections = append(doc.Sections, section)
	}

	doc.General = generalSection(row, mapping)

	if len(doc.Sections) == 0 && doc.General == nil {
		doc.Placeholder = model.NoNonConformities
	}
	doc.Layout = model.LayoutFor(doc.ItemCount())
	return doc
}

// newItem formats one non-conformity.
func newItem(nc model.NonConformityItem) model.Item {
	value := format.Value(nc.Value, nc.Column)
	item := model.Item{
		Label:  nc.DisplayName,
		Value:  value,
		Column: nc.Column,
	}

	if remarksKeywords.AnyIn(match.Fold(nc.DisplayName)) {
		item.Block = true
		item.Lines = bulletLines(value)
		return item
	}
	item.Lines = splitLines(value)
	return item
}

// generalSection returns the trailing remarks section, or nil when the
// row has no general remarks. Only the first remarks column is used.
func generalSection(row model.Row, mapping *model.ColumnMapping) *model.Section {
	for _, col := range row.Columns() {
		if !IsGeneralRemarks(col) {
			continue
		}

		value := row.Get(col)
		text := value.String()
		if value.IsEmpty() || strings.TrimSpace(text) == "" {
			return nil
		}

		name := GeneralRemarksName
		if entry, ok := mapping.Lookup(col); ok && entry.DisplayName != "" {
			name = entry.DisplayName
		}

		return &model.Section{
			Area:    model.AreaUnclassified,
			Heading: model.GeneralHeading,
			Items: []model.Item{{
				Label:  name,
				Value:  text,
				Lines:  bulletLines(text),
				Block:  true,
				Column: col,
			}},
		}
	}
	return nil
}

// lineBreaks normalizes Windows and classic Mac line endings.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines splits a value at its line breaks.
func splitLines(s string) []string {
	return strings.Split(lineBreaks.Replace(s), "\n")
}

// bulletLines returns the trimmed, non-empty lines of a value.
func bulletLines(s string) []string {
	var out []string
	for _, line := range splitLines(s) {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
