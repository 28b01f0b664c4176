package summary

import (
	"strings"
	"time"

	"github.com/nao1215/vistoria/internal/format"
	"github.com/nao1215/vistoria/internal/model"
)

// TimestampLayout is the display layout of submission times.
const TimestampLayout = "02-01-2006 15:04"

// timestampLayouts are the text forms accepted for submission times.
// Numeric dates are day-first.
var timestampLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp returns the submission time held by a cell. Timestamp
// cells are returned as is and text is parsed with the accepted layouts.
func ParseTimestamp(v model.CellValue) (time.Time, bool) {
	if t, ok := v.AsTime(); ok {
		return t, true
	}
	text, ok := v.AsText()
	if !ok {
		return time.Time{}, false
	}
	text = strings.TrimSpace(text)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders a submission time as "DD-MM-YYYY HH:MM". Values
// that do not parse are returned verbatim with "/" replaced by "-", and
// blank values yield "N/A".
func FormatTimestamp(v model.CellValue) string {
	if t, ok := ParseTimestamp(v); ok {
		return t.Format(TimestampLayout)
	}
	raw := strings.TrimSpace(v.String())
	if raw == "" {
		return model.NotAvailable
	}
	return strings.ReplaceAll(raw, "/", "-")
}

// text renders an identification cell, or "N/A" when it is blank.
func text(v model.CellValue) string {
	var s string
	if t, ok := v.AsTime(); ok {
		s = format.Date(t)
	} else {
		s = format.Number(v)
	}
	if strings.TrimSpace(s) == "" {
		return model.NotAvailable
	}
	return s
}

// Extract returns the identification fields of a row. Fields without a
// located column or with a blank value are "N/A".
func (idx *Index) Extract(row model.Row) model.RecordSummary {
	s := model.NewRecordSummary()

	get := func(f Field) (model.CellValue, bool) {
		col, ok := idx.Column(f)
		if !ok {
			return model.Empty(), false
		}
		return row.Get(col), true
	}

	if v, ok := get(FieldPrefix); ok {
		s.Prefix = text(v)
	}
	if v, ok := get(FieldCity); ok {
		s.City = text(v)
	}
	if v, ok := get(FieldInspector); ok {
		s.Inspector = text(v)
	}
	if v, ok := get(FieldInspectionDate); ok {
		s.InspectionDate = text(v)
	}
	if v, ok := get(FieldTimestamp); ok {
		s.Timestamp = FormatTimestamp(v)
	}
	if v, ok := get(FieldOdometer); ok {
		s.Odometer = text(v)
	}
	if v, ok := get(FieldWiFi); ok {
		s.WiFi = text(v)
	}
	return s
}

// Extract is a convenience for a single row. Callers handling a whole
// dataset should build one Index and reuse it.
func Extract(row model.Row, columns []string) model.RecordSummary {
	return NewIndex(columns).Extract(row)
}

// Rows returns one listing row per record, in dataset order.
func Rows(d *model.Dataset) []model.RecordRow {
	idx := NewIndex(d.Columns())
	out := make([]model.RecordRow, 0, d.Len())
	for i, row := range d.Rows() {
		out = append(out, model.NewRecordRow(i, idx.Extract(row)))
	}
	return out
}
