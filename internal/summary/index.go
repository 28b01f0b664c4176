package summary

import (
	"github.com/nao1215/vistoria/internal/match"
)

// Field is an identification field of a record.
type Field int

const (
	// FieldPrefix is the bus prefix (fleet number).
	FieldPrefix Field = iota
	// FieldCity is the city of the inspection.
	FieldCity
	// FieldInspector is the person who filled the form.
	FieldInspector
	// FieldInspectionDate is the date typed by the inspector.
	FieldInspectionDate
	// FieldTimestamp is the form submission time.
	FieldTimestamp
	// FieldOdometer is the odometer reading.
	FieldOdometer
	// FieldWiFi is the on-board Wi-Fi status.
	FieldWiFi

	fieldCount
)

// String returns the field name.
func (f Field) String() string {
	switch f {
	case FieldPrefix:
		return "prefix"
	case FieldCity:
		return "city"
	case FieldInspector:
		return "inspector"
	case FieldInspectionDate:
		return "inspection_date"
	case FieldTimestamp:
		return "timestamp"
	case FieldOdometer:
		return "odometer"
	case FieldWiFi:
		return "wifi"
	default:
		return "unknown"
	}
}

// fieldRule locates a field. A column matches when its folded name
// contains every keyword of the rule. Lower priority values win.
type fieldRule struct {
	field    Field
	priority int
	keywords match.Keywords
}

// fieldRules are evaluated in order: a column belongs to the first rule
// that matches it.
var fieldRules = []fieldRule{
	{FieldPrefix, 0, match.NewKeywords("ônibus", "prefixo")},
	{FieldPrefix, 1, match.NewKeywords("prefixo")},
	{FieldCity, 0, match.NewKeywords("cidade")},
	{FieldInspector, 0, match.NewKeywords("vistoriador")},
	{FieldInspectionDate, 0, match.NewKeywords("data da vistoria")},
	{FieldTimestamp, 0, match.NewKeywords("carimbo", "data")},
	{FieldOdometer, 0, match.NewKeywords("quilometragem")},
	{FieldWiFi, 0, match.NewKeywords("wi-fi")},
	{FieldWiFi, 0, match.NewKeywords("wifi")},
}

// candidate is a column claimed by a field together with the priority of
// the rule that claimed it.
type candidate struct {
	column   string
	priority int
}

// Index maps identification fields to dataset columns.
type Index struct {
	columns [fieldCount]string
	found   [fieldCount]bool
}

// NewIndex resolves the identification columns of a header. For each
// field the column matched by the highest-priority rule wins, and among
// equals the leftmost column.
func NewIndex(columns []string) *Index {
	var best [fieldCount]*candidate

	for _, col := range columns {
		folded := match.Fold(col)
		for _, r := range fieldRules {
			if !r.keywords.AllIn(folded) {
				continue
			}
			if cur := best[r.field]; cur == nil || r.priority < cur.priority {
				best[r.field] = &candidate{column: col, priority: r.priority}
			}
			break
		}
	}

	idx := &Index{}
	for f, c := range best {
		if c != nil {
			idx.columns[f] = c.column
			idx.found[f] = true
		}
	}
	return idx
}

// Column returns the column located for a field.
func (idx *Index) Column(f Field) (string, bool) {
	if idx == nil || f < 0 || f >= fieldCount {
		return "", false
	}
	return idx.columns[f], idx.found[f]
}
