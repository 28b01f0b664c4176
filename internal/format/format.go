package format

import (
	"github.com/nao1215/vistoria/internal/match"
	"github.com/nao1215/vistoria/internal/model"
)

// NonConforming is the display string of an empty checklist cell.
const NonConforming = "NÃO CONFORME"

// cell is the input handed to every strategy.
type cell struct {
	value model.CellValue

	// extinguisher is set when the column holds a fire-extinguisher
	// expiry date, which is shown as "MMM-YYYY".
	extinguisher bool
}

// strategy formats a cell or declines with false.
type strategy func(c cell) (string, bool)

// chain is the fixed strategy order. See the package documentation.
var chain = []strategy{
	fromTimestamp,
	fromDatePattern,
	fromDateLayout,
	fromExtinguisherSerial,
	fromNumber,
	fromText,
}

// extinguisherSubject and extinguisherDate identify expiry-date columns:
// the name must mention the extinguisher and either validity or a date.
var (
	extinguisherSubject = match.NewKeywords("extintor")
	extinguisherDate    = match.NewKeywords("validade", "data")
)

// IsExtinguisherDate reports whether a column holds a fire-extinguisher
// expiry date.
func IsExtinguisherDate(column string) bool {
	if column == "" {
		return false
	}
	folded := match.Fold(column)
	return extinguisherSubject.AllIn(folded) && extinguisherDate.AnyIn(folded)
}

// Value formats a raw cell for display. The column name may be empty; it is
// only used to recognize fire-extinguisher expiry dates.
//
// Value is total: every input yields a string.
func Value(v model.CellValue, column string) string {
	if v.IsEmpty() {
		return NonConforming
	}

	c := cell{value: v, extinguisher: IsExtinguisherDate(column)}
	for _, s := range chain {
		if out, ok := s(c); ok {
			return out
		}
	}
	return v.String()
}
