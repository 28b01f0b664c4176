// Package conformity decides whether a checklist cell records a
// non-conformity.
//
// Inspectors leave conforming items blank, so any filled cell counts as a
// non-conformity. A cell cannot express "inspected and fine, with a note".
package conformity

import (
	"strings"

	"github.com/nao1215/vistoria/internal/model"
)

// markers are the explicit non-conformity answers, upper-cased.
var markers = []string{"NÃO CONFORME", "NAO CONFORME"}

// blanks are string forms that spreadsheet tooling uses for missing values.
var blanks = map[string]bool{"NAN": true, "NONE": true, "": true}

// IsNonConforming reports whether a cell records a non-conformity.
func IsNonConforming(v model.CellValue) bool {
	if v.IsEmpty() {
		return false
	}

	s := strings.ToUpper(strings.TrimSpace(v.String()))
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return !blanks[s]
}
