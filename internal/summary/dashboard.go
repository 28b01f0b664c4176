package summary

import (
	"strings"
	"time"

	"github.com/nao1215/vistoria/internal/model"
)

// LastInspectionLayout is the display layout of the latest inspection date.
const LastInspectionLayout = "02/01/2006"

// Dashboard aggregates a dataset: number of records, distinct cities,
// distinct inspectors and the latest submission date.
func Dashboard(d *model.Dataset) model.Dashboard {
	idx := NewIndex(d.Columns())
	dash := model.Dashboard{
		TotalRecords:   d.Len(),
		LastInspection: model.NotAvailable,
	}

	cityCol, hasCity := idx.Column(FieldCity)
	inspectorCol, hasInspector := idx.Column(FieldInspector)
	stampCol, hasStamp := idx.Column(FieldTimestamp)

	cities := make(map[string]struct{})
	inspectors := make(map[string]struct{})
	var latest time.Time

	for _, row := range d.Rows() {
		if hasCity {
			addDistinct(cities, row.Get(cityCol))
		}
		if hasInspector {
			addDistinct(inspectors, row.Get(inspectorCol))
		}
		if hasStamp {
			if t, ok := ParseTimestamp(row.Get(stampCol)); ok && t.After(latest) {
				latest = t
			}
		}
	}

	dash.Cities = len(cities)
	dash.Inspectors = len(inspectors)
	if !latest.IsZero() {
		dash.LastInspection = latest.Format(LastInspectionLayout)
	}
	return dash
}

// addDistinct records a non-blank value.
func addDistinct(set map[string]struct{}, v model.CellValue) {
	if v.IsEmpty() {
		return
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return
	}
	set[s] = struct{}{}
}

// Listing builds the overview of a dataset served by source.
func Listing(d *model.Dataset, source string) *model.Listing {
	return &model.Listing{
		Source:    source,
		Dashboard: Dashboard(d),
		Records:   Rows(d),
	}
}
