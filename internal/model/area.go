package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// Area is a physical zone of the vehicle used to group report sections.
//
// Design decision: We use iota-based constants rather than the raw tags
// found in mapping spreadsheets so that comparisons and ordering are cheap.
// Tag() and DisplayName() provide the spreadsheet and report spellings.
type Area int

const (
	// AreaUnclassified marks a column that belongs to no known area.
	// Unclassified columns are excluded from the grouped report.
	AreaUnclassified Area = iota

	// AreaExternal is the vehicle exterior: body, paint, tires, glass.
	AreaExternal

	// AreaCabin is the driver's cabin.
	AreaCabin

	// AreaSalon is the passenger salon, including seats.
	AreaSalon

	// AreaRestroom is the on-board restroom.
	AreaRestroom

	// AreaRefrigerator covers the on-board refrigerators.
	AreaRefrigerator
)

// areaOrder is the fixed section order of every report.
var areaOrder = []Area{
	AreaExternal,
	AreaCabin,
	AreaSalon,
	AreaRestroom,
	AreaRefrigerator,
}

// Areas returns the known areas in report order.
func Areas() []Area {
	out := make([]Area, len(areaOrder))
	copy(out, areaOrder)
	return out
}

// Tag returns the area tag as written in mapping spreadsheets.
func (a Area) Tag() string {
	switch a {
	case AreaExternal:
		return "EXTERNA"
	case AreaCabin:
		return "CABINE"
	case AreaSalon:
		return "SALÃO"
	case AreaRestroom:
		return "SANITÁRIO"
	case AreaRefrigerator:
		return "GELADEIRA"
	default:
		return ""
	}
}

// DisplayName returns the section heading used in reports.
func (a Area) DisplayName() string {
	if a == AreaRefrigerator {
		return "GELADEIRAS"
	}
	return a.Tag()
}

// String returns a human-readable representation of the area.
func (a Area) String() string {
	if a == AreaUnclassified {
		return "UNCLASSIFIED"
	}
	return a.Tag()
}

// Known reports whether the area takes part in grouped reporting.
func (a Area) Known() bool {
	return a >= AreaExternal && a <= AreaRefrigerator
}

// MarshalText implements encoding.TextMarshaler.
func (a Area) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Area) UnmarshalText(text []byte) error {
	*a = ParseArea(string(text))
	return nil
}

// areaTags maps folded tag spellings to areas. Both accented and
// unaccented spellings appear in hand-edited mapping files.
var areaTags = map[string]Area{
	"externa":    AreaExternal,
	"externo":    AreaExternal,
	"cabine":     AreaCabin,
	"salão":      AreaSalon,
	"salao":      AreaSalon,
	"sanitário":  AreaRestroom,
	"sanitario":  AreaRestroom,
	"geladeira":  AreaRefrigerator,
	"geladeiras": AreaRefrigerator,
}

// ParseArea converts a mapping-file tag into an Area.
// Unknown tags, including IDENTIFICAÇÃO and GERAL, return AreaUnclassified.
func ParseArea(tag string) Area {
	key := cases.Fold().String(strings.TrimSpace(tag))
	if a, ok := areaTags[key]; ok {
		return a
	}
	return AreaUnclassified
}
