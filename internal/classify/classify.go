// Package classify assigns spreadsheet columns to vehicle areas.
//
// A column mapping is consulted first. When no mapping is available, an
// ordered keyword heuristic decides, most specific area first.
package classify

import (
	"strings"

	"github.com/nao1215/vistoria/internal/match"
	"github.com/nao1215/vistoria/internal/model"
)

// rule assigns an area when its predicate matches the folded column name.
type rule struct {
	area  model.Area
	match func(folded string) bool
}

// Keyword tables, stored folded.
var (
	refrigeratorKeywords = match.NewKeywords("GELADEIRA")
	restroomKeywords     = match.NewKeywords("SANITÁRIO", "SANITARIO")
	salonKeywords        = match.NewKeywords("SALÃO", "SALAO", "POLTRONAS", "[POLTRONAS]")
	cabinKeyword         = match.Fold("CABINE")
	cabinMarker          = match.Fold("[CABINE")
	driverKeywords       = match.NewKeywords("MOTORISTA")
	externalKeywords     = match.NewKeywords("AVALIAÇÃO EXTERNA", "AVALIACAO EXTERNA", "EXTERNA", "EXTERNO")

	// exteriorPartKeywords name parts that are external unless the column
	// also mentions another area.
	exteriorPartKeywords = match.NewKeywords(
		"avaria", "higienização", "estado", "pintura",
		"adesivo", "extintor", "bagageiro",
		"placa", "pneu", "retrovisor", "vidro", "carroceria",
		"porta de entrada",
	)

	// otherAreaKeywords guard the exterior-part rule against names that
	// belong to an inner area.
	otherAreaKeywords = match.NewKeywords(
		"CABINE", "SANITÁRIO", "SANITARIO",
		"POLTRONAS", "SALÃO", "SALAO", "GELADEIRA",
	)
)

// rules is the heuristic, evaluated in order.
var rules = []rule{
	{model.AreaRefrigerator, refrigeratorKeywords.AnyIn},
	{model.AreaRestroom, restroomKeywords.AnyIn},
	{model.AreaSalon, salonKeywords.AnyIn},
	{model.AreaCabin, func(folded string) bool {
		if strings.HasPrefix(folded, cabinKeyword) || strings.Contains(folded, cabinMarker) {
			return true
		}
		return strings.Contains(folded, cabinKeyword) && driverKeywords.AnyIn(folded)
	}},
	{model.AreaExternal, externalKeywords.AnyIn},
	{model.AreaExternal, func(folded string) bool {
		return exteriorPartKeywords.AnyIn(folded) && !otherAreaKeywords.AnyIn(folded)
	}},
}

// Heuristic classifies a column by keywords alone.
func Heuristic(column string) model.Area {
	folded := match.Fold(column)
	for _, r := range rules {
		if r.match(folded) {
			return r.area
		}
	}
	return model.AreaUnclassified
}

// Lookup returns the mapping entry of a column, exact match first and then
// case-insensitive.
func Lookup(column string, mapping *model.ColumnMapping) (model.MappingEntry, bool) {
	return mapping.Lookup(column)
}

// Classify returns the area of a column. The mapping wins when it has the
// column; otherwise the keyword heuristic decides.
func Classify(column string, mapping *model.ColumnMapping) model.Area {
	if e, ok := Lookup(column, mapping); ok {
		return e.Area
	}
	return Heuristic(column)
}
