package source

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/vistoria/internal/model"
)

// skippedAreas are area labels that describe identification columns rather
// than inspected items.
var skippedAreas = map[string]bool{
	"":              true,
	"nan":           true,
	"IDENTIFICAÇÃO": true,
	"GERAL":         true,
}

// LoadMapping reads the column mapping workbook: the first sheet, header in
// row 1, and per row the original column name, the display name and the
// area tag in the first three columns. Rows whose area is blank,
// IDENTIFICAÇÃO or GERAL are skipped. A blank display name falls back to
// the original column name.
func LoadMapping(path string) (*model.ColumnMapping, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping workbook: %w", err)
	}
	defer f.Close()

	sheet, err := firstSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	return MappingFromRows(rows[1:]), nil
}

// MappingFromRows builds a mapping from data rows (header excluded).
func MappingFromRows(rows [][]string) *model.ColumnMapping {
	m := model.NewColumnMapping()
	for _, row := range rows {
		original := strings.TrimSpace(at(row, 0))
		display := strings.TrimSpace(at(row, 1))
		area := strings.TrimSpace(at(row, 2))

		if skippedAreas[area] || original == "" || original == "nan" {
			continue
		}
		if display == "nan" {
			display = ""
		}
		m.Add(original, model.MappingEntry{
			DisplayName: display,
			Area:        model.ParseArea(area),
		})
	}
	return m
}

func at(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
