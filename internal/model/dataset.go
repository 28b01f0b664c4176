package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Row is one inspection record: an ordered mapping from column name to
// raw cell value. Rows created from the same Dataset share the column slice,
// which must be treated as read-only.
type Row struct {
	columns []string
	cells   map[string]CellValue
}

// NewRow creates a row from values aligned with columns.
// Missing trailing values are treated as empty cells and extra values are
// ignored.
func NewRow(columns []string, values []CellValue) Row {
	cells := make(map[string]CellValue, len(columns))
	for i, col := range columns {
		if i < len(values) {
			cells[col] = values[i]
		} else {
			cells[col] = Empty()
		}
	}
	return Row{columns: columns, cells: cells}
}

// Columns returns the row's column names in source order.
func (r Row) Columns() []string {
	return r.columns
}

// Get returns the value for a column. Unknown columns yield an empty cell.
func (r Row) Get(column string) CellValue {
	return r.cells[column]
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.columns)
}

// Values returns the cells in column order.
func (r Row) Values() []CellValue {
	values := make([]CellValue, len(r.columns))
	for i, col := range r.columns {
		values[i] = r.cells[col]
	}
	return values
}

// Dataset is a fully materialized inspection table: ordered column names
// plus ordered rows. Row order is preserved as given by the data source.
type Dataset struct {
	columns []string
	rows    []Row
}

// NewDataset creates an empty dataset with the given header.
// Duplicate column names are made unique by appending ".1", ".2", ...
// so that every column stays addressable by name.
func NewDataset(columns []string) *Dataset {
	return &Dataset{columns: dedupeColumns(columns)}
}

// dedupeColumns renames repeated header cells.
func dedupeColumns(columns []string) []string {
	out := make([]string, len(columns))
	used := make(map[string]bool, len(columns))
	counts := make(map[string]int)
	for i, col := range columns {
		name := col
		for used[name] {
			counts[col]++
			name = col + "." + strconv.Itoa(counts[col])
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// AddRow appends a row built from values aligned with the dataset columns.
func (d *Dataset) AddRow(values []CellValue) {
	d.rows = append(d.rows, NewRow(d.columns, values))
}

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string {
	if d == nil {
		return nil
	}
	return d.columns
}

// Rows returns the rows in source order.
func (d *Dataset) Rows() []Row {
	if d == nil {
		return nil
	}
	return d.rows
}

// Row returns the i-th row.
func (d *Dataset) Row(i int) (Row, bool) {
	if d == nil || i < 0 || i >= len(d.rows) {
		return Row{}, false
	}
	return d.rows[i], true
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.rows)
}

// Empty reports whether the dataset has no rows.
// An empty dataset is how acquisition failures reach the caller.
func (d *Dataset) Empty() bool {
	return d.Len() == 0
}

// SetRows replaces the row order. It is used by the acquisition layer to
// sort records; rows must come from this dataset.
func (d *Dataset) SetRows(rows []Row) {
	d.rows = rows
}

// datasetJSON is the wire form of Dataset.
type datasetJSON struct {
	Columns []string      `json:"columns"`
	Rows    [][]CellValue `json:"rows"`
}

// MarshalJSON implements json.Marshaler.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	w := datasetJSON{
		Columns: d.Columns(),
		Rows:    make([][]CellValue, d.Len()),
	}
	for i, row := range d.Rows() {
		w.Rows[i] = row.Values()
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var w datasetJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	decoded := NewDataset(w.Columns)
	for i, values := range w.Rows {
		if len(values) > len(w.Columns) {
			return fmt.Errorf("row %d has %d cells for %d columns", i, len(values), len(w.Columns))
		}
		decoded.AddRow(values)
	}
	*d = *decoded
	return nil
}
