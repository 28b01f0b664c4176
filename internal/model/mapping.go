package model

import (
	"strings"

	"golang.org/x/text/cases"
)

// MappingEntry describes how one source column is presented in reports.
type MappingEntry struct {
	// DisplayName is the cleaned-up item name shown in the report.
	DisplayName string `json:"display_name"`

	// Area is the section the column belongs to.
	Area Area `json:"area"`
}

// ColumnMapping maps original column names to display names and areas.
// It keeps a folded index so case-insensitive lookups do not rescan the
// whole table on every call.
//
// A nil *ColumnMapping behaves as an empty mapping.
type ColumnMapping struct {
	entries map[string]MappingEntry
	folded  map[string]string
	order   []string
}

// NewColumnMapping creates an empty mapping.
func NewColumnMapping() *ColumnMapping {
	return &ColumnMapping{
		entries: make(map[string]MappingEntry),
		folded:  make(map[string]string),
	}
}

// Add registers a column. Re-adding a column replaces its entry.
// An empty display name falls back to the column name.
func (m *ColumnMapping) Add(column string, entry MappingEntry) {
	if entry.DisplayName == "" {
		entry.DisplayName = column
	}
	if _, exists := m.entries[column]; !exists {
		m.order = append(m.order, column)
	}
	m.entries[column] = entry

	key := foldKey(column)
	if _, exists := m.folded[key]; !exists {
		m.folded[key] = column
	}
}

// Lookup returns the entry for a column: exact match first, then a
// trimmed case-insensitive match.
func (m *ColumnMapping) Lookup(column string) (MappingEntry, bool) {
	if m == nil {
		return MappingEntry{}, false
	}
	if e, ok := m.entries[column]; ok {
		return e, true
	}
	if orig, ok := m.folded[foldKey(column)]; ok {
		return m.entries[orig], true
	}
	return MappingEntry{}, false
}

// Len returns the number of mapped columns.
func (m *ColumnMapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Columns returns the mapped column names in insertion order.
func (m *ColumnMapping) Columns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// foldKey normalizes a column name for case-insensitive comparison.
func foldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
