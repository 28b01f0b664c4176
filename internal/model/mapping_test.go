package model

import "testing"

// TestColumnMappingLookup tests exact and case-insensitive lookups.
func TestColumnMappingLookup(t *testing.T) {
	t.Parallel()

	m := NewColumnMapping()
	m.Add("[SALÃO] Poltronas", MappingEntry{DisplayName: "Poltronas", Area: AreaSalon})
	m.Add("Placa", MappingEntry{Area: AreaExternal})

	t.Run("exact", func(t *testing.T) {
		t.Parallel()
		e, ok := m.Lookup("[SALÃO] Poltronas")
		if !ok || e.DisplayName != "Poltronas" || e.Area != AreaSalon {
			t.Errorf("Lookup() = %+v, %v", e, ok)
		}
	})

	t.Run("case-insensitive and trimmed", func(t *testing.T) {
		t.Parallel()
		e, ok := m.Lookup("  [salão] POLTRONAS ")
		if !ok || e.Area != AreaSalon {
			t.Errorf("Lookup() = %+v, %v", e, ok)
		}
	})

	t.Run("display name defaults to column", func(t *testing.T) {
		t.Parallel()
		e, _ := m.Lookup("Placa")
		if e.DisplayName != "Placa" {
			t.Errorf("DisplayName = %q, expected Placa", e.DisplayName)
		}
	})

	t.Run("miss", func(t *testing.T) {
		t.Parallel()
		if _, ok := m.Lookup("Pneus"); ok {
			t.Error("Lookup() should miss")
		}
	})
}

// TestColumnMappingNil tests that a nil mapping behaves as empty.
func TestColumnMappingNil(t *testing.T) {
	t.Parallel()

	var m *ColumnMapping
	if m.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", m.Len())
	}
	if _, ok := m.Lookup("x"); ok {
		t.Error("nil mapping should never match")
	}
	if m.Columns() != nil {
		t.Error("Columns() of nil mapping should be nil")
	}
}

// TestColumnMappingOrder tests that re-adding a column keeps its position.
func TestColumnMappingOrder(t *testing.T) {
	t.Parallel()

	m := NewColumnMapping()
	m.Add("b", MappingEntry{Area: AreaCabin})
	m.Add("a", MappingEntry{Area: AreaSalon})
	m.Add("b", MappingEntry{Area: AreaExternal})

	cols := m.Columns()
	if len(cols) != 2 || cols[0] != "b" || cols[1] != "a" {
		t.Errorf("Columns() = %v, expected [b a]", cols)
	}
	if e, _ := m.Lookup("b"); e.Area != AreaExternal {
		t.Errorf("re-added entry area = %v, expected EXTERNA", e.Area)
	}
}
