package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/nao1215/vistoria/internal/model"
)

// writeWorkbook saves rows to a new workbook and returns its path.
// time.Time values get a date-time number format.
func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		t.Fatal(err)
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				t.Fatal(err)
			}
			if _, ok := v.(time.Time); ok {
				if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					t.Fatal(err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "base.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXLSXSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("types cells", func(t *testing.T) {
		t.Parallel()

		stamp := time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)
		path := writeWorkbook(t, [][]any{
			{"Carimbo de data/hora", "Prefixo", "Cidade", "Quilometragem"},
			{stamp, 12345, "Curitiba", nil},
			{nil, nil, nil, nil},
			{"ontem", "678", "Londrina", 1500.5},
		})

		s := NewXLSXSource(path)
		if s.Name() != "xlsx" || s.Location() != path {
			t.Errorf("unexpected identity %q %q", s.Name(), s.Location())
		}

		d, err := s.Load(ctx)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		want := []string{"Carimbo de data/hora", "Prefixo", "Cidade", "Quilometragem"}
		if diff := cmp.Diff(want, d.Columns()); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
		if d.Len() != 2 {
			t.Fatalf("expected blank row to be skipped, got %d rows", d.Len())
		}

		row, _ := d.Row(0)
		got, ok := row.Get("Carimbo de data/hora").AsTime()
		if !ok {
			t.Fatalf("expected timestamp, got %v", row.Get("Carimbo de data/hora"))
		}
		if got.Format("02-01-2006 15:04") != "09-03-2026 08:30" {
			t.Errorf("timestamp = %v", got)
		}
		if n, ok := row.Get("Prefixo").AsNumber(); !ok || n != 12345 {
			t.Errorf("Prefixo = %v", row.Get("Prefixo"))
		}
		if !row.Get("Quilometragem").IsEmpty() {
			t.Errorf("Quilometragem = %v", row.Get("Quilometragem"))
		}

		row, _ = d.Row(1)
		if s, ok := row.Get("Prefixo").AsText(); !ok || s != "678" {
			t.Errorf("text prefix = %v", row.Get("Prefixo"))
		}
		if s, ok := row.Get("Carimbo de data/hora").AsText(); !ok || s != "ontem" {
			t.Errorf("text carimbo = %v", row.Get("Carimbo de data/hora"))
		}
		if n, ok := row.Get("Quilometragem").AsNumber(); !ok || n != 1500.5 {
			t.Errorf("Quilometragem = %v", row.Get("Quilometragem"))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewXLSXSource(filepath.Join(t.TempDir(), "none.xlsx")).Load(ctx)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})

	t.Run("empty sheet has no header", func(t *testing.T) {
		t.Parallel()

		path := writeWorkbook(t, nil)
		if _, err := NewXLSXSource(path).Load(ctx); !errors.Is(err, ErrNoHeader) {
			t.Errorf("expected ErrNoHeader, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := NewXLSXSource("x.xlsx").Load(cctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestIsDateFormat(t *testing.T) {
	t.Parallel()

	custom := func(s string) *string { return &s }

	tests := []struct {
		name   string
		id     int
		custom *string
		want   bool
	}{
		{name: "general", id: 0, want: false},
		{name: "integer", id: 1, want: false},
		{name: "short date", id: 14, want: true},
		{name: "date time", id: 22, want: true},
		{name: "elapsed time", id: 46, want: true},
		{name: "text", id: 49, want: false},
		{name: "custom date", custom: custom("dd/mm/yyyy hh:mm"), want: true},
		{name: "custom number", custom: custom("#,##0.00"), want: false},
		{name: "custom quoted unit", custom: custom(`0 "km"`), want: false},
		{name: "custom color section", custom: custom("[Red]0.00"), want: false},
		{name: "custom escaped", custom: custom(`0\h`), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := isDateFormat(tt.id, tt.custom); got != tt.want {
				t.Errorf("isDateFormat(%d, %v) = %v, want %v", tt.id, tt.custom, got, tt.want)
			}
		})
	}
}

func TestLoadMapping(t *testing.T) {
	t.Parallel()

	t.Run("reads first three columns", func(t *testing.T) {
		t.Parallel()

		path := writeWorkbook(t, [][]any{
			{"Coluna original", "Coluna tratada", "Área"},
			{"Pneus dianteiros", "Pneus", "EXTERNA"},
			{"Banheiro limpo?", "nan", "SANITÁRIO"},
			{"Prefixo do ônibus", "Prefixo", "IDENTIFICAÇÃO"},
			{"Observações gerais", "Observações", "GERAL"},
			{"Sem área", "Sem área", nil},
		})

		m, err := LoadMapping(path)
		if err != nil {
			t.Fatalf("LoadMapping failed: %v", err)
		}
		if m.Len() != 2 {
			t.Fatalf("expected 2 entries, got %d: %v", m.Len(), m.Columns())
		}

		e, ok := m.Lookup("Pneus dianteiros")
		if !ok || e.DisplayName != "Pneus" || e.Area != model.AreaExternal {
			t.Errorf("unexpected entry %+v (found=%v)", e, ok)
		}
		e, ok = m.Lookup("Banheiro limpo?")
		if !ok || e.DisplayName != "Banheiro limpo?" || e.Area != model.AreaRestroom {
			t.Errorf("unexpected entry %+v (found=%v)", e, ok)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadMapping(filepath.Join(t.TempDir(), "none.xlsx"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestMappingFromRows(t *testing.T) {
	t.Parallel()

	m := MappingFromRows([][]string{
		{"  Geladeira funciona? ", " Geladeira ", " GELADEIRA "},
		{"Cabine", ""},
		{},
		{"nan", "x", "CABINE"},
		{"Poltronas", "", "SALÃO"},
	})

	if diff := cmp.Diff([]string{"Geladeira funciona?", "Poltronas"}, m.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	e, _ := m.Lookup("Geladeira funciona?")
	if e.DisplayName != "Geladeira" || e.Area != model.AreaRefrigerator {
		t.Errorf("unexpected entry %+v", e)
	}
	e, _ = m.Lookup("Poltronas")
	if e.DisplayName != "Poltronas" {
		t.Errorf("blank display name should fall back, got %q", e.DisplayName)
	}
}
