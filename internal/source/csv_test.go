package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/vistoria/internal/model"
)

func TestParseCSV(t *testing.T) {
	t.Parallel()

	t.Run("infers numeric columns", func(t *testing.T) {
		t.Parallel()

		in := "\ufeffPrefixo,Cidade,Quilometragem\n" +
			"12345,Curitiba,1500.5\n" +
			",,\n" +
			"678,Londrina,\n"
		d, err := ParseCSV(strings.NewReader(in), true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if diff := cmp.Diff([]string{"Prefixo", "Cidade", "Quilometragem"}, d.Columns()); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
		if d.Len() != 2 {
			t.Fatalf("expected blank row to be skipped, got %d rows", d.Len())
		}

		row, _ := d.Row(0)
		if n, ok := row.Get("Prefixo").AsNumber(); !ok || n != 12345 {
			t.Errorf("Prefixo = %v", row.Get("Prefixo"))
		}
		if s, ok := row.Get("Cidade").AsText(); !ok || s != "Curitiba" {
			t.Errorf("Cidade = %v", row.Get("Cidade"))
		}
		if n, ok := row.Get("Quilometragem").AsNumber(); !ok || n != 1500.5 {
			t.Errorf("Quilometragem = %v", row.Get("Quilometragem"))
		}

		row, _ = d.Row(1)
		if !row.Get("Quilometragem").IsEmpty() {
			t.Errorf("expected empty cell, got %v", row.Get("Quilometragem"))
		}
	})

	t.Run("mixed column stays text", func(t *testing.T) {
		t.Parallel()

		d, err := ParseCSV(strings.NewReader("Prefixo\n12\nA-13\nNaN\n"), true)
		if err != nil {
			t.Fatal(err)
		}
		row, _ := d.Row(0)
		if s, ok := row.Get("Prefixo").AsText(); !ok || s != "12" {
			t.Errorf("Prefixo = %v", row.Get("Prefixo"))
		}
	})

	t.Run("no inference keeps text", func(t *testing.T) {
		t.Parallel()

		d, err := ParseCSV(strings.NewReader("Prefixo\n12345\n"), false)
		if err != nil {
			t.Fatal(err)
		}
		row, _ := d.Row(0)
		if row.Get("Prefixo").Kind() != model.KindText {
			t.Errorf("expected text, got %v", row.Get("Prefixo").Kind())
		}
	})

	t.Run("blank and duplicate headers", func(t *testing.T) {
		t.Parallel()

		d, err := ParseCSV(strings.NewReader("Foto,,Foto\na,b,c\n"), false)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{"Foto", "Unnamed: 1", "Foto.1"}
		if diff := cmp.Diff(want, d.Columns()); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("short rows are padded", func(t *testing.T) {
		t.Parallel()

		d, err := ParseCSV(strings.NewReader("A,B,C\n1\n"), false)
		if err != nil {
			t.Fatal(err)
		}
		row, _ := d.Row(0)
		if !row.Get("C").IsEmpty() {
			t.Errorf("C = %v", row.Get("C"))
		}
	})

	t.Run("empty input has no header", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseCSV(strings.NewReader(""), true); !errors.Is(err, ErrNoHeader) {
			t.Errorf("expected ErrNoHeader, got %v", err)
		}
	})
}

func TestCSVSource(t *testing.T) {
	t.Parallel()

	t.Run("loads file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "dados.csv")
		if err := os.WriteFile(path, []byte("Prefixo,Cidade\n1,Curitiba\n"), 0600); err != nil {
			t.Fatal(err)
		}

		s := NewCSVSource(path)
		if s.Name() != "csv" || s.Location() != path {
			t.Errorf("unexpected identity %q %q", s.Name(), s.Location())
		}
		d, err := s.Load(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if d.Len() != 1 {
			t.Errorf("rows = %d", d.Len())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := NewCSVSource(filepath.Join(t.TempDir(), "none.csv")).Load(context.Background())
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}
