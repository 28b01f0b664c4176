package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/summary"
)

// newTestDataset creates a two-record dataset.
func newTestDataset() *model.Dataset {
	d := model.NewDataset([]string{"Carimbo de data/hora", "Prefixo", "Cidade", "[SALÃO] Poltronas", "Pneus"})
	d.AddRow([]model.CellValue{
		model.Timestamp(time.Date(2026, 2, 7, 9, 0, 0, 0, time.UTC)),
		model.Text("21450"), model.Text("Curitiba"), model.Text("rasgada"), model.Empty(),
	})
	d.AddRow([]model.CellValue{
		model.Timestamp(time.Date(2026, 1, 5, 8, 15, 0, 0, time.UTC)),
		model.Text("30100"), model.Text("Londrina"), model.Empty(), model.Empty(),
	})
	return d
}

// TestReportSteps tests the summary and assemble steps.
func TestReportSteps(t *testing.T) {
	t.Parallel()

	d := newTestDataset()
	row, _ := d.Row(0)
	rec := NewRecord(0, row)

	p := NewReportPipeline(summary.NewIndex(d.Columns()), nil)
	if err := p.Execute(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Report.Summary.Prefix != "21450" {
		t.Errorf("prefix = %q", rec.Report.Summary.Prefix)
	}
	if rec.Report.Summary.Timestamp != "07-02-2026 09:00" {
		t.Errorf("timestamp = %q", rec.Report.Summary.Timestamp)
	}
	if _, ok := rec.Report.Document.Section(model.AreaSalon); !ok {
		t.Error("expected a salon section")
	}
	names := p.StepNames()
	if len(names) != 2 || names[0] != "summary" || names[1] != "assemble" {
		t.Errorf("step names = %v", names)
	}
}

// TestBuildReport tests building a single record's report.
func TestBuildReport(t *testing.T) {
	t.Parallel()

	d := newTestDataset()

	r, err := BuildReport(context.Background(), d, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Index != 1 || r.Summary.Prefix != "30100" {
		t.Errorf("report = %+v", r)
	}
	if r.Document.Placeholder != model.NoNonConformities {
		t.Errorf("expected placeholder, got %+v", r.Document)
	}

	if _, err := BuildReport(context.Background(), d, 2, nil); !errors.Is(err, ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

// TestExportStep tests writing rendered reports to disk.
func TestExportStep(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := newTestDataset()
	row, _ := d.Row(0)

	p := NewReportPipeline(summary.NewIndex(d.Columns()), nil)
	p.AddStep(NewExportStep(dir, report.FormatMarkdown))

	// The same record twice collides on the filename.
	for range 2 {
		if err := p.Execute(context.Background(), NewRecord(0, row)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	first := filepath.Join(dir, "Relatorio_Vistoria_21450_07_02_2026.md")
	data, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if !strings.Contains(string(data), "RELATÓRIO DE VISTORIA - PREFIXO 21450") {
		t.Errorf("unexpected file content:\n%s", data)
	}

	if _, err := os.Stat(filepath.Join(dir, "Relatorio_Vistoria_21450_07_02_2026_0.md")); err != nil {
		t.Errorf("expected de-duplicated file: %v", err)
	}
}

// TestExportStepRerun tests that a new export run replaces the files of
// an earlier one instead of writing suffixed copies.
func TestExportStepRerun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := newTestDataset()
	row, _ := d.Row(0)
	name := filepath.Join(dir, "Relatorio_Vistoria_21450_07_02_2026.txt")
	if err := os.WriteFile(name, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		p := NewReportPipeline(summary.NewIndex(d.Columns()), nil)
		p.AddStep(NewExportStep(dir, report.FormatText))
		if err := p.Execute(context.Background(), NewRecord(0, row)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	data, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	if !strings.Contains(string(data), "PREFIXO 21450") {
		t.Errorf("file was not refreshed:\n%s", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file, got %d", len(entries))
	}
}

// TestExportNamesSharedAcrossSteps tests that steps sharing a claim set
// keep both records that collide within one run.
func TestExportNamesSharedAcrossSteps(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	d := newTestDataset()
	row, _ := d.Row(0)
	names := NewExportNames()

	for _, index := range []int{0, 3} {
		p := NewReportPipeline(summary.NewIndex(d.Columns()), nil)
		p.AddStep(NewExportStep(dir, report.FormatText, WithExportNames(names)))
		if err := p.Execute(context.Background(), NewRecord(index, row)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	for _, file := range []string{
		"Relatorio_Vistoria_21450_07_02_2026.txt",
		"Relatorio_Vistoria_21450_07_02_2026_3.txt",
	} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Errorf("expected %s: %v", file, err)
		}
	}
}
