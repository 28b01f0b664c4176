package database

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/vistoria/internal/model"
)

// setupTestDB creates a temporary database whose clock can be moved.
func setupTestDB(t *testing.T) (*SnapshotDB, *time.Time) {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	clock := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db.now = func() time.Time { return clock }
	return db, &clock
}

func testDataset() *model.Dataset {
	d := model.NewDataset([]string{"Prefixo", "Cidade", "Carimbo de data/hora"})
	d.AddRow([]model.CellValue{
		model.Number(12345),
		model.Text("Curitiba"),
		model.Timestamp(time.Date(2026, 3, 9, 8, 30, 0, 0, time.UTC)),
	})
	d.AddRow([]model.CellValue{model.Text("678"), model.Empty(), model.Empty()})
	return d
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, DBFileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{})
		if err == nil {
			t.Fatal("expected error for missing database")
		}
		if !strings.Contains(err.Error(), "database not found") {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

// TestDefaultOptions tests the default options.
func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	if !opts.CreateIfNotExists || !opts.EnableWAL {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

// TestSnapshots tests saving and loading datasets.
func TestSnapshots(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("save and load round trip", func(t *testing.T) {
		t.Parallel()

		db, _ := setupTestDB(t)
		d := testDataset()

		saved, err := db.SaveSnapshot(ctx, "google,xlsx", "google", d)
		if err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
		if saved.ID == "" || saved.RowCount != 2 {
			t.Errorf("unexpected metadata: %+v", saved)
		}

		got, err := db.LatestSnapshot(ctx, "google,xlsx", 5*time.Minute)
		if err != nil {
			t.Fatalf("LatestSnapshot failed: %v", err)
		}
		if got == nil {
			t.Fatal("expected a snapshot")
		}
		if got.ID != saved.ID || got.ServedBy != "google" {
			t.Errorf("unexpected snapshot: %+v", got)
		}
		if !got.CreatedAt.Equal(saved.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
		}
		if diff := cmp.Diff(d.Columns(), got.Dataset.Columns()); diff != "" {
			t.Errorf("columns mismatch (-want +got):\n%s", diff)
		}
		row, _ := got.Dataset.Row(0)
		if n, ok := row.Get("Prefixo").AsNumber(); !ok || n != 12345 {
			t.Errorf("Prefixo = %v", row.Get("Prefixo"))
		}
		if ts, ok := row.Get("Carimbo de data/hora").AsTime(); !ok || ts.Hour() != 8 {
			t.Errorf("Carimbo = %v", row.Get("Carimbo de data/hora"))
		}
	})

	t.Run("returns nil for unknown key", func(t *testing.T) {
		t.Parallel()

		db, _ := setupTestDB(t)
		got, err := db.LatestSnapshot(ctx, "nothing", time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil, got %+v", got)
		}
	})

	t.Run("stale snapshot is a miss", func(t *testing.T) {
		t.Parallel()

		db, clock := setupTestDB(t)
		if _, err := db.SaveSnapshot(ctx, "xlsx", "xlsx", testDataset()); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}

		*clock = clock.Add(5 * time.Minute)
		got, err := db.LatestSnapshot(ctx, "xlsx", 5*time.Minute)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Error("expected stale snapshot to be ignored")
		}

		got, err = db.LatestSnapshot(ctx, "xlsx", 0)
		if err != nil || got == nil {
			t.Fatalf("expected any-age lookup to succeed, got %v, %v", got, err)
		}
	})

	t.Run("newest snapshot wins", func(t *testing.T) {
		t.Parallel()

		db, clock := setupTestDB(t)
		if _, err := db.SaveSnapshot(ctx, "k", "xlsx", testDataset()); err != nil {
			t.Fatal(err)
		}
		*clock = clock.Add(time.Second)
		second, err := db.SaveSnapshot(ctx, "k", "google", model.NewDataset([]string{"A"}))
		if err != nil {
			t.Fatal(err)
		}

		got, err := db.LatestSnapshot(ctx, "k", time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != second.ID || got.RowCount != 0 {
			t.Errorf("expected second snapshot, got %+v", got)
		}

		list, err := db.ListSnapshots(ctx, "k")
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 2 || list[0].ID != second.ID {
			t.Errorf("unexpected listing: %+v", list)
		}
		if list[0].Dataset != nil {
			t.Error("listing should not load datasets")
		}
	})

	t.Run("nil dataset is rejected", func(t *testing.T) {
		t.Parallel()

		db, _ := setupTestDB(t)
		if _, err := db.SaveSnapshot(ctx, "k", "xlsx", nil); err == nil {
			t.Error("expected error for nil dataset")
		}
	})

	t.Run("prune removes old snapshots", func(t *testing.T) {
		t.Parallel()

		db, clock := setupTestDB(t)
		if _, err := db.SaveSnapshot(ctx, "a", "xlsx", testDataset()); err != nil {
			t.Fatal(err)
		}
		*clock = clock.Add(time.Hour)
		if _, err := db.SaveSnapshot(ctx, "b", "xlsx", testDataset()); err != nil {
			t.Fatal(err)
		}

		n, err := db.PruneSnapshots(ctx, 30*time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		if n != 1 {
			t.Errorf("pruned %d snapshots, want 1", n)
		}
		if list, _ := db.ListSnapshots(ctx, "a"); len(list) != 0 {
			t.Errorf("expected key a to be pruned, got %+v", list)
		}
	})
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-03-10T12:00:00.000000000Z", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"2026-03-10 12:00:00", time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)},
		{"garbage", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := parseTimestamp(tt.in); !got.Equal(tt.want) {
				t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
