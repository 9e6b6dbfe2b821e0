package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/procgen/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := Open(tmpDir, DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// newWrittenRun builds a run that looks like it completed successfully.
func newWrittenRun(id string, startedAt time.Time) *model.Run {
	run := model.NewRun(id, "in.yaml", "out.json")
	run.StartedAt = startedAt
	run.Discovered = []string{"https://a.example/s", "https://b.example/s", "https://c.example/s"}
	run.Selected = []string{"https://b.example/s", "https://a.example/s"}
	run.Destination = model.MustParseDestination("alice/gid1")
	run.Output = []byte(`{"domains":[]}`)
	run.Written = true
	return run
}

func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested")
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
			t.Errorf("expected database file: %v", err)
		}
		if db.Path() != filepath.Join(dir, FileName) {
			t.Errorf("Path() = %q", db.Path())
		}
	})

	t.Run("missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("reopen existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		db, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if err := db.SaveRun(context.Background(), newWrittenRun("run-1", time.Now())); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
		_ = db.Close()

		db, err = Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer db.Close()

		count, err := db.CountRuns(context.Background())
		if err != nil {
			t.Fatalf("CountRuns() error = %v", err)
		}
		if count != 1 {
			t.Errorf("CountRuns() = %d, want 1", count)
		}
	})
}

func TestHistoryDB_SaveAndGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	started := time.Date(2026, 1, 2, 3, 4, 5, 6, time.UTC)

	if err := db.SaveRun(ctx, newWrittenRun("0f8e6a1c-run", started)); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	rec, err := db.GetRun(ctx, "0f8e6a1c-run")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if rec == nil {
		t.Fatal("expected run record")
	}

	if !rec.Timestamp.Equal(started) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, started)
	}
	if rec.Destination != "alice/gid1" {
		t.Errorf("Destination = %q", rec.Destination)
	}
	if rec.Discovered != 3 || rec.Selected != 2 {
		t.Errorf("counts = %d/%d, want 3/2", rec.Discovered, rec.Selected)
	}
	if len(rec.URLs) != 2 || rec.URLs[0] != "https://b.example/s" {
		t.Errorf("URLs = %v", rec.URLs)
	}
	if rec.ConfigJSON != `{"domains":[]}` {
		t.Errorf("ConfigJSON = %q", rec.ConfigJSON)
	}
	if rec.InputPath != "in.yaml" || rec.OutputPath != "out.json" {
		t.Errorf("paths = %q, %q", rec.InputPath, rec.OutputPath)
	}
}

func TestHistoryDB_GetRunPrefix(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	for i, id := range []string{"abc-1", "abc-2", "xyz-1"} {
		if err := db.SaveRun(ctx, newWrittenRun(id, now.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", id, err)
		}
	}

	t.Run("unique prefix", func(t *testing.T) {
		rec, err := db.GetRun(ctx, "xyz")
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if rec == nil || rec.ID != "xyz-1" {
			t.Errorf("GetRun() = %+v, want xyz-1", rec)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := db.GetRun(ctx, "abc")
		if !errors.Is(err, ErrAmbiguousRunID) {
			t.Errorf("error = %v, want ErrAmbiguousRunID", err)
		}
	})

	t.Run("no match", func(t *testing.T) {
		rec, err := db.GetRun(ctx, "nope")
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil record, got %+v", rec)
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		rec, err := db.GetRun(ctx, "%")
		if err != nil {
			t.Fatalf("GetRun() error = %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil record, got %+v", rec)
		}
	})
}

func TestHistoryDB_ListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		if err := db.SaveRun(ctx, newWrittenRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveRun(%s) error = %v", id, err)
		}
	}

	all, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(all))
	}
	if all[0].ID != "third" || all[2].ID != "first" {
		t.Errorf("order = %s, %s, %s; want newest first", all[0].ID, all[1].ID, all[2].ID)
	}

	limited, err := db.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListRuns(2) returned %d runs", len(limited))
	}
}

func TestHistoryDB_SaveRunRequiresOutput(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	run := model.NewRun("empty", "in.yaml", "out.json")

	err := db.SaveRun(context.Background(), run)
	if !errors.Is(err, ErrRunNotWritten) {
		t.Errorf("error = %v, want ErrRunNotWritten", err)
	}
}

func TestHistoryDB_DuplicateID(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	if err := db.SaveRun(ctx, newWrittenRun("dup", time.Now())); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := db.SaveRun(ctx, newWrittenRun("dup", time.Now())); err == nil {
		t.Error("expected error for duplicate id")
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "RFC3339Nano", input: "2026-01-02T03:04:05.123456789Z"},
		{name: "RFC3339", input: "2026-01-02T03:04:05Z"},
		{name: "sqlite datetime", input: "2026-01-02 03:04:05"},
		{name: "invalid", input: "yesterday", zero: true},
		{name: "empty", input: "", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if got.IsZero() != tt.zero {
				t.Errorf("parseTimestamp(%q) = %v, zero want %v", tt.input, got, tt.zero)
			}
		})
	}
}
