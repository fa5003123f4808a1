package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"battlecore/internal/battle"
	"battlecore/internal/combat"
	"battlecore/internal/storage"
)

func TestRecordAndListResults(t *testing.T) {
	store := openTempStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.RecordResult(context.Background(), storage.ResultRecord{
		BattleID:  "b-1",
		Encounter: "golem-cave",
		Result:    "defeat",
		Turns:     12,
		Seed:      1,
		CreatedAt: now,
	}); err != nil {
		t.Fatalf("record result: %v", err)
	}
	if err := store.RecordResult(context.Background(), storage.ResultRecord{
		BattleID:  "b-2",
		Encounter: "golem-cave",
		Result:    "victory",
		Turns:     9,
		Survivors: 2,
		Seed:      2,
		CreatedAt: now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("record result second: %v", err)
	}

	results, err := store.ListResults(context.Background(), 10)
	if err != nil {
		t.Fatalf("list results: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results len = %d, want 2", len(results))
	}
	if results[0].BattleID != "b-2" || results[0].Survivors != 2 {
		t.Fatalf("results[0] = %+v", results[0])
	}
	if !results[1].CreatedAt.Equal(now) {
		t.Fatalf("results[1].created_at = %v, want %v", results[1].CreatedAt, now)
	}
}

func TestRecordResultValidation(t *testing.T) {
	store := openTempStore(t)
	if err := store.RecordResult(context.Background(), storage.ResultRecord{}); err == nil {
		t.Fatal("expected validation error for empty record")
	}
	if _, err := store.ListResults(context.Background(), 0); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestRecordResultCanceled(t *testing.T) {
	store := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.RecordResult(ctx, storage.ResultRecord{BattleID: "b", Result: "draw"}); err == nil {
		t.Fatal("expected context error")
	}
}

func TestResultHandler(t *testing.T) {
	store := openTempStore(t)
	h := ResultHandler{Store: store, Encounter: "golem-cave", Seed: 42}
	out := battle.Outcome{
		BattleID:  "b-9",
		Result:    combat.ResultVictory,
		Turns:     4,
		Survivors: []combat.Info{{Handle: 1}},
	}
	if err := h.HandleResult(context.Background(), out); err != nil {
		t.Fatalf("handle result: %v", err)
	}
	results, err := store.ListResults(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 1 || results[0].Result != "victory" || results[0].Seed != 42 || results[0].Survivors != 1 {
		t.Fatalf("stored = %+v", results)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := store.RecordResult(context.Background(), storage.ResultRecord{BattleID: "b", Result: "draw"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	results, err := store.ListResults(context.Background(), 5)
	if err != nil || len(results) != 1 {
		t.Fatalf("after reopen: %v, %d results", err, len(results))
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	var journal string
	if err := store.sqlDB.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journal); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if !strings.EqualFold(journal, "wal") {
		t.Fatalf("journal_mode = %q, want wal", journal)
	}
	var busy int
	if err := store.sqlDB.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&busy); err != nil {
		t.Fatalf("busy_timeout: %v", err)
	}
	if busy != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", busy)
	}
	var fk int
	if err := store.sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Fatalf("foreign_keys = %d, want 1", fk)
	}
}

func TestConcurrentRecordResult(t *testing.T) {
	store := openTempStore(t)
	const workers, perWorker = 8, 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				errs <- store.RecordResult(context.Background(), storage.ResultRecord{
					BattleID: fmt.Sprintf("b-%d-%d", w, i),
					Result:   "victory",
				})
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent record: %v", err)
		}
	}
	results, err := store.ListResults(context.Background(), workers*perWorker+1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != workers*perWorker {
		t.Fatalf("recorded %d results, want %d", len(results), workers*perWorker)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestUpSection(t *testing.T) {
	got := upSection("-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n")
	if got != "\nCREATE TABLE a (x INT);\n" {
		t.Fatalf("up section = %q", got)
	}
	if upSection("SELECT 1;") != "SELECT 1;" {
		t.Fatalf("file without markers should be all up")
	}
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "results.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})
	return store
}
