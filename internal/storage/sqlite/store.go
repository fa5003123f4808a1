// Package sqlite persists battle outcomes in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"battlecore/internal/battle"
	"battlecore/internal/storage"
	"battlecore/internal/storage/sqlite/migrations"
)

// Store provides SQLite-backed battle result persistence.
type Store struct {
	sqlDB *sql.DB
}

// Open opens a result store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One writer at a time; concurrent batch workers queue on the pool.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// RecordResult persists one battle outcome.
func (s *Store) RecordResult(ctx context.Context, record storage.ResultRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.BattleID = strings.TrimSpace(record.BattleID)
	record.Result = strings.TrimSpace(record.Result)
	if record.BattleID == "" {
		return fmt.Errorf("battle id is required")
	}
	if record.Result == "" {
		return fmt.Errorf("result is required")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO battle_results (
	battle_id,
	encounter,
	result,
	turns,
	survivors,
	seed,
	created_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`,
		record.BattleID,
		record.Encounter,
		record.Result,
		record.Turns,
		record.Survivors,
		record.Seed,
		record.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// ListResults lists newest-first result records.
func (s *Store) ListResults(ctx context.Context, limit int) ([]storage.ResultRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	battle_id,
	encounter,
	result,
	turns,
	survivors,
	seed,
	created_at
FROM battle_results
ORDER BY created_at DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ResultRecord, 0, limit)
	for rows.Next() {
		var r storage.ResultRecord
		var createdAt int64
		if err := rows.Scan(
			&r.ID,
			&r.BattleID,
			&r.Encounter,
			&r.Result,
			&r.Turns,
			&r.Survivors,
			&r.Seed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return records, nil
}

// ResultHandler adapts the store to a battle's result hand-off.
type ResultHandler struct {
	Store     storage.ResultStore
	Encounter string
	Seed      int64
}

func (h ResultHandler) HandleResult(ctx context.Context, out battle.Outcome) error {
	return h.Store.RecordResult(ctx, storage.ResultRecord{
		BattleID:  out.BattleID,
		Encounter: h.Encounter,
		Result:    out.Result.String(),
		Turns:     out.Turns,
		Survivors: len(out.Survivors),
		Seed:      h.Seed,
	})
}

var (
	_ storage.ResultStore  = (*Store)(nil)
	_ battle.ResultHandler = ResultHandler{}
)
