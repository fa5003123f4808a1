// Package storage defines persistence records for finished battles.
package storage

import (
	"context"
	"time"
)

// ResultRecord is one persisted battle outcome.
type ResultRecord struct {
	ID        int64
	BattleID  string
	Encounter string
	Result    string
	Turns     int
	Survivors int
	Seed      int64
	CreatedAt time.Time
}

// ResultStore persists and lists battle outcomes.
type ResultStore interface {
	RecordResult(ctx context.Context, record ResultRecord) error
	ListResults(ctx context.Context, limit int) ([]ResultRecord, error)
}
