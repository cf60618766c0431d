// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// failure_log.go records side effects that failed after an entity was
// deleted. The deletion itself is never rolled back; this table is the
// only trace an operator gets.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taxocms/internal/event"
)

// FailureLogStore handles side effect failure records. It satisfies
// event.FailureRecorder.
type FailureLogStore struct {
	db *sql.DB
}

// NewFailureLogStore creates a new FailureLogStore.
func NewFailureLogStore(db *sql.DB) *FailureLogStore {
	return &FailureLogStore{db: db}
}

// Record stores one failure.
func (s *FailureLogStore) Record(ctx context.Context, f event.Failure) error {
	var entityID *uuid.UUID
	if f.EntityID != uuid.Nil {
		entityID = &f.EntityID
	}
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO side_effect_failures (topic, entity_id, error)
		VALUES ($1, $2, $3)
	`, string(f.Topic), entityID, msg)
	if err != nil {
		return fmt.Errorf("record side effect failure: %w", err)
	}
	slog.Debug("side effect failure recorded", "topic", f.Topic, "entity_id", f.EntityID)
	return nil
}

// Recent returns the most recent failures, newest first.
func (s *FailureLogStore) Recent(ctx context.Context, limit int) ([]FailureEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, topic, entity_id, error, failed_at
		FROM side_effect_failures
		ORDER BY failed_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failure log: %w", err)
	}
	defer rows.Close()

	var entries []FailureEntry
	for rows.Next() {
		var e FailureEntry
		if err := rows.Scan(&e.ID, &e.Topic, &e.EntityID, &e.Error, &e.FailedAt); err != nil {
			return nil, fmt.Errorf("scan failure log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FailureEntry is a single recorded side effect failure.
type FailureEntry struct {
	ID       int64      `json:"id"`
	Topic    string     `json:"topic"`
	EntityID *uuid.UUID `json:"entity_id"`
	Error    string     `json:"error"`
	FailedAt time.Time  `json:"failed_at"`
}
