// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxocms/internal/event"
)

func TestFailureLogStoreRecord(t *testing.T) {
	db := testDB(t)
	s := NewFailureLogStore(db)
	ctx := context.Background()

	entityID := uuid.New()
	t.Cleanup(func() {
		db.Exec("DELETE FROM side_effect_failures WHERE entity_id = $1", entityID)
	})

	err := s.Record(ctx, event.Failure{
		Topic:    event.DeletedTopic("media"),
		EntityID: entityID,
		Err:      errors.New("bucket unreachable"),
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	var count int
	err = db.QueryRow(
		"SELECT COUNT(*) FROM side_effect_failures WHERE entity_id = $1", entityID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 failure entry, got %d", count)
	}
}

func TestFailureLogStoreRecent(t *testing.T) {
	db := testDB(t)
	s := NewFailureLogStore(db)
	ctx := context.Background()

	id1 := uuid.New()
	id2 := uuid.New()
	t.Cleanup(func() {
		db.Exec("DELETE FROM side_effect_failures WHERE entity_id IN ($1, $2)", id1, id2)
	})

	s.Record(ctx, event.Failure{Topic: "media:deleted", EntityID: id1, Err: errors.New("first")})
	s.Record(ctx, event.Failure{Topic: "page:deleted", EntityID: id2, Err: errors.New("second")})

	entries, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 entries, got %d", len(entries))
	}

	found := map[uuid.UUID]string{}
	for _, e := range entries {
		if e.EntityID != nil {
			found[*e.EntityID] = e.Error
		}
	}
	if found[id1] != "first" || found[id2] != "second" {
		t.Errorf("recent entries missing recorded failures: %v", found)
	}
}
