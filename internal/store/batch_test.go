// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"taxocms/internal/models"
)

func TestResolvedAndFailed(t *testing.T) {
	ctx := context.Background()

	f := Resolved(3)
	if !f.Ready() {
		t.Error("resolved future should be ready")
	}
	if v, err := f.Value(ctx); v != 3 || err != nil {
		t.Errorf("Value: got %d, %v", v, err)
	}

	boom := errors.New("boom")
	g := Failed[int](boom)
	if _, err := g.Value(ctx); !errors.Is(err, boom) {
		t.Errorf("Value: got %v, want %v", err, boom)
	}
}

func TestBatchWithoutDatabase(t *testing.T) {
	ctx := context.Background()
	b := NewBatch(nil)

	if err := b.Execute(ctx); err != nil {
		t.Errorf("empty batch should execute without a database: %v", err)
	}

	f := DeferCount(b, "SELECT 1")
	if f.Ready() {
		t.Error("deferred future should not be ready before execution")
	}
	if b.Len() != 1 {
		t.Errorf("pending: got %d, want 1", b.Len())
	}

	if _, err := f.Value(ctx); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Value: got %v, want ErrNoDatabase", err)
	}
	if !f.Ready() {
		t.Error("failed execution should settle the future")
	}
}

func TestBatchExecutesTogether(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := NewBatch(db)
	one := DeferCount(b, "SELECT 1")
	two := DeferCount(b, "SELECT $1::int", 2)
	rows := DeferRows(b, "SELECT generate_series(1, $1)", pgx.RowTo[int], 3)

	if b.Len() != 3 {
		t.Fatalf("pending: got %d, want 3", b.Len())
	}

	// The first Value runs the whole batch.
	if v, err := one.Value(ctx); err != nil || v != 1 {
		t.Fatalf("one: got %d, %v", v, err)
	}
	if !two.Ready() || !rows.Ready() {
		t.Error("every future of the batch should be settled after one Value call")
	}
	if b.Len() != 0 {
		t.Errorf("pending after execution: got %d, want 0", b.Len())
	}

	if v, _ := two.Value(ctx); v != 2 {
		t.Errorf("two: got %d", v)
	}
	items, err := rows.Value(ctx)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(items) != 3 || items[2] != 3 {
		t.Errorf("rows: got %v", items)
	}

	if err := b.Execute(ctx); err != nil {
		t.Errorf("second Execute should be a no-op: %v", err)
	}
}

func TestBatchQueryError(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := NewBatch(db)
	ok := DeferCount(b, "SELECT 1")
	bad := DeferCount(b, "SELECT * FROM no_such_table_for_batch")

	if err := b.Execute(ctx); err == nil {
		t.Fatal("expected batch error")
	}
	if _, err := bad.Value(ctx); err == nil {
		t.Error("failing query should carry an error")
	}
	if !ok.Ready() {
		t.Error("every future should be settled after a failed execution")
	}
}

func TestBatchEmptyRows(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	b := NewBatch(db)
	f := DeferRows(b, `
		SELECT `+EntityCategoryColumns+`
		FROM entity_categories ec
		WHERE ec.category_id = $1
	`, pgx.RowToStructByName[models.EntityCategory], uuid.New())

	items, err := f.Value(ctx)
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", items)
	}
}
