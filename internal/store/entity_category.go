// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"taxocms/internal/database"
	"taxocms/internal/models"
)

// EntityCategoryStore manages category memberships of every entity kind.
type EntityCategoryStore struct {
	db *sql.DB
}

// NewEntityCategoryStore returns a new EntityCategoryStore.
func NewEntityCategoryStore(db *sql.DB) *EntityCategoryStore {
	return &EntityCategoryStore{db: db}
}

// EntityCategoryColumns lists the columns selected for memberships, in the
// order scanEntityCategory expects. Column names match the db tags of
// models.EntityCategory.
const EntityCategoryColumns = `ec.id, ec.entity_kind, ec.entity_id, ec.category_id, ec.created_at`

func scanEntityCategory(scanner interface{ Scan(...any) error }) (*models.EntityCategory, error) {
	var ec models.EntityCategory
	if err := scanner.Scan(&ec.ID, &ec.EntityKind, &ec.EntityID, &ec.CategoryID, &ec.CreatedAt); err != nil {
		return nil, err
	}
	return &ec, nil
}

// ListByEntity returns the memberships of one entity.
func (s *EntityCategoryStore) ListByEntity(ctx context.Context, kind models.EntityKind, entityID uuid.UUID) ([]models.EntityCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+EntityCategoryColumns+`
		FROM entity_categories ec
		WHERE ec.entity_kind = $1 AND ec.entity_id = $2
		ORDER BY ec.created_at
	`, kind, entityID)
	if err != nil {
		return nil, fmt.Errorf("list entity categories: %w", err)
	}
	defer rows.Close()

	items := []models.EntityCategory{}
	for rows.Next() {
		ec, err := scanEntityCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entity category: %w", err)
		}
		items = append(items, *ec)
	}
	return items, rows.Err()
}

// Replace sets the memberships of one entity to exactly categoryIDs.
// Duplicate ids collapse into a single membership.
func (s *EntityCategoryStore) Replace(ctx context.Context, kind models.EntityKind, entityID uuid.UUID, categoryIDs []uuid.UUID) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteEntityCategories(ctx, tx, kind, entityID); err != nil {
			return err
		}
		for _, id := range categoryIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO entity_categories (entity_kind, entity_id, category_id)
				VALUES ($1, $2, $3)
				ON CONFLICT (entity_kind, entity_id, category_id) DO NOTHING
			`, kind, entityID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace entity categories: %w", err)
	}
	return nil
}

// deleteEntityCategories removes every membership of one entity. Entity
// stores call it inside the transaction that deletes the entity.
func deleteEntityCategories(ctx context.Context, q database.Querier, kind models.EntityKind, entityID uuid.UUID) error {
	_, err := q.ExecContext(ctx, `
		DELETE FROM entity_categories WHERE entity_kind = $1 AND entity_id = $2
	`, kind, entityID)
	return err
}
