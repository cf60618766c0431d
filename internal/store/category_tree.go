// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taxocms/internal/database"
	"taxocms/internal/models"
)

// CategoryTreeStore manages category trees and the item keys each tree is
// available for.
type CategoryTreeStore struct {
	db *sql.DB
}

// NewCategoryTreeStore returns a new CategoryTreeStore.
func NewCategoryTreeStore(db *sql.DB) *CategoryTreeStore {
	return &CategoryTreeStore{db: db}
}

// treeSelect joins the available item keys as a comma separated list.
const treeSelect = `
	SELECT t.id, t.name, t.slug, t.description, t.created_at, t.updated_at,
	       COALESCE(string_agg(i.item_key, ',' ORDER BY i.item_key), '')
	FROM category_trees t
	LEFT JOIN category_tree_items i ON i.tree_id = t.id`

func scanTree(scanner interface{ Scan(...any) error }) (*models.CategoryTree, error) {
	var t models.CategoryTree
	var items string
	err := scanner.Scan(&t.ID, &t.Name, &t.Slug, &t.Description, &t.CreatedAt, &t.UpdatedAt, &items)
	if err != nil {
		return nil, err
	}
	t.AvailableFor = []string{}
	if items != "" {
		t.AvailableFor = strings.Split(items, ",")
	}
	return &t, nil
}

// Create inserts a tree and its item keys in one transaction.
func (s *CategoryTreeStore) Create(ctx context.Context, t *models.CategoryTree) (*models.CategoryTree, error) {
	created := *t
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO category_trees (name, slug, description)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at
		`, t.Name, t.Slug, t.Description).Scan(&created.ID, &created.CreatedAt, &created.UpdatedAt); err != nil {
			return err
		}
		for _, key := range t.AvailableFor {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO category_tree_items (tree_id, item_key) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, created.ID, key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create category tree: %w", err)
	}
	if created.AvailableFor == nil {
		created.AvailableFor = []string{}
	}
	return &created, nil
}

// FindByID retrieves a tree by ID. Returns nil if not found.
func (s *CategoryTreeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CategoryTree, error) {
	row := s.db.QueryRowContext(ctx, treeSelect+` WHERE t.id = $1 GROUP BY t.id`, id)
	t, err := scanTree(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category tree by id: %w", err)
	}
	return t, nil
}

// List returns every tree ordered by name.
func (s *CategoryTreeStore) List(ctx context.Context) ([]models.CategoryTree, error) {
	rows, err := s.db.QueryContext(ctx, treeSelect+` GROUP BY t.id ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list category trees: %w", err)
	}
	defer rows.Close()

	var items []models.CategoryTree
	for rows.Next() {
		t, err := scanTree(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category tree: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// DeleteUnused removes a tree only if none of its categories has a
// membership. The tree and its categories are locked first, so a
// membership inserted concurrently either commits before the check or
// waits for the delete and then fails its foreign key. Returns false if
// the tree is missing or in use.
func (s *CategoryTreeStore) DeleteUnused(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			SELECT 1 FROM category_trees WHERE id = $1 FOR UPDATE
		`, id); err != nil {
			return fmt.Errorf("lock category tree: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			SELECT 1 FROM categories WHERE tree_id = $1 FOR UPDATE
		`, id); err != nil {
			return fmt.Errorf("lock tree categories: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			DELETE FROM category_trees
			WHERE id = $1 AND NOT EXISTS (
				SELECT 1 FROM entity_categories ec
				JOIN categories c ON c.id = ec.category_id
				WHERE c.tree_id = $1
			)
		`, id)
		if err != nil {
			return fmt.Errorf("delete category tree: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category tree: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}
