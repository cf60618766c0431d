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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, tree_id, parent_id, name, slug, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.TreeID, &c.ParentID, &c.Name, &c.Slug,
		&c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByTree returns all categories of a tree ordered by sort_order.
func (s *CategoryStore) ListByTree(ctx context.Context, treeID uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE tree_id = $1
		ORDER BY sort_order, name
	`, treeID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// Tree returns the categories of a tree as a nested structure.
func (s *CategoryStore) Tree(ctx context.Context, treeID uuid.UUID) ([]models.Category, error) {
	flat, err := s.ListByTree(ctx, treeID)
	if err != nil {
		return nil, err
	}
	return buildTree(flat, nil, 0), nil
}

// buildTree recursively builds a tree from a flat list.
func buildTree(flat []models.Category, parentID *uuid.UUID, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Depth = depth
			c.Children = buildTree(flat, &c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (tree_id, parent_id, name, slug, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.TreeID, c.ParentID, c.Name, c.Slug, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Delete removes a category by ID. Descendants and memberships are removed
// by ON DELETE CASCADE. Returns false if no row matched.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

// subtreeIDs selects the ids of a category and all of its descendants.
const subtreeIDs = `
	WITH RECURSIVE sub AS (
		SELECT id FROM categories WHERE id = $1
		UNION ALL
		SELECT c.id FROM categories c JOIN sub ON c.parent_id = sub.id
	)
	SELECT id FROM sub`

// DeleteUnused removes a category and its descendants only if none of
// them has a membership. The subtree rows are locked first, so a
// membership inserted concurrently either commits before the check or
// waits for the delete and then fails its foreign key. Returns false if
// the category is missing or in use.
func (s *CategoryStore) DeleteUnused(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			SELECT 1 FROM categories WHERE id IN (`+subtreeIDs+`) FOR UPDATE
		`, id); err != nil {
			return fmt.Errorf("lock category subtree: %w", err)
		}
		res, err := tx.ExecContext(ctx, `
			DELETE FROM categories
			WHERE id = $1 AND NOT EXISTS (
				SELECT 1 FROM entity_categories
				WHERE category_id IN (`+subtreeIDs+`)
			)
		`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

// Subtree returns the category and all of its descendants.
func (s *CategoryStore) Subtree(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH RECURSIVE sub AS (
			SELECT `+categoryColumns+` FROM categories WHERE id = $1
			UNION ALL
			SELECT c.id, c.tree_id, c.parent_id, c.name, c.slug, c.sort_order,
			       c.created_at, c.updated_at
			FROM categories c
			JOIN sub ON c.parent_id = sub.id
		)
		SELECT `+categoryColumns+` FROM sub
	`, id)
	if err != nil {
		return nil, fmt.Errorf("category subtree: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// NextSortOrder returns the next sort_order value for a given parent
// within a tree.
func (s *CategoryStore) NextSortOrder(ctx context.Context, treeID uuid.UUID, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE tree_id = $1 AND parent_id IS NULL`, treeID).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE tree_id = $1 AND parent_id = $2`, treeID, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
