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

// PageStore handles page persistence.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, title, page_url, status, created_at, updated_at`

func scanPage(scanner interface{ Scan(...any) error }) (*models.Page, error) {
	var p models.Page
	if err := scanner.Scan(&p.ID, &p.Title, &p.URL, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new page and returns it with the generated ID.
func (s *PageStore) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO pages (title, page_url, status)
		VALUES ($1, $2, $3)
		RETURNING `+pageColumns,
		p.Title, p.URL, p.Status,
	)
	created, err := scanPage(row)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return created, nil
}

// FindByID retrieves a page by its UUID. Returns nil if not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindByURL retrieves a page by its URL. Returns nil if not found.
func (s *PageStore) FindByURL(ctx context.Context, url string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE page_url = $1`, url))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by url: %w", err)
	}
	return p, nil
}

// Delete removes a page and its category memberships in one transaction
// and returns the deleted row. Returns nil if the page does not exist.
func (s *PageStore) Delete(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	var deleted *models.Page
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := deleteEntityCategories(ctx, tx, models.EntityKindPage, id); err != nil {
			return err
		}
		p, err := scanPage(tx.QueryRowContext(ctx, `DELETE FROM pages WHERE id = $1 RETURNING `+pageColumns, id))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		deleted = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete page: %w", err)
	}
	return deleted, nil
}
