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

// MediaStore handles all media-related database operations.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// mediaColumns lists the columns selected in media queries.
const mediaColumns = `id, media_type, filename, original_name, content_type, size_bytes,
	bucket, s3_key, deleted_at, trashed_at, created_at`

// scanMedia scans a media row from the result set.
func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.ID, &m.Type, &m.Filename, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.Bucket, &m.S3Key, &m.DeletedAt, &m.TrashedAt, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new media record and returns it with the generated ID.
// An empty Type is derived from the content type.
func (s *MediaStore) Create(ctx context.Context, m *models.Media) (*models.Media, error) {
	mediaType := m.Type
	if mediaType == "" {
		mediaType = models.MediaTypeFor(m.ContentType)
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO media (media_type, filename, original_name, content_type, size_bytes,
			bucket, s3_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mediaColumns,
		mediaType, m.Filename, m.OriginalName, m.ContentType, m.SizeBytes,
		m.Bucket, m.S3Key,
	)
	created, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single media record by its UUID, including deleted
// records that have not been purged.
func (s *MediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = $1`, id)
	m, err := scanMedia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// Delete marks a media record deleted and removes its category memberships
// in one transaction. The object stays in storage until it is moved to the
// trash. Returns nil if the record does not exist or is already deleted.
func (s *MediaStore) Delete(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var deleted *models.Media
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		m, err := scanMedia(tx.QueryRowContext(ctx, `
			UPDATE media SET deleted_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL
			RETURNING `+mediaColumns, id))
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		if err := deleteEntityCategories(ctx, tx, models.EntityKindMedia, id); err != nil {
			return err
		}
		deleted = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("delete media: %w", err)
	}
	return deleted, nil
}

// PendingTrash returns deleted media whose objects have not been moved to
// the trash yet, oldest first.
func (s *MediaStore) PendingTrash(ctx context.Context, limit int) ([]models.Media, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+mediaColumns+`
		FROM media
		WHERE deleted_at IS NOT NULL AND trashed_at IS NULL
		ORDER BY deleted_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending trash: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// MarkTrashed records that the object now lives under trashKey.
func (s *MediaStore) MarkTrashed(ctx context.Context, id uuid.UUID, trashKey string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE media SET trashed_at = NOW(), s3_key = $1 WHERE id = $2
	`, trashKey, id)
	if err != nil {
		return fmt.Errorf("mark media trashed: %w", err)
	}
	return nil
}
