// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"taxocms/internal/category"
	"taxocms/internal/event"
	"taxocms/internal/models"
	"taxocms/internal/storage"
	"taxocms/internal/store"
)

// presignExpiry is how long a presigned URL for private files is valid.
const presignExpiry = 1 * time.Hour

// Upload describes one file to store.
type Upload struct {
	OriginalName string
	ContentType  string
	Body         io.Reader
	Size         int64
	Private      bool
}

// Service handles media uploads, deletions and categories.
type Service struct {
	media      *store.MediaStore
	storage    *storage.Client
	bus        *event.Bus
	categories *category.Service
}

// NewService creates a media Service. s3 may be nil; uploads then fail
// with ErrServiceUnavailable.
func NewService(db *sql.DB, s3 *storage.Client, bus *event.Bus, categories *category.Service) *Service {
	return &Service{
		media:      store.NewMediaStore(db),
		storage:    s3,
		bus:        bus,
		categories: categories,
	}
}

// Available reports whether object storage is configured.
func (s *Service) Available() bool {
	return s.storage != nil
}

// Upload stores the object and its metadata.
func (s *Service) Upload(ctx context.Context, u Upload) (*models.Media, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("upload media: %w", ErrServiceUnavailable)
	}

	bucket := s.storage.PublicBucket()
	if u.Private {
		bucket = s.storage.PrivateBucket()
	}

	now := time.Now()
	fileID := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(u.OriginalName))
	key := fmt.Sprintf("media/%d/%02d/%s%s", now.Year(), now.Month(), fileID, ext)

	if err := s.storage.Upload(ctx, bucket, key, u.ContentType, u.Body, u.Size); err != nil {
		return nil, err
	}

	m, err := s.media.Create(ctx, &models.Media{
		Filename:     fileID + ext,
		OriginalName: u.OriginalName,
		ContentType:  u.ContentType,
		SizeBytes:    u.Size,
		Bucket:       bucket,
		S3Key:        key,
	})
	if err != nil {
		// Do not leave an orphaned object behind.
		if derr := s.storage.Delete(ctx, bucket, key); derr != nil {
			slog.Warn("s3 cleanup after failed insert", "key", key, "error", derr)
		}
		return nil, err
	}
	slog.Info("media uploaded", "media_id", m.ID, "type", m.Type, "size", m.HumanSize())
	return m, nil
}

// Find returns a media record by ID, or nil.
func (s *Service) Find(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	return s.media.FindByID(ctx, id)
}

// URL returns a link to the object: a direct URL for public files and a
// presigned one for private files.
func (s *Service) URL(ctx context.Context, m *models.Media) (string, error) {
	if s.storage == nil {
		return "", ErrServiceUnavailable
	}
	if m.Bucket == s.storage.PublicBucket() {
		return s.storage.FileURL(m.S3Key), nil
	}
	return s.storage.PresignedURL(ctx, m.Bucket, m.S3Key, presignExpiry)
}

// Delete marks media deleted, drops its memberships and publishes
// media:deleted. Moving the object is left to the trash collector; its
// failures never reach the caller. Returns nil if nothing was deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	m, err := s.media.Delete(ctx, id)
	if err != nil || m == nil {
		return m, err
	}
	slog.Info("media deleted", "media_id", id, "key", m.S3Key)
	s.bus.Publish(event.DeletedTopic(string(models.EntityKindMedia)), event.EntityDeleted{
		Kind:     string(models.EntityKindMedia),
		ID:       m.ID,
		Snapshot: m,
	})
	return m, nil
}

// SetCategories replaces the categories of a media record. The accessor
// key follows the media type.
func (s *Service) SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	m, err := s.media.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil || m.IsDeleted() {
		return fmt.Errorf("media %s: %w", id, category.ErrNotFound)
	}
	return s.categories.AssignCategories(ctx, ItemKey(m.Type), models.EntityKindMedia, id, categoryIDs)
}
