// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"taxocms/internal/models"
	"taxocms/internal/storage"
)

// ErrServiceUnavailable is returned when the trash collector runs without
// object storage.
var ErrServiceUnavailable = errors.New("media file service unavailable")

// trashBatchSize caps how many files one sweep moves.
const trashBatchSize = 500

// ObjectMover moves an object inside a bucket.
type ObjectMover interface {
	Move(ctx context.Context, bucket, srcKey, dstKey string) error
}

// TrashStore is the part of the media store the trash service needs.
type TrashStore interface {
	PendingTrash(ctx context.Context, limit int) ([]models.Media, error)
	MarkTrashed(ctx context.Context, id uuid.UUID, trashKey string) error
}

// TrashService moves the objects of deleted media under the trash prefix.
// Sweeps on one TrashService run one at a time, so concurrent callers
// never move the same pending file twice.
type TrashService struct {
	mu     sync.Mutex
	store  TrashStore
	mover  ObjectMover
	prefix string
}

// NewTrashService creates a TrashService.
func NewTrashService(st TrashStore, mover ObjectMover, prefix string) *TrashService {
	return &TrashService{store: st, mover: mover, prefix: prefix}
}

// MoveFilesToTrash moves every deleted, not yet trashed file. A failing
// file does not stop the others; all failures are joined into the
// returned error and those files are retried on the next sweep.
func (s *TrashService) MoveFilesToTrash(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.store.PendingTrash(ctx, trashBatchSize)
	if err != nil {
		return fmt.Errorf("move files to trash: %w", err)
	}

	var errs []error
	moved := 0
	for _, m := range pending {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		dst := storage.TrashKey(s.prefix, m.S3Key)
		if err := s.mover.Move(ctx, m.Bucket, m.S3Key, dst); err != nil {
			errs = append(errs, fmt.Errorf("trash media %s: %w", m.ID, err))
			continue
		}
		if err := s.store.MarkTrashed(ctx, m.ID, dst); err != nil {
			errs = append(errs, fmt.Errorf("trash media %s: %w", m.ID, err))
			continue
		}
		moved++
	}

	if moved > 0 || len(errs) > 0 {
		slog.Info("media trash sweep finished", "moved", moved, "failed", len(errs), "pending", len(pending))
	}
	return errors.Join(errs...)
}
