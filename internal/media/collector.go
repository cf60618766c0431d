// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"context"
	"database/sql"
	"fmt"

	"taxocms/internal/config"
	"taxocms/internal/models"
	"taxocms/internal/storage"
	"taxocms/internal/store"
)

// FileTrasher runs one trash sweep.
type FileTrasher interface {
	MoveFilesToTrash(ctx context.Context) error
}

// Scope holds what one collector run resolves fresh: the runtime setting
// and the file service. Files is nil when storage is not configured.
type Scope struct {
	MoveDeletedFilesToTrash bool
	Files                   FileTrasher
}

// ScopeFunc builds a new Scope for every run.
type ScopeFunc func(ctx context.Context) (*Scope, error)

// NewScopeFunc returns a ScopeFunc that reads the move-to-trash setting
// from site_settings, falling back to the configured default, and hands
// out one TrashService bound to s3. s3 may be nil. Sharing the service
// serializes sweeps started by different bus workers and the scheduler.
func NewScopeFunc(db *sql.DB, s3 *storage.Client, opts config.StorageOptions) ScopeFunc {
	settings := store.NewSiteSettingStore(db)
	var files FileTrasher
	if s3 != nil {
		files = NewTrashService(store.NewMediaStore(db), s3, opts.TrashPrefix)
	}
	return func(ctx context.Context) (*Scope, error) {
		enabled, err := settings.Bool(ctx, models.SettingMoveDeletedFilesToTrash, opts.MoveDeletedFilesToTrash)
		if err != nil {
			return nil, err
		}
		return &Scope{MoveDeletedFilesToTrash: enabled, Files: files}, nil
	}
}

// Collector moves deleted files to the trash after media deletions.
type Collector struct {
	scope ScopeFunc
}

// NewCollector creates a Collector.
func NewCollector(scope ScopeFunc) *Collector {
	return &Collector{scope: scope}
}

// HandleDeleted is the media:deleted handler. Its error goes to the event
// bus supervisor and never back to the deleting request.
func (c *Collector) HandleDeleted(ctx context.Context, _ any) error {
	return c.Sweep(ctx)
}

// Sweep runs the collector once if the setting is enabled.
func (c *Collector) Sweep(ctx context.Context) error {
	scope, err := c.scope(ctx)
	if err != nil {
		return fmt.Errorf("start deleted media trash collector: %w", err)
	}
	if !scope.MoveDeletedFilesToTrash {
		return nil
	}
	if scope.Files == nil {
		return fmt.Errorf("start deleted media trash collector: %w", ErrServiceUnavailable)
	}
	return scope.Files.MoveFilesToTrash(ctx)
}
