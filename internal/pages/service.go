// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pages

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"taxocms/internal/cache"
	"taxocms/internal/category"
	"taxocms/internal/event"
	"taxocms/internal/models"
	"taxocms/internal/store"
)

var (
	// ErrInvalidURL is returned for page URLs that do not start with "/".
	ErrInvalidURL = errors.New("page url must start with /")

	// ErrDuplicateURL is returned when another page already uses the URL.
	ErrDuplicateURL = errors.New("page url already exists")
)

// Service handles page operations that need more than the store.
type Service struct {
	pages      *store.PageStore
	cache      *cache.ExistsCache
	bus        *event.Bus
	categories *category.Service
}

// NewService creates a page Service. cache may be nil.
func NewService(db *sql.DB, c *cache.ExistsCache, bus *event.Bus, categories *category.Service) *Service {
	return &Service{
		pages:      store.NewPageStore(db),
		cache:      c,
		bus:        bus,
		categories: categories,
	}
}

// NormalizeURL trims whitespace and a trailing slash, keeping "/" as is.
func NormalizeURL(url string) string {
	url = strings.TrimSpace(url)
	if len(url) > 1 {
		url = strings.TrimRight(url, "/")
		if url == "" {
			url = "/"
		}
	}
	return url
}

// Create stores a new page.
func (s *Service) Create(ctx context.Context, title, url string, status models.PageStatus) (*models.Page, error) {
	url = NormalizeURL(url)
	if !strings.HasPrefix(url, "/") {
		return nil, fmt.Errorf("create page %q: %w", url, ErrInvalidURL)
	}
	if status == "" {
		status = models.PageStatusDraft
	}
	p, err := s.pages.Create(ctx, &models.Page{Title: strings.TrimSpace(title), URL: url, Status: status})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("create page %q: %w", url, ErrDuplicateURL)
		}
		return nil, err
	}
	// A cached miss for this URL is now stale.
	s.cache.Invalidate(ctx, url)
	slog.Info("page created", "page_id", p.ID, "url", url)
	return p, nil
}

// Find returns a page by ID, or nil.
func (s *Service) Find(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	return s.pages.FindByID(ctx, id)
}

// ExistsByURL reports whether a page is stored at url.
func (s *Service) ExistsByURL(ctx context.Context, url string) (models.PageExists, error) {
	url = NormalizeURL(url)
	if res, ok := s.cache.Get(ctx, url); ok {
		return res, nil
	}
	p, err := s.pages.FindByURL(ctx, url)
	if err != nil {
		return models.PageExists{}, err
	}
	res := models.NewPageExists(p)
	s.cache.Set(ctx, url, res)
	return res, nil
}

// ExistsByID reports whether a page with id is stored.
func (s *Service) ExistsByID(ctx context.Context, id uuid.UUID) (models.PageExists, error) {
	p, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return models.PageExists{}, err
	}
	return models.NewPageExists(p), nil
}

// Delete removes a page with its memberships and publishes page:deleted.
// Returns nil if the page did not exist.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p, err := s.pages.Delete(ctx, id)
	if err != nil || p == nil {
		return p, err
	}
	// Drop the cached hit now; the page:deleted handler only backs this up.
	s.cache.Invalidate(ctx, p.URL)
	slog.Info("page deleted", "page_id", id, "url", p.URL)
	s.bus.Publish(event.DeletedTopic(string(models.EntityKindPage)), event.EntityDeleted{
		Kind:     string(models.EntityKindPage),
		ID:       p.ID,
		Snapshot: p,
	})
	return p, nil
}

// SetCategories replaces the categories of a page.
func (s *Service) SetCategories(ctx context.Context, id uuid.UUID, categoryIDs []uuid.UUID) error {
	p, err := s.pages.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("page %s: %w", id, category.ErrNotFound)
	}
	return s.categories.AssignCategories(ctx, ItemKey, models.EntityKindPage, id, categoryIDs)
}
