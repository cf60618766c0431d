// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"taxocms/internal/models"
	"taxocms/internal/slug"
	"taxocms/internal/store"
)

// Service manages trees and categories and guards their deletion with the
// accessor registry.
type Service struct {
	registry *Registry
	usage    *UsageChecker
	trees    *store.CategoryTreeStore
	cats     *store.CategoryStore
	links    *store.EntityCategoryStore
}

// NewService creates a Service backed by db.
func NewService(registry *Registry, db *sql.DB) *Service {
	return &Service{
		registry: registry,
		usage:    NewUsageChecker(registry, db),
		trees:    store.NewCategoryTreeStore(db),
		cats:     store.NewCategoryStore(db),
		links:    store.NewEntityCategoryStore(db),
	}
}

// Usage returns the checker the service uses.
func (s *Service) Usage() *UsageChecker {
	return s.usage
}

// CreateTree creates a tree available for the given accessor keys. Every
// key must be registered.
func (s *Service) CreateTree(ctx context.Context, name, description string, availableFor []string) (*models.CategoryTree, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("create tree: name is required: %w", ErrInvalidInput)
	}
	for _, key := range availableFor {
		if _, err := s.registry.Resolve(key); err != nil {
			return nil, fmt.Errorf("create tree: %w", err)
		}
	}

	tree, err := s.trees.Create(ctx, &models.CategoryTree{
		Name:         name,
		Slug:         slug.Generate(name),
		Description:  description,
		AvailableFor: availableFor,
	})
	if err != nil {
		return nil, duplicateOr(err)
	}
	slog.Info("category tree created", "tree_id", tree.ID, "slug", tree.Slug)
	return tree, nil
}

// ListTrees returns every tree without categories.
func (s *Service) ListTrees(ctx context.Context) ([]models.CategoryTree, error) {
	trees, err := s.trees.List(ctx)
	if err != nil {
		return nil, err
	}
	if trees == nil {
		trees = []models.CategoryTree{}
	}
	return trees, nil
}

// Tree returns a tree with its nested categories.
func (s *Service) Tree(ctx context.Context, id uuid.UUID) (*models.CategoryTree, error) {
	tree, err := s.findTree(ctx, id)
	if err != nil {
		return nil, err
	}
	tree.Categories, err = s.cats.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// AddCategory adds a category to a tree. A non-nil parent must belong to
// the same tree. A negative sortOrder appends after the last sibling.
func (s *Service) AddCategory(ctx context.Context, treeID uuid.UUID, parentID *uuid.UUID, name string, sortOrder int) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("add category: name is required: %w", ErrInvalidInput)
	}
	if _, err := s.findTree(ctx, treeID); err != nil {
		return nil, err
	}
	if parentID != nil {
		parent, err := s.findCategory(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.TreeID != treeID {
			return nil, fmt.Errorf("add category: parent belongs to another tree: %w", ErrInvalidInput)
		}
	}
	if sortOrder < 0 {
		next, err := s.cats.NextSortOrder(ctx, treeID, parentID)
		if err != nil {
			return nil, err
		}
		sortOrder = next
	}

	c, err := s.cats.Create(ctx, &models.Category{
		TreeID:    treeID,
		ParentID:  parentID,
		Name:      name,
		Slug:      slug.Generate(name),
		SortOrder: sortOrder,
	})
	if err != nil {
		return nil, duplicateOr(err)
	}
	return c, nil
}

// TreeUsage returns the per-accessor usage of a tree.
func (s *Service) TreeUsage(ctx context.Context, id uuid.UUID) ([]Usage, error) {
	tree, err := s.findTree(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.usage.TreeUsage(ctx, tree)
}

// CategoryMemberships returns the memberships of a category keyed by
// accessor name.
func (s *Service) CategoryMemberships(ctx context.Context, id uuid.UUID) (map[string][]models.EntityCategory, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.usage.CategoryMemberships(ctx, c)
}

// DeleteTree deletes a tree unless an accessor reports usage.
func (s *Service) DeleteTree(ctx context.Context, id uuid.UUID) error {
	tree, err := s.findTree(ctx, id)
	if err != nil {
		return err
	}
	used, err := s.usage.IsTreeUsed(ctx, tree)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("delete tree %s: %w", tree.Slug, ErrTreeInUse)
	}
	// A membership added after the usage check still blocks the delete.
	ok, err := s.trees.DeleteUnused(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.findTree(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("delete tree %s: %w", tree.Slug, ErrTreeInUse)
	}
	slog.Info("category tree deleted", "tree_id", id)
	return nil
}

// DeleteCategory deletes a category and its descendants unless an
// accessor reports a membership in any of them.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	sub, err := s.cats.Subtree(ctx, id)
	if err != nil {
		return err
	}
	if len(sub) == 0 {
		return fmt.Errorf("delete category: %w", ErrNotFound)
	}
	used, err := s.usage.AnyCategoryUsed(ctx, sub)
	if err != nil {
		return err
	}
	if used {
		return fmt.Errorf("delete category %s: %w", sub[0].Slug, ErrCategoryInUse)
	}
	ok, err := s.cats.DeleteUnused(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.findCategory(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("delete category %s: %w", sub[0].Slug, ErrCategoryInUse)
	}
	slog.Info("category deleted", "category_id", id, "descendants", len(sub)-1)
	return nil
}

// AssignCategories replaces the memberships of one entity. itemKey is the
// accessor key the entity is categorized under; each category's tree must
// be available for it.
func (s *Service) AssignCategories(ctx context.Context, itemKey string, kind models.EntityKind, entityID uuid.UUID, categoryIDs []uuid.UUID) error {
	if _, err := s.registry.Resolve(itemKey); err != nil {
		return fmt.Errorf("assign categories: %w", err)
	}

	trees := map[uuid.UUID]*models.CategoryTree{}
	for _, cid := range categoryIDs {
		c, err := s.findCategory(ctx, cid)
		if err != nil {
			return err
		}
		tree, ok := trees[c.TreeID]
		if !ok {
			tree, err = s.findTree(ctx, c.TreeID)
			if err != nil {
				return err
			}
			trees[c.TreeID] = tree
		}
		if !tree.IsAvailableFor(itemKey) {
			return fmt.Errorf("assign category %s to %s: %w", c.Slug, itemKey, ErrCategoryNotAvailable)
		}
	}
	return s.links.Replace(ctx, kind, entityID, categoryIDs)
}

func (s *Service) findTree(ctx context.Context, id uuid.UUID) (*models.CategoryTree, error) {
	tree, err := s.trees.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, fmt.Errorf("category tree %s: %w", id, ErrNotFound)
	}
	return tree, nil
}

func (s *Service) findCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.cats.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// duplicateOr maps unique violations to ErrDuplicateSlug.
func duplicateOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicateSlug, pgErr.ConstraintName)
	}
	return err
}
