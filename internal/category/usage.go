// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"database/sql"
	"fmt"

	"taxocms/internal/models"
	"taxocms/internal/store"
)

// Usage is the membership count one accessor reports for a tree.
type Usage struct {
	Accessor string `json:"accessor"`
	Count    int    `json:"count"`
}

// UsageChecker asks every registered accessor about category usage. Each
// call builds one batch, so all accessors answer from the same snapshot
// in a single round trip.
type UsageChecker struct {
	registry *Registry
	db       *sql.DB
}

// NewUsageChecker creates a UsageChecker.
func NewUsageChecker(registry *Registry, db *sql.DB) *UsageChecker {
	return &UsageChecker{registry: registry, db: db}
}

// TreeUsage returns the usage count of every accessor for tree, in
// registration order.
func (u *UsageChecker) TreeUsage(ctx context.Context, tree *models.CategoryTree) ([]Usage, error) {
	accessors := u.registry.All()
	b := store.NewBatch(u.db)

	futures := make([]*store.Future[int], len(accessors))
	for i, a := range accessors {
		futures[i] = a.CheckIsUsed(b, tree)
	}
	if err := b.Execute(ctx); err != nil {
		return nil, fmt.Errorf("tree usage: %w", err)
	}

	usage := make([]Usage, len(accessors))
	for i, a := range accessors {
		n, err := futures[i].Value(ctx)
		if err != nil {
			return nil, fmt.Errorf("tree usage %s: %w", a.Name(), err)
		}
		usage[i] = Usage{Accessor: a.Name(), Count: n}
	}
	return usage, nil
}

// IsTreeUsed reports whether any accessor counts a membership in tree.
func (u *UsageChecker) IsTreeUsed(ctx context.Context, tree *models.CategoryTree) (bool, error) {
	usage, err := u.TreeUsage(ctx, tree)
	if err != nil {
		return false, err
	}
	for _, us := range usage {
		if us.Count > 0 {
			return true, nil
		}
	}
	return false, nil
}

// CategoryMemberships returns the memberships of c keyed by accessor name.
// Accessors without memberships map to an empty slice.
func (u *UsageChecker) CategoryMemberships(ctx context.Context, c *models.Category) (map[string][]models.EntityCategory, error) {
	accessors := u.registry.All()
	b := store.NewBatch(u.db)

	futures := make([]*store.Future[[]models.EntityCategory], len(accessors))
	for i, a := range accessors {
		futures[i] = a.QueryEntityCategories(b, c)
	}
	if err := b.Execute(ctx); err != nil {
		return nil, fmt.Errorf("category memberships: %w", err)
	}

	out := make(map[string][]models.EntityCategory, len(accessors))
	for i, a := range accessors {
		items, err := futures[i].Value(ctx)
		if err != nil {
			return nil, fmt.Errorf("category memberships %s: %w", a.Name(), err)
		}
		if items == nil {
			items = []models.EntityCategory{}
		}
		out[a.Name()] = items
	}
	return out, nil
}

// IsCategoryUsed reports whether any accessor has a membership in c.
func (u *UsageChecker) IsCategoryUsed(ctx context.Context, c *models.Category) (bool, error) {
	return u.AnyCategoryUsed(ctx, []models.Category{*c})
}

// AnyCategoryUsed reports whether any accessor has a membership in any of
// cats. All questions travel in one batch.
func (u *UsageChecker) AnyCategoryUsed(ctx context.Context, cats []models.Category) (bool, error) {
	if len(cats) == 0 {
		return false, nil
	}
	accessors := u.registry.All()
	b := store.NewBatch(u.db)

	var futures []*store.Future[[]models.EntityCategory]
	for i := range cats {
		for _, a := range accessors {
			futures = append(futures, a.QueryEntityCategories(b, &cats[i]))
		}
	}
	if err := b.Execute(ctx); err != nil {
		return false, fmt.Errorf("category usage: %w", err)
	}

	for _, f := range futures {
		items, err := f.Value(ctx)
		if err != nil {
			return false, fmt.Errorf("category usage: %w", err)
		}
		if len(items) > 0 {
			return true, nil
		}
	}
	return false, nil
}
