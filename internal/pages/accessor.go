// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pages

import (
	"github.com/jackc/pgx/v5"

	"taxocms/internal/models"
	"taxocms/internal/store"
)

// ItemKey is the accessor key under which pages are categorized.
const ItemKey = "Pages"

// Accessor reports page memberships. Only rows pointing at an existing
// page are counted.
type Accessor struct{}

// Name returns ItemKey.
func (Accessor) Name() string { return ItemKey }

// CheckIsUsed defers a count of page memberships in any category of tree.
func (Accessor) CheckIsUsed(b *store.Batch, tree *models.CategoryTree) *store.Future[int] {
	return store.DeferCount(b, `
		SELECT COUNT(*)
		FROM entity_categories ec
		JOIN categories c ON c.id = ec.category_id
		JOIN pages p ON p.id = ec.entity_id
		WHERE ec.entity_kind = $1 AND c.tree_id = $2
	`, models.EntityKindPage, tree.ID)
}

// QueryEntityCategories defers the page memberships of category c.
func (Accessor) QueryEntityCategories(b *store.Batch, c *models.Category) *store.Future[[]models.EntityCategory] {
	return store.DeferRows(b, `
		SELECT `+store.EntityCategoryColumns+`
		FROM entity_categories ec
		JOIN pages p ON p.id = ec.entity_id
		WHERE ec.entity_kind = $1 AND ec.category_id = $2
		ORDER BY ec.created_at
	`, pgx.RowToStructByName[models.EntityCategory], models.EntityKindPage, c.ID)
}
