// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category owns category trees and the registry of accessors that
// tell it which entities belong to which categories. The package knows
// nothing about concrete entity kinds; every entity module registers an
// Accessor at startup.
package category

import (
	"taxocms/internal/models"
	"taxocms/internal/store"
)

// Accessor reports category usage for one entity type.
//
// Both methods only queue work on the batch and return a Future. They
// must not execute queries themselves, must not modify data, and must
// count only entities of their own type.
type Accessor interface {
	// Name is the registry key, for example "Pages" or "Images".
	Name() string

	// CheckIsUsed defers a count of memberships of this entity type in
	// any category of tree.
	CheckIsUsed(b *store.Batch, tree *models.CategoryTree) *store.Future[int]

	// QueryEntityCategories defers the membership records of this entity
	// type in category c.
	QueryEntityCategories(b *store.Batch, c *models.Category) *store.Future[[]models.EntityCategory]
}
