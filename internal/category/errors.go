// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import "errors"

var (
	// ErrUnknownAccessorKind is returned when no accessor is registered
	// under a key. It is wrapped together with the offending key.
	ErrUnknownAccessorKind = errors.New("unknown accessor kind")

	// ErrDuplicateAccessor is returned when a key is registered twice.
	ErrDuplicateAccessor = errors.New("accessor already registered")

	// ErrRegistryFrozen is returned when registering after startup.
	ErrRegistryFrozen = errors.New("accessor registry is frozen")

	// ErrTreeInUse is returned when deleting a tree with memberships.
	ErrTreeInUse = errors.New("category tree is in use")

	// ErrCategoryInUse is returned when deleting a category that has
	// memberships in itself or a descendant.
	ErrCategoryInUse = errors.New("category is in use")

	// ErrNotFound is returned for an unknown tree or category.
	ErrNotFound = errors.New("not found")

	// ErrCategoryNotAvailable is returned when assigning a category from
	// a tree that is not available for the entity's accessor key.
	ErrCategoryNotAvailable = errors.New("category tree not available for this item")

	// ErrDuplicateSlug is returned when a slug is already taken.
	ErrDuplicateSlug = errors.New("slug already exists")

	// ErrInvalidInput is returned for empty names and mismatched parents.
	ErrInvalidInput = errors.New("invalid input")
)
