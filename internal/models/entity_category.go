// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EntityKind tags which per-kind table an entity_categories row points into.
type EntityKind string

const (
	EntityKindPage  EntityKind = "page"
	EntityKindMedia EntityKind = "media"
)

// EntityCategory links one entity instance to one category. The pair
// (EntityKind, EntityID, CategoryID) is unique.
type EntityCategory struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	EntityKind EntityKind `json:"entity_kind" db:"entity_kind"`
	EntityID   uuid.UUID  `json:"entity_id" db:"entity_id"`
	CategoryID uuid.UUID  `json:"category_id" db:"category_id"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
