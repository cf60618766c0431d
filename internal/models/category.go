// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures shared across the stores,
// the category registry, and the HTTP API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryTree is a named taxonomy. It owns its categories; deleting a tree
// deletes every category in it.
type CategoryTree struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// AvailableFor lists the categorizable item keys (accessor names) this
	// tree may be used by, e.g. "Pages" or "Images".
	AvailableFor []string `json:"available_for"`

	// Virtual field populated by store methods.
	Categories []Category `json:"categories,omitempty"`
}

// IsAvailableFor reports whether the tree accepts items of the given key.
func (t *CategoryTree) IsAvailableFor(key string) bool {
	for _, k := range t.AvailableFor {
		if k == key {
			return true
		}
	}
	return false
}

// Category is one node of a category tree. ParentID, when set, points to
// another category of the same tree.
type Category struct {
	ID        uuid.UUID  `json:"id"`
	TreeID    uuid.UUID  `json:"tree_id"`
	ParentID  *uuid.UUID `json:"parent_id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Virtual fields populated by store methods.
	Children []Category `json:"children,omitempty"`
	Depth    int        `json:"depth"`
}
