// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pages is the page entity module: its category accessor, the
// page-exists lookup, and cache upkeep after deletions.
package pages

import (
	"context"
	"fmt"

	"taxocms/internal/cache"
	"taxocms/internal/category"
	"taxocms/internal/event"
	"taxocms/internal/models"
)

// Module plugs pages into the application.
type Module struct {
	cache *cache.ExistsCache
}

// NewModule creates the pages module. cache may be nil.
func NewModule(c *cache.ExistsCache) *Module {
	return &Module{cache: c}
}

// Name returns the entity kind.
func (m *Module) Name() string { return string(models.EntityKindPage) }

// RegisterAccessors registers the Pages accessor.
func (m *Module) RegisterAccessors(reg *category.Registry) error {
	return reg.Register(Accessor{})
}

// Subscribe drops the exists-cache entry of deleted pages.
func (m *Module) Subscribe(bus *event.Bus) {
	bus.Subscribe(event.DeletedTopic(m.Name()), m.handleDeleted)
}

func (m *Module) handleDeleted(ctx context.Context, payload any) error {
	ev, ok := payload.(event.EntityDeleted)
	if !ok {
		return fmt.Errorf("page deleted: unexpected payload %T", payload)
	}
	p, ok := ev.Snapshot.(*models.Page)
	if !ok || p == nil {
		return nil
	}
	m.cache.Invalidate(ctx, p.URL)
	return nil
}
