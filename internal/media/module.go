// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media is the media entity module. It registers the Files and
// Images category accessors and moves the objects of deleted media into
// the storage trash.
package media

import (
	"taxocms/internal/category"
	"taxocms/internal/event"
	"taxocms/internal/models"
)

// Module plugs media into the application.
type Module struct {
	collector *Collector
}

// NewModule creates the media module. collector may be nil, in which case
// no deletion handler is subscribed.
func NewModule(collector *Collector) *Module {
	return &Module{collector: collector}
}

// Name returns the entity kind.
func (m *Module) Name() string { return string(models.EntityKindMedia) }

// RegisterAccessors registers the Files and Images accessors.
func (m *Module) RegisterAccessors(reg *category.Registry) error {
	if err := reg.Register(NewFilesAccessor()); err != nil {
		return err
	}
	return reg.Register(NewImagesAccessor())
}

// Subscribe attaches the trash collector to media:deleted.
func (m *Module) Subscribe(bus *event.Bus) {
	if m.collector == nil {
		return
	}
	bus.Subscribe(event.DeletedTopic(m.Name()), m.collector.HandleDeleted)
}
