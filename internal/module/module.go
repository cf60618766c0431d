// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package module defines how entity modules plug into the application at
// startup.
package module

import (
	"fmt"
	"log/slog"

	"taxocms/internal/category"
	"taxocms/internal/event"
)

// Descriptor is implemented by every entity module.
type Descriptor interface {
	Name() string

	// RegisterAccessors adds the module's category accessors.
	RegisterAccessors(reg *category.Registry) error

	// Subscribe attaches the module's event handlers.
	Subscribe(bus *event.Bus)
}

// Boot registers every module's accessors, then subscribes their handlers,
// then freezes the registry. It stops at the first registration error.
func Boot(reg *category.Registry, bus *event.Bus, descriptors ...Descriptor) error {
	for _, d := range descriptors {
		if err := d.RegisterAccessors(reg); err != nil {
			return fmt.Errorf("boot module %s: %w", d.Name(), err)
		}
	}
	for _, d := range descriptors {
		d.Subscribe(bus)
	}
	reg.Freeze()

	slog.Info("modules booted", "modules", len(descriptors), "accessors", reg.Keys())
	return nil
}
