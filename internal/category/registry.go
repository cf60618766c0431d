// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"fmt"
	"strings"
	"sync"
)

// Registry maps accessor keys to accessors. It is filled while modules
// boot and frozen before the server accepts requests. Reads do not lock;
// they are only safe once the registry is frozen.
type Registry struct {
	mu        sync.Mutex
	accessors map[string]Accessor
	order     []string
	frozen    bool
}

// NewRegistry returns an empty, writable registry.
func NewRegistry() *Registry {
	return &Registry{accessors: make(map[string]Accessor)}
}

// Register adds a under its own Name.
func (r *Registry) Register(a Accessor) error {
	return r.RegisterAs(a.Name(), a)
}

// RegisterAs adds a under key. Keys are case sensitive and must be unique.
func (r *Registry) RegisterAs(key string, a Accessor) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("register accessor: empty key")
	}
	if a == nil {
		return fmt.Errorf("register accessor %q: nil accessor", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return fmt.Errorf("register accessor %q: %w", key, ErrRegistryFrozen)
	}
	if _, ok := r.accessors[key]; ok {
		return fmt.Errorf("register accessor %q: %w", key, ErrDuplicateAccessor)
	}
	r.accessors[key] = a
	r.order = append(r.order, key)
	return nil
}

// Resolve returns the accessor registered under key.
func (r *Registry) Resolve(key string) (Accessor, error) {
	a, ok := r.accessors[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAccessorKind, key)
	}
	return a, nil
}

// All returns every accessor in registration order.
func (r *Registry) All() []Accessor {
	out := make([]Accessor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.accessors[key])
	}
	return out
}

// Keys returns every registered key in registration order.
func (r *Registry) Keys() []string {
	return append([]string(nil), r.order...)
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frozen
}
