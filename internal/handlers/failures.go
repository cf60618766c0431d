// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"taxocms/internal/store"
)

const (
	defaultFailureLimit = 50
	maxFailureLimit     = 500
)

// Failures lists recorded side effect failures.
type Failures struct {
	log *store.FailureLogStore
}

// NewFailures creates the Failures handler.
func NewFailures(log *store.FailureLogStore) *Failures {
	return &Failures{log: log}
}

// Recent returns the newest failures. The limit query parameter defaults
// to 50 and is capped at 500.
func (h *Failures) Recent(w http.ResponseWriter, r *http.Request) {
	limit := defaultFailureLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, invalid("limit must be a positive integer"))
			return
		}
		limit = min(n, maxFailureLimit)
	}

	entries, err := h.log.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.FailureEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
