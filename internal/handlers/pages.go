// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"taxocms/internal/category"
	"taxocms/internal/models"
	"taxocms/internal/pages"
)

// Pages serves page creation, deletion, categories and the exists check.
type Pages struct {
	svc *pages.Service
}

// NewPages creates the Pages handler group.
func NewPages(svc *pages.Service) *Pages {
	return &Pages{svc: svc}
}

type createPageRequest struct {
	Title  string            `json:"title"`
	URL    string            `json:"url"`
	Status models.PageStatus `json:"status"`
}

// ExistsByURL answers whether a page is stored at the url query parameter.
func (h *Pages) ExistsByURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, r, invalid("url is required"))
		return
	}
	res, err := h.svc.ExistsByURL(r.Context(), url)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeNegotiated(w, r, http.StatusOK, res)
}

// ExistsByID answers whether a page with the given id is stored.
func (h *Pages) ExistsByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.svc.ExistsByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeNegotiated(w, r, http.StatusOK, res)
}

// Create stores a new page.
func (h *Pages) Create(w http.ResponseWriter, r *http.Request) {
	var req createPageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePage(req.Title, req.URL, req.Status); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}
	p, err := h.svc.Create(r.Context(), req.Title, req.URL, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Get returns a page.
func (h *Pages) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Find(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, fmt.Errorf("page %s: %w", id, category.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Delete removes a page and its category memberships.
func (h *Pages) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, fmt.Errorf("page %s: %w", id, category.ErrNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetCategories replaces the categories of a page.
func (h *Pages) SetCategories(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := parseIDs(req.CategoryIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.SetCategories(r.Context(), id, ids); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
