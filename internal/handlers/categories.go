// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"taxocms/internal/category"
	"taxocms/internal/models"
)

// Categories serves category trees, categories and the accessor list.
type Categories struct {
	svc      *category.Service
	registry *category.Registry
}

// NewCategories creates the Categories handler group.
func NewCategories(svc *category.Service, registry *category.Registry) *Categories {
	return &Categories{svc: svc, registry: registry}
}

type createTreeRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	AvailableFor []string `json:"available_for"`
}

type addCategoryRequest struct {
	Name      string  `json:"name"`
	ParentID  *string `json:"parent_id"`
	SortOrder *int    `json:"sort_order"`
}

type treeUsageResponse struct {
	TreeID uuid.UUID        `json:"tree_id"`
	Used   bool             `json:"used"`
	Usage  []category.Usage `json:"usage"`
}

type membershipsResponse struct {
	CategoryID  uuid.UUID                          `json:"category_id"`
	Memberships map[string][]models.EntityCategory `json:"memberships"`
}

// ListTrees returns every tree.
func (h *Categories) ListTrees(w http.ResponseWriter, r *http.Request) {
	trees, err := h.svc.ListTrees(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if trees == nil {
		trees = []models.CategoryTree{}
	}
	writeJSON(w, http.StatusOK, trees)
}

// CreateTree creates a tree. Every available item key must name a
// registered accessor.
func (h *Categories) CreateTree(w http.ResponseWriter, r *http.Request) {
	var req createTreeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateTree(req.Name, req.Description, req.AvailableFor); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	tree, err := h.svc.CreateTree(r.Context(), req.Name, req.Description, req.AvailableFor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tree)
}

// GetTree returns a tree with its nested categories.
func (h *Categories) GetTree(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tree, err := h.svc.Tree(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// DeleteTree deletes a tree unless any accessor still uses it.
func (h *Categories) DeleteTree(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteTree(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// TreeUsage reports the membership count of every accessor for a tree.
func (h *Categories) TreeUsage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	usage, err := h.svc.TreeUsage(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := treeUsageResponse{TreeID: id, Usage: usage}
	for _, u := range usage {
		if u.Count > 0 {
			resp.Used = true
			break
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddCategory adds a category to a tree. A missing sort_order appends it
// after its last sibling.
func (h *Categories) AddCategory(w http.ResponseWriter, r *http.Request) {
	treeID, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req addCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateCategoryName(req.Name); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != nil && *req.ParentID != "" {
		pid, err := uuid.Parse(*req.ParentID)
		if err != nil {
			writeError(w, r, invalid("invalid parent_id"))
			return
		}
		parentID = &pid
	}
	sortOrder := -1
	if req.SortOrder != nil {
		if *req.SortOrder < 0 {
			writeError(w, r, invalid("sort_order must not be negative"))
			return
		}
		sortOrder = *req.SortOrder
	}

	c, err := h.svc.AddCategory(r.Context(), treeID, parentID, req.Name, sortOrder)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category added", "tree_id", treeID, "category_id", c.ID)
	writeJSON(w, http.StatusCreated, c)
}

// DeleteCategory deletes a category and its descendants unless any of
// them has memberships.
func (h *Categories) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Memberships lists the memberships of a category, keyed by accessor.
func (h *Categories) Memberships(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.svc.CategoryMemberships(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, membershipsResponse{CategoryID: id, Memberships: m})
}

// Accessors lists the registered accessor keys.
func (h *Categories) Accessors(w http.ResponseWriter, r *http.Request) {
	keys := h.registry.Keys()
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"accessors": keys})
}
