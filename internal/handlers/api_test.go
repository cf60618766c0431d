// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"taxocms/internal/category"
	"taxocms/internal/models"
	"taxocms/internal/slug"
)

func TestAccessorsLists(t *testing.T) {
	reg := category.NewRegistry()
	h := NewCategories(nil, reg)

	w := httptest.NewRecorder()
	h.Accessors(w, httptest.NewRequest("GET", "/api/accessors", nil))

	if got := strings.TrimSpace(w.Body.String()); got != `{"accessors":[]}` {
		t.Errorf("empty registry: got %s", got)
	}
}

func TestMediaUploadWithoutStorage(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "a.txt")
	fw.Write([]byte("hello"))
	mw.Close()

	r := httptest.NewRequest("POST", "/api/media", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.Media.Upload(w, r)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", w.Code)
	}
}

func TestCreateTreeValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"missing name", map[string]any{"name": ""}, http.StatusUnprocessableEntity},
		{"unknown accessor", map[string]any{"name": "Bad Keys " + uuid.NewString(), "available_for": []string{"Widgets"}}, http.StatusUnprocessableEntity},
		{"unknown field", map[string]any{"name": "x", "color": "red"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			env.Categories.CreateTree(w, jsonRequest(t, "POST", "/api/category-trees", tt.body))
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestPageCategoryLifecycle(t *testing.T) {
	env := newTestEnv(t)

	treeName := "Handler Topics " + uuid.NewString()[:8]
	cleanTreeBySlug(t, env.DB, slug.Generate(treeName))
	url := "/handler-test-" + uuid.NewString()[:8]
	cleanPageByURL(t, env.DB, url)

	// Create a tree for pages.
	w := httptest.NewRecorder()
	env.Categories.CreateTree(w, jsonRequest(t, "POST", "/api/category-trees", map[string]any{
		"name": treeName, "available_for": []string{"Pages"},
	}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create tree: got %d (%s)", w.Code, w.Body.String())
	}
	var tree models.CategoryTree
	decodeBody(t, w, &tree)

	// Add a category.
	w = httptest.NewRecorder()
	r := withChiURLParam(jsonRequest(t, "POST", "/", map[string]any{"name": "Go"}), "id", tree.ID.String())
	env.Categories.AddCategory(w, r)
	if w.Code != http.StatusCreated {
		t.Fatalf("add category: got %d (%s)", w.Code, w.Body.String())
	}
	var cat models.Category
	decodeBody(t, w, &cat)
	if cat.SortOrder != 0 {
		t.Errorf("first sort order: got %d", cat.SortOrder)
	}

	// Create a page and check it exists.
	w = httptest.NewRecorder()
	env.Pages.Create(w, jsonRequest(t, "POST", "/api/pages", map[string]any{"title": "Handler", "url": url + "/"}))
	if w.Code != http.StatusCreated {
		t.Fatalf("create page: got %d (%s)", w.Code, w.Body.String())
	}
	var page models.Page
	decodeBody(t, w, &page)
	if page.URL != url {
		t.Errorf("url not normalized: got %q", page.URL)
	}

	w = httptest.NewRecorder()
	env.Pages.ExistsByURL(w, httptest.NewRequest("GET", "/api/pages/exists?url="+url, nil))
	var exists models.PageExists
	decodeBody(t, w, &exists)
	if !exists.Exists || exists.PageID == nil || *exists.PageID != page.ID {
		t.Errorf("exists: got %+v", exists)
	}

	// Same URL again conflicts.
	w = httptest.NewRecorder()
	env.Pages.Create(w, jsonRequest(t, "POST", "/api/pages", map[string]any{"title": "Again", "url": url}))
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate page: got %d", w.Code)
	}

	// Assign the category.
	w = httptest.NewRecorder()
	r = withChiURLParam(jsonRequest(t, "PUT", "/", map[string]any{"category_ids": []string{cat.ID.String()}}), "id", page.ID.String())
	env.Pages.SetCategories(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("set categories: got %d (%s)", w.Code, w.Body.String())
	}

	// Usage reports the page.
	w = httptest.NewRecorder()
	env.Categories.TreeUsage(w, withChiURLParam(httptest.NewRequest("GET", "/", nil), "id", tree.ID.String()))
	var usage treeUsageResponse
	decodeBody(t, w, &usage)
	if !usage.Used {
		t.Errorf("usage: tree should be used, got %+v", usage)
	}
	for _, u := range usage.Usage {
		want := 0
		if u.Accessor == "Pages" {
			want = 1
		}
		if u.Count != want {
			t.Errorf("usage %s: got %d, want %d", u.Accessor, u.Count, want)
		}
	}

	w = httptest.NewRecorder()
	env.Categories.Memberships(w, withChiURLParam(httptest.NewRequest("GET", "/", nil), "id", cat.ID.String()))
	var members membershipsResponse
	decodeBody(t, w, &members)
	if len(members.Memberships["Pages"]) != 1 || len(members.Memberships["Files"]) != 0 {
		t.Errorf("memberships: got %+v", members.Memberships)
	}

	// Used tree and category cannot be deleted.
	w = httptest.NewRecorder()
	env.Categories.DeleteTree(w, withChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", tree.ID.String()))
	if w.Code != http.StatusConflict {
		t.Errorf("delete used tree: got %d", w.Code)
	}
	w = httptest.NewRecorder()
	env.Categories.DeleteCategory(w, withChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", cat.ID.String()))
	if w.Code != http.StatusConflict {
		t.Errorf("delete used category: got %d", w.Code)
	}

	// Deleting the page releases the tree.
	w = httptest.NewRecorder()
	env.Pages.Delete(w, withChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", page.ID.String()))
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete page: got %d", w.Code)
	}
	w = httptest.NewRecorder()
	env.Pages.Delete(w, withChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", page.ID.String()))
	if w.Code != http.StatusNotFound {
		t.Errorf("delete page twice: got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r = withChiURLParam(httptest.NewRequest("GET", "/", nil), "id", page.ID.String())
	r.Header.Set("Accept", "application/xml")
	env.Pages.ExistsByID(w, r)
	if !strings.Contains(w.Body.String(), "<exists>false</exists>") {
		t.Errorf("exists after delete: got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	env.Categories.DeleteTree(w, withChiURLParam(httptest.NewRequest("DELETE", "/", nil), "id", tree.ID.String()))
	if w.Code != http.StatusNoContent {
		t.Errorf("delete free tree: got %d (%s)", w.Code, w.Body.String())
	}
}

func TestSetCategoriesRejectsUnavailableTree(t *testing.T) {
	env := newTestEnv(t)

	treeName := "Image Only " + uuid.NewString()[:8]
	cleanTreeBySlug(t, env.DB, slug.Generate(treeName))
	url := "/handler-unavailable-" + uuid.NewString()[:8]
	cleanPageByURL(t, env.DB, url)

	w := httptest.NewRecorder()
	env.Categories.CreateTree(w, jsonRequest(t, "POST", "/", map[string]any{
		"name": treeName, "available_for": []string{"Images"},
	}))
	var tree models.CategoryTree
	decodeBody(t, w, &tree)

	w = httptest.NewRecorder()
	env.Categories.AddCategory(w, withChiURLParam(jsonRequest(t, "POST", "/", map[string]any{"name": "Red"}), "id", tree.ID.String()))
	var cat models.Category
	decodeBody(t, w, &cat)

	w = httptest.NewRecorder()
	env.Pages.Create(w, jsonRequest(t, "POST", "/", map[string]any{"title": "P", "url": url}))
	var page models.Page
	decodeBody(t, w, &page)

	w = httptest.NewRecorder()
	r := withChiURLParam(jsonRequest(t, "PUT", "/", map[string]any{"category_ids": []string{cat.ID.String()}}), "id", page.ID.String())
	env.Pages.SetCategories(w, r)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unavailable tree: got %d (%s)", w.Code, w.Body.String())
	}
}

func TestGetMissing(t *testing.T) {
	env := newTestEnv(t)
	id := uuid.NewString()

	handlers := map[string]http.HandlerFunc{
		"tree":  env.Categories.GetTree,
		"page":  env.Pages.Get,
		"media": env.Media.Get,
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h(w, withChiURLParam(httptest.NewRequest("GET", "/", nil), "id", id))
			if w.Code != http.StatusNotFound {
				t.Errorf("status: got %d, want 404", w.Code)
			}
		})
	}
}

func TestFailuresRecent(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.Failures.Recent(w, httptest.NewRequest("GET", "/api/event-failures?limit=5", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	if !strings.HasPrefix(strings.TrimSpace(w.Body.String()), "[") {
		t.Errorf("body should be a list: %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	env.Failures.Recent(w, httptest.NewRequest("GET", "/api/event-failures?limit=zero", nil))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad limit: got %d", w.Code)
	}
}
