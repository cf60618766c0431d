// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Integration tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"taxocms/internal/category"
	"taxocms/internal/dbtest"
	"taxocms/internal/event"
	"taxocms/internal/media"
	"taxocms/internal/module"
	"taxocms/internal/pages"
	"taxocms/internal/store"
)

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Registry   *category.Registry
	Bus        *event.Bus
	Categories *Categories
	Pages      *Pages
	Media      *Media
	Failures   *Failures
}

// newTestEnv boots the page and media modules against the test database.
// Object storage and the exists cache are left out.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.Open(t)
	reg := category.NewRegistry()
	failures := store.NewFailureLogStore(db)
	bus := event.New(1, 16, failures)
	t.Cleanup(bus.Shutdown)

	if err := module.Boot(reg, bus, pages.NewModule(nil), media.NewModule(nil)); err != nil {
		t.Fatalf("boot: %v", err)
	}

	cats := category.NewService(reg, db)
	return &testEnv{
		DB:         db,
		Registry:   reg,
		Bus:        bus,
		Categories: NewCategories(cats, reg),
		Pages:      NewPages(pages.NewService(db, nil, bus, cats)),
		Media:      NewMedia(media.NewService(db, nil, bus, cats)),
		Failures:   NewFailures(failures),
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes a JSON response body into v.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, w.Body.String())
	}
}

// cleanTreeBySlug removes a test tree with its categories.
func cleanTreeBySlug(t *testing.T, db *sql.DB, slug string) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec("DELETE FROM category_trees WHERE slug = $1", slug)
	})
}

// cleanPageByURL removes a test page with its memberships.
func cleanPageByURL(t *testing.T, db *sql.DB, url string) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec(`DELETE FROM entity_categories WHERE entity_kind = 'page'
			AND entity_id IN (SELECT id FROM pages WHERE page_url = $1)`, url)
		db.Exec("DELETE FROM pages WHERE page_url = $1", url)
	})
}
