// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"taxocms/internal/database"
	"taxocms/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "taxocms")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "taxocms")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanTrees removes test trees by slug. Categories and memberships go
// with them. Call in t.Cleanup().
func cleanTrees(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM category_trees WHERE slug = $1", slug)
	}
}

// cleanPages removes test pages and their memberships by URL. Call in t.Cleanup().
func cleanPages(t *testing.T, db *sql.DB, urls ...string) {
	t.Helper()
	for _, url := range urls {
		db.Exec(`DELETE FROM entity_categories WHERE entity_kind = 'page'
			AND entity_id IN (SELECT id FROM pages WHERE page_url = $1)`, url)
		db.Exec("DELETE FROM pages WHERE page_url = $1", url)
	}
}

// cleanMediaByKey removes test media and their memberships by S3 key. Call in t.Cleanup().
func cleanMediaByKey(t *testing.T, db *sql.DB, s3keys ...string) {
	t.Helper()
	for _, key := range s3keys {
		db.Exec(`DELETE FROM entity_categories WHERE entity_kind = 'media'
			AND entity_id IN (SELECT id FROM media WHERE s3_key = $1)`, key)
		db.Exec("DELETE FROM media WHERE s3_key = $1", key)
	}
}

// testTree creates a tree with one root category for the given item keys.
func testTree(t *testing.T, db *sql.DB, keys ...string) (*models.CategoryTree, *models.Category) {
	t.Helper()
	ctx := context.Background()
	slug := "test-tree-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanTrees(t, db, slug) })

	tree, err := NewCategoryTreeStore(db).Create(ctx, &models.CategoryTree{
		Name: "Test Tree", Slug: slug, AvailableFor: keys,
	})
	if err != nil {
		t.Fatalf("create tree: %v", err)
	}
	cat, err := NewCategoryStore(db).Create(ctx, &models.Category{
		TreeID: tree.ID, Name: "Root", Slug: "root",
	})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return tree, cat
}
