// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"taxocms/internal/slug"
)

// Seed populates the database with initial development data: a "Default"
// category tree with a couple of categories, available for every built-in
// categorizable item. It is a no-op when any category tree already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM category_trees").Scan(&count); err != nil {
		return fmt.Errorf("seed check category trees: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		var treeID uuid.UUID
		if err := tx.QueryRow(`
			INSERT INTO category_trees (name, slug, description)
			VALUES ('Default', 'default', 'Default category tree')
			RETURNING id
		`).Scan(&treeID); err != nil {
			return fmt.Errorf("seed insert tree: %w", err)
		}

		for _, key := range []string{"Pages", "Files", "Images"} {
			if _, err := tx.Exec(`
				INSERT INTO category_tree_items (tree_id, item_key) VALUES ($1, $2)
			`, treeID, key); err != nil {
				return fmt.Errorf("seed insert tree item %s: %w", key, err)
			}
		}

		for i, name := range []string{"News", "Events"} {
			if _, err := tx.Exec(`
				INSERT INTO categories (tree_id, name, slug, sort_order)
				VALUES ($1, $2, $3, $4)
			`, treeID, name, slug.Generate(name), i); err != nil {
				return fmt.Errorf("seed insert category %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("database seeded with default category tree")
	return nil
}
