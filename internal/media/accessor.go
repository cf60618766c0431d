// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package media

import (
	"github.com/jackc/pgx/v5"

	"taxocms/internal/models"
	"taxocms/internal/store"
)

// Accessor keys for media.
const (
	FilesKey  = "Files"
	ImagesKey = "Images"
)

// Accessor reports memberships of one media type. Deleted media are not
// counted even while their rows remain.
type Accessor struct {
	key       string
	mediaType models.MediaType
}

// NewFilesAccessor returns the accessor for non-image media.
func NewFilesAccessor() Accessor {
	return Accessor{key: FilesKey, mediaType: models.MediaTypeFile}
}

// NewImagesAccessor returns the accessor for images.
func NewImagesAccessor() Accessor {
	return Accessor{key: ImagesKey, mediaType: models.MediaTypeImage}
}

// ItemKey returns the accessor key for a media type.
func ItemKey(t models.MediaType) string {
	if t == models.MediaTypeImage {
		return ImagesKey
	}
	return FilesKey
}

// Name returns the registry key.
func (a Accessor) Name() string { return a.key }

// CheckIsUsed defers a count of memberships of this media type in any
// category of tree.
func (a Accessor) CheckIsUsed(b *store.Batch, tree *models.CategoryTree) *store.Future[int] {
	return store.DeferCount(b, `
		SELECT COUNT(*)
		FROM entity_categories ec
		JOIN categories c ON c.id = ec.category_id
		JOIN media m ON m.id = ec.entity_id
		WHERE ec.entity_kind = $1 AND m.media_type = $2 AND m.deleted_at IS NULL
		  AND c.tree_id = $3
	`, models.EntityKindMedia, a.mediaType, tree.ID)
}

// QueryEntityCategories defers the memberships of this media type in c.
func (a Accessor) QueryEntityCategories(b *store.Batch, c *models.Category) *store.Future[[]models.EntityCategory] {
	return store.DeferRows(b, `
		SELECT `+store.EntityCategoryColumns+`
		FROM entity_categories ec
		JOIN media m ON m.id = ec.entity_id
		WHERE ec.entity_kind = $1 AND m.media_type = $2 AND m.deleted_at IS NULL
		  AND ec.category_id = $3
		ORDER BY ec.created_at
	`, pgx.RowToStructByName[models.EntityCategory], models.EntityKindMedia, a.mediaType, c.ID)
}
