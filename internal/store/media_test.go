// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"taxocms/internal/models"
)

func testMedia(t *testing.T, s *MediaStore, contentType string) *models.Media {
	t.Helper()
	key := "media/test/" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanMediaByKey(t, s.db, key) })

	m, err := s.Create(context.Background(), &models.Media{
		Filename: "test", OriginalName: "original", ContentType: contentType,
		SizeBytes: 1024, Bucket: "public", S3Key: key,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return m
}

func TestMediaStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	ctx := context.Background()

	created := testMedia(t, s, "image/jpeg")
	if created.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if created.Type != models.MediaTypeImage {
		t.Errorf("type: got %q, want %q", created.Type, models.MediaTypeImage)
	}
	if created.SizeBytes != 1024 {
		t.Errorf("size: got %d, want 1024", created.SizeBytes)
	}

	doc := testMedia(t, s, "application/pdf")
	if doc.Type != models.MediaTypeFile {
		t.Errorf("type: got %q, want %q", doc.Type, models.MediaTypeFile)
	}

	found, err := s.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected media, got nil")
	}
	if found.S3Key != created.S3Key {
		t.Errorf("s3_key: got %q, want %q", found.S3Key, created.S3Key)
	}

	found, _ = s.FindByID(ctx, uuid.New())
	if found != nil {
		t.Error("expected nil for random UUID")
	}
}

func TestMediaStoreDelete(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	ctx := context.Background()

	_, cat := testTree(t, db, "Files")
	m := testMedia(t, s, "application/pdf")
	links := NewEntityCategoryStore(db)
	if err := links.Replace(ctx, models.EntityKindMedia, m.ID, []uuid.UUID{cat.ID}); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	deleted, err := s.Delete(ctx, m.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted == nil || !deleted.IsDeleted() {
		t.Fatal("expected deleted media record returned")
	}

	// Soft deleted: the row stays, the memberships go.
	found, _ := s.FindByID(ctx, m.ID)
	if found == nil || found.DeletedAt == nil {
		t.Error("expected soft deleted row to remain")
	}
	remaining, err := links.ListByEntity(ctx, models.EntityKindMedia, m.ID)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("memberships after delete: got %d, want 0", len(remaining))
	}

	deleted, _ = s.Delete(ctx, m.ID)
	if deleted != nil {
		t.Error("expected nil when deleting twice")
	}
	deleted, _ = s.Delete(ctx, uuid.New())
	if deleted != nil {
		t.Error("expected nil for nonexistent delete")
	}
}

func TestMediaStoreTrash(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	ctx := context.Background()

	m := testMedia(t, s, "application/pdf")
	if _, err := s.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	pending, err := s.PendingTrash(ctx, 1000)
	if err != nil {
		t.Fatalf("PendingTrash: %v", err)
	}
	if !containsMedia(pending, m.ID) {
		t.Fatal("deleted media should be pending trash")
	}

	trashKey := "trash/" + m.S3Key
	t.Cleanup(func() { cleanMediaByKey(t, db, trashKey) })
	if err := s.MarkTrashed(ctx, m.ID, trashKey); err != nil {
		t.Fatalf("MarkTrashed: %v", err)
	}

	pending, _ = s.PendingTrash(ctx, 1000)
	if containsMedia(pending, m.ID) {
		t.Error("trashed media should not be pending")
	}
	found, _ := s.FindByID(ctx, m.ID)
	if found.S3Key != trashKey || found.TrashedAt == nil {
		t.Errorf("after MarkTrashed: key %q trashed_at %v", found.S3Key, found.TrashedAt)
	}
}

func containsMedia(items []models.Media, id uuid.UUID) bool {
	for _, m := range items {
		if m.ID == id {
			return true
		}
	}
	return false
}
