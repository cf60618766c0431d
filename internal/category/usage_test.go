// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"taxocms/internal/models"
)

func TestTreeUsage(t *testing.T) {
	ctx := context.Background()
	tree := &models.CategoryTree{ID: uuid.New()}

	pages := newFake("Pages")
	files := newFake("Files")
	images := newFake("Images")
	pages.treeCounts[tree.ID] = 2
	images.treeCounts[tree.ID] = 1

	r := NewRegistry()
	r.Register(pages)
	r.Register(files)
	r.Register(images)
	u := NewUsageChecker(r, nil)

	usage, err := u.TreeUsage(ctx, tree)
	if err != nil {
		t.Fatalf("TreeUsage: %v", err)
	}
	want := []Usage{{"Pages", 2}, {"Files", 0}, {"Images", 1}}
	if len(usage) != len(want) {
		t.Fatalf("usage: got %v, want %v", usage, want)
	}
	for i := range want {
		if usage[i] != want[i] {
			t.Errorf("usage[%d]: got %v, want %v", i, usage[i], want[i])
		}
	}

	used, err := u.IsTreeUsed(ctx, tree)
	if err != nil || !used {
		t.Errorf("IsTreeUsed: got %v, %v", used, err)
	}
}

func TestTreeUnusedWhenEveryAccessorReportsZero(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	r.Register(newFake("Pages"))
	r.Register(newFake("Files"))
	u := NewUsageChecker(r, nil)

	used, err := u.IsTreeUsed(ctx, &models.CategoryTree{ID: uuid.New()})
	if err != nil {
		t.Fatalf("IsTreeUsed: %v", err)
	}
	if used {
		t.Error("tree should be unused")
	}
}

func TestTreeUsageEmptyRegistry(t *testing.T) {
	u := NewUsageChecker(NewRegistry(), nil)
	used, err := u.IsTreeUsed(context.Background(), &models.CategoryTree{ID: uuid.New()})
	if err != nil || used {
		t.Errorf("IsTreeUsed with no accessors: got %v, %v", used, err)
	}
}

func TestTreeUsagePropagatesStorageError(t *testing.T) {
	boom := errors.New("connection reset")
	broken := newFake("Files")
	broken.err = boom

	r := NewRegistry()
	r.Register(newFake("Pages"))
	r.Register(broken)
	u := NewUsageChecker(r, nil)

	_, err := u.IsTreeUsed(context.Background(), &models.CategoryTree{ID: uuid.New()})
	if !errors.Is(err, boom) {
		t.Errorf("IsTreeUsed: got %v, want wrapped %v", err, boom)
	}
}

func TestCategoryMemberships(t *testing.T) {
	ctx := context.Background()
	c := &models.Category{ID: uuid.New()}

	pages := newFake("Pages")
	images := newFake("Images")
	pages.memberships[c.ID] = []models.EntityCategory{
		{ID: uuid.New(), EntityKind: models.EntityKindPage, EntityID: uuid.New(), CategoryID: c.ID},
	}

	r := NewRegistry()
	r.Register(pages)
	r.Register(images)
	u := NewUsageChecker(r, nil)

	got, err := u.CategoryMemberships(ctx, c)
	if err != nil {
		t.Fatalf("CategoryMemberships: %v", err)
	}
	if len(got["Pages"]) != 1 {
		t.Errorf("Pages memberships: got %d, want 1", len(got["Pages"]))
	}
	if imgs, ok := got["Images"]; !ok || imgs == nil || len(imgs) != 0 {
		t.Errorf("Images memberships: got %#v, want empty slice", imgs)
	}

	used, err := u.IsCategoryUsed(ctx, c)
	if err != nil || !used {
		t.Errorf("IsCategoryUsed: got %v, %v", used, err)
	}
	used, _ = u.IsCategoryUsed(ctx, &models.Category{ID: uuid.New()})
	if used {
		t.Error("category without memberships should be unused")
	}
}

func TestAnyCategoryUsed(t *testing.T) {
	ctx := context.Background()
	root := models.Category{ID: uuid.New()}
	leaf := models.Category{ID: uuid.New(), ParentID: &root.ID}

	images := newFake("Images")
	images.memberships[leaf.ID] = []models.EntityCategory{{ID: uuid.New(), CategoryID: leaf.ID}}

	r := NewRegistry()
	r.Register(newFake("Pages"))
	r.Register(images)
	u := NewUsageChecker(r, nil)

	used, err := u.AnyCategoryUsed(ctx, []models.Category{root, leaf})
	if err != nil || !used {
		t.Errorf("AnyCategoryUsed: got %v, %v", used, err)
	}
	used, err = u.AnyCategoryUsed(ctx, nil)
	if err != nil || used {
		t.Errorf("AnyCategoryUsed(nil): got %v, %v", used, err)
	}
}
