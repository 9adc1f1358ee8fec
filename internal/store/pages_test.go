// ABOUTME: Tests for page CRUD operations
// ABOUTME: Covers creation, lookup by id/name, updates, deletion, and duplicates

package store

import (
	"context"
	"errors"
	"testing"
)

func TestCreateAndGetPage(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	page, err := store.CreatePage(ctx, "Home", "# Welcome\n")
	if err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}
	if page.ID == "" {
		t.Fatal("CreatePage() returned empty ID")
	}

	byID, err := store.GetPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if byID.Name != "Home" || byID.Content != "# Welcome\n" {
		t.Errorf("GetPage() = %+v", byID)
	}

	byName, err := store.GetPageByName(ctx, "Home")
	if err != nil {
		t.Fatalf("GetPageByName() error = %v", err)
	}
	if byName.ID != page.ID {
		t.Errorf("GetPageByName() ID = %q, want %q", byName.ID, page.ID)
	}
}

func TestCreatePage_Duplicate(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if _, err := store.CreatePage(ctx, "Home", "first"); err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}

	_, err := store.CreatePage(ctx, "Home", "second")
	if !errors.Is(err, ErrDuplicatePage) {
		t.Errorf("CreatePage() error = %v, want ErrDuplicatePage", err)
	}
}

func TestGetPage_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	if _, err := store.GetPage(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPage() error = %v, want ErrNotFound", err)
	}
	if _, err := store.GetPageByName(ctx, "Missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPageByName() error = %v, want ErrNotFound", err)
	}
}

func TestUpdatePage(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	page, err := store.CreatePage(ctx, "Home", "old")
	if err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}

	if err := store.UpdatePage(ctx, page.ID, "new"); err != nil {
		t.Fatalf("UpdatePage() error = %v", err)
	}

	updated, err := store.GetPage(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	if updated.Content != "new" {
		t.Errorf("Content = %q, want %q", updated.Content, "new")
	}
}

func TestUpdatePage_NotFound(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	if err := store.UpdatePage(context.Background(), "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdatePage() error = %v, want ErrNotFound", err)
	}
}

func TestDeletePage(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	page, err := store.CreatePage(ctx, "Doomed", "x")
	if err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}

	if err := store.DeletePage(ctx, page.ID); err != nil {
		t.Fatalf("DeletePage() error = %v", err)
	}

	if _, err := store.GetPage(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPage() after delete error = %v, want ErrNotFound", err)
	}

	if err := store.DeletePage(ctx, page.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeletePage() twice error = %v, want ErrNotFound", err)
	}
}

func TestListPageNames_Sorted(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	ctx := context.Background()

	for _, name := range []string{"Zebra", "Apple", "Mango"} {
		if _, err := store.CreatePage(ctx, name, "x"); err != nil {
			t.Fatalf("CreatePage(%q) error = %v", name, err)
		}
	}

	names, err := store.ListPageNames(ctx)
	if err != nil {
		t.Fatalf("ListPageNames() error = %v", err)
	}

	want := []string{"Apple", "Mango", "Zebra"}
	if len(names) != len(want) {
		t.Fatalf("ListPageNames() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListPageNames() = %v, want %v", names, want)
		}
	}
}

func TestListPageNames_Empty(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	names, err := store.ListPageNames(context.Background())
	if err != nil {
		t.Fatalf("ListPageNames() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListPageNames() = %v, want empty", names)
	}
}
