package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/ricsouza/trecos/internal/db"
	"github.com/ricsouza/trecos/internal/model"
)

func createTestItem(t *testing.T, database *sql.DB, name string) string {
	t.Helper()
	id, err := CreateItem(context.Background(), database, model.Item{
		Name:        name,
		Description: "Test description",
		Location:    "Test location",
		Image:       model.DefaultImage,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return id
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id, err := CreateItem(ctx, database, model.Item{
		Name:        "Lamp",
		Description: "Desk lamp",
		Location:    "Kitchen",
		Image:       model.DefaultImage,
		OwnerID:     "user-1",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	item, err := GetItem(ctx, database, id)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item == nil {
		t.Fatal("expected item, got nil")
	}
	if item.Name != "Lamp" {
		t.Errorf("expected name 'Lamp', got %q", item.Name)
	}
	if item.Status != model.StatusOn {
		t.Errorf("expected status 'on', got %q", item.Status)
	}
	if item.Image != model.DefaultImage {
		t.Errorf("expected default image, got %q", item.Image)
	}
	if item.OwnerID != "user-1" {
		t.Errorf("expected owner 'user-1', got %q", item.OwnerID)
	}

	pattern := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`)
	if !pattern.MatchString(item.CreatedAt) {
		t.Errorf("created_at %q does not match the stored timestamp layout", item.CreatedAt)
	}
}

func TestGetItemNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	item, err := GetItem(context.Background(), database, "no-such-id")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil for missing item, got %+v", item)
	}
}

func TestPatchItemStatus(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	id := createTestItem(t, database, "Chair")
	if err := PatchItemStatus(ctx, database, id, model.StatusOff); err != nil {
		t.Fatalf("PatchItemStatus: %v", err)
	}

	item, _ := GetItem(ctx, database, id)
	if item.Status != model.StatusOff {
		t.Errorf("expected status 'off', got %q", item.Status)
	}
	// Only the status column changes.
	if item.Name != "Chair" || item.Image != model.DefaultImage {
		t.Errorf("patch touched unrelated fields: %+v", item)
	}
}

func TestPatchItemStatusInvalid(t *testing.T) {
	database := db.NewTestDB(t)

	id := createTestItem(t, database, "Chair")
	if err := PatchItemStatus(context.Background(), database, id, "archived"); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestListItemsExcludesDeleted(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	keep := createTestItem(t, database, "Keep")
	gone := createTestItem(t, database, "Gone")
	hidden := createTestItem(t, database, "Hidden")
	PatchItemStatus(ctx, database, gone, model.StatusDel)
	PatchItemStatus(ctx, database, hidden, model.StatusOff)

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ID == gone {
			t.Error("deleted item returned by listing")
		}
	}
	if items[0].ID != keep {
		t.Errorf("expected 'on' item first, got %q", items[0].Name)
	}

	// Deleted rows stay fetchable by direct id.
	item, _ := GetItem(ctx, database, gone)
	if item == nil || item.Status != model.StatusDel {
		t.Error("expected soft-deleted item to remain fetchable by id")
	}
}

func TestListItemsOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Fixed timestamps to pin the compound ordering.
	insert := func(id, status, createdAt string) {
		_, err := database.ExecContext(ctx,
			`INSERT INTO items (id, name, description, location, image, owner_id, created_at, status)
			 VALUES (?, 'Name', 'Desc', 'Loc', ?, '', ?, ?)`,
			id, model.DefaultImage, createdAt, status,
		)
		if err != nil {
			t.Fatalf("inserting fixture %s: %v", id, err)
		}
	}
	insert("b", model.StatusOn, "2024-01-01 10:00:00")
	insert("a", model.StatusOn, "2024-01-02 10:00:00")
	insert("c", model.StatusOff, "2024-01-03 10:00:00")

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	got := make([]string, len(items))
	for i, item := range items {
		got[i] = item.ID
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}
