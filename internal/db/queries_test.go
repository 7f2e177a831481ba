package db

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/modlock/internal/errors"
	"github.com/hpungsan/modlock/internal/item"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }

func sampleItem(id string) *item.Item {
	return &item.Item{
		ID:            id,
		Type:          "post",
		Title:         stringPtr("Title " + id),
		Body:          "Body of " + id,
		Status:        item.StatusDraft,
		Tags:          []string{"a", "b"},
		CreatedAt:     "2026-01-01 10:00:00",
		ModifiedAt:    "2026-01-01 10:00:00",
		ModifiedAtUTC: "2026-01-01 10:00:00",
	}
}

func TestInsertAndGetItem(t *testing.T) {
	database := testDB(t)

	want := sampleItem("id1")
	if err := InsertItem(database, want); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	got, err := GetItemByID(database, "id1")
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}

	if got.ID != want.ID || got.Type != want.Type || got.Body != want.Body {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.Title == nil || *got.Title != *want.Title {
		t.Errorf("Title = %v, want %v", got.Title, want.Title)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "a" {
		t.Errorf("Tags = %v, want [a b]", got.Tags)
	}
	if got.ModifiedAtUTC != want.ModifiedAtUTC {
		t.Errorf("ModifiedAtUTC = %q, want %q", got.ModifiedAtUTC, want.ModifiedAtUTC)
	}
}

func TestInsertItem_NilTitleNoTags(t *testing.T) {
	database := testDB(t)

	it := sampleItem("id1")
	it.Title = nil
	it.Tags = nil
	if err := InsertItem(database, it); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	got, err := GetItemByID(database, "id1")
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if got.Title != nil {
		t.Errorf("Title = %v, want nil", got.Title)
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags = %v, want empty", got.Tags)
	}
}

func TestInsertItem_DuplicateID(t *testing.T) {
	database := testDB(t)

	if err := InsertItem(database, sampleItem("id1")); err != nil {
		t.Fatalf("first InsertItem failed: %v", err)
	}
	err := InsertItem(database, sampleItem("id1"))
	if err != ErrUniqueConstraint {
		t.Errorf("err = %v, want ErrUniqueConstraint", err)
	}
}

func TestGetItemByID_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetItemByID(database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestGetItemType(t *testing.T) {
	database := testDB(t)

	it := sampleItem("id1")
	it.Type = "article"
	if err := InsertItem(database, it); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	typ, err := GetItemType(database, "id1")
	if err != nil {
		t.Fatalf("GetItemType failed: %v", err)
	}
	if typ != "article" {
		t.Errorf("type = %q, want article", typ)
	}

	if _, err := GetItemType(database, "missing"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestUpdateItemByID_WritesTimestampsAsGiven(t *testing.T) {
	database := testDB(t)

	it := sampleItem("id1")
	if err := InsertItem(database, it); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	it.Body = "updated"
	it.ModifiedAt = "2026-02-01 09:00:00"
	it.ModifiedAtUTC = "2026-02-01 08:00:00"
	if err := UpdateItemByID(database, it); err != nil {
		t.Fatalf("UpdateItemByID failed: %v", err)
	}

	got, err := GetItemByID(database, "id1")
	if err != nil {
		t.Fatalf("GetItemByID failed: %v", err)
	}
	if got.Body != "updated" {
		t.Errorf("Body = %q, want updated", got.Body)
	}
	// The modified pair is stored exactly as handed over.
	if got.ModifiedAt != "2026-02-01 09:00:00" || got.ModifiedAtUTC != "2026-02-01 08:00:00" {
		t.Errorf("timestamps = (%q, %q), want the given pair", got.ModifiedAt, got.ModifiedAtUTC)
	}
	if got.CreatedAt != "2026-01-01 10:00:00" {
		t.Errorf("CreatedAt = %q, want unchanged", got.CreatedAt)
	}
}

func TestUpdateItemByID_NotFound(t *testing.T) {
	database := testDB(t)

	err := UpdateItemByID(database, sampleItem("missing"))
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestListItems_OrderAndPaging(t *testing.T) {
	database := testDB(t)

	stamps := []string{"2026-01-01 10:00:00", "2026-01-02 10:00:00", "2026-01-03 10:00:00"}
	for i, ts := range stamps {
		it := sampleItem(string(rune('a' + i)))
		it.ModifiedAt = ts
		it.ModifiedAtUTC = ts
		if err := InsertItem(database, it); err != nil {
			t.Fatalf("InsertItem failed: %v", err)
		}
	}

	items, total, err := ListItems(database, "", 2, 0)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	// Newest modified first.
	if items[0].ID != "c" || items[1].ID != "b" {
		t.Errorf("order = [%s %s], want [c b]", items[0].ID, items[1].ID)
	}

	items, _, err = ListItems(database, "", 2, 2)
	if err != nil {
		t.Fatalf("ListItems offset failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("offset page = %v, want [a]", items)
	}
}

func TestListItems_TypeFilter(t *testing.T) {
	database := testDB(t)

	post := sampleItem("p1")
	if err := InsertItem(database, post); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}
	page := sampleItem("g1")
	page.Type = "page"
	if err := InsertItem(database, page); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}

	items, total, err := ListItems(database, "page", 10, 0)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].ID != "g1" {
		t.Errorf("filtered list = %v (total %d), want only g1", items, total)
	}
}
