package db

import (
	"testing"
)

func TestMeta_GetAbsentKey(t *testing.T) {
	database := testDB(t)

	v, err := GetMeta(database, "id1", "freeze_modified")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if v != "" {
		t.Errorf("value = %q, want empty for absent key", v)
	}
}

func TestMeta_SetGetOverwrite(t *testing.T) {
	database := testDB(t)

	if err := SetMeta(database, "id1", "freeze_modified", "1"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	v, err := GetMeta(database, "id1", "freeze_modified")
	if err != nil {
		t.Fatalf("GetMeta failed: %v", err)
	}
	if v != "1" {
		t.Errorf("value = %q, want 1", v)
	}

	if err := SetMeta(database, "id1", "freeze_modified", "0"); err != nil {
		t.Fatalf("SetMeta overwrite failed: %v", err)
	}
	v, _ = GetMeta(database, "id1", "freeze_modified")
	if v != "0" {
		t.Errorf("value = %q after overwrite, want 0", v)
	}
}

func TestMeta_Delete(t *testing.T) {
	database := testDB(t)

	if err := SetMeta(database, "id1", "k", "v"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	if err := DeleteMeta(database, "id1", "k"); err != nil {
		t.Fatalf("DeleteMeta failed: %v", err)
	}
	v, _ := GetMeta(database, "id1", "k")
	if v != "" {
		t.Errorf("value = %q after delete, want empty", v)
	}

	// Deleting again is a no-op.
	if err := DeleteMeta(database, "id1", "k"); err != nil {
		t.Errorf("DeleteMeta of absent key failed: %v", err)
	}
}

func TestMeta_ScopedByItem(t *testing.T) {
	database := testDB(t)

	if err := SetMeta(database, "id1", "k", "one"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	if err := SetMeta(database, "id2", "k", "two"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	v1, _ := GetMeta(database, "id1", "k")
	v2, _ := GetMeta(database, "id2", "k")
	if v1 != "one" || v2 != "two" {
		t.Errorf("values = (%q, %q), want (one, two)", v1, v2)
	}
}

func TestGetAllMeta(t *testing.T) {
	database := testDB(t)

	if err := SetMeta(database, "id1", "a", "1"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	if err := SetMeta(database, "id1", "b", "2"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}
	if err := SetMeta(database, "id2", "c", "3"); err != nil {
		t.Fatalf("SetMeta failed: %v", err)
	}

	meta, err := GetAllMeta(database, "id1")
	if err != nil {
		t.Fatalf("GetAllMeta failed: %v", err)
	}
	if len(meta) != 2 || meta["a"] != "1" || meta["b"] != "2" {
		t.Errorf("meta = %v, want {a:1 b:2}", meta)
	}
}

func TestStore_ImplementsCollaborators(t *testing.T) {
	database := testDB(t)
	store := Store{DB: database}

	if err := store.SetMeta("id1", "k", "v"); err != nil {
		t.Fatalf("Store.SetMeta failed: %v", err)
	}
	v, err := store.GetMeta("id1", "k")
	if err != nil {
		t.Fatalf("Store.GetMeta failed: %v", err)
	}
	if v != "v" {
		t.Errorf("value = %q, want v", v)
	}
	if err := store.DeleteMeta("id1", "k"); err != nil {
		t.Fatalf("Store.DeleteMeta failed: %v", err)
	}

	it := sampleItem("id1")
	it.Type = "article"
	if err := InsertItem(database, it); err != nil {
		t.Fatalf("InsertItem failed: %v", err)
	}
	typ, err := store.ItemType("id1")
	if err != nil {
		t.Fatalf("Store.ItemType failed: %v", err)
	}
	if typ != "article" {
		t.Errorf("type = %q, want article", typ)
	}
}
