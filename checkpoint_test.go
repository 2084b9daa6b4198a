package main

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *checkpointStore {
	t.Helper()
	store, err := openCheckpointStore(filepath.Join(t.TempDir(), "checkpoints.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCheckpointStore_GetAbsent(t *testing.T) {
	store := openTestStore(t)

	cp, err := store.Get(context.Background(), "users")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cp != nil {
		t.Errorf("never-attempted table should have no checkpoint, got %+v", cp)
	}
}

func TestCheckpointStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.Save(ctx, Checkpoint{
		TableName:     "users",
		LastSyncTime:  "2026-08-29 10:00:00",
		LastSyncCount: 1500,
		Status:        statusSuccess,
	})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}

	cp, err := store.Get(ctx, "users")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cp == nil {
		t.Fatal("expected a checkpoint")
	}
	if cp.TableName != "users" || cp.LastSyncCount != 1500 || cp.Status != statusSuccess {
		t.Errorf("checkpoint = %+v", cp)
	}
	if cp.UpdatedAt.IsZero() {
		t.Error("updated_at should be populated on save")
	}
}

func TestCheckpointStore_SaveOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Save(ctx, Checkpoint{TableName: "orders", LastSyncCount: 10, Status: statusPartial})
	if err := store.Save(ctx, Checkpoint{TableName: "orders", LastSyncCount: 42, Status: statusSuccess}); err != nil {
		t.Fatalf("second Save error: %v", err)
	}

	cp, err := store.Get(ctx, "orders")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cp.LastSyncCount != 42 || cp.Status != statusSuccess {
		t.Errorf("checkpoint not overwritten: %+v", cp)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("repeated saves should keep one row per table, got %d", len(all))
	}
}

func TestCheckpointStore_Reset(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Save(ctx, Checkpoint{TableName: "users", Status: statusFailed})
	if err := store.Reset(ctx, "users"); err != nil {
		t.Fatalf("Reset error: %v", err)
	}
	cp, err := store.Get(ctx, "users")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cp != nil {
		t.Errorf("checkpoint should be gone after reset, got %+v", cp)
	}

	// resetting an absent record is not an error
	if err := store.Reset(ctx, "never_seen"); err != nil {
		t.Errorf("Reset of absent record: %v", err)
	}
}

func TestCheckpointStore_ListOrdered(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zebra", "alpha", "middle"} {
		if err := store.Save(ctx, Checkpoint{TableName: name, Status: statusSuccess}); err != nil {
			t.Fatalf("Save %s: %v", name, err)
		}
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
	for i, want := range []string{"alpha", "middle", "zebra"} {
		if all[i].TableName != want {
			t.Errorf("List[%d] = %s, want %s", i, all[i].TableName, want)
		}
	}
}
