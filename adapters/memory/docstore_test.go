package memory_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/CBIIT/ccdi-dcc-federation-service/adapters/memory"
	"github.com/CBIIT/ccdi-dcc-federation-service/ports"
)

func TestDocumentStore_PutGet(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()

	doc := map[string]any{"code": "A", "n": 1.0}
	if err := store.Put(ctx, "d1", doc); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, "d1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("Get = %v, want %v", got, doc)
	}
}

func TestDocumentStore_GetMissing(t *testing.T) {
	store := memory.NewDocumentStore()
	_, err := store.Get(context.Background(), "nope")
	if !errors.Is(err, ports.ErrNotFound) {
		t.Errorf("Get error = %v, want ports.ErrNotFound", err)
	}
}

func TestDocumentStore_GetReturnsCopy(t *testing.T) {
	// Mutating a fetched document must not leak back into the store.
	store := memory.NewDocumentStore()
	ctx := context.Background()

	if err := store.Put(ctx, "d1", map[string]any{"v": "orig"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first, _ := store.Get(ctx, "d1")
	first.(map[string]any)["v"] = "mutated"

	second, _ := store.Get(ctx, "d1")
	if second.(map[string]any)["v"] != "orig" {
		t.Error("store shares mutable state with callers")
	}
}

func TestDocumentStore_List(t *testing.T) {
	store := memory.NewDocumentStore()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		if err := store.Put(ctx, id, map[string]any{}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"a", "b", "c"}) {
		t.Errorf("List = %v, want lexical order", ids)
	}
}
