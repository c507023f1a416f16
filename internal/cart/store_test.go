package cart

import (
	"context"
	"errors"
	"testing"
)

// memorySlot is a map-backed DurableSlot for tests.
type memorySlot struct {
	data    map[string][]byte
	loadErr error
	saveErr error
	saves   int
	clears  int
}

func newMemorySlot() *memorySlot {
	return &memorySlot{data: map[string][]byte{}}
}

func (m *memorySlot) Load(_ context.Context, owner string) ([]byte, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.data[owner], nil
}

func (m *memorySlot) Save(_ context.Context, owner string, payload []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	buf := make([]byte, len(payload))
	copy(buf, payload)
	m.data[owner] = buf
	return nil
}

func (m *memorySlot) Clear(_ context.Context, owner string) error {
	m.clears++
	delete(m.data, owner)
	return nil
}

func TestStorePersistsAfterEveryMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	store := newStore(ctx, "user-1", slot, nil)

	if !store.Add(ctx, physicalItem("p1", 50_000)) {
		t.Fatal("first add should report a change")
	}
	if slot.saves != 1 {
		t.Fatalf("expected 1 slot write, got %d", slot.saves)
	}

	store.SetQuantity(ctx, "p1", 3)
	if slot.saves != 2 {
		t.Fatalf("expected 2 slot writes, got %d", slot.saves)
	}

	reloaded := newStore(ctx, "user-1", slot, nil)
	if got := reloaded.ItemCount(); got != 3 {
		t.Fatalf("reloaded store expected item count 3, got %d", got)
	}
	if got := reloaded.Subtotal(); got != 150_000 {
		t.Fatalf("reloaded store expected subtotal 150000, got %d", got)
	}
}

func TestStoreClearsSlotWhenEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	store := newStore(ctx, "user-1", slot, nil)

	store.Add(ctx, physicalItem("p1", 50_000))
	store.Remove(ctx, "p1")

	if slot.clears != 1 {
		t.Fatalf("expected slot cleared once, got %d", slot.clears)
	}
	if _, ok := slot.data["user-1"]; ok {
		t.Fatal("slot payload should be gone after last item is removed")
	}
}

func TestStoreRehydrateMalformedPayloadStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	slot.data["user-1"] = []byte("{not json")

	store := newStore(ctx, "user-1", slot, nil)
	if len(store.Items()) != 0 {
		t.Fatalf("malformed payload should yield an empty cart, got %+v", store.Items())
	}
}

func TestStoreRehydrateLoadErrorStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	slot.loadErr = errors.New("connection refused")

	store := newStore(ctx, "user-1", slot, nil)
	if len(store.Items()) != 0 {
		t.Fatal("unreadable slot should yield an empty cart")
	}
}

func TestStoreRehydrateNormalizesQuantities(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	slot.data["user-1"] = []byte(`[
		{"id":"d1","title":"Lukisan","price":100000,"artist":{"firstName":"A","lastName":"B"},"isDigital":true,"quantity":4},
		{"id":"p1","title":"Patung","price":50000,"artist":{"firstName":"C","lastName":"D"},"isDigital":false,"quantity":0}
	]`)

	store := newStore(ctx, "user-1", slot, nil)
	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quantity != 1 || items[1].Quantity != 1 {
		t.Fatalf("quantities not normalized: %+v", items)
	}
}

func TestStoreWriteFailureKeepsInMemoryState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	slot.saveErr = errors.New("disk full")

	store := newStore(ctx, "user-1", slot, nil)
	if !store.Add(ctx, physicalItem("p1", 50_000)) {
		t.Fatal("add should still report success when the slot write fails")
	}
	if !store.Has("p1") {
		t.Fatal("in-memory state must remain authoritative after a write failure")
	}
}

func TestStoreIneffectiveMutationSkipsPersist(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	slot := newMemorySlot()
	store := newStore(ctx, "user-1", slot, nil)

	store.Add(ctx, digitalItem("d1", 100_000))
	writes := slot.saves

	if store.Add(ctx, digitalItem("d1", 100_000)) {
		t.Fatal("duplicate digital add should be a no-op")
	}
	if store.Remove(ctx, "ghost") {
		t.Fatal("removing a missing id should be a no-op")
	}
	if slot.saves != writes {
		t.Fatalf("no-op mutations must not touch the slot, writes went %d -> %d", writes, slot.saves)
	}
}
