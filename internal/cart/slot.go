package cart

import (
	"context"
)

// SlotVersion tags the durable-slot key so future format changes can roll
// out without misreading old snapshots.
const SlotVersion = "v1"

// DurableSlot mirrors one owner's cart to durable storage. Load returns
// nil with no error when the slot has never been written; malformed payloads
// are surfaced as-is and the store degrades them to an empty cart.
type DurableSlot interface {
	Load(ctx context.Context, owner string) ([]byte, error)
	Save(ctx context.Context, owner string, payload []byte) error
	Clear(ctx context.Context, owner string) error
}
