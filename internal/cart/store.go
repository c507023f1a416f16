package cart

import (
	"context"
	"encoding/json"

	"github.com/pasarseni/pasarseni-backend/pkg/currency"
	"github.com/pasarseni/pasarseni-backend/pkg/logger"
)

// Store owns the canonical line items for a single cart owner. Every
// mutation applies a pure transition to the in-memory sequence and then
// mirrors the result to the durable slot before returning, so a reload
// immediately after any mutation observes the latest state.
//
// Slot failures never propagate: cart state is a convenience, not the
// order of record, so read errors degrade to an empty cart and write errors
// are logged while the in-memory state stays authoritative.
type Store struct {
	owner string
	items []LineItem
	slot  DurableSlot
	logg  *logger.Logger
}

// newStore rehydrates the owner's cart from the durable slot.
func newStore(ctx context.Context, owner string, slot DurableSlot, logg *logger.Logger) *Store {
	s := &Store{owner: owner, slot: slot, logg: logg}
	s.rehydrate(ctx)
	return s
}

func (s *Store) rehydrate(ctx context.Context) {
	payload, err := s.slot.Load(ctx, s.owner)
	if err != nil {
		s.warn(ctx, "cart slot unreadable, starting empty", err)
		return
	}
	if len(payload) == 0 {
		return
	}

	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		s.warn(ctx, "cart slot malformed, starting empty", err)
		return
	}
	for i := range items {
		if items[i].IsDigital {
			items[i].Quantity = 1
		} else if items[i].Quantity < 1 {
			items[i].Quantity = 1
		}
	}
	s.items = items
}

func (s *Store) persist(ctx context.Context) {
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.warn(ctx, "cart snapshot encode failed", err)
		return
	}
	if len(s.items) == 0 {
		if err := s.slot.Clear(ctx, s.owner); err != nil {
			s.warn(ctx, "cart slot clear failed", err)
		}
		return
	}
	if err := s.slot.Save(ctx, s.owner, payload); err != nil {
		s.warn(ctx, "cart slot write failed", err)
	}
}

func (s *Store) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithCartOwner(ctx, s.owner)
	ctx = s.logg.WithField(ctx, "error", err.Error())
	s.logg.Warn(ctx, msg)
}

// Add inserts or merges the snapshot into the cart. Returns true when the
// sequence changed.
func (s *Store) Add(ctx context.Context, item LineItem) bool {
	next := applyAdd(s.items, item)
	return s.commit(ctx, next)
}

// Remove deletes the line item with the given id; absent ids are a no-op.
func (s *Store) Remove(ctx context.Context, id string) bool {
	next := applyRemove(s.items, id)
	return s.commit(ctx, next)
}

// SetQuantity updates a physical item's quantity; below 1 removes the item
// and digital items are left untouched.
func (s *Store) SetQuantity(ctx context.Context, id string, quantity int) bool {
	next := applySetQuantity(s.items, id, quantity)
	return s.commit(ctx, next)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) bool {
	if len(s.items) == 0 {
		return false
	}
	return s.commit(ctx, nil)
}

func (s *Store) commit(ctx context.Context, next []LineItem) bool {
	if !changed(s.items, next) {
		return false
	}
	s.items = next
	s.persist(ctx)
	return true
}

func changed(prev, next []LineItem) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i] != next[i] {
			return true
		}
	}
	return false
}

// Items returns a copy of the current ordered line items.
func (s *Store) Items() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Has reports whether a line item with the id exists.
func (s *Store) Has(id string) bool {
	return indexOf(s.items, id) >= 0
}

// ItemCount sums quantities across line items.
func (s *Store) ItemCount() int {
	return countItems(s.items)
}

// Subtotal sums price times quantity across line items.
func (s *Store) Subtotal() currency.Money {
	return subtotal(s.items)
}
