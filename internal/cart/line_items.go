package cart

import (
	"github.com/pasarseni/pasarseni-backend/pkg/currency"
)

// Artist is the display snapshot of the seller, copied at add time.
type Artist struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LineItem is one purchasable unit in the cart. Title, image, price and
// artist are snapshots taken when the item was added; later catalog edits do
// not flow into existing carts. The JSON tags define the durable-slot format.
type LineItem struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	ImageURL  string         `json:"imageUrl"`
	Price     currency.Money `json:"price"`
	Artist    Artist         `json:"artist"`
	IsDigital bool           `json:"isDigital"`
	Quantity  int            `json:"quantity"`
}

// The transition functions below are pure: given the current line items and
// an operation they return the next line items, leaving persistence to the
// caller. Slices are copied on write so rehydrated snapshots never alias
// live state.

func indexOf(items []LineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

// applyAdd inserts a new line item at the end of the sequence, or bumps the
// quantity of an existing physical item. Re-adding a digital item is a no-op:
// digital artworks are unique purchases and never exceed quantity 1.
func applyAdd(items []LineItem, item LineItem) []LineItem {
	if item.IsDigital {
		item.Quantity = 1
	} else if item.Quantity < 1 {
		item.Quantity = 1
	}

	idx := indexOf(items, item.ID)
	if idx < 0 {
		next := make([]LineItem, len(items), len(items)+1)
		copy(next, items)
		return append(next, item)
	}

	if items[idx].IsDigital {
		return items
	}

	next := make([]LineItem, len(items))
	copy(next, items)
	next[idx].Quantity++
	return next
}

// applyRemove drops the line item with the given id; absent ids are a no-op.
func applyRemove(items []LineItem, id string) []LineItem {
	idx := indexOf(items, id)
	if idx < 0 {
		return items
	}
	next := make([]LineItem, 0, len(items)-1)
	next = append(next, items[:idx]...)
	return append(next, items[idx+1:]...)
}

// applySetQuantity sets the quantity of a physical line item. Quantities
// below 1 remove the item entirely; digital items are immutable at 1.
func applySetQuantity(items []LineItem, id string, quantity int) []LineItem {
	idx := indexOf(items, id)
	if idx < 0 {
		return items
	}
	if items[idx].IsDigital {
		return items
	}
	if quantity < 1 {
		return applyRemove(items, id)
	}

	next := make([]LineItem, len(items))
	copy(next, items)
	next[idx].Quantity = quantity
	return next
}

// countItems sums quantities; digital items contribute exactly 1 each.
func countItems(items []LineItem) int {
	total := 0
	for i := range items {
		if items[i].IsDigital {
			total++
			continue
		}
		total += items[i].Quantity
	}
	return total
}

// subtotal sums price times quantity over the sequence.
func subtotal(items []LineItem) currency.Money {
	var total currency.Money
	for i := range items {
		qty := items[i].Quantity
		if items[i].IsDigital {
			qty = 1
		}
		total += items[i].Price * currency.Money(qty)
	}
	return total
}
