// Package cart holds the local shopping cart: an ordered collection of
// (product, quantity) lines. State is process-local and never shared with
// the backend until checkout.
package cart

import (
	"sync"

	"github.com/Zephyrodes/farmacia/internal/core/domain"
)

// Item is one cart line. UnitPrice is captured at add time; a later price
// change in the catalog does not retroactively reprice the cart; the
// backend reprices authoritatively at checkout anyway.
type Item struct {
	ProductID int
	Name      string
	UnitPrice float64
	Quantity  int
}

// Store is the cart. Mutations are synchronous; the zero number of lines is
// a valid state. Invariant: at most one line per product.
type Store struct {
	mu    sync.Mutex
	items []Item
}

func NewStore() *Store {
	return &Store{}
}

// Add merges the product into an existing line by summing quantities, or
// appends a new line preserving insertion order. Quantities below 1 count
// as 1.
func (s *Store) Add(p domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == p.ID {
			s.items[i].Quantity += quantity
			return
		}
	}
	s.items = append(s.items, Item{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: float64(p.Price),
		Quantity:  quantity,
	})
}

// SetQuantity sets an absolute quantity for a line, clamped to at least 1.
// It never removes the line implicitly; use Remove for that. Unknown
// products are ignored.
func (s *Store) SetQuantity(productID, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line for productID, if present.
func (s *Store) Remove(productID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called explicitly by the user or automatically
// after a successful checkout.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is the sum of UnitPrice*Quantity across all lines, recomputed on
// every read. Line counts are small; caching would buy nothing.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, it := range s.items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
