// Package cart owns the one piece of cross-screen mutable state: the
// in-progress invoice. Screens never touch the aggregate directly; they go
// through the Store operations, each of which recomputes the total and
// mirrors the cart to disk so it survives a restart.
package cart

import (
	"sync"

	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/pricing"
)

type Store struct {
	mu   sync.Mutex
	inv  invoice.Invoice
	path string
}

// NewStore loads the persisted cart from path, falling back to the empty
// cart when the file is missing or unreadable. An empty path disables
// persistence.
func NewStore(path string) *Store {
	return &Store{
		inv:  load(path),
		path: path,
	}
}

// Invoice returns a snapshot of the current cart.
func (s *Store) Invoice() invoice.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot()
}

// SetClient replaces the cart client. Products and total are untouched.
func (s *Store) SetClient(c client.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inv.Client = c
	s.persist()
}

// AddLine appends a line. Adding the same product twice yields two
// independent lines; their discounts may legitimately differ.
func (s *Store) AddLine(p invoice.CartProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inv.Products = append(s.inv.Products, p)
	s.recompute()
	s.persist()
}

// RemoveLine drops every line whose id matches. No-op when absent.
func (s *Store) RemoveLine(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.inv.Products[:0]
	for _, p := range s.inv.Products {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}

	if len(kept) == len(s.inv.Products) {
		return
	}

	s.inv.Products = kept
	s.recompute()
	s.persist()
}

// SetDiscount sets the absolute cart discount. Clamping to a sane range is
// the caller's job via the percent-based input.
func (s *Store) SetDiscount(amount float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inv.Discount = amount
	s.recompute()
	s.persist()
}

// SetStatus sets the invoice status. It does not trigger any cash register
// effect; callers apply that rule after a successful persistence.
func (s *Store) SetStatus(status invoice.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inv.Status = status
	s.persist()
}

// Clear resets the cart to the empty placeholder invoice.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inv = invoice.Empty()
	s.persist()
}

func (s *Store) recompute() {
	s.inv.Total = pricing.Total(s.inv.SubtotalSum(), s.inv.Discount)
}

func (s *Store) snapshot() invoice.Invoice {
	inv := s.inv
	inv.Products = make([]invoice.CartProduct, len(s.inv.Products))
	copy(inv.Products, s.inv.Products)

	return inv
}
