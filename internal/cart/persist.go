package cart

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/invoice"
)

// The on-disk format is the invoice aggregate as plain JSON. Loading is
// field-tolerant: any field that is missing or has the wrong shape falls
// back to its empty-cart default instead of discarding the whole cart.

type persistedCart struct {
	ID       json.RawMessage `json:"id"`
	Client   json.RawMessage `json:"client"`
	Products json.RawMessage `json:"products"`
	Status   json.RawMessage `json:"status"`
	Discount json.RawMessage `json:"discount"`
	Total    json.RawMessage `json:"total"`
}

func load(path string) invoice.Invoice {
	empty := invoice.Empty()

	if path == "" {
		return empty
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return empty
	}

	var p persistedCart
	if err := json.Unmarshal(raw, &p); err != nil {
		return empty
	}

	inv := empty

	var id string
	if json.Unmarshal(p.ID, &id) == nil {
		inv.ID = id
	}

	var c client.Client
	if p.Client != nil && json.Unmarshal(p.Client, &c) == nil {
		inv.Client = c
	}

	var products []invoice.CartProduct
	if p.Products != nil && json.Unmarshal(p.Products, &products) == nil && products != nil {
		inv.Products = products
	}

	var status invoice.Status
	if json.Unmarshal(p.Status, &status) == nil && status != "" {
		inv.Status = status
	}

	var discount float64
	if json.Unmarshal(p.Discount, &discount) == nil && !math.IsNaN(discount) && !math.IsInf(discount, 0) {
		inv.Discount = discount
	}

	var total float64
	if json.Unmarshal(p.Total, &total) == nil && !math.IsNaN(total) && !math.IsInf(total, 0) {
		inv.Total = total
	}

	return inv
}

// persist mirrors the cart to disk. Storage failures are swallowed: losing
// the mirror only costs cart recovery after a restart.
func (s *Store) persist() {
	if s.path == "" {
		return
	}

	raw, err := json.Marshal(s.inv)
	if err != nil {
		return
	}

	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	_ = os.WriteFile(s.path, raw, 0o644)
}
