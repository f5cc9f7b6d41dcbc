package invoice

import (
	"time"

	"github.com/d10sys/d10admin/internal/client"
)

// Status is the lifecycle state of an invoice. The client sets any status
// freely; the backend is the transition authority.
type Status string

const (
	StatusPendiente Status = "PENDIENTE"
	StatusPago      Status = "PAGO"
	StatusEnviado   Status = "ENVIADO"
	StatusEntregado Status = "ENTREGADO"
	StatusCancelado Status = "CANCELADO"
)

// PaidStatuses are the states that count as money received for the cash
// register rule.
var PaidStatuses = []Status{StatusPago, StatusEnviado, StatusEntregado}

// IsPaid reports whether s belongs to PaidStatuses.
func IsPaid(s Status) bool {
	for _, p := range PaidStatuses {
		if s == p {
			return true
		}
	}

	return false
}

// CartProduct is a cart line: a frozen snapshot of a product's pricing at
// the moment it was added, not a live reference. ID is the source product
// id; two additions of the same product yield two independent lines.
type CartProduct struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	MeasureType         string  `json:"measureType"`
	PriceByMeasureUnit  float64 `json:"priceByMeasureUnit"`
	MeasureUnitQuantity float64 `json:"measureUnitQuantity"`
	SaleUnitType        string  `json:"saleUnitType"`
	PriceBySaleUnit     float64 `json:"priceBySaleUnit"`
	SaleUnitQuantity    float64 `json:"saleUnitQuantity"`
	IndividualDiscount  float64 `json:"individualDiscount"`
	Subtotal            float64 `json:"subtotal"`
}

// Invoice is the invoice aggregate. The same shape serves the in-progress
// cart (empty id) and a persisted invoice. Total is derived, never set
// directly. StockDecreased reports whether the backend already decremented
// stock for this invoice; the cash register rule uses the value from the
// first version fetched.
type Invoice struct {
	ID             string        `json:"id"`
	Client         client.Client `json:"client"`
	Products       []CartProduct `json:"products"`
	Status         Status        `json:"status"`
	Discount       float64       `json:"discount"`
	Total          float64       `json:"total"`
	Date           time.Time     `json:"date,omitzero"`
	StockDecreased bool          `json:"stockDecreased"`
}

// CreateParams is the payload for creating or replacing an invoice.
type CreateParams struct {
	Client   client.Client `json:"client"`
	Products []CartProduct `json:"products"`
	Status   Status        `json:"status"`
	Discount float64       `json:"discount"`
	Total    float64       `json:"total"`
}

// SubtotalSum adds up the frozen line subtotals.
func (inv *Invoice) SubtotalSum() float64 {
	var sum float64
	for _, p := range inv.Products {
		sum += p.Subtotal
	}

	return sum
}

// Empty returns the placeholder cart: no client, no lines, PENDIENTE.
func Empty() Invoice {
	return Invoice{
		Client:   client.Placeholder(),
		Products: []CartProduct{},
		Status:   StatusPendiente,
	}
}
