// Package pricing holds the pure price computations shared by the cart
// screen and the invoice edit screen. Both screens derive totals through
// these functions so they can never disagree.
package pricing

import (
	"errors"
	"math"
)

// ErrNonFinite is returned when a percentage input is NaN or infinite.
var ErrNonFinite = errors.New("pricing: value is not finite")

// LineSubtotal computes the subtotal of a single cart line, floored at zero.
// The individual discount is an absolute currency amount.
func LineSubtotal(saleUnitQuantity, priceBySaleUnit, individualDiscount float64) float64 {
	return math.Max(0, saleUnitQuantity*priceBySaleUnit-individualDiscount)
}

// AggregateSubtotal sums per-line subtotals.
func AggregateSubtotal(subtotals []float64) float64 {
	var sum float64
	for _, s := range subtotals {
		sum += s
	}

	return sum
}

// DiscountFromPercent converts a percentage of the aggregate subtotal into an
// absolute discount. The percentage is clamped to [0, 100]; non-finite input
// is rejected so callers apply no state change.
func DiscountFromPercent(percent, aggregateSubtotal float64) (float64, error) {
	if math.IsNaN(percent) || math.IsInf(percent, 0) {
		return 0, ErrNonFinite
	}

	percent = math.Min(100, math.Max(0, percent))

	return aggregateSubtotal * (percent / 100), nil
}

// PercentFromDiscount is the inverse of DiscountFromPercent, used to render
// the discount slider position. A non-positive aggregate maps to 0.
func PercentFromDiscount(discount, aggregateSubtotal float64) float64 {
	if aggregateSubtotal <= 0 {
		return 0
	}

	return discount / aggregateSubtotal * 100
}

// Total computes the invoice total from the aggregate subtotal and the
// absolute cart discount, floored at zero.
func Total(aggregateSubtotal, discount float64) float64 {
	return math.Max(0, aggregateSubtotal-discount)
}
