package pricing_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d10sys/d10admin/internal/pricing"
)

func TestLineSubtotal(t *testing.T) {
	type testCase struct {
		name     string
		qty      float64
		price    float64
		discount float64
		want     float64
	}

	tests := []testCase{
		{name: "NoDiscount", qty: 2, price: 50, discount: 0, want: 100},
		{name: "WithDiscount", qty: 2, price: 50, discount: 30, want: 70},
		{name: "DiscountExceedsValue", qty: 1, price: 10, discount: 25, want: 0},
		{name: "ZeroQuantity", qty: 0, price: 100, discount: 0, want: 0},
		{name: "FractionalQuantity", qty: 2.5, price: 4, discount: 1, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.LineSubtotal(tt.qty, tt.price, tt.discount)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestAggregateSubtotal(t *testing.T) {
	assert.Equal(t, 0.0, pricing.AggregateSubtotal(nil))
	assert.InDelta(t, 60.0, pricing.AggregateSubtotal([]float64{10, 20, 30}), 1e-9)
}

func TestTotal(t *testing.T) {
	type testCase struct {
		name      string
		aggregate float64
		discount  float64
		want      float64
	}

	tests := []testCase{
		{name: "NoDiscount", aggregate: 100, discount: 0, want: 100},
		{name: "PartialDiscount", aggregate: 100, discount: 20, want: 80},
		{name: "DiscountExceedsSubtotal", aggregate: 50, discount: 80, want: 0},
		{name: "EmptyCart", aggregate: 0, discount: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.Total(tt.aggregate, tt.discount)
			assert.InDelta(t, tt.want, got, 1e-9)

			// Recomputation with unchanged inputs yields the same value.
			assert.Equal(t, got, pricing.Total(tt.aggregate, tt.discount))
		})
	}
}

func TestDiscountFromPercent(t *testing.T) {
	t.Run("Half", func(t *testing.T) {
		got, err := pricing.DiscountFromPercent(50, 200)
		require.NoError(t, err)
		assert.InDelta(t, 100.0, got, 1e-9)
	})

	t.Run("ClampsAboveHundred", func(t *testing.T) {
		got, err := pricing.DiscountFromPercent(150, 200)
		require.NoError(t, err)
		assert.InDelta(t, 200.0, got, 1e-9)
	})

	t.Run("ClampsBelowZero", func(t *testing.T) {
		got, err := pricing.DiscountFromPercent(-10, 200)
		require.NoError(t, err)
		assert.Zero(t, got)
	})

	t.Run("RejectsNaN", func(t *testing.T) {
		_, err := pricing.DiscountFromPercent(math.NaN(), 200)
		assert.ErrorIs(t, err, pricing.ErrNonFinite)
	})

	t.Run("RejectsInf", func(t *testing.T) {
		_, err := pricing.DiscountFromPercent(math.Inf(1), 200)
		assert.ErrorIs(t, err, pricing.ErrNonFinite)
	})
}

func TestPercentFromDiscount(t *testing.T) {
	assert.Zero(t, pricing.PercentFromDiscount(50, 0))
	assert.InDelta(t, 25.0, pricing.PercentFromDiscount(50, 200), 1e-9)
}

func TestPercentDiscountRoundTrip(t *testing.T) {
	aggregates := []float64{1, 80, 123.45, 10000}
	discounts := []float64{0, 0.5, 33.33, 79.99}

	for _, agg := range aggregates {
		for _, d := range discounts {
			if d > agg {
				continue
			}

			percent := pricing.PercentFromDiscount(d, agg)
			back, err := pricing.DiscountFromPercent(percent, agg)
			require.NoError(t, err)
			assert.InDelta(t, d, back, 1e-9)
		}
	}
}
