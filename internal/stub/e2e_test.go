package stub_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cart"
	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/pricing"
	"github.com/d10sys/d10admin/internal/product"
	"github.com/d10sys/d10admin/internal/stub"
)

// TestCheckoutFlow walks the whole sale: stock a product, build the cart,
// create the invoice as paid, post the cash movement and reset the cart.
func TestCheckoutFlow(t *testing.T) {
	server := httptest.NewServer(stub.NewRouter(stub.NewStore()))
	t.Cleanup(server.Close)

	ctx := context.Background()
	apiClient := api.New(server.URL, 5*time.Second)
	cartStore := cart.NewStore(filepath.Join(t.TempDir(), "cart.json"))
	register := cashregister.NewService(apiClient)

	p := createProduct(t, apiClient, "Porcelanato Beige", 50, 1)
	require.NoError(t, apiClient.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockIn,
		Quantity: 5,
	}))

	require.NoError(t, apiClient.CreateClient(ctx, client.CreateParams{
		Type:    client.TypeFisica,
		Name:    "Maria Perez",
		CuitDni: "27-11111111-3",
	}))

	found, err := apiClient.SearchClients(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, found, 1)
	cartStore.SetClient(found[0])

	subtotal := pricing.LineSubtotal(2, p.PriceBySaleUnit, 0)
	require.InDelta(t, 100.0, subtotal, 1e-9)

	cartStore.AddLine(invoice.CartProduct{
		ID:               p.ID,
		Name:             p.Name,
		SaleUnitType:     string(p.SaleUnitType),
		PriceBySaleUnit:  p.PriceBySaleUnit,
		SaleUnitQuantity: 2,
		Subtotal:         subtotal,
	})
	cartStore.SetDiscount(20)
	cartStore.SetStatus(invoice.StatusPago)

	snapshot := cartStore.Invoice()
	require.InDelta(t, 80.0, snapshot.Total, 1e-9)

	require.NoError(t, apiClient.CreateInvoice(ctx, invoice.CreateParams{
		Client:   snapshot.Client,
		Products: snapshot.Products,
		Status:   snapshot.Status,
		Discount: snapshot.Discount,
		Total:    snapshot.Total,
	}))

	// The cart never saw a stock decrement; the previous status was the
	// cart default before the user flipped it to paid.
	previous := invoice.StatusPendiente
	fired, err := register.ApplyInvoiceStatusChange(ctx, cashregister.StatusChange{
		PreviousStatus: &previous,
		NextStatus:     snapshot.Status,
		Total:          snapshot.Total,
	})
	require.NoError(t, err)
	assert.True(t, fired)

	cartStore.Clear()

	amount, err := apiClient.CurrentAmount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 80.0, amount, 1e-9)

	txs, err := apiClient.Transactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, cashregister.TransactionIn, txs[0].Type)
	assert.Equal(t, fmt.Sprintf("Factura pagada/entregada/enviada - Total: $%.2f", 80.0), txs[0].Description)

	got, err := apiClient.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.Stock.Quantity, 1e-9)

	recent, err := apiClient.RecentInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, invoice.StatusPago, recent[0].Status)
	assert.True(t, recent[0].StockDecreased)

	// A second status change on the fetched invoice must not double-count:
	// it is already paid and its stock is already decremented.
	prevPaid := recent[0].Status
	fired, err = register.ApplyInvoiceStatusChange(ctx, cashregister.StatusChange{
		InvoiceID:               recent[0].ID,
		PreviousStatus:          &prevPaid,
		NextStatus:              invoice.StatusEntregado,
		Total:                   recent[0].Total,
		StockDecreasedInitially: recent[0].StockDecreased,
	})
	require.NoError(t, err)
	assert.False(t, fired)

	reset := cartStore.Invoice()
	assert.Empty(t, reset.Products)
	assert.Equal(t, invoice.StatusPendiente, reset.Status)
	assert.Zero(t, reset.Total)
	assert.Equal(t, client.Placeholder(), reset.Client)
}
