package stub_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d10sys/d10admin/internal/api"
	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/product"
	"github.com/d10sys/d10admin/internal/stub"
)

func newTestClient(t *testing.T) *api.Client {
	t.Helper()

	server := httptest.NewServer(stub.NewRouter(stub.NewStore()))
	t.Cleanup(server.Close)

	return api.New(server.URL, 5*time.Second)
}

func createProduct(t *testing.T, c *api.Client, name string, price, measurePerSaleUnit float64) product.Product {
	t.Helper()

	ctx := context.Background()
	require.NoError(t, c.CreateProduct(ctx, product.CreateParams{
		Code:               "P-" + name,
		Name:               name,
		Quality:            product.QualityPrimera,
		MeasureType:        product.MeasureM2,
		SaleUnitType:       product.SaleUnitCaja,
		PriceBySaleUnit:    price,
		MeasurePerSaleUnit: measurePerSaleUnit,
	}))

	page, err := c.ListProducts(ctx, name, 0, 15)
	require.NoError(t, err)
	require.NotEmpty(t, page.Content)

	return page.Content[0]
}

func TestProducts_CreateDerivesMeasureUnitPrice(t *testing.T) {
	c := newTestClient(t)

	p := createProduct(t, c, "Porcelanato Beige", 50, 2.5)

	assert.InDelta(t, 50.0, p.PriceBySaleUnit, 1e-9)
	assert.InDelta(t, 20.0, p.PriceByMeasureUnit, 1e-9)
	assert.False(t, p.Discontinued)
	assert.Zero(t, p.Stock.Quantity)
}

func TestProducts_GetMissingResolvesToNil(t *testing.T) {
	c := newTestClient(t)

	p, err := c.GetProduct(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProducts_ListPaginates(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 0; i < 17; i++ {
		createProduct(t, c, "Ceramica", 10, 1)
	}

	page, err := c.ListProducts(ctx, "", 0, 15)
	require.NoError(t, err)
	assert.Len(t, page.Content, 15)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.First)
	assert.False(t, page.Last)

	page, err = c.ListProducts(ctx, "", 1, 15)
	require.NoError(t, err)
	assert.Len(t, page.Content, 2)
	assert.True(t, page.Last)
}

func TestProducts_SearchMatchesNameAndCode(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	createProduct(t, c, "Porcelanato Gris", 30, 1)
	createProduct(t, c, "Azulejo Blanco", 20, 1)

	page, err := c.ListProducts(ctx, "azulejo", 0, 15)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Azulejo Blanco", page.Content[0].Name)
}

func TestProducts_StockMovements(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p := createProduct(t, c, "Guarda Decorada", 15, 0.5)

	require.NoError(t, c.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockIn,
		Quantity: 10,
	}))
	require.NoError(t, c.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockOut,
		Quantity: 4,
	}))

	got, err := c.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 6.0, got.Stock.Quantity, 1e-9)
	assert.InDelta(t, 3.0, got.Stock.MeasureUnitEquivalent, 1e-9)
	assert.Len(t, got.Stock.RecordList, 2)
}

func TestProducts_OutBeyondStockIsRejected(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p := createProduct(t, c, "Malla Vidrio", 8, 1)

	require.NoError(t, c.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockIn,
		Quantity: 3,
	}))

	err := c.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockOut,
		Quantity: 5,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Stock insuficiente")

	// Nothing was written.
	got, err := c.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.Stock.Quantity, 1e-9)
	assert.Len(t, got.Stock.RecordList, 1)
}

func TestProducts_DiscontinueToggle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p := createProduct(t, c, "Listel Negro", 12, 1)

	require.NoError(t, c.SetProductDiscontinued(ctx, p.ID, true))

	got, err := c.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Discontinued)

	require.NoError(t, c.SetProductDiscontinued(ctx, p.ID, false))

	got, err = c.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Discontinued)
}

func TestClients_DuplicateCuitIsRejected(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	params := client.CreateParams{
		Type:    client.TypeFisica,
		Name:    "Maria Perez",
		CuitDni: "27-11111111-3",
	}
	require.NoError(t, c.CreateClient(ctx, params))

	params.Name = "Otra Persona"
	err := c.CreateClient(ctx, params)
	require.Error(t, err)
	assert.EqualError(t, err, "ya existe un cliente con ese cuit/dni")
}

func TestClients_SearchMatchesNameAndCuit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateClient(ctx, client.CreateParams{
		Type: client.TypeFisica, Name: "Maria Perez", CuitDni: "27-11111111-3",
	}))
	require.NoError(t, c.CreateClient(ctx, client.CreateParams{
		Type: client.TypeJuridica, Name: "Construcciones SA", CuitDni: "30-22222222-5",
	}))

	byName, err := c.SearchClients(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Maria Perez", byName[0].Name)

	byCuit, err := c.SearchClients(ctx, "30-22222222")
	require.NoError(t, err)
	require.Len(t, byCuit, 1)
	assert.Equal(t, "Construcciones SA", byCuit[0].Name)
}

func TestInvoices_CreateDecrementsStock(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p := createProduct(t, c, "Porcelanato Beige", 50, 1)
	require.NoError(t, c.UpdateProductStock(ctx, p.ID, product.StockMovement{
		Type:     product.StockIn,
		Quantity: 5,
	}))

	require.NoError(t, c.CreateInvoice(ctx, invoice.CreateParams{
		Client: client.Client{Name: "Maria Perez"},
		Products: []invoice.CartProduct{{
			ID:               p.ID,
			Name:             p.Name,
			SaleUnitQuantity: 2,
			PriceBySaleUnit:  50,
			Subtotal:         100,
		}},
		Status: invoice.StatusPendiente,
		Total:  100,
	}))

	got, err := c.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got.Stock.Quantity, 1e-9)

	recent, err := c.RecentInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.True(t, recent[0].StockDecreased)
	assert.False(t, recent[0].Date.IsZero())
}

func TestInvoices_CreateWithoutStockIsRejected(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	p := createProduct(t, c, "Azulejo Blanco", 20, 1)

	err := c.CreateInvoice(ctx, invoice.CreateParams{
		Products: []invoice.CartProduct{{ID: p.ID, SaleUnitQuantity: 1}},
		Status:   invoice.StatusPendiente,
		Total:    20,
	})
	require.Error(t, err)
	assert.EqualError(t, err, "Stock insuficiente")

	recent, err := c.RecentInvoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestInvoices_SearchMatchesClientName(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateInvoice(ctx, invoice.CreateParams{
		Client: client.Client{Name: "Maria Perez"},
		Status: invoice.StatusPendiente,
	}))
	require.NoError(t, c.CreateInvoice(ctx, invoice.CreateParams{
		Client: client.Client{Name: "Construcciones SA"},
		Status: invoice.StatusPendiente,
	}))

	found, err := c.SearchInvoices(ctx, "maria")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Maria Perez", found[0].Client.Name)
}

func TestInvoices_StatusPatch(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateInvoice(ctx, invoice.CreateParams{
		Client: client.Client{Name: "Maria Perez"},
		Status: invoice.StatusPendiente,
		Total:  80,
	}))

	recent, err := c.RecentInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	require.NoError(t, c.UpdateInvoiceStatus(ctx, recent[0].ID, invoice.StatusPago))

	got, err := c.GetInvoice(ctx, recent[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, invoice.StatusPago, got.Status)
	assert.InDelta(t, 80.0, got.Total, 1e-9)
}

func TestCashRegister_BalanceAndDayFilter(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	amount, err := c.CurrentAmount(ctx)
	require.NoError(t, err)
	assert.Zero(t, amount)

	require.NoError(t, c.CreateTransaction(ctx, cashregister.CreateTransactionParams{
		Amount: 1000, Type: cashregister.TransactionIn, Description: "Ingreso manual de caja",
	}))
	require.NoError(t, c.CreateTransaction(ctx, cashregister.CreateTransactionParams{
		Amount: 300, Type: cashregister.TransactionOut, Description: "Egreso manual de caja",
	}))

	amount, err = c.CurrentAmount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 700.0, amount, 1e-9)

	today := time.Now().Format(time.DateOnly)
	txs, err := c.Transactions(ctx, today)
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = c.Transactions(ctx, "2001-01-01")
	require.NoError(t, err)
	assert.Empty(t, txs)

	// Empty date means no filter.
	txs, err = c.Transactions(ctx, "")
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestCashRegister_UpdateAndDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.CreateTransaction(ctx, cashregister.CreateTransactionParams{
		Amount: 100, Type: cashregister.TransactionIn,
	}))

	txs, err := c.Transactions(ctx, "")
	require.NoError(t, err)
	require.Len(t, txs, 1)

	require.NoError(t, c.UpdateTransaction(ctx, txs[0].ID, cashregister.CreateTransactionParams{
		Amount: 250, Type: cashregister.TransactionIn, Description: "ajuste",
	}))

	amount, err := c.CurrentAmount(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 250.0, amount, 1e-9)

	require.NoError(t, c.DeleteTransaction(ctx, txs[0].ID))

	amount, err = c.CurrentAmount(ctx)
	require.NoError(t, err)
	assert.Zero(t, amount)
}

func TestImages_UploadRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	uploadURL, err := c.RequestUploadURL(ctx, "frente.png")
	require.NoError(t, err)
	assert.Contains(t, uploadURL, "/img/upload/frente.png?")

	assetURL, err := c.UploadImage(ctx, uploadURL, []byte("not-really-a-png"))
	require.NoError(t, err)
	assert.NotContains(t, assetURL, "?")
	assert.Contains(t, assetURL, "/img/upload/frente.png")
}
