// Package stub is an in-memory rendition of the backend the console talks
// to. It exists for local development and for end-to-end tests; data lives
// for the lifetime of the process.
package stub

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/client"
	"github.com/d10sys/d10admin/internal/invoice"
	"github.com/d10sys/d10admin/internal/product"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("Stock insuficiente")
	ErrDuplicateCuit     = errors.New("ya existe un cliente con ese cuit/dni")
)

// recentInvoiceLimit caps the no-query invoice search.
const recentInvoiceLimit = 10

type Store struct {
	mu           sync.Mutex
	products     []product.Product
	clients      []client.Client
	invoices     []invoice.Invoice
	transactions []cashregister.Transaction
	images       map[string][]byte

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		images: make(map[string][]byte),
		now:    time.Now,
	}
}

func matches(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}

	return false
}

// CreateProduct inserts a new catalog entry. priceByMeasureUnit is derived
// from the sale unit price and the conversion factor.
func (s *Store) CreateProduct(params product.CreateParams) product.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := productFromParams(uuid.NewString(), params)
	s.products = append(s.products, p)

	return p
}

func productFromParams(id string, params product.CreateParams) product.Product {
	p := product.Product{
		ID:                 id,
		Code:               params.Code,
		Name:               params.Name,
		Description:        params.Description,
		Quality:            params.Quality,
		ProviderName:       params.ProviderName,
		Characteristics:    params.Characteristics,
		Images:             params.Images,
		Category:           params.Category,
		Subcategory:        params.Subcategory,
		Dimensions:         params.Dimensions,
		MeasureType:        params.MeasureType,
		SaleUnitType:       params.SaleUnitType,
		PriceBySaleUnit:    params.PriceBySaleUnit,
		MeasurePerSaleUnit: params.MeasurePerSaleUnit,
	}

	if params.MeasurePerSaleUnit > 0 {
		p.PriceByMeasureUnit = params.PriceBySaleUnit / params.MeasurePerSaleUnit
	}

	return p
}

func (s *Store) GetProduct(id string) (product.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return product.Product{}, false
	}

	return s.products[idx], true
}

// ListProducts returns the page of products matching the query, ordered by
// insertion. Page is zero-based.
func (s *Store) ListProducts(query string, page, size int) ([]product.Product, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var filtered []product.Product
	for _, p := range s.products {
		if matches(query, p.Name, p.Code) {
			filtered = append(filtered, p)
		}
	}

	if size <= 0 {
		size = 15
	}

	totalPages := (len(filtered) + size - 1) / size

	start := page * size
	if start >= len(filtered) {
		return []product.Product{}, totalPages
	}

	end := start + size
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], totalPages
}

// UpdateProduct replaces the editable fields, keeping id, stock and the
// discontinued flag.
func (s *Store) UpdateProduct(id string, params product.CreateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	updated := productFromParams(id, params)
	updated.Stock = s.products[idx].Stock
	updated.Discontinued = s.products[idx].Discontinued
	s.products[idx] = updated

	return nil
}

func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	s.products = append(s.products[:idx], s.products[idx+1:]...)

	return nil
}

func (s *Store) SetProductDiscontinued(id string, discontinued bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.productIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	s.products[idx].Discontinued = discontinued

	return nil
}

// ApplyStockMovement records one IN/OUT movement in sale units. An OUT that
// would leave the quantity negative is rejected.
func (s *Store) ApplyStockMovement(id string, movement product.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.applyStockMovementLocked(id, movement)
}

func (s *Store) applyStockMovementLocked(id string, movement product.StockMovement) error {
	idx := s.productIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	p := &s.products[idx]

	quantity := p.Stock.Quantity
	switch movement.Type {
	case product.StockIn:
		quantity += movement.Quantity
	case product.StockOut:
		quantity -= movement.Quantity
	}

	if quantity < 0 {
		return ErrInsufficientStock
	}

	p.Stock.Quantity = quantity
	p.Stock.MeasureUnitEquivalent = quantity * p.MeasurePerSaleUnit
	p.Stock.RecordList = append(p.Stock.RecordList, product.StockRecord{
		Type:     movement.Type,
		Quantity: movement.Quantity,
		Date:     s.now(),
	})

	return nil
}

func (s *Store) productIndex(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}

	return -1
}

// CreateClient inserts a new client. CuitDni must be unique.
func (s *Store) CreateClient(params client.CreateParams) (client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.CuitDni == params.CuitDni {
			return client.Client{}, ErrDuplicateCuit
		}
	}

	c := clientFromParams(uuid.NewString(), params)
	s.clients = append(s.clients, c)

	return c, nil
}

func clientFromParams(id string, params client.CreateParams) client.Client {
	return client.Client{
		ID:      id,
		Type:    params.Type,
		Name:    params.Name,
		Address: params.Address,
		Phone:   params.Phone,
		Email:   params.Email,
		CuitDni: params.CuitDni,
	}
}

func (s *Store) GetClient(id string) (client.Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.ID == id {
			return c, true
		}
	}

	return client.Client{}, false
}

func (s *Store) UpdateClient(id string, params client.CreateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.clients {
		if c.ID != id && c.CuitDni == params.CuitDni {
			return ErrDuplicateCuit
		}
	}

	for i, c := range s.clients {
		if c.ID == id {
			s.clients[i] = clientFromParams(id, params)
			return nil
		}
	}

	return ErrNotFound
}

func (s *Store) DeleteClient(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.clients {
		if c.ID == id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

// SearchClients matches name and cuit/dni, case-insensitive.
func (s *Store) SearchClients(q string) []client.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []client.Client{}
	for _, c := range s.clients {
		if matches(q, c.Name, c.CuitDni) {
			result = append(result, c)
		}
	}

	return result
}

// CreateInvoice persists an invoice and decrements stock for every line,
// in sale units. If any line lacks stock nothing is written.
func (s *Store) CreateInvoice(params invoice.CreateParams) (invoice.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range params.Products {
		idx := s.productIndex(line.ID)
		if idx >= 0 && s.products[idx].Stock.Quantity < line.SaleUnitQuantity {
			return invoice.Invoice{}, ErrInsufficientStock
		}
	}

	for _, line := range params.Products {
		if s.productIndex(line.ID) < 0 {
			continue
		}

		// Validated above, cannot fail on quantity.
		_ = s.applyStockMovementLocked(line.ID, product.StockMovement{
			Type:     product.StockOut,
			Quantity: line.SaleUnitQuantity,
		})
	}

	inv := invoice.Invoice{
		ID:             uuid.NewString(),
		Client:         params.Client,
		Products:       params.Products,
		Status:         params.Status,
		Discount:       params.Discount,
		Total:          params.Total,
		Date:           s.now(),
		StockDecreased: true,
	}
	s.invoices = append(s.invoices, inv)

	return inv, nil
}

func (s *Store) GetInvoice(id string) (invoice.Invoice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return invoice.Invoice{}, false
	}

	return s.invoices[idx], true
}

// UpdateInvoice replaces client, lines, status, discount and total. Stock
// is not touched again.
func (s *Store) UpdateInvoice(id string, params invoice.CreateParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	inv := &s.invoices[idx]
	inv.Client = params.Client
	inv.Products = params.Products
	inv.Status = params.Status
	inv.Discount = params.Discount
	inv.Total = params.Total

	return nil
}

func (s *Store) UpdateInvoiceStatus(id string, status invoice.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	s.invoices[idx].Status = status

	return nil
}

func (s *Store) DeleteInvoice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.invoiceIndex(id)
	if idx < 0 {
		return ErrNotFound
	}

	s.invoices = append(s.invoices[:idx], s.invoices[idx+1:]...)

	return nil
}

// SearchInvoices matches client name and invoice id. An empty query
// returns the most recent invoices by date.
func (s *Store) SearchInvoices(q string) []invoice.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []invoice.Invoice{}
	for _, inv := range s.invoices {
		if matches(q, inv.Client.Name, inv.ID) {
			result = append(result, inv)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Date.After(result[j].Date)
	})

	if strings.TrimSpace(q) == "" && len(result) > recentInvoiceLimit {
		result = result[:recentInvoiceLimit]
	}

	return result
}

func (s *Store) invoiceIndex(id string) int {
	for i, inv := range s.invoices {
		if inv.ID == id {
			return i
		}
	}

	return -1
}

// CurrentAmount is the running balance: IN minus OUT over the whole ledger.
func (s *Store) CurrentAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var amount float64
	for _, tx := range s.transactions {
		switch tx.Type {
		case cashregister.TransactionIn:
			amount += tx.Amount
		case cashregister.TransactionOut:
			amount -= tx.Amount
		}
	}

	return amount
}

// Transactions lists ledger entries, newest first, optionally filtered to
// one calendar day (YYYY-MM-DD).
func (s *Store) Transactions(date string) []cashregister.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []cashregister.Transaction{}
	for _, tx := range s.transactions {
		if date != "" && tx.CreatedAt.Format(time.DateOnly) != date {
			continue
		}

		result = append(result, tx)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

func (s *Store) CreateTransaction(params cashregister.CreateTransactionParams) cashregister.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := cashregister.Transaction{
		ID:          uuid.NewString(),
		Amount:      params.Amount,
		Type:        params.Type,
		Description: params.Description,
		CreatedAt:   s.now(),
	}
	s.transactions = append(s.transactions, tx)

	return tx
}

func (s *Store) UpdateTransaction(id string, params cashregister.CreateTransactionParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.transactions {
		if tx.ID == id {
			s.transactions[i].Amount = params.Amount
			s.transactions[i].Type = params.Type
			s.transactions[i].Description = params.Description

			return nil
		}
	}

	return ErrNotFound
}

func (s *Store) DeleteTransaction(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, tx := range s.transactions {
		if tx.ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}

	return ErrNotFound
}

// PutImage stores uploaded bytes under the file name.
func (s *Store) PutImage(fileName string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images[fileName] = data
}

func (s *Store) GetImage(fileName string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.images[fileName]

	return data, ok
}
