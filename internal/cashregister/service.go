package cashregister

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/d10sys/d10admin/internal/invoice"
)

// ErrInvalidAmount rejects a manual cash movement before any request is
// sent.
var ErrInvalidAmount = errors.New("el monto debe ser mayor a 0")

const (
	defaultInDescription  = "Ingreso manual de caja"
	defaultOutDescription = "Egreso manual de caja"
)

//go:generate mockgen -source=service.go -destination=ledger_mock.go -package=cashregister
type Ledger interface {
	CurrentAmount(ctx context.Context) (float64, error)
	Transactions(ctx context.Context, date string) ([]Transaction, error)
	CreateTransaction(ctx context.Context, params CreateTransactionParams) error
	UpdateTransaction(ctx context.Context, id string, params CreateTransactionParams) error
	DeleteTransaction(ctx context.Context, id string) error
}

// Service orchestrates the cash register. It caches the last-known balance
// and transaction list; both are owned by the backend and only ever updated
// by re-fetching, never by local arithmetic.
type Service struct {
	ledger Ledger

	mu                  sync.Mutex
	amount              float64
	transactions        []Transaction
	loadingAmount       bool
	loadingTransactions bool
}

func NewService(ledger Ledger) *Service {
	return &Service{ledger: ledger}
}

// Amount returns the last-known balance.
func (s *Service) Amount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.amount
}

// CachedTransactions returns the last fetched transaction list.
func (s *Service) CachedTransactions() []Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transactions
}

func (s *Service) IsLoadingAmount() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadingAmount
}

func (s *Service) IsLoadingTransactions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadingTransactions
}

// RefreshAmount re-fetches the balance. On failure the last-known value is
// kept so the UI keeps displaying it; the error is returned for the caller
// to surface.
func (s *Service) RefreshAmount(ctx context.Context) (float64, error) {
	s.setLoadingAmount(true)
	defer s.setLoadingAmount(false)

	amount, err := s.ledger.CurrentAmount(ctx)
	if err != nil {
		return s.Amount(), err
	}

	s.mu.Lock()
	s.amount = amount
	s.mu.Unlock()

	return amount, nil
}

// RefreshTransactions re-fetches the ledger, optionally filtered to one
// calendar day (YYYY-MM-DD). An empty date means no filter.
func (s *Service) RefreshTransactions(ctx context.Context, date string) ([]Transaction, error) {
	s.setLoadingTransactions(true)
	defer s.setLoadingTransactions(false)

	txs, err := s.ledger.Transactions(ctx, date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.transactions = txs
	s.mu.Unlock()

	return txs, nil
}

// AddCash records a manual IN movement. The amount is validated locally:
// non-finite or non-positive values are rejected without a request.
func (s *Service) AddCash(ctx context.Context, amount float64, description string) error {
	return s.manualMovement(ctx, amount, description, TransactionIn, defaultInDescription)
}

// RemoveCash records a manual OUT movement, validated like AddCash.
func (s *Service) RemoveCash(ctx context.Context, amount float64, description string) error {
	return s.manualMovement(ctx, amount, description, TransactionOut, defaultOutDescription)
}

func (s *Service) manualMovement(ctx context.Context, amount float64, description string, typ TransactionType, defaultDescription string) error {
	if !isPositiveFinite(amount) {
		return ErrInvalidAmount
	}

	if description == "" {
		description = defaultDescription
	}

	err := s.ledger.CreateTransaction(ctx, CreateTransactionParams{
		Amount:      amount,
		Type:        typ,
		Description: description,
	})
	if err != nil {
		return err
	}

	return s.refreshAll(ctx)
}

// UpdateTransaction replaces a ledger entry and re-fetches balance and list.
func (s *Service) UpdateTransaction(ctx context.Context, id string, params CreateTransactionParams) error {
	if err := s.ledger.UpdateTransaction(ctx, id, params); err != nil {
		return err
	}

	return s.refreshAll(ctx)
}

// DeleteTransaction removes a ledger entry and re-fetches balance and list.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return err
	}

	return s.refreshAll(ctx)
}

// StatusChange describes an invoice status transition as seen by the
// screen that performed it. PreviousStatus is nil for a freshly created
// invoice. StockDecreasedInitially carries the stockDecreased flag from the
// first version of the invoice received from the backend.
type StatusChange struct {
	InvoiceID               string
	PreviousStatus          *invoice.Status
	NextStatus              invoice.Status
	Total                   float64
	StockDecreasedInitially bool
}

// ApplyInvoiceStatusChange fires a cash IN transaction for the invoice
// total when all of the following hold: stock was not already decremented,
// the next status counts as paid, the previous status did not, and the
// total is finite and positive. It reports whether a transaction was
// posted. The caller's invoice write is never rolled back: a failure here
// is surfaced and accepted as an inconsistency window.
func (s *Service) ApplyInvoiceStatusChange(ctx context.Context, change StatusChange) (bool, error) {
	if change.StockDecreasedInitially {
		return false, nil
	}

	wasAlreadyPaid := change.PreviousStatus != nil && invoice.IsPaid(*change.PreviousStatus)
	if !invoice.IsPaid(change.NextStatus) || wasAlreadyPaid {
		return false, nil
	}

	if !isPositiveFinite(change.Total) {
		return false, nil
	}

	err := s.ledger.CreateTransaction(ctx, CreateTransactionParams{
		Amount:      change.Total,
		Type:        TransactionIn,
		Description: fmt.Sprintf("Factura pagada/entregada/enviada - Total: $%.2f", change.Total),
	})
	if err != nil {
		return false, err
	}

	_, refreshErr := s.RefreshAmount(ctx)

	return true, refreshErr
}

func (s *Service) refreshAll(ctx context.Context) error {
	_, amountErr := s.RefreshAmount(ctx)
	_, txErr := s.RefreshTransactions(ctx, "")

	return errors.Join(amountErr, txErr)
}

func (s *Service) setLoadingAmount(v bool) {
	s.mu.Lock()
	s.loadingAmount = v
	s.mu.Unlock()
}

func (s *Service) setLoadingTransactions(v bool) {
	s.mu.Lock()
	s.loadingTransactions = v
	s.mu.Unlock()
}

func isPositiveFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
