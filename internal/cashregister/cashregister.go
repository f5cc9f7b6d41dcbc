package cashregister

import "time"

// TransactionType marks the direction of a cash movement.
type TransactionType string

const (
	TransactionIn  TransactionType = "IN"
	TransactionOut TransactionType = "OUT"
)

// Transaction is one entry of the append-only cash register ledger.
type Transaction struct {
	ID          string          `json:"id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateTransactionParams is the payload for creating or replacing a
// ledger entry.
type CreateTransactionParams struct {
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description,omitempty"`
}
