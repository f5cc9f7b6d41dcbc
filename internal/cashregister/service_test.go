package cashregister_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/d10sys/d10admin/internal/cashregister"
	"github.com/d10sys/d10admin/internal/invoice"
)

func statusPtr(s invoice.Status) *invoice.Status { return &s }

func TestService_ApplyInvoiceStatusChange(t *testing.T) {
	type testCase struct {
		name      string
		change    cashregister.StatusChange
		setupMock func(m *cashregister.MockLedger)
		wantFired bool
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "FiresOnPendienteToPago",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPendiente),
				NextStatus:     invoice.StatusPago,
				Total:          100,
			},
			setupMock: func(m *cashregister.MockLedger) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params cashregister.CreateTransactionParams) error {
						assert.Equal(t, cashregister.TransactionIn, params.Type)
						assert.InDelta(t, 100.0, params.Amount, 1e-9)
						return nil
					})
				m.EXPECT().CurrentAmount(gomock.Any()).Return(100.0, nil)
			},
			wantFired: true,
		},
		{
			name: "FiresOnNewInvoiceWithNilPrevious",
			change: cashregister.StatusChange{
				PreviousStatus: nil,
				NextStatus:     invoice.StatusEnviado,
				Total:          80,
			},
			setupMock: func(m *cashregister.MockLedger) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(nil)
				m.EXPECT().CurrentAmount(gomock.Any()).Return(80.0, nil)
			},
			wantFired: true,
		},
		{
			name: "SkipsWhenAlreadyPaid",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPago),
				NextStatus:     invoice.StatusEntregado,
				Total:          100,
			},
		},
		{
			name: "SkipsWhenStockAlreadyDecreased",
			change: cashregister.StatusChange{
				PreviousStatus:          statusPtr(invoice.StatusPendiente),
				NextStatus:              invoice.StatusPago,
				Total:                   100,
				StockDecreasedInitially: true,
			},
		},
		{
			name: "SkipsWhenNextNotPaid",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPendiente),
				NextStatus:     invoice.StatusCancelado,
				Total:          100,
			},
		},
		{
			name: "SkipsOnZeroTotal",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPendiente),
				NextStatus:     invoice.StatusPago,
				Total:          0,
			},
		},
		{
			name: "SkipsOnNaNTotal",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPendiente),
				NextStatus:     invoice.StatusPago,
				Total:          math.NaN(),
			},
		},
		{
			name: "PostFailureSurfacesError",
			change: cashregister.StatusChange{
				PreviousStatus: statusPtr(invoice.StatusPendiente),
				NextStatus:     invoice.StatusPago,
				Total:          100,
			},
			setupMock: func(m *cashregister.MockLedger) {
				m.EXPECT().CreateTransaction(gomock.Any(), gomock.Any()).Return(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ledger := cashregister.NewMockLedger(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(ledger)
			}

			svc := cashregister.NewService(ledger)
			fired, err := svc.ApplyInvoiceStatusChange(context.Background(), tt.change)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			assert.Equal(t, tt.wantFired, fired)
		})
	}
}

func TestService_AddCash_RejectsInvalidAmountLocally(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No ledger expectations: invalid amounts never reach the network.
	svc := cashregister.NewService(cashregister.NewMockLedger(ctrl))

	for _, amount := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		err := svc.AddCash(context.Background(), amount, "")
		assert.ErrorIs(t, err, cashregister.ErrInvalidAmount)
	}
}

func TestService_AddCash_DefaultsDescriptionAndRefreshes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := cashregister.NewMockLedger(ctrl)
	ledger.EXPECT().
		CreateTransaction(gomock.Any(), cashregister.CreateTransactionParams{
			Amount:      500,
			Type:        cashregister.TransactionIn,
			Description: "Ingreso manual de caja",
		}).
		Return(nil)
	ledger.EXPECT().CurrentAmount(gomock.Any()).Return(500.0, nil)
	ledger.EXPECT().Transactions(gomock.Any(), "").Return([]cashregister.Transaction{{ID: "t1"}}, nil)

	svc := cashregister.NewService(ledger)
	require.NoError(t, svc.AddCash(context.Background(), 500, ""))

	assert.InDelta(t, 500.0, svc.Amount(), 1e-9)
	assert.Len(t, svc.CachedTransactions(), 1)
}

func TestService_RemoveCash_PostsOutMovement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := cashregister.NewMockLedger(ctrl)
	ledger.EXPECT().
		CreateTransaction(gomock.Any(), cashregister.CreateTransactionParams{
			Amount:      200,
			Type:        cashregister.TransactionOut,
			Description: "pago proveedor",
		}).
		Return(nil)
	ledger.EXPECT().CurrentAmount(gomock.Any()).Return(300.0, nil)
	ledger.EXPECT().Transactions(gomock.Any(), "").Return(nil, nil)

	svc := cashregister.NewService(ledger)
	require.NoError(t, svc.RemoveCash(context.Background(), 200, "pago proveedor"))
}

func TestService_RefreshAmount_KeepsLastKnownOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := cashregister.NewMockLedger(ctrl)
	ledger.EXPECT().CurrentAmount(gomock.Any()).Return(1234.0, nil)
	ledger.EXPECT().CurrentAmount(gomock.Any()).Return(0.0, errors.New("backend down"))

	svc := cashregister.NewService(ledger)

	amount, err := svc.RefreshAmount(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1234.0, amount, 1e-9)

	amount, err = svc.RefreshAmount(context.Background())
	assert.Error(t, err)
	assert.InDelta(t, 1234.0, amount, 1e-9)
	assert.InDelta(t, 1234.0, svc.Amount(), 1e-9)
	assert.False(t, svc.IsLoadingAmount())
}

func TestService_RefreshTransactions_EmptyDateMeansNoFilter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := cashregister.NewMockLedger(ctrl)
	ledger.EXPECT().Transactions(gomock.Any(), "").Return([]cashregister.Transaction{{ID: "a"}, {ID: "b"}}, nil)
	ledger.EXPECT().Transactions(gomock.Any(), "2026-08-29").Return([]cashregister.Transaction{{ID: "a"}}, nil)

	svc := cashregister.NewService(ledger)

	all, err := svc.RefreshTransactions(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	day, err := svc.RefreshTransactions(context.Background(), "2026-08-29")
	require.NoError(t, err)
	assert.Len(t, day, 1)
}

func TestService_DeleteTransaction_RefreshesBoth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ledger := cashregister.NewMockLedger(ctrl)
	ledger.EXPECT().DeleteTransaction(gomock.Any(), "t1").Return(nil)
	ledger.EXPECT().CurrentAmount(gomock.Any()).Return(50.0, nil)
	ledger.EXPECT().Transactions(gomock.Any(), "").Return(nil, nil)

	svc := cashregister.NewService(ledger)
	require.NoError(t, svc.DeleteTransaction(context.Background(), "t1"))
	assert.InDelta(t, 50.0, svc.Amount(), 1e-9)
}
