package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shomvob-wagely/internal/core/domain"
)

var withdrawAuth = AuthSnapshot{
	DeviceID: "dev-abc",
	Phone:    "8801712345678",
	UserID:   "emp-42",
	Token:    "payroll-tok",
}

func newWithdrawalFixture(api *fakePayroll) (*WithdrawalService, *EarningsService, *TransactionService) {
	earnings := NewEarningsService(api)
	transactions := NewTransactionService(api)
	svc := NewWithdrawalService(api, earnings, transactions)
	svc.historyDelay = 10 * time.Millisecond
	return svc, earnings, transactions
}

func enabledPayroll() *fakePayroll {
	return &fakePayroll{
		earnings: &domain.EarningsData{
			IsEnabled:      true,
			MinWages:       1000,
			ClaimableWages: 5000,
		},
		settings: &domain.OrganizationEwaSettings{
			EwaEnabled: true,
			Slabs: []domain.FeeSlab{
				{MinAmount: 0, MaxAmount: 5000, Fees: 50},
				{MinAmount: 5001, MaxAmount: 20000, Fees: 100},
			},
		},
		submitTx: &domain.Transaction{
			RequestedAmount: 3000,
			ServiceCharge:   50,
			TotalAmount:     3050,
			Status:          "pending",
		},
	}
}

func TestQuote_DefaultAmountAndFee(t *testing.T) {
	api := enabledPayroll()
	svc, _, _ := newWithdrawalFixture(api)

	q, err := svc.Quote(context.Background(), withdrawAuth, 0)
	require.NoError(t, err)

	// range/4 = 1000, at the cap; floored to the 100 step.
	assert.Equal(t, 2000, q.DefaultAmount)
	assert.Equal(t, 2000, q.Amount, "non-positive amount quotes the default")
	assert.Equal(t, 50, q.ServiceFee)
	assert.Equal(t, 2050, q.TotalPayable)
	assert.Equal(t, 1000, q.MinAmount)
	assert.Equal(t, 5000, q.MaxAmount)
	assert.True(t, q.CanSubmit)
	assert.Empty(t, q.BlockReason)
	assert.False(t, q.HasPendingRequest)
}

func TestQuote_ReportsPendingRequest(t *testing.T) {
	api := enabledPayroll()
	api.history = []domain.Transaction{{Status: "PENDING"}}
	svc, _, transactions := newWithdrawalFixture(api)

	require.NoError(t, transactions.Refresh(context.Background(), withdrawAuth))

	q, err := svc.Quote(context.Background(), withdrawAuth, 2000)
	require.NoError(t, err)
	assert.True(t, q.HasPendingRequest)
	assert.True(t, q.CanSubmit, "pending warning is informational, not a gate")
}

func TestQuote_DisabledBlocks(t *testing.T) {
	api := enabledPayroll()
	api.earnings.IsEnabled = false
	svc, _, _ := newWithdrawalFixture(api)

	q, err := svc.Quote(context.Background(), withdrawAuth, 2000)
	require.NoError(t, err)
	assert.False(t, q.CanSubmit)
	assert.Equal(t, domain.ErrEWADisabled.Error(), q.BlockReason)
}

func TestSubmit_HappyPathRefreshesBoth(t *testing.T) {
	api := enabledPayroll()
	svc, earnings, _ := newWithdrawalFixture(api)

	ctx := context.Background()
	require.NoError(t, earnings.Refresh(ctx, withdrawAuth))
	earningsBefore, historyBefore, _ := api.counts()

	tx, err := svc.Submit(ctx, withdrawAuth, 3000)
	require.NoError(t, err)
	assert.Equal(t, 3000, tx.RequestedAmount)
	assert.Equal(t, 50, tx.ServiceCharge)
	assert.Equal(t, 3050, tx.TotalAmount)

	// Earnings refresh immediately, history after the settle delay.
	assert.Eventually(t, func() bool {
		e, h, _ := api.counts()
		return e > earningsBefore && h > historyBefore
	}, time.Second, 5*time.Millisecond)
}

func TestSubmit_LimitExceededStatusOnTransportSuccess(t *testing.T) {
	api := enabledPayroll()
	api.submitTx = &domain.Transaction{Status: "WITHDRAW_LIMIT_EXCEEDED"}
	svc, earnings, _ := newWithdrawalFixture(api)

	ctx := context.Background()
	require.NoError(t, earnings.Refresh(ctx, withdrawAuth))

	_, err := svc.Submit(ctx, withdrawAuth, 3000)
	assert.ErrorIs(t, err, domain.ErrWithdrawLimitExceeded)
}

func TestSubmit_GuardRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(api *fakePayroll)
		amount int
		want   error
	}{
		{"ewa disabled", func(api *fakePayroll) { api.earnings.IsEnabled = false }, 3000, domain.ErrEWADisabled},
		{"org disabled", func(api *fakePayroll) { api.settings.EwaEnabled = false }, 3000, domain.ErrEWADisabled},
		{"below minimum", func(api *fakePayroll) { api.earnings.ClaimableWages = 500 }, 300, domain.ErrBelowMinimum},
		{"zero amount", func(api *fakePayroll) {}, 0, domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := enabledPayroll()
			tt.mutate(api)
			svc, earnings, _ := newWithdrawalFixture(api)

			ctx := context.Background()
			require.NoError(t, earnings.Refresh(ctx, withdrawAuth))

			_, err := svc.Submit(ctx, withdrawAuth, tt.amount)
			assert.ErrorIs(t, err, tt.want)

			_, _, submits := api.counts()
			assert.Zero(t, submits, "guard must block before the backend call")
		})
	}
}

func TestSubmit_SecondSubmissionBlockedWhileInFlight(t *testing.T) {
	api := enabledPayroll()
	api.submitGate = make(chan struct{})
	svc, earnings, _ := newWithdrawalFixture(api)

	ctx := context.Background()
	require.NoError(t, earnings.Refresh(ctx, withdrawAuth))

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, withdrawAuth, 3000)
		firstDone <- err
	}()

	// Wait until the first submission reaches the backend.
	require.Eventually(t, func() bool {
		_, _, submits := api.counts()
		return submits == 1
	}, time.Second, 5*time.Millisecond)

	_, err := svc.Submit(ctx, withdrawAuth, 3000)
	assert.ErrorIs(t, err, domain.ErrSubmissionInFlight)

	close(api.submitGate)
	require.NoError(t, <-firstDone)

	// Once settled, submitting again is allowed.
	require.Eventually(t, func() bool {
		_, err := svc.Submit(ctx, withdrawAuth, 2000)
		return err == nil
	}, time.Second, 10*time.Millisecond)
}

func TestSubmit_FreshIdempotencyKeyPerAttempt(t *testing.T) {
	api := enabledPayroll()
	svc, earnings, _ := newWithdrawalFixture(api)

	ctx := context.Background()
	require.NoError(t, earnings.Refresh(ctx, withdrawAuth))

	_, err := svc.Submit(ctx, withdrawAuth, 3000)
	require.NoError(t, err)
	_, err = svc.Submit(ctx, withdrawAuth, 3000)
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	require.Len(t, api.submitKeys, 2)
	assert.NotEmpty(t, api.submitKeys[0])
	assert.NotEqual(t, api.submitKeys[0], api.submitKeys[1])
}

func TestSubmit_BackendRejectionLeavesResubmittable(t *testing.T) {
	api := enabledPayroll()
	api.submitErr = domain.ErrPendingRequest
	svc, earnings, _ := newWithdrawalFixture(api)

	ctx := context.Background()
	require.NoError(t, earnings.Refresh(ctx, withdrawAuth))

	_, err := svc.Submit(ctx, withdrawAuth, 3000)
	assert.ErrorIs(t, err, domain.ErrPendingRequest)

	// The in-flight flag released; the next attempt reaches the backend.
	_, err = svc.Submit(ctx, withdrawAuth, 3000)
	assert.ErrorIs(t, err, domain.ErrPendingRequest)

	_, _, submits := api.counts()
	assert.Equal(t, 2, submits)
}
