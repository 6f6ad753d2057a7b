package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"shomvob-wagely/internal/core/domain"
)

// ============================================================
// Withdrawal Service - guarded submission workflow
// ============================================================

// historyRefreshDelay is how long after a successful submission the
// history is re-fetched; the payroll backend indexes new requests with
// a short lag.
const historyRefreshDelay = 2 * time.Second

// Quote is the withdrawal preview for an amount: fee, total, bounds and
// guard state. Zero or negative requested amounts quote the suggested
// default instead.
type Quote struct {
	Amount            int    `json:"amount"`
	DefaultAmount     int    `json:"default_amount"`
	ServiceFee        int    `json:"service_fee"`
	TotalPayable      int    `json:"total_payable"`
	MinAmount         int    `json:"min_amount"`
	MaxAmount         int    `json:"max_amount"`
	CanSubmit         bool   `json:"can_submit"`
	BlockReason       string `json:"block_reason,omitempty"`
	HasPendingRequest bool   `json:"has_pending_request"`
}

// WithdrawalService runs the submission workflow: quote, guard, submit,
// classify, refresh. One submission at a time per user.
type WithdrawalService struct {
	api          PayrollAPI
	earnings     *EarningsService
	transactions *TransactionService

	mu       sync.Mutex
	inFlight map[string]bool // keyed by phone

	historyDelay time.Duration
}

// NewWithdrawalService creates a new withdrawal service
func NewWithdrawalService(api PayrollAPI, earnings *EarningsService, transactions *TransactionService) *WithdrawalService {
	return &WithdrawalService{
		api:          api,
		earnings:     earnings,
		transactions: transactions,
		inFlight:     make(map[string]bool),
		historyDelay: historyRefreshDelay,
	}
}

// Quote previews a withdrawal. An amount <= 0 quotes the suggested
// default for the user's current earnings window.
func (s *WithdrawalService) Quote(ctx context.Context, auth AuthSnapshot, amount int) (*Quote, error) {
	snap := s.earnings.Snapshot(auth.Phone)
	if snap.Data == nil {
		if err := s.earnings.Refresh(ctx, auth); err != nil {
			return nil, err
		}
		snap = s.earnings.Snapshot(auth.Phone)
		if snap.Data == nil {
			return nil, domain.ErrAuthMissing
		}
	}

	settings, err := s.earnings.Settings(ctx, auth)
	if err != nil {
		return nil, err
	}

	data := snap.Data
	defaultAmount := domain.DefaultWithdrawAmount(data.MinWages, data.ClaimableWages)
	if amount <= 0 {
		amount = defaultAmount
	}

	s.mu.Lock()
	inFlight := s.inFlight[auth.Phone]
	s.mu.Unlock()

	q := &Quote{
		Amount:            amount,
		DefaultAmount:     defaultAmount,
		ServiceFee:        domain.ServiceFee(amount, settings.Slabs),
		TotalPayable:      domain.TotalPayable(amount, settings.Slabs),
		MinAmount:         data.MinWages,
		MaxAmount:         data.ClaimableWages,
		HasPendingRequest: s.transactions.HasPending(auth.Phone),
	}

	enabled := data.IsEnabled && settings.EwaEnabled
	q.CanSubmit = domain.CanSubmit(data.ClaimableWages, data.MinWages, amount, enabled, inFlight)
	if reason := domain.SubmitBlockReason(data.ClaimableWages, data.MinWages, amount, enabled, inFlight); reason != nil {
		q.BlockReason = reason.Error()
	}
	return q, nil
}

// Submit runs one guarded withdrawal submission. On success the
// earnings snapshot refreshes immediately and the history refreshes
// after a short delay; on any failure the user can resubmit.
func (s *WithdrawalService) Submit(ctx context.Context, auth AuthSnapshot, amount int) (*domain.Transaction, error) {
	if !s.acquire(auth.Phone) {
		return nil, domain.ErrSubmissionInFlight
	}
	defer s.release(auth.Phone)

	snap := s.earnings.Snapshot(auth.Phone)
	if snap.Data == nil {
		return nil, domain.ErrAuthMissing
	}
	settings, err := s.earnings.Settings(ctx, auth)
	if err != nil {
		return nil, err
	}

	enabled := snap.Data.IsEnabled && settings.EwaEnabled
	if err := domain.SubmitBlockReason(snap.Data.ClaimableWages, snap.Data.MinWages, amount, enabled, false); err != nil {
		return nil, err
	}

	idempotencyKey := uuid.NewString()
	log.Printf("💸 Submitting withdrawal: phone=%s amount=%d key=%s", auth.Phone, amount, idempotencyKey)

	tx, err := s.api.SubmitEwaRequest(ctx, auth.Phone, auth.Token, auth.UserID, idempotencyKey, amount)
	if err != nil {
		return nil, err
	}

	// Transport success is not workflow success: the backend reports
	// terminal rejections through the payload status.
	if err := classifyTerminalStatus(tx.Status); err != nil {
		return nil, err
	}

	log.Printf("✅ Withdrawal submitted: phone=%s amount=%d status=%s", auth.Phone, amount, tx.Status)

	go func() {
		if err := s.earnings.Refresh(context.Background(), auth); err != nil {
			log.Printf("⚠️ Post-submit earnings refresh failed: %v", err)
		}
	}()
	time.AfterFunc(s.historyDelay, func() {
		if err := s.transactions.Refresh(context.Background(), auth); err != nil {
			log.Printf("⚠️ Post-submit history refresh failed: %v", err)
		}
	})

	return tx, nil
}

func (s *WithdrawalService) acquire(phoneNumber string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[phoneNumber] {
		return false
	}
	s.inFlight[phoneNumber] = true
	return true
}

func (s *WithdrawalService) release(phoneNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, phoneNumber)
}

// classifyTerminalStatus maps a rejected submission payload to its
// typed error. Accepted requests come back pending (or already
// approved) and pass through.
func classifyTerminalStatus(status string) error {
	if strings.EqualFold(strings.TrimSpace(status), "WITHDRAW_LIMIT_EXCEEDED") {
		return domain.ErrWithdrawLimitExceeded
	}
	switch domain.NormalizeStatus(status) {
	case domain.StatusRejected, domain.StatusCancelled:
		return fmt.Errorf("withdrawal request was %s", strings.ToLower(status))
	}
	return nil
}
