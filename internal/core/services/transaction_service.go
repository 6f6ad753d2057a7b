package services

import (
	"context"
	"log"
	"sync"

	"shomvob-wagely/internal/core/domain"
)

// ============================================================
// Transaction Service - withdrawal history cache + tab buckets
// ============================================================

// TransactionService caches the withdrawal request history per user and
// serves the tabbed bucket view. The payroll backend owns the records.
type TransactionService struct {
	api PayrollAPI

	mu      sync.RWMutex
	history map[string][]domain.Transaction // keyed by phone
	loaded  map[string]bool
}

// NewTransactionService creates a new transaction service
func NewTransactionService(api PayrollAPI) *TransactionService {
	return &TransactionService{
		api:     api,
		history: make(map[string][]domain.Transaction),
		loaded:  make(map[string]bool),
	}
}

// AutoRefresh wires the service to session establishment.
func (s *TransactionService) AutoRefresh(auth *AuthService) {
	auth.SubscribeSessionEstablished(func(snap AuthSnapshot) {
		go func() {
			if err := s.Refresh(context.Background(), snap); err != nil {
				log.Printf("⚠️ History auto-refresh failed for %s: %v", snap.Phone, err)
			}
		}()
	})
}

// Refresh re-fetches the full history list. Incomplete auth is a silent
// no-op; a failed fetch keeps the cached list.
func (s *TransactionService) Refresh(ctx context.Context, auth AuthSnapshot) error {
	if auth.Phone == "" || auth.Token == "" || auth.UserID == "" {
		log.Printf("ℹ️ Skipping history refresh: incomplete auth for device %s", auth.DeviceID)
		return nil
	}

	list, err := s.api.RequestHistory(ctx, auth.Phone, auth.Token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.history[auth.Phone] = list
	s.loaded[auth.Phone] = true
	s.mu.Unlock()
	return nil
}

// All returns the cached flat list, newest first, plus whether a fetch
// has completed for this user yet.
func (s *TransactionService) All(phoneNumber string) ([]domain.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history[phoneNumber], s.loaded[phoneNumber]
}

// Buckets returns the history partitioned into the approved, pending
// and rejected tabs.
func (s *TransactionService) Buckets(phoneNumber string) domain.TransactionBuckets {
	s.mu.RLock()
	list := s.history[phoneNumber]
	s.mu.RUnlock()
	return domain.PartitionTransactions(list)
}

// HasPending reports whether the cached history holds a pending request.
// Informational only; the backend remains the authority.
func (s *TransactionService) HasPending(phoneNumber string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.HasPending(s.history[phoneNumber])
}

// Invalidate drops the cached history for a phone (logout path).
func (s *TransactionService) Invalidate(phoneNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.history, phoneNumber)
	delete(s.loaded, phoneNumber)
}
