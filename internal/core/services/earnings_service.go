package services

import (
	"context"
	"log"
	"sync"

	"shomvob-wagely/internal/core/domain"
)

// ============================================================
// Earnings Service - per-user wage-state cache
// ============================================================

// EarningsSnapshot is the cached earnings view for a user, with the
// flags the app needs to render loading and error states.
type EarningsSnapshot struct {
	Data      *domain.EarningsData `json:"data,omitempty"`
	Loading   bool                 `json:"loading"`
	LastError string               `json:"last_error,omitempty"`
}

// EarningsService caches the server-computed earnings snapshot per
// user. The payroll backend owns the numbers; this layer only fetches,
// caches, and keeps stale data visible when a refresh fails.
type EarningsService struct {
	api PayrollAPI

	mu        sync.RWMutex
	snapshots map[string]*EarningsSnapshot               // keyed by phone
	settings  map[string]*domain.OrganizationEwaSettings // keyed by phone
}

// NewEarningsService creates a new earnings service
func NewEarningsService(api PayrollAPI) *EarningsService {
	return &EarningsService{
		api:       api,
		snapshots: make(map[string]*EarningsSnapshot),
		settings:  make(map[string]*domain.OrganizationEwaSettings),
	}
}

// AutoRefresh wires the service to session establishment: each new
// session triggers a background earnings + settings load.
func (s *EarningsService) AutoRefresh(auth *AuthService) {
	auth.SubscribeSessionEstablished(func(snap AuthSnapshot) {
		go func() {
			if err := s.Refresh(context.Background(), snap); err != nil {
				log.Printf("⚠️ Earnings auto-refresh failed for %s: %v", snap.Phone, err)
			}
			if _, err := s.Settings(context.Background(), snap); err != nil {
				log.Printf("⚠️ Settings auto-refresh failed for %s: %v", snap.Phone, err)
			}
		}()
	})
}

// Refresh pulls a fresh earnings snapshot. A failed fetch keeps the
// previous snapshot visible and records the error; an incomplete auth
// triple is a silent no-op.
func (s *EarningsService) Refresh(ctx context.Context, auth AuthSnapshot) error {
	if auth.Phone == "" || auth.Token == "" || auth.UserID == "" {
		log.Printf("ℹ️ Skipping earnings refresh: incomplete auth for device %s", auth.DeviceID)
		return nil
	}

	s.setLoading(auth.Phone, true)
	defer s.setLoading(auth.Phone, false)

	data, err := s.api.EarnedWages(ctx, auth.Phone, auth.Token)
	if err != nil {
		s.mu.Lock()
		if snap, ok := s.snapshots[auth.Phone]; ok {
			snap.LastError = "failed to fetch earnings"
		} else {
			s.snapshots[auth.Phone] = &EarningsSnapshot{LastError: "failed to fetch earnings"}
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.snapshots[auth.Phone] = &EarningsSnapshot{Data: data}
	s.mu.Unlock()
	return nil
}

// Snapshot returns the cached earnings view for a phone. The zero
// snapshot means nothing has been fetched yet.
func (s *EarningsService) Snapshot(phoneNumber string) EarningsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if snap, ok := s.snapshots[phoneNumber]; ok {
		return *snap
	}
	return EarningsSnapshot{}
}

// Settings returns the employer EWA policy, fetching it on first use
// and caching per user for the session's lifetime.
func (s *EarningsService) Settings(ctx context.Context, auth AuthSnapshot) (*domain.OrganizationEwaSettings, error) {
	s.mu.RLock()
	cached, ok := s.settings[auth.Phone]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	if auth.Phone == "" || auth.Token == "" {
		return nil, domain.ErrAuthMissing
	}

	settings, err := s.api.EwaSettings(ctx, auth.Phone, auth.Token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.settings[auth.Phone] = settings
	s.mu.Unlock()
	return settings, nil
}

// Invalidate drops the cached state for a phone (logout path).
func (s *EarningsService) Invalidate(phoneNumber string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, phoneNumber)
	delete(s.settings, phoneNumber)
}

func (s *EarningsService) setLoading(phoneNumber string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.snapshots[phoneNumber]; ok {
		snap.Loading = loading
		return
	}
	s.snapshots[phoneNumber] = &EarningsSnapshot{Loading: loading}
}
