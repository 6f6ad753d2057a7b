package services

import (
	"sync"
	"time"

	"shomvob-wagely/internal/core/domain"
)

// ============================================================
// OTP Guard - per-phone resend throttle
// ============================================================

const otpResendWindow = 60 * time.Second

// OTPGuard rate-limits OTP sends per phone number. The actual code is
// generated and checked by the payroll backend; this only stops the
// gateway from relaying resend spam.
type OTPGuard struct {
	mu       sync.Mutex
	lastSent map[string]time.Time
}

// NewOTPGuard creates a new OTP guard
func NewOTPGuard() *OTPGuard {
	return &OTPGuard{lastSent: make(map[string]time.Time)}
}

// Allow records a send attempt for the phone. Returns ErrOTPThrottled
// when the previous send is still inside the resend window.
func (g *OTPGuard) Allow(phone string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if last, ok := g.lastSent[phone]; ok && time.Since(last) < otpResendWindow {
		return domain.ErrOTPThrottled
	}
	g.lastSent[phone] = time.Now()
	return nil
}

// Reset clears the throttle for a phone (after successful login).
func (g *OTPGuard) Reset(phone string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.lastSent, phone)
}

// Sweep removes entries older than the resend window and returns how
// many were dropped. Run periodically from the cron service.
func (g *OTPGuard) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for phone, sent := range g.lastSent {
		if time.Since(sent) >= otpResendWindow {
			delete(g.lastSent, phone)
			removed++
		}
	}
	return removed
}
