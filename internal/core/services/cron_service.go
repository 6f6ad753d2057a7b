package services

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"shomvob-wagely/internal/adapters/persistence/repositories"
)

// ============================================================
// Cron Service - housekeeping jobs
// ============================================================

// CronService runs the recurring cleanup jobs: expired stored sessions
// are purged daily, the OTP throttle map is swept hourly.
type CronService struct {
	cron  *cron.Cron
	store repositories.CredentialStore
	guard *OTPGuard
}

// NewCronService creates a new cron service
func NewCronService(store repositories.CredentialStore, guard *OTPGuard) *CronService {
	return &CronService{
		cron:  cron.New(),
		store: store,
		guard: guard,
	}
}

// Start registers and starts the housekeeping schedule.
func (s *CronService) Start() error {
	// Purge expired stored credentials at 03:00 every day.
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeExpiredCredentials); err != nil {
		return err
	}
	// Sweep the OTP throttle map hourly.
	if _, err := s.cron.AddFunc("0 * * * *", s.sweepOTPGuard); err != nil {
		return err
	}

	s.cron.Start()
	log.Println("⏰ Cron service started (credential purge daily, OTP sweep hourly)")
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("⏰ Cron service stopped")
}

func (s *CronService) purgeExpiredCredentials() {
	removed, err := s.store.DeleteExpired(context.Background())
	if err != nil {
		log.Printf("⚠️ Credential purge failed: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("🧹 Purged %d expired credential rows", removed)
	}
}

func (s *CronService) sweepOTPGuard() {
	if removed := s.guard.Sweep(); removed > 0 {
		log.Printf("🧹 Swept %d stale OTP throttle entries", removed)
	}
}
