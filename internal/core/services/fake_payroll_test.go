package services

import (
	"context"
	"sync"

	"shomvob-wagely/internal/adapters/payroll"
	"shomvob-wagely/internal/core/domain"
)

// fakePayroll is an in-memory PayrollAPI for service tests.
type fakePayroll struct {
	mu sync.Mutex

	profile     *domain.UserData
	profileErr  error
	earnings    *domain.EarningsData
	earningsErr error
	settings    *domain.OrganizationEwaSettings
	settingsErr error
	submitTx    *domain.Transaction
	submitErr   error
	history     []domain.Transaction
	historyErr  error
	verified    *payroll.VerifiedSession
	verifyErr   error
	sendErr     error

	earningsCalls int
	historyCalls  int
	submitCalls   int
	submitKeys    []string
	submitAmounts []int
	sentPhones    []string

	// When set, SubmitEwaRequest blocks until the channel closes.
	submitGate chan struct{}
}

func (f *fakePayroll) EmployeeProfile(_ context.Context, _, _ string) (*domain.UserData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakePayroll) EarnedWages(_ context.Context, _, _ string) (*domain.EarningsData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.earningsCalls++
	if f.earningsErr != nil {
		return nil, f.earningsErr
	}
	return f.earnings, nil
}

func (f *fakePayroll) EwaSettings(_ context.Context, _, _ string) (*domain.OrganizationEwaSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return f.settings, nil
}

func (f *fakePayroll) SubmitEwaRequest(_ context.Context, _, _, _, idempotencyKey string, amount int) (*domain.Transaction, error) {
	f.mu.Lock()
	f.submitCalls++
	f.submitKeys = append(f.submitKeys, idempotencyKey)
	f.submitAmounts = append(f.submitAmounts, amount)
	gate := f.submitGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.submitTx, nil
}

func (f *fakePayroll) RequestHistory(_ context.Context, _, _ string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func (f *fakePayroll) SendOTP(_ context.Context, phoneNumber string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sentPhones = append(f.sentPhones, phoneNumber)
	return f.sendErr
}

func (f *fakePayroll) VerifyOTP(_ context.Context, _ string, _ int) (*payroll.VerifiedSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.verified, nil
}

func (f *fakePayroll) counts() (earnings, history, submits int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.earningsCalls, f.historyCalls, f.submitCalls
}
