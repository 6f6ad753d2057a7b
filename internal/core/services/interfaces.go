package services

import (
	"context"

	"shomvob-wagely/internal/adapters/payroll"
	"shomvob-wagely/internal/core/domain"
)

// Note: AuthService implementation is in auth_service.go
// Note: WithdrawalService implementation is in withdrawal_service.go

// PayrollAPI is the outbound surface of the employer payroll backend.
// Satisfied by payroll.Client; tests substitute a fake.
type PayrollAPI interface {
	EmployeeProfile(ctx context.Context, phoneNumber, userToken string) (*domain.UserData, error)
	EarnedWages(ctx context.Context, phoneNumber, userToken string) (*domain.EarningsData, error)
	EwaSettings(ctx context.Context, phoneNumber, userToken string) (*domain.OrganizationEwaSettings, error)
	SubmitEwaRequest(ctx context.Context, phoneNumber, userToken, rowID, idempotencyKey string, requestedAmount int) (*domain.Transaction, error)
	RequestHistory(ctx context.Context, phoneNumber, userToken string) ([]domain.Transaction, error)
	SendOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber string, otp int) (*payroll.VerifiedSession, error)
}
