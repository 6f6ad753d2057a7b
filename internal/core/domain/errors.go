package domain

import "errors"

// Authentication errors
var (
	ErrAuthMissing  = errors.New("authentication data missing")
	ErrOTPMalformed = errors.New("otp must be 4 digits")
	ErrOTPRejected  = errors.New("otp verification failed")
	ErrOTPThrottled = errors.New("otp recently sent, wait before requesting again")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// Withdrawal workflow errors. Business-rule rejections arrive from the
// payroll backend as payload messages even on HTTP 200; the payroll
// client maps them to these sentinels once so nothing downstream sniffs
// message text.
var (
	ErrEWADisabled           = errors.New("earned wage access is not enabled for this employee")
	ErrBelowMinimum          = errors.New("claimable wages are below the minimum withdrawable amount")
	ErrInvalidAmount         = errors.New("withdrawal amount must be greater than zero")
	ErrSubmissionInFlight    = errors.New("a withdrawal request is already being submitted")
	ErrPendingRequest        = errors.New("a pending withdrawal request already exists")
	ErrWithdrawLimitExceeded = errors.New("monthly withdrawal limit exceeded")
	ErrServiceUnavailable    = errors.New("payroll service temporarily unavailable")
)

// Transport errors
var (
	ErrNetwork         = errors.New("network error reaching payroll backend")
	ErrInvalidResponse = errors.New("invalid response from payroll backend")
)
