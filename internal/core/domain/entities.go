package domain

import (
	"sort"
	"strings"
)

// UserData is the employee profile snapshot, shaped by the payroll
// backend's employee-details response. Amounts are in whole taka.
type UserData struct {
	ID                         string `json:"id"`
	FullName                   string `json:"full_name"`
	Email                      string `json:"email"`
	ContactNumber              string `json:"contact_number"`
	Designation                string `json:"designation"`
	Department                 string `json:"department"`
	JoiningDate                string `json:"joining_date"`
	CompanyName                string `json:"company_name"`
	GrossSalary                int    `json:"gross_salary"`
	PresentAddress             string `json:"present_address"`
	PermanentAddress           string `json:"permanent_address"`
	Gender                     string `json:"gender"`
	Avatar                     string `json:"avatar,omitempty"`
	IsProfileComplete          bool   `json:"is_profile_complete"`
	AvailableAdvancePercentage int    `json:"available_advance_percentage"`
	UserRole                   string `json:"user_role,omitempty"`
}

// SessionData is the payroll credential bundle. Replaced wholesale on
// login or refresh, never field-mutated.
type SessionData struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

// EarningsData is the server-computed wage-state snapshot for the
// current pay period.
type EarningsData struct {
	IsEnabled                   bool    `json:"is_enabled"`
	TotalEarningsCompleted      int     `json:"total_earnings_completed"`
	EarningsCompletedPercentage float64 `json:"earnings_completed_percentage"`
	MinWages                    int     `json:"min_wages"`
	ServiceChargePercentage     float64 `json:"service_charge_percentage"`
	ClaimableWages              int     `json:"claimable_wages"`
	ClaimableWagesPercentage    float64 `json:"claimable_wages_percentage"`
	NextSalaryDate              string  `json:"next_salary_date"`
	FailedReason                string  `json:"failed_reason,omitempty"`
}

// FeeSlab is one bracket of the employer's flat-fee table. Bounds are
// inclusive on both ends.
type FeeSlab struct {
	MinAmount int `json:"minAmount"`
	MaxAmount int `json:"maxAmount"`
	Fees      int `json:"fees"`
}

// OrganizationEwaSettings is the employer policy snapshot. Read-only;
// fetched once per authenticated session.
type OrganizationEwaSettings struct {
	Slabs               []FeeSlab `json:"slabs"`
	ClaimablePercentage string    `json:"claimable_percentage"`
	MaximumWageLimit    int       `json:"maximum_wage_limit"`
	MinExperience       int       `json:"min_experience"`
	EwaEnabled          bool      `json:"ewa_enabled"`
	WithdrawLimit       int       `json:"withdraw_limit"`
}

// Transaction is a withdrawal request record. The backend owns these;
// the gateway only re-fetches the list.
type Transaction struct {
	RequestedAmount int    `json:"requested_amount"`
	ServiceCharge   int    `json:"service_charge"`
	TotalAmount     int    `json:"total_amount"`
	Status          string `json:"status"`
	RequestedMonth  int    `json:"requested_month"`
	RequestedYear   int    `json:"requested_year"`
	UpdatedAt       string `json:"updated_at"`
}

// TransactionStatus is the normalized form of the backend's free-form
// status strings.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusApproved  TransactionStatus = "approved"
	StatusPending   TransactionStatus = "pending"
	StatusRejected  TransactionStatus = "rejected"
	StatusCancelled TransactionStatus = "cancelled"
	StatusOther     TransactionStatus = "other"
)

// NormalizeStatus folds the backend's inconsistent casing into one of
// the known statuses. Anything unrecognized becomes StatusOther so
// downstream code never branches on raw strings.
func NormalizeStatus(raw string) TransactionStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return StatusCompleted
	case "approved":
		return StatusApproved
	case "pending":
		return StatusPending
	case "rejected":
		return StatusRejected
	case "cancelled":
		return StatusCancelled
	}
	return StatusOther
}

// NormalizedStatus returns the transaction's status as a known value.
func (t Transaction) NormalizedStatus() TransactionStatus {
	return NormalizeStatus(t.Status)
}

// TransactionBuckets holds the history partitioned for tabbed display.
// Unknown statuses appear only in All.
type TransactionBuckets struct {
	All      []Transaction `json:"all"`
	Approved []Transaction `json:"approved"`
	Pending  []Transaction `json:"pending"`
	Rejected []Transaction `json:"rejected"`
}

// PartitionTransactions classifies a flat history list into the
// approved/pending/rejected tabs. Each bucket is independently sorted
// by updated_at descending (ISO-8601 timestamps sort lexicographically).
func PartitionTransactions(list []Transaction) TransactionBuckets {
	b := TransactionBuckets{
		All:      make([]Transaction, len(list)),
		Approved: []Transaction{},
		Pending:  []Transaction{},
		Rejected: []Transaction{},
	}
	copy(b.All, list)

	for _, t := range b.All {
		switch t.NormalizedStatus() {
		case StatusCompleted, StatusApproved:
			b.Approved = append(b.Approved, t)
		case StatusPending:
			b.Pending = append(b.Pending, t)
		case StatusRejected, StatusCancelled:
			b.Rejected = append(b.Rejected, t)
		}
	}

	for _, bucket := range [][]Transaction{b.All, b.Approved, b.Pending, b.Rejected} {
		bucket := bucket
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].UpdatedAt > bucket[j].UpdatedAt
		})
	}

	return b
}

// HasPending reports whether any transaction in the list is pending.
// Shown as an informational warning before submission; the backend
// remains the authority on multi-request policy.
func HasPending(list []Transaction) bool {
	for _, t := range list {
		if t.NormalizedStatus() == StatusPending {
			return true
		}
	}
	return false
}
