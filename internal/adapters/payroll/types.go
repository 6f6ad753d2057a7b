package payroll

import "shomvob-wagely/internal/core/domain"

// Wire shapes for the employer payroll API. Every response wraps its
// payload in an {error:int, data:..., msg?} envelope; amounts arrive as
// JSON numbers that are occasionally fractional, so payloads decode into
// float64 and are rounded during mapping.

type profileResponse struct {
	Error int              `json:"error"`
	Data  []profilePayload `json:"data"`
	Msg   string           `json:"msg,omitempty"`
}

type profilePayload struct {
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	ContactNumber    string  `json:"contact_number"`
	Designation      string  `json:"designation"`
	Department       string  `json:"department"`
	JoiningDate      string  `json:"joining_date"`
	CompanyName      string  `json:"company_name"`
	GrossSalary      float64 `json:"gross_salary"`
	PresentAddress   string  `json:"present_address"`
	PermanentAddress string  `json:"permanent_address"`
	Gender           string  `json:"gender"`
}

type earningsResponse struct {
	Error int             `json:"error"`
	Data  earningsPayload `json:"data"`
	Msg   string          `json:"msg,omitempty"`
}

type earningsPayload struct {
	IsEnabled                   bool    `json:"is_enabled"`
	TotalEarningsCompleted      float64 `json:"total_earnings_completed"`
	EarningsCompletedPercentage float64 `json:"earnings_completed_percentage"`
	MinWages                    float64 `json:"min_wages"`
	ServiceChargePercentage     float64 `json:"service_charge_percentage"`
	ClaimableWages              float64 `json:"claimable_wages"`
	ClaimableWagesPercentage    float64 `json:"claimable_wages_percentage"`
	NextSalaryDate              string  `json:"next_salary_date"`
	FailedReason                string  `json:"failed_reason"`
}

type settingsResponse struct {
	Error int             `json:"error"`
	Data  settingsPayload `json:"data"`
	Msg   string          `json:"msg,omitempty"`
}

type settingsPayload struct {
	Slabs               []slabPayload `json:"slabs"`
	ClaimablePercentage string        `json:"claimable_percentage"`
	MaximumWageLimit    float64       `json:"maximum_wage_limit"`
	MinExperience       int           `json:"min_experience"`
	EwaEnabled          bool          `json:"ewa_enabled"`
	WithdrawLimit       int           `json:"withdraw_limit"`
}

type slabPayload struct {
	MinAmount float64 `json:"minAmount"`
	MaxAmount float64 `json:"maxAmount"`
	Fees      float64 `json:"fees"`
}

type ewaRequestResponse struct {
	Error int                 `json:"error"`
	Data  *transactionPayload `json:"data,omitempty"`
	Msg   string              `json:"msg,omitempty"`
}

type historyResponse struct {
	Error int                  `json:"error"`
	Data  []transactionPayload `json:"data"`
	Msg   string               `json:"msg,omitempty"`
}

type transactionPayload struct {
	RequestedAmount float64 `json:"requested_amount"`
	ServiceCharge   float64 `json:"service_charge"`
	TotalAmount     float64 `json:"total_amount"`
	Status          string  `json:"status"`
	RequestedMonth  int     `json:"requested_month"`
	RequestedYear   int     `json:"requested_year"`
	UpdatedAt       string  `json:"updated_at"`
}

type otpSendResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
}

type otpValidateResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data struct {
		Status  string          `json:"status"`
		User    *otpUserPayload `json:"user,omitempty"`
		Session *sessionPayload `json:"session,omitempty"`
	} `json:"data"`
}

type otpUserPayload struct {
	ID string `json:"id"`
}

type sessionPayload struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
}

// VerifiedSession is the result of a successful OTP validation.
type VerifiedSession struct {
	UserID  string
	Session *domain.SessionData
}

func (p transactionPayload) toDomain() domain.Transaction {
	return domain.Transaction{
		RequestedAmount: round(p.RequestedAmount),
		ServiceCharge:   round(p.ServiceCharge),
		TotalAmount:     round(p.TotalAmount),
		Status:          p.Status,
		RequestedMonth:  p.RequestedMonth,
		RequestedYear:   p.RequestedYear,
		UpdatedAt:       p.UpdatedAt,
	}
}
