package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/pkg/phone"
)

// Config holds payroll API configuration
type Config struct {
	EmployerBaseURL string // wagely endpoints on the employer API service
	OTPBaseURL      string // OTP endpoints live on a separate host
	ServiceToken    string // service-level bearer token, not the user token
	Timeout         time.Duration
}

// Client talks to the employer payroll backend. All business logic
// (earnings computation, fee slabs, approval workflow) lives on the
// other side; this client only shapes requests and classifies errors.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a payroll client
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// EmployeeProfile fetches the employee profile. The endpoint wants the
// phone with the 88 country code; the first record of the data array is
// the profile. Missing fields get local defaults so currency displays
// never see empty values.
func (c *Client) EmployeeProfile(ctx context.Context, phoneNumber, userToken string) (*domain.UserData, error) {
	formatted := phone.WithCountryCode(phoneNumber)

	q := url.Values{}
	q.Set("phoneNumber", formatted)
	q.Set("user_access_token", userToken)

	var resp profileResponse
	if err := c.get(ctx, c.cfg.EmployerBaseURL+"/employee/details", q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 || len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: employee profile error=%d", domain.ErrInvalidResponse, resp.Error)
	}

	d := resp.Data[0]
	user := &domain.UserData{
		ID:                         "user-" + formatted,
		FullName:                   orDefault(d.FullName, "User"),
		Email:                      orDefault(d.Email, formatted+"@shomvob.com"),
		ContactNumber:              orDefault(d.ContactNumber, formatted),
		Designation:                orDefault(d.Designation, "Employee"),
		Department:                 orDefault(d.Department, "General"),
		JoiningDate:                orDefault(d.JoiningDate, time.Now().Format("2006-01-02")),
		CompanyName:                orDefault(d.CompanyName, "Emission Softwares"),
		GrossSalary:                round(d.GrossSalary),
		PresentAddress:             d.PresentAddress,
		PermanentAddress:           d.PermanentAddress,
		Gender:                     orDefault(d.Gender, "Male"),
		IsProfileComplete:          true,
		AvailableAdvancePercentage: 60,
		UserRole:                   "employee",
	}
	if user.GrossSalary == 0 {
		user.GrossSalary = 50000
	}
	return user, nil
}

// EarnedWages fetches the pay-period earnings snapshot. This endpoint
// wants the local number with its 88 country code stripped off.
func (c *Client) EarnedWages(ctx context.Context, phoneNumber, userToken string) (*domain.EarningsData, error) {
	q := url.Values{}
	q.Set("phoneNumber", phone.WithoutCountryCode(phoneNumber))
	q.Set("user_access_token", userToken)

	var resp earningsResponse
	if err := c.get(ctx, c.cfg.EmployerBaseURL+"/employees/earned-wage", q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("%w: earned wages error=%d", domain.ErrInvalidResponse, resp.Error)
	}

	d := resp.Data
	return &domain.EarningsData{
		IsEnabled:                   d.IsEnabled,
		TotalEarningsCompleted:      round(d.TotalEarningsCompleted),
		EarningsCompletedPercentage: d.EarningsCompletedPercentage,
		MinWages:                    round(d.MinWages),
		ServiceChargePercentage:     d.ServiceChargePercentage,
		ClaimableWages:              round(d.ClaimableWages),
		ClaimableWagesPercentage:    d.ClaimableWagesPercentage,
		NextSalaryDate:              d.NextSalaryDate,
		FailedReason:                d.FailedReason,
	}, nil
}

// EwaSettings fetches the employer's EWA policy. Note the capitalized
// PhoneNumber query key and the leading-zero local phone format; the
// backend is picky about both.
func (c *Client) EwaSettings(ctx context.Context, phoneNumber, userToken string) (*domain.OrganizationEwaSettings, error) {
	q := url.Values{}
	q.Set("PhoneNumber", phone.WithLeadingZero(phoneNumber))
	q.Set("user_access_token", userToken)

	var resp settingsResponse
	if err := c.get(ctx, c.cfg.EmployerBaseURL+"/settings", q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("%w: ewa settings error=%d", domain.ErrInvalidResponse, resp.Error)
	}

	d := resp.Data
	slabs := make([]domain.FeeSlab, len(d.Slabs))
	for i, s := range d.Slabs {
		slabs[i] = domain.FeeSlab{
			MinAmount: round(s.MinAmount),
			MaxAmount: round(s.MaxAmount),
			Fees:      round(s.Fees),
		}
	}
	return &domain.OrganizationEwaSettings{
		Slabs:               slabs,
		ClaimablePercentage: d.ClaimablePercentage,
		MaximumWageLimit:    round(d.MaximumWageLimit),
		MinExperience:       d.MinExperience,
		EwaEnabled:          d.EwaEnabled,
		WithdrawLimit:       d.WithdrawLimit,
	}, nil
}

// SubmitEwaRequest submits a withdrawal request. Business-rule
// rejections arrive as a non-zero envelope error with a message even on
// HTTP 200; this is the single place that text is inspected and mapped
// to typed errors.
func (c *Client) SubmitEwaRequest(ctx context.Context, phoneNumber, userToken, rowID, idempotencyKey string, requestedAmount int) (*domain.Transaction, error) {
	q := url.Values{}
	q.Set("phoneNumber", phone.WithCountryCode(phoneNumber))
	q.Set("user_access_token", userToken)
	q.Set("rowId", rowID)

	body, err := json.Marshal(map[string]int{"requestedAmount": requestedAmount})
	if err != nil {
		return nil, err
	}

	endpoint := c.cfg.EmployerBaseURL + "/employees/ewa-request?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)
	req.Header.Set("Idempotency-Key", idempotencyKey)

	raw, _, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp ewaRequestResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	if resp.Error != 0 {
		return nil, classifyRejection(resp.Msg)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: ewa request returned no data", domain.ErrInvalidResponse)
	}

	tx := resp.Data.toDomain()
	return &tx, nil
}

// RequestHistory fetches the withdrawal request list.
func (c *Client) RequestHistory(ctx context.Context, phoneNumber, userToken string) ([]domain.Transaction, error) {
	q := url.Values{}
	q.Set("phoneNumber", phone.WithCountryCode(phoneNumber))
	q.Set("user_access_token", userToken)

	var resp historyResponse
	if err := c.get(ctx, c.cfg.EmployerBaseURL+"/employees/user-ewa-request-history", q, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("%w: request history error=%d", domain.ErrInvalidResponse, resp.Error)
	}

	out := make([]domain.Transaction, len(resp.Data))
	for i, p := range resp.Data {
		out[i] = p.toDomain()
	}
	return out, nil
}

// SendOTP asks the backend to text an OTP to the phone.
func (c *Client) SendOTP(ctx context.Context, phoneNumber string) error {
	body, err := json.Marshal(map[string]string{"phone": phone.WithCountryCode(phoneNumber)})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OTPBaseURL+"/otp/phone?platform=wagely", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)

	raw, status, err := c.do(req)
	if err != nil {
		return err
	}

	var resp otpSendResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if status != http.StatusOK || resp.Code != 200 {
		return fmt.Errorf("%w: otp send status %d code %d: %s", domain.ErrInvalidResponse, status, resp.Code, resp.Msg)
	}
	return nil
}

// VerifyOTP validates the OTP and returns the payroll session on
// success.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber string, otp int) (*VerifiedSession, error) {
	body, err := json.Marshal(map[string]interface{}{
		"phone": phone.WithCountryCode(phoneNumber),
		"otp":   otp,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OTPBaseURL+"/otp/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)

	raw, status, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var resp otpValidateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	if status != http.StatusOK || resp.Code != 200 || resp.Data.Status != "SUCCESS" {
		if resp.Msg != "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrOTPRejected, resp.Msg)
		}
		return nil, domain.ErrOTPRejected
	}

	verified := &VerifiedSession{}
	if resp.Data.User != nil {
		verified.UserID = resp.Data.User.ID
	}
	if resp.Data.Session != nil {
		verified.Session = &domain.SessionData{
			AccessToken:  resp.Data.Session.AccessToken,
			TokenType:    resp.Data.Session.TokenType,
			ExpiresIn:    resp.Data.Session.ExpiresIn,
			ExpiresAt:    resp.Data.Session.ExpiresAt,
			RefreshToken: resp.Data.Session.RefreshToken,
		}
	}
	return verified, nil
}

// get performs an authenticated GET and decodes the envelope.
func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceToken)
	req.Header.Set("Content-Type", "application/json")

	raw, status, err := c.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", domain.ErrInvalidResponse, status, truncate(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

// do executes the request and reads the body, wrapping transport
// failures as ErrNetwork.
func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return raw, resp.StatusCode, nil
}

// classifyRejection maps the backend's free-form rejection messages to
// typed errors. Fragile by nature; confined to this one function.
func classifyRejection(msg string) error {
	if msg == "" {
		msg = "unknown error occurred"
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "pending"):
		return fmt.Errorf("%w: %s", domain.ErrPendingRequest, msg)
	case strings.Contains(lower, "limit"), strings.Contains(lower, "exceed"):
		return domain.ErrWithdrawLimitExceeded
	case strings.Contains(lower, "function") && strings.Contains(lower, "not found"):
		return domain.ErrServiceUnavailable
	}
	return fmt.Errorf("ewa request rejected: %s", msg)
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func round(v float64) int {
	return int(math.Round(v))
}

func truncate(raw []byte) string {
	const max = 200
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
