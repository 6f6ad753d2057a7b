package services

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"shomvob-wagely/internal/adapters/persistence/models"
	"shomvob-wagely/internal/adapters/persistence/repositories"
	"shomvob-wagely/internal/core/domain"
	"shomvob-wagely/internal/pkg/jwt"
	"shomvob-wagely/internal/pkg/phone"
)

// ============================================================
// Auth Service - session bootstrap, OTP login, credential store
// ============================================================

const (
	defaultTokenType = "bearer"
	defaultExpiresIn = 604800 // one week, in seconds

	otpLength  = 4
	devModeOTP = "1234"
)

// AuthSnapshot is the authenticating triple handed to subscribers when a
// session becomes available.
type AuthSnapshot struct {
	DeviceID string
	Phone    string
	UserID   string
	Token    string
}

// AuthState is the reconciled auth state for a device.
type AuthState struct {
	Authenticated bool                `json:"authenticated"`
	User          *domain.UserData    `json:"user,omitempty"`
	Session       *domain.SessionData `json:"session,omitempty"`
	Phone         string              `json:"phone,omitempty"`
	UserID        string              `json:"user_id,omitempty"`
}

// LoginResult is returned after successful OTP verification.
type LoginResult struct {
	DeviceToken string              `json:"device_token"`
	User        *domain.UserData    `json:"user"`
	Session     *domain.SessionData `json:"-"`
}

// AuthConfig holds auth service configuration
type AuthConfig struct {
	JWTSecret        string
	DeviceTokenHours int
	OTPDevMode       bool
}

// AuthService owns per-device auth state. Payroll credentials live in
// the credential store; the mobile client only ever sees the gateway's
// own device token.
type AuthService struct {
	store repositories.CredentialStore
	api   PayrollAPI
	guard *OTPGuard
	cfg   AuthConfig

	mu       sync.RWMutex
	sessions map[string]*domain.SessionData // deviceID -> payroll session
	users    map[string]*domain.UserData    // deviceID -> profile

	subMu       sync.RWMutex
	subscribers []func(AuthSnapshot)
}

// NewAuthService creates a new auth service
func NewAuthService(store repositories.CredentialStore, api PayrollAPI, guard *OTPGuard, cfg AuthConfig) *AuthService {
	if cfg.DeviceTokenHours == 0 {
		cfg.DeviceTokenHours = 24 * 7
	}
	return &AuthService{
		store:    store,
		api:      api,
		guard:    guard,
		cfg:      cfg,
		sessions: make(map[string]*domain.SessionData),
		users:    make(map[string]*domain.UserData),
	}
}

// SubscribeSessionEstablished registers a callback fired whenever a
// device's authenticating triple becomes available (login or bootstrap).
func (s *AuthService) SubscribeSessionEstablished(fn func(AuthSnapshot)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *AuthService) notifySessionEstablished(snap AuthSnapshot) {
	s.subMu.RLock()
	subs := make([]func(AuthSnapshot), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// SendOTP relays an OTP send to the payroll backend, throttled per
// phone. In dev mode no SMS goes out; the fixed dev code is accepted at
// verify time instead.
func (s *AuthService) SendOTP(ctx context.Context, phoneNumber string) error {
	if !phone.IsValid(phoneNumber) {
		return domain.ErrInvalidPhone
	}

	normalized := phone.WithCountryCode(phoneNumber)
	if err := s.guard.Allow(normalized); err != nil {
		return err
	}

	if s.cfg.OTPDevMode {
		log.Printf("🧪 OTP dev mode: skipping SMS for %s", normalized)
		return nil
	}
	return s.api.SendOTP(ctx, phoneNumber)
}

// VerifyLogin validates the OTP with the payroll backend, establishes
// the session, and mints the gateway device token.
func (s *AuthService) VerifyLogin(ctx context.Context, deviceID, phoneNumber, otp string) (*LoginResult, error) {
	if !phone.IsValid(phoneNumber) {
		return nil, domain.ErrInvalidPhone
	}
	if !isValidOTP(otp) {
		return nil, domain.ErrOTPMalformed
	}

	var (
		userID  string
		session *domain.SessionData
	)

	if s.cfg.OTPDevMode && otp == devModeOTP {
		log.Printf("🧪 OTP dev mode: accepting fixed code for device %s", deviceID)
	} else {
		code, _ := strconv.Atoi(otp)
		verified, err := s.api.VerifyOTP(ctx, phoneNumber, code)
		if err != nil {
			return nil, err
		}
		userID = verified.UserID
		session = verified.Session
	}

	user, err := s.Login(ctx, deviceID, phoneNumber, userID, session)
	if err != nil {
		return nil, err
	}

	s.guard.Reset(phone.WithCountryCode(phoneNumber))

	deviceToken, err := jwt.GenerateDeviceToken(deviceID, phone.WithCountryCode(phoneNumber), user.ID, s.cfg.JWTSecret, s.cfg.DeviceTokenHours)
	if err != nil {
		return nil, err
	}

	return &LoginResult{DeviceToken: deviceToken, User: user, Session: session}, nil
}

// Login persists the credential bundle for the device and resolves the
// profile. With a payroll session the profile is fetched from the
// backend, falling back to a synthesized one on failure; without a
// session the profile is synthesized directly.
func (s *AuthService) Login(ctx context.Context, deviceID, phoneNumber, userID string, session *domain.SessionData) (*domain.UserData, error) {
	normalized := phone.WithCountryCode(phoneNumber)

	if session != nil {
		session = withSessionDefaults(session)
		if err := s.persistSession(ctx, deviceID, normalized, userID, session); err != nil {
			return nil, err
		}
	} else {
		// Dev-mode login still remembers who the device belongs to.
		err := s.store.SetMany(ctx, deviceID, map[string]string{
			models.KeyPhoneNumber: normalized,
			models.KeyUserID:      userID,
		}, nil)
		if err != nil {
			return nil, err
		}
	}

	user := s.resolveProfile(ctx, normalized, userID, session)

	s.mu.Lock()
	s.sessions[deviceID] = session
	s.users[deviceID] = user
	s.mu.Unlock()

	if session != nil {
		log.Printf("✅ Session established for device %s", deviceID)
		s.notifySessionEstablished(AuthSnapshot{
			DeviceID: deviceID,
			Phone:    normalized,
			UserID:   user.ID,
			Token:    session.AccessToken,
		})
	}
	return user, nil
}

// Bootstrap reconciles the device's auth state from the credential
// store. Stored credentials always win: if a phone and access token
// exist the device comes back authenticated even when the profile fetch
// fails.
func (s *AuthService) Bootstrap(ctx context.Context, deviceID string) (*AuthState, error) {
	stored, err := s.store.GetAll(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	phoneNumber := stored[models.KeyPhoneNumber]
	accessToken := stored[models.KeyAccessToken]
	if phoneNumber == "" || accessToken == "" {
		return &AuthState{Authenticated: false}, nil
	}

	session := reconstructSession(stored)
	userID := stored[models.KeyUserID]
	if userID == "" {
		userID = stored[models.KeyEmployeeID]
	}

	user := s.resolveProfile(ctx, phoneNumber, userID, session)

	s.mu.Lock()
	s.sessions[deviceID] = session
	s.users[deviceID] = user
	s.mu.Unlock()

	s.notifySessionEstablished(AuthSnapshot{
		DeviceID: deviceID,
		Phone:    phoneNumber,
		UserID:   user.ID,
		Token:    session.AccessToken,
	})

	return &AuthState{
		Authenticated: true,
		User:          user,
		Session:       session,
		Phone:         phoneNumber,
		UserID:        user.ID,
	}, nil
}

// Logout clears the in-memory session and every persisted credential
// for the device. Local only; the payroll session is simply forgotten.
func (s *AuthService) Logout(ctx context.Context, deviceID string) error {
	s.mu.Lock()
	delete(s.sessions, deviceID)
	delete(s.users, deviceID)
	s.mu.Unlock()

	if err := s.store.Clear(ctx, deviceID); err != nil {
		return err
	}
	log.Printf("👋 Device %s logged out", deviceID)
	return nil
}

// ProfileUpdate carries the fields a profile PATCH may change. Nil
// fields are left untouched.
type ProfileUpdate struct {
	FullName         *string `json:"full_name,omitempty"`
	Email            *string `json:"email,omitempty"`
	Designation      *string `json:"designation,omitempty"`
	Department       *string `json:"department,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	PresentAddress   *string `json:"present_address,omitempty"`
	PermanentAddress *string `json:"permanent_address,omitempty"`
	Avatar           *string `json:"avatar,omitempty"`
	ContactNumber    *string `json:"contact_number,omitempty"`
	EmployeeID       *string `json:"employee_id,omitempty"`
}

// UpdateProfile shallow-merges the partial into the cached profile and
// re-persists the identity keys that changed.
func (s *AuthService) UpdateProfile(ctx context.Context, deviceID string, update ProfileUpdate) (*domain.UserData, error) {
	s.mu.Lock()
	user, ok := s.users[deviceID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrAuthMissing
	}

	merged := *user
	applyString(&merged.FullName, update.FullName)
	applyString(&merged.Email, update.Email)
	applyString(&merged.Designation, update.Designation)
	applyString(&merged.Department, update.Department)
	applyString(&merged.Gender, update.Gender)
	applyString(&merged.PresentAddress, update.PresentAddress)
	applyString(&merged.PermanentAddress, update.PermanentAddress)
	applyString(&merged.Avatar, update.Avatar)
	applyString(&merged.ContactNumber, update.ContactNumber)
	s.users[deviceID] = &merged
	s.mu.Unlock()

	persist := map[string]string{}
	if update.ContactNumber != nil && *update.ContactNumber != "" {
		persist[models.KeyPhoneNumber] = phone.WithCountryCode(*update.ContactNumber)
	}
	if update.EmployeeID != nil && *update.EmployeeID != "" {
		persist[models.KeyEmployeeID] = *update.EmployeeID
	}
	if len(persist) > 0 {
		if err := s.store.SetMany(ctx, deviceID, persist, nil); err != nil {
			return nil, err
		}
	}
	return &merged, nil
}

// CurrentUser returns the cached profile for the device.
func (s *AuthService) CurrentUser(deviceID string) (*domain.UserData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[deviceID]
	return user, ok
}

// AccessToken returns the payroll access token for the device, checking
// the in-memory session first and falling back to the store.
func (s *AuthService) AccessToken(ctx context.Context, deviceID string) (string, error) {
	s.mu.RLock()
	session := s.sessions[deviceID]
	s.mu.RUnlock()

	if session != nil && session.AccessToken != "" {
		return session.AccessToken, nil
	}
	return s.store.Get(ctx, deviceID, models.KeyAccessToken)
}

// Auth returns the authenticating triple for the device, or
// ErrAuthMissing when any part is absent.
func (s *AuthService) Auth(ctx context.Context, deviceID string) (AuthSnapshot, error) {
	token, err := s.AccessToken(ctx, deviceID)
	if err != nil {
		return AuthSnapshot{}, err
	}

	phoneNumber, err := s.store.Get(ctx, deviceID, models.KeyPhoneNumber)
	if err != nil {
		return AuthSnapshot{}, err
	}

	s.mu.RLock()
	user := s.users[deviceID]
	s.mu.RUnlock()

	userID := ""
	if user != nil {
		userID = user.ID
	}
	if userID == "" {
		userID, _ = s.store.Get(ctx, deviceID, models.KeyUserID)
	}

	if token == "" || phoneNumber == "" || userID == "" {
		return AuthSnapshot{}, domain.ErrAuthMissing
	}
	return AuthSnapshot{DeviceID: deviceID, Phone: phoneNumber, UserID: userID, Token: token}, nil
}

func (s *AuthService) persistSession(ctx context.Context, deviceID, phoneNumber, userID string, session *domain.SessionData) error {
	expiry := time.Unix(session.ExpiresAt, 0)
	values := map[string]string{
		models.KeyAccessToken:  session.AccessToken,
		models.KeyTokenType:    session.TokenType,
		models.KeyExpiresIn:    strconv.FormatInt(session.ExpiresIn, 10),
		models.KeyExpiresAt:    strconv.FormatInt(session.ExpiresAt, 10),
		models.KeyRefreshToken: session.RefreshToken,
	}
	if err := s.store.SetMany(ctx, deviceID, values, &expiry); err != nil {
		return err
	}
	// Identity keys outlive the session tokens.
	return s.store.SetMany(ctx, deviceID, map[string]string{
		models.KeyPhoneNumber: phoneNumber,
		models.KeyUserID:      userID,
		models.KeyEmployeeID:  userID,
	}, nil)
}

// resolveProfile fetches the profile when a session exists, synthesizing
// a fallback otherwise or on fetch failure. Auth flows never fail on a
// missing profile.
func (s *AuthService) resolveProfile(ctx context.Context, phoneNumber, userID string, session *domain.SessionData) *domain.UserData {
	if session != nil && session.AccessToken != "" {
		user, err := s.api.EmployeeProfile(ctx, phoneNumber, session.AccessToken)
		if err == nil {
			if userID != "" {
				user.ID = userID
			}
			return user
		}
		log.Printf("⚠️ Profile fetch failed for %s, using fallback: %v", phoneNumber, err)
	}
	return fallbackProfile(phoneNumber, userID)
}

// fallbackProfile synthesizes a usable profile from nothing but the
// phone number, so the app renders even when the payroll backend is
// unreachable. Marked incomplete so the client shows its
// finish-your-profile notice.
func fallbackProfile(phoneNumber, userID string) *domain.UserData {
	if userID == "" {
		userID = "user-" + phoneNumber
	}
	return &domain.UserData{
		ID:                         userID,
		FullName:                   "User",
		Email:                      phoneNumber + "@shomvob.com",
		ContactNumber:              phoneNumber,
		Designation:                "Employee",
		Department:                 "General",
		JoiningDate:                time.Now().Format("2006-01-02"),
		CompanyName:                "Emission Softwares",
		GrossSalary:                50000,
		Gender:                     "Male",
		IsProfileComplete:          false,
		AvailableAdvancePercentage: 60,
		UserRole:                   "employee",
	}
}

// withSessionDefaults fills the gaps the payroll backend leaves in the
// session payload.
func withSessionDefaults(in *domain.SessionData) *domain.SessionData {
	out := *in
	if out.TokenType == "" {
		out.TokenType = defaultTokenType
	}
	if out.ExpiresIn == 0 {
		out.ExpiresIn = defaultExpiresIn
	}
	if out.ExpiresAt == 0 {
		out.ExpiresAt = time.Now().Unix() + out.ExpiresIn
	}
	return &out
}

// reconstructSession rebuilds SessionData from stored credential keys.
func reconstructSession(stored map[string]string) *domain.SessionData {
	expiresIn, _ := strconv.ParseInt(stored[models.KeyExpiresIn], 10, 64)
	expiresAt, _ := strconv.ParseInt(stored[models.KeyExpiresAt], 10, 64)
	return withSessionDefaults(&domain.SessionData{
		AccessToken:  stored[models.KeyAccessToken],
		TokenType:    stored[models.KeyTokenType],
		ExpiresIn:    expiresIn,
		ExpiresAt:    expiresAt,
		RefreshToken: stored[models.KeyRefreshToken],
	})
}

func isValidOTP(otp string) bool {
	if len(otp) != otpLength {
		return false
	}
	for _, r := range otp {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func applyString(dst *string, src *string) {
	if src != nil && *src != "" {
		*dst = *src
	}
}
