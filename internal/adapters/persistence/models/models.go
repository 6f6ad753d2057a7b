package models

import (
	"time"
)

// Credential is one key/value pair of a device's stored payroll
// credentials. The gateway keeps the payroll session server-side; the
// mobile client only ever holds the gateway's own device token.
type Credential struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	DeviceID  string     `gorm:"size:64;not null;uniqueIndex:idx_device_key,priority:1" json:"device_id"`
	Key       string     `gorm:"size:64;not null;uniqueIndex:idx_device_key,priority:2" json:"key"`
	Value     string     `gorm:"type:text" json:"value"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Credential) TableName() string {
	return "credentials"
}

// Credential storage keys. One row per key per device.
const (
	KeyPhoneNumber  = "phoneNumber"
	KeyUserID       = "userId"
	KeyEmployeeID   = "employeeId"
	KeyAccessToken  = "access_token"
	KeyTokenType    = "token_type"
	KeyExpiresIn    = "expires_in"
	KeyExpiresAt    = "expires_at"
	KeyRefreshToken = "refresh_token"
)
