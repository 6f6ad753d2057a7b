package repositories

import (
	"context"
	"time"
)

// CredentialStore persists payroll credentials per device. Values are
// opaque strings; callers own serialization. A missing key reads as the
// empty string, mirroring how the data behaves on a fresh device.
type CredentialStore interface {
	// Get returns the value for one key, or "" when absent.
	Get(ctx context.Context, deviceID, key string) (string, error)

	// GetAll returns every stored key for the device.
	GetAll(ctx context.Context, deviceID string) (map[string]string, error)

	// Set upserts one key. A nil expiresAt means the value does not expire.
	Set(ctx context.Context, deviceID, key, value string, expiresAt *time.Time) error

	// SetMany upserts a batch of keys atomically.
	SetMany(ctx context.Context, deviceID string, values map[string]string, expiresAt *time.Time) error

	// Clear removes every key for the device.
	Clear(ctx context.Context, deviceID string) error

	// DeleteExpired removes rows whose expiry has passed (cleanup job).
	DeleteExpired(ctx context.Context) (int64, error)
}
