package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"shomvob-wagely/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements CredentialStore on MySQL
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *gorm.DB) CredentialStore {
	return &credentialRepository{db: db}
}

func (r *credentialRepository) Get(ctx context.Context, deviceID, key string) (string, error) {
	var cred models.Credential
	err := r.db.WithContext(ctx).
		Where("device_id = ? AND `key` = ?", deviceID, key).
		First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if cred.ExpiresAt != nil && cred.ExpiresAt.Before(time.Now()) {
		return "", nil
	}
	return cred.Value, nil
}

func (r *credentialRepository) GetAll(ctx context.Context, deviceID string) (map[string]string, error) {
	var creds []models.Credential
	err := r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Find(&creds).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(creds))
	now := time.Now()
	for _, c := range creds {
		if c.ExpiresAt != nil && c.ExpiresAt.Before(now) {
			continue
		}
		out[c.Key] = c.Value
	}
	return out, nil
}

func (r *credentialRepository) Set(ctx context.Context, deviceID, key, value string, expiresAt *time.Time) error {
	cred := models.Credential{
		DeviceID:  deviceID,
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
		}).
		Create(&cred).Error
}

func (r *credentialRepository) SetMany(ctx context.Context, deviceID string, values map[string]string, expiresAt *time.Time) error {
	if len(values) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			cred := models.Credential{
				DeviceID:  deviceID,
				Key:       key,
				Value:     value,
				ExpiresAt: expiresAt,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
			}).Create(&cred).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *credentialRepository) Clear(ctx context.Context, deviceID string) error {
	return r.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Delete(&models.Credential{}).Error
}

func (r *credentialRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Credential{})
	return res.RowsAffected, res.Error
}

// ============================================================
// In-memory store (tests and single-instance dev mode)
// ============================================================

type memoryEntry struct {
	value     string
	expiresAt *time.Time
}

// memoryCredentialStore is a map-backed CredentialStore
type memoryCredentialStore struct {
	mu   sync.RWMutex
	data map[string]map[string]memoryEntry
}

// NewMemoryCredentialStore creates an in-memory credential store
func NewMemoryCredentialStore() CredentialStore {
	return &memoryCredentialStore{data: make(map[string]map[string]memoryEntry)}
}

func (m *memoryCredentialStore) Get(_ context.Context, deviceID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.data[deviceID][key]
	if !ok || expired(entry) {
		return "", nil
	}
	return entry.value, nil
}

func (m *memoryCredentialStore) GetAll(_ context.Context, deviceID string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.data[deviceID]))
	for key, entry := range m.data[deviceID] {
		if expired(entry) {
			continue
		}
		out[key] = entry.value
	}
	return out, nil
}

func (m *memoryCredentialStore) Set(_ context.Context, deviceID, key, value string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[deviceID] == nil {
		m.data[deviceID] = make(map[string]memoryEntry)
	}
	m.data[deviceID][key] = memoryEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (m *memoryCredentialStore) SetMany(_ context.Context, deviceID string, values map[string]string, expiresAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[deviceID] == nil {
		m.data[deviceID] = make(map[string]memoryEntry)
	}
	for key, value := range values {
		m.data[deviceID][key] = memoryEntry{value: value, expiresAt: expiresAt}
	}
	return nil
}

func (m *memoryCredentialStore) Clear(_ context.Context, deviceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, deviceID)
	return nil
}

func (m *memoryCredentialStore) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for deviceID, keys := range m.data {
		for key, entry := range keys {
			if expired(entry) {
				delete(keys, key)
				removed++
			}
		}
		if len(keys) == 0 {
			delete(m.data, deviceID)
		}
	}
	return removed, nil
}

func expired(e memoryEntry) bool {
	return e.expiresAt != nil && e.expiresAt.Before(time.Now())
}
