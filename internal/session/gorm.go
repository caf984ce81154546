package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/storefront/internal/models"
)

// GormStore keeps each session as one JSON object in the sessions table.
type GormStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewGormStore(db *gorm.DB, ttl time.Duration) *GormStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &GormStore{db: db, ttl: ttl}
}

func (s *GormStore) load(tx *gorm.DB, sid string) (map[string]json.RawMessage, error) {
	var row models.Session
	err := tx.Where("id = ? AND expires_at > ?", sid, time.Now().UTC()).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	data := map[string]json.RawMessage{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (s *GormStore) save(tx *gorm.DB, sid string, data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	row := models.Session{ID: sid, Data: raw, ExpiresAt: time.Now().UTC().Add(s.ttl)}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(&row).Error
}

func (s *GormStore) Get(ctx context.Context, sid, key string, dst any) (bool, error) {
	data, err := s.load(s.db.WithContext(ctx), sid)
	if err != nil {
		return false, err
	}
	raw, ok := data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *GormStore) Set(ctx context.Context, sid, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		data, err := s.load(tx, sid)
		if err != nil {
			return err
		}
		data[key] = raw
		return s.save(tx, sid, data)
	})
}

func (s *GormStore) Delete(ctx context.Context, sid, key string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		data, err := s.load(tx, sid)
		if err != nil {
			return err
		}
		if _, ok := data[key]; !ok {
			return nil
		}
		delete(data, key)
		return s.save(tx, sid, data)
	})
}

func (s *GormStore) Destroy(ctx context.Context, sid string) error {
	return s.db.WithContext(ctx).Where("id = ?", sid).Delete(&models.Session{}).Error
}

// PurgeExpired removes expired rows and returns how many were deleted.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
