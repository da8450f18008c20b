package ratelimit

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotaModel struct {
	IdentityHash string `gorm:"primaryKey;size:64"`
	Date         string `gorm:"primaryKey;size:10"` // YYYY-MM-DD, server-local
	Count        int    `gorm:"not null"`
}

func (quotaModel) TableName() string {
	return "quota_records"
}

var _ Store = (*GormStore)(nil)

// GormStore persists quota counters in the shared relational store. The
// increment is a single ON CONFLICT upsert, so concurrent requests for the
// same identity on the same day cannot lose updates.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, errors.New("[NewGormStore] db is required")
	}
	if err := db.AutoMigrate(&quotaModel{}); err != nil {
		return nil, errors.Wrap(err, "[NewGormStore] migrate quota records")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Increment(ctx context.Context, hash, date string) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity_hash"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count": gorm.Expr("count + 1"),
		}),
	}).Create(&quotaModel{IdentityHash: hash, Date: date, Count: 1}).Error
	return errors.Wrap(err, "increment quota record")
}

func (s *GormStore) Get(ctx context.Context, hash, date string) (int, error) {
	var model quotaModel
	err := s.db.WithContext(ctx).
		Where("identity_hash = ? AND date = ?", hash, date).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "get quota record")
	}
	return model.Count, nil
}

func (s *GormStore) DeleteAll(ctx context.Context) error {
	err := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&quotaModel{}).Error
	return errors.Wrap(err, "purge quota records")
}
