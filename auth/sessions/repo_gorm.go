package sessions

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type sessionModel struct {
	Token        string `gorm:"primaryKey;size:64"`
	DeviceID     string `gorm:"uniqueIndex;not null"`
	UserID       string `gorm:"index;not null"`
	AccessToken  string
	RefreshToken string
	AccountType  string
	CreatedAt    time.Time
	ExpiresAt    time.Time `gorm:"index"`
	LastUsedAt   time.Time
}

func (sessionModel) TableName() string {
	return "sessions"
}

var _ Repo = (*GormRepo)(nil)

// GormRepo persists sessions in a relational store shared by all worker
// processes.
type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if db == nil {
		return nil, errors.New("[NewGormRepo] db is required")
	}
	if err := db.AutoMigrate(&sessionModel{}); err != nil {
		return nil, errors.Wrap(err, "[NewGormRepo] migrate sessions")
	}
	return &GormRepo{db: db}, nil
}

func (r *GormRepo) Create(ctx context.Context, session *Session) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}

	// Superseding the device's prior session and inserting the new one is
	// one transaction so concurrent logins for a device cannot leave two
	// live sessions.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", session.DeviceID).Delete(&sessionModel{}).Error; err != nil {
			return errors.Wrap(err, "delete prior session")
		}
		if err := tx.Create(toModel(session)).Error; err != nil {
			return errors.Wrap(err, "create session")
		}
		return nil
	})
}

func (r *GormRepo) Get(ctx context.Context, token string) (*Session, error) {
	var model sessionModel
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "get session")
	}
	return toSession(&model), nil
}

func (r *GormRepo) UpdateTokens(ctx context.Context, token, accessToken, refreshToken string, expiresAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&sessionModel{}).Where("token = ?", token).Updates(map[string]any{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"expires_at":    expiresAt,
	})
	if result.Error != nil {
		return errors.Wrap(result.Error, "update session tokens")
	}
	if result.RowsAffected == 0 {
		return errors.New("session not found")
	}
	return nil
}

func (r *GormRepo) Touch(ctx context.Context, token string, lastUsed time.Time) error {
	err := r.db.WithContext(ctx).Model(&sessionModel{}).Where("token = ?", token).
		Update("last_used_at", lastUsed).Error
	return errors.Wrap(err, "touch session")
}

func (r *GormRepo) Delete(ctx context.Context, token string) error {
	err := r.db.WithContext(ctx).Where("token = ?", token).Delete(&sessionModel{}).Error
	return errors.Wrap(err, "delete session")
}

func toModel(s *Session) *sessionModel {
	return &sessionModel{
		Token:        s.Token,
		DeviceID:     s.DeviceID,
		UserID:       s.UserID,
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		AccountType:  s.AccountType,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		LastUsedAt:   s.LastUsedAt,
	}
}

func toSession(m *sessionModel) *Session {
	return &Session{
		Token:        m.Token,
		DeviceID:     m.DeviceID,
		UserID:       m.UserID,
		AccessToken:  m.AccessToken,
		RefreshToken: m.RefreshToken,
		AccountType:  m.AccountType,
		CreatedAt:    m.CreatedAt,
		ExpiresAt:    m.ExpiresAt,
		LastUsedAt:   m.LastUsedAt,
	}
}
